package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"svw.info/automaze/internal/domain"
)

func TestGenerateGridInvariants(t *testing.T) {
	sizes := []struct{ w, h int }{{4, 4}, {5, 7}, {6, 6}, {20, 20}, {31, 9}}
	for _, sz := range sizes {
		rng := rand.New(rand.NewSource(uint64(sz.w*100 + sz.h)))
		for i := 0; i < 50; i++ {
			g, start, finish, err := GenerateGrid(rng, sz.w, sz.h)
			require.NoError(t, err)
			require.Equal(t, sz.w, g.Width)
			require.Equal(t, sz.h, g.Height)
			require.Len(t, g.Cells, sz.h)

			var starts, finishes int
			for y := 0; y < g.Height; y++ {
				require.Len(t, g.Cells[y], sz.w)
				for x := 0; x < g.Width; x++ {
					at := domain.Coord{X: x, Y: y}
					c := g.At(at)
					if !g.Interior(at) {
						require.Equal(t, domain.Wall, c, "%dx%d border cell %v", sz.w, sz.h, at)
						continue
					}
					switch c {
					case domain.Start:
						starts++
						require.Equal(t, start, at)
					case domain.Finish:
						finishes++
						require.Equal(t, finish, at)
					case domain.Open, domain.Wall:
					default:
						t.Fatalf("unexpected tag %v at %v", c, at)
					}
				}
			}
			require.Equal(t, 1, starts, "%dx%d start count", sz.w, sz.h)
			require.Equal(t, 1, finishes, "%dx%d finish count", sz.w, sz.h)
			require.NotEqual(t, start, finish)
		}
	}
}

func TestGenerateGridInvalidDimensions(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, sz := range [][2]int{{3, 10}, {10, 3}, {0, 0}, {-1, 5}, {1, 1}} {
		_, _, _, err := GenerateGrid(rng, sz[0], sz[1])
		require.ErrorIs(t, err, ErrInvalidDimensions, "%v", sz)
	}
}

func TestGenerateGridOpenRatio(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	open, total := 0, 0
	for i := 0; i < 10; i++ {
		g, _, _, err := GenerateGrid(rng, 50, 50)
		require.NoError(t, err)
		for y := 1; y < g.Height-1; y++ {
			for x := 1; x < g.Width-1; x++ {
				switch g.Cells[y][x] {
				case domain.Open:
					open++
					total++
				case domain.Wall:
					total++
				}
			}
		}
	}
	ratio := float64(open) / float64(total)
	assert.InDelta(t, OpenWeight, ratio, 0.03)
}

func TestGenerateGridDeterministic(t *testing.T) {
	a := rand.New(rand.NewSource(2024))
	b := rand.New(rand.NewSource(2024))
	for i := 0; i < 5; i++ {
		ga, sa, fa, err := GenerateGrid(a, 12, 8)
		require.NoError(t, err)
		gb, sb, fb, err := GenerateGrid(b, 12, 8)
		require.NoError(t, err)
		require.Equal(t, ga, gb)
		require.Equal(t, sa, sb)
		require.Equal(t, fa, fb)
	}
}
