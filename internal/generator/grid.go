package generator

import (
	"fmt"

	"golang.org/x/exp/rand"

	"svw.info/automaze/internal/domain"
)

// GenerateGrid builds a width × height grid: a Wall border ring, Start and
// Finish at distinct uniformly random interior cells, and every other
// interior cell Open with probability OpenWeight, Wall otherwise.
// The grid may or may not be solvable.
func GenerateGrid(rng *rand.Rand, width, height int) (*domain.Grid, domain.Coord, domain.Coord, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, domain.Coord{}, domain.Coord{}, err
	}
	g := domain.NewGrid(width, height, domain.Wall)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			g.Cells[y][x] = domain.Open
		}
	}

	start := randomInterior(rng, width, height)
	finish := randomInterior(rng, width, height)
	for finish == start {
		finish = randomInterior(rng, width, height)
	}
	g.Set(start, domain.Start)
	g.Set(finish, domain.Finish)

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			if g.Cells[y][x] != domain.Open {
				continue
			}
			if rng.Float64() >= OpenWeight {
				g.Cells[y][x] = domain.Wall
			}
		}
	}
	return g, start, finish, nil
}

func checkDimensions(width, height int) error {
	if width < MinSize || height < MinSize {
		return fmt.Errorf("%w: got %d×%d", ErrInvalidDimensions, width, height)
	}
	return nil
}

// randomInterior picks a cell uniformly from columns 1..width-2, rows 1..height-2.
func randomInterior(rng *rand.Rand, width, height int) domain.Coord {
	return domain.Coord{X: 1 + rng.Intn(width-2), Y: 1 + rng.Intn(height-2)}
}
