package validator

import (
	"context"
	"errors"

	"svw.info/automaze/internal/domain"
)

var (
	ErrEmptyGrid      = errors.New("validator: grid is nil or empty")
	ErrNonRectangular = errors.New("validator: grid rows do not match its width and height")
	ErrMissingStart   = errors.New("validator: grid has no start cell")
	ErrMissingFinish  = errors.New("validator: grid has no finish cell")
)

// GridValidator checks the structural invariants of a level grid.
type GridValidator struct{}

func New() *GridValidator { return &GridValidator{} }

// Validate reports border cells that are not Wall, Start or Finish cells
// beyond the first of each, and cells holding unknown tags. A grid with no
// Start or no Finish is an error rather than a violation.
func (v *GridValidator) Validate(ctx context.Context, g *domain.Grid) (bool, []domain.Coord, error) {
	if g == nil || g.Width == 0 || g.Height == 0 {
		return false, nil, ErrEmptyGrid
	}
	if len(g.Cells) != g.Height {
		return false, nil, ErrNonRectangular
	}
	for _, row := range g.Cells {
		if len(row) != g.Width {
			return false, nil, ErrNonRectangular
		}
	}

	conf := make([]domain.Coord, 0, 4)
	starts, finishes := 0, 0
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			at := domain.Coord{X: x, Y: y}
			c := g.At(at)
			if !c.Valid() {
				conf = append(conf, at)
				continue
			}
			// endpoints count even when misplaced so a border Start is a
			// violation, not a missing start
			bad := !g.Interior(at) && c != domain.Wall
			switch c {
			case domain.Start:
				starts++
				bad = bad || starts > 1
			case domain.Finish:
				finishes++
				bad = bad || finishes > 1
			}
			if bad {
				conf = append(conf, at)
			}
		}
	}
	if starts == 0 {
		return false, conf, ErrMissingStart
	}
	if finishes == 0 {
		return false, conf, ErrMissingFinish
	}
	return len(conf) == 0, conf, nil
}
