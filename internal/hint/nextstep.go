package hint

import (
	"context"
	"fmt"

	"svw.info/automaze/internal/domain"
	"svw.info/automaze/internal/ports"
)

// NextStep implements a Hinter that suggests the first move of the route
// the solver finds from the player's position.
type NextStep struct {
	Solver ports.Solver
}

func NewNextStep(s ports.Solver) *NextStep { return &NextStep{Solver: s} }

// Hint returns false when the player already stands on finish or no route exists.
func (h *NextStep) Hint(ctx context.Context, g *domain.Grid, from, finish domain.Coord) (domain.Hint, bool, error) {
	if from == finish {
		return domain.Hint{}, false, nil
	}
	res, _, err := h.Solver.FindPath(ctx, g, from, finish)
	if err != nil {
		return domain.Hint{}, false, err
	}
	if !res.Found || len(res.Path) < 2 {
		return domain.Hint{}, false, nil
	}
	next := res.Path[1]
	dir, _ := domain.DirectionBetween(from, next)
	steps := "steps"
	if res.MinSteps == 1 {
		steps = "step"
	}
	return domain.Hint{
		Message:   fmt.Sprintf("Move %s, %d %s to go", dir, res.MinSteps, steps),
		Next:      next,
		Direction: dir,
		Remaining: res.MinSteps,
	}, true, nil
}
