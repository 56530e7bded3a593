// Package solver finds routes across a maze grid.
//
// Two solvers share one contract (ports.Solver):
//
//   - GreedySolver: best-first search ranked only by a heuristic distance
//     estimate. The first route it reaches is reported, so MinSteps is the
//     hop count of that route and may exceed the true minimum. Difficulty
//     tiers are calibrated against this solver.
//   - ShortestSolver: breadth-first search returning the true minimum hop
//     count.
//
// Both move in eight directions with every step costing one hop, and both
// double as reachability oracles: Found is false exactly when no route exists.
// Neither mutates the grid, so repeated calls return identical results.
package solver

import (
	"errors"
	"fmt"

	"svw.info/automaze/internal/domain"
)

var (
	// ErrNilGrid indicates a nil or empty grid was passed to FindPath.
	ErrNilGrid = errors.New("solver: grid is nil or empty")
	// ErrOutOfBounds indicates start or finish lies outside the grid.
	ErrOutOfBounds = errors.New("solver: coordinate out of bounds")
)

// neighbourOffsets enumerates the 8 neighbours row by row, top-left first.
// The order decides which cell is discovered first and therefore tie-breaks.
var neighbourOffsets = [8]domain.Coord{
	{X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
	{X: -1, Y: 0}, {X: 1, Y: 0},
	{X: -1, Y: 1}, {X: 0, Y: 1}, {X: 1, Y: 1},
}

func checkEndpoints(g *domain.Grid, start, finish domain.Coord) error {
	if g == nil || g.Width == 0 || g.Height == 0 || len(g.Cells) != g.Height {
		return ErrNilGrid
	}
	if !g.InBounds(start) {
		return fmt.Errorf("%w: start (%d,%d)", ErrOutOfBounds, start.X, start.Y)
	}
	if !g.InBounds(finish) {
		return fmt.Errorf("%w: finish (%d,%d)", ErrOutOfBounds, finish.X, finish.Y)
	}
	return nil
}

// diagonalDistance is the 8-directional move count between a and b:
// ||dx|-|dy|| straight steps plus min(|dx|,|dy|) diagonal ones.
func diagonalDistance(a, b domain.Coord) int {
	dx, dy := abs(a.X-b.X), abs(a.Y-b.Y)
	return abs(dx-dy) + min(dx, dy)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// trivial handles start == finish: found, zero steps.
func trivial(start domain.Coord) domain.PathResult {
	return domain.PathResult{Found: true, MinSteps: 0, Path: []domain.Coord{start}}
}

// reconstruct walks parent links from finish back to start and returns the
// route in travel order.
func reconstruct(parents map[domain.Coord]domain.Coord, start, finish domain.Coord) []domain.Coord {
	path := []domain.Coord{finish}
	for at := finish; at != start; {
		at = parents[at]
		path = append(path, at)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func found(path []domain.Coord) domain.PathResult {
	return domain.PathResult{Found: true, MinSteps: len(path) - 1, Path: path}
}
