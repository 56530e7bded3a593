package solver

import (
	"context"
	"time"

	"github.com/zyedidia/generic/mapset"

	"svw.info/automaze/internal/domain"
	"svw.info/automaze/internal/ports"
)

// ShortestSolver is a breadth-first search over the 8-connected open cells.
// Every step costs one hop, so the first time finish is reached the route is
// minimal.
type ShortestSolver struct{}

func NewShortestSolver() *ShortestSolver { return &ShortestSolver{} }

func (s *ShortestSolver) FindPath(ctx context.Context, g *domain.Grid, start, finish domain.Coord) (domain.PathResult, ports.Stats, error) {
	begin := time.Now()
	if err := checkEndpoints(g, start, finish); err != nil {
		return domain.PathResult{}, ports.Stats{}, err
	}
	if start == finish {
		return trivial(start), ports.Stats{Duration: time.Since(begin)}, nil
	}

	parents := make(map[domain.Coord]domain.Coord)
	seen := mapset.New[domain.Coord]()
	seen.Put(start)
	queue := []domain.Coord{start}
	nodes := 0

	for qi := 0; qi < len(queue); qi++ {
		if err := ctx.Err(); err != nil {
			return domain.PathResult{}, ports.Stats{Nodes: nodes, Duration: time.Since(begin)}, err
		}
		u := queue[qi]
		nodes++
		for _, d := range neighbourOffsets {
			v := u.Add(d)
			if !g.InBounds(v) || seen.Has(v) || g.At(v) == domain.Wall {
				continue
			}
			seen.Put(v)
			parents[v] = u
			if v == finish {
				return found(reconstruct(parents, start, v)), ports.Stats{Nodes: nodes, Duration: time.Since(begin)}, nil
			}
			queue = append(queue, v)
		}
	}
	return domain.PathResult{}, ports.Stats{Nodes: nodes, Duration: time.Since(begin)}, nil
}
