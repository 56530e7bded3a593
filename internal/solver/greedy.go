package solver

import (
	"context"
	"time"

	"github.com/zyedidia/generic/heap"
	"github.com/zyedidia/generic/mapset"

	"svw.info/automaze/internal/domain"
	"svw.info/automaze/internal/ports"
)

// GreedySolver is a best-first search that ranks discovered cells by
// h = diag(cell, start) + diag(cell, finish) and ignores the cost already
// travelled.
type GreedySolver struct{}

func NewGreedySolver() *GreedySolver { return &GreedySolver{} }

// record is one discovered cell in the open set.
type record struct {
	at     domain.Coord
	parent domain.Coord
	cost   int
	seq    int // discovery order, breaks cost ties
}

func lessRecord(a, b record) bool {
	if a.cost != b.cost {
		return a.cost < b.cost
	}
	return a.seq < b.seq
}

// greedyRun holds the state of a single search; it is discarded afterwards.
type greedyRun struct {
	g             *domain.Grid
	start, finish domain.Coord
	open          *heap.Heap[record]
	parents       map[domain.Coord]domain.Coord
	discovered    mapset.Set[domain.Coord]
	visited       mapset.Set[domain.Coord]
	seq           int
	expanded      int
}

// FindPath searches from start and stops at the first route that touches
// finish. Stats.Nodes counts expanded cells.
func (s *GreedySolver) FindPath(ctx context.Context, g *domain.Grid, start, finish domain.Coord) (domain.PathResult, ports.Stats, error) {
	begin := time.Now()
	if err := checkEndpoints(g, start, finish); err != nil {
		return domain.PathResult{}, ports.Stats{}, err
	}
	if start == finish {
		return trivial(start), ports.Stats{Duration: time.Since(begin)}, nil
	}
	r := &greedyRun{
		g:          g,
		start:      start,
		finish:     finish,
		open:       heap.New[record](lessRecord),
		parents:    make(map[domain.Coord]domain.Coord),
		discovered: mapset.New[domain.Coord](),
		visited:    mapset.New[domain.Coord](),
	}
	res, err := r.run(ctx)
	return res, ports.Stats{Nodes: r.expanded, Duration: time.Since(begin)}, err
}

func (r *greedyRun) run(ctx context.Context) (domain.PathResult, error) {
	current := r.start
	// the origin is closed from the outset so no neighbour re-enters it
	r.visited.Put(current)
	for {
		if err := ctx.Err(); err != nil {
			return domain.PathResult{}, err
		}
		r.expanded++
		for _, d := range neighbourOffsets {
			n := current.Add(d)
			if !r.g.InBounds(n) || r.visited.Has(n) || r.discovered.Has(n) {
				continue
			}
			if r.g.At(n) == domain.Wall {
				continue
			}
			if n == r.finish {
				r.parents[n] = current
				return found(reconstruct(r.parents, r.start, n)), nil
			}
			r.discover(n, current)
		}
		r.visited.Put(current)

		next, ok := r.open.Pop()
		if !ok {
			return domain.PathResult{}, nil
		}
		current = next.at
	}
}

func (r *greedyRun) discover(at, parent domain.Coord) {
	r.discovered.Put(at)
	r.parents[at] = parent
	r.open.Push(record{
		at:     at,
		parent: parent,
		cost:   diagonalDistance(at, r.start) + diagonalDistance(at, r.finish),
		seq:    r.seq,
	})
	r.seq++
}
