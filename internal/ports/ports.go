package ports

import (
	"context"
	"time"

	"svw.info/automaze/internal/domain"
)

// Stats captures performance characteristics of an operation.
type Stats struct {
	Nodes    int
	Attempts int
	Duration time.Duration
}

// Solver searches a grid for a route from start to finish.
type Solver interface {
	FindPath(ctx context.Context, g *domain.Grid, start, finish domain.Coord) (domain.PathResult, Stats, error)
}

// Generator creates new levels at a target tier.
type Generator interface {
	Generate(ctx context.Context, seed int64, tier domain.Tier) (*domain.Level, Stats, error)
}

// Validator checks grid invariants (border, single start/finish).
type Validator interface {
	Validate(ctx context.Context, g *domain.Grid) (ok bool, violations []domain.Coord, err error)
}

// Hinter suggests the next step from a position toward the finish.
type Hinter interface {
	Hint(ctx context.Context, g *domain.Grid, from, finish domain.Coord) (domain.Hint, bool, error)
}

// Storage persists and retrieves levels as JSON.
type Storage interface {
	Save(ctx context.Context, l *domain.Level) error
	Load(ctx context.Context, id string) (*domain.Level, error)
	List(ctx context.Context) ([]domain.LevelMeta, error)
}

// StatsLog is the append-only play statistics record.
type StatsLog interface {
	Append(ctx context.Context, rec domain.StatRecord) error
	ReadStats(ctx context.Context) ([]domain.StatRecord, error)
}
