package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"svw.info/automaze/internal/domain"
	"svw.info/automaze/internal/ports"
	"svw.info/automaze/internal/session"
)

type Service struct {
	Solver    ports.Solver
	Generator ports.Generator
	Validator ports.Validator
	Hinter    ports.Hinter
	Storage   ports.Storage
	StatsLog  ports.StatsLog
	Logger    *slog.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*entry
}

// entry serialises access to one session; generation for one player does
// not block moves by another.
type entry struct {
	mu sync.Mutex
	s  *session.Session
}

func NewService(s ports.Solver, g ports.Generator, v ports.Validator, h ports.Hinter, st ports.Storage, sl ports.StatsLog) *Service {
	return &Service{
		Solver:    s,
		Generator: g,
		Validator: v,
		Hinter:    h,
		Storage:   st,
		StatsLog:  sl,
		sessions:  make(map[uuid.UUID]*entry),
	}
}

var errNotConfigured = errors.New("usecase dependency not configured")

func (u *Service) logger() *slog.Logger {
	if u.Logger != nil {
		return u.Logger
	}
	return slog.Default()
}

func (u *Service) Solve(ctx context.Context, g *domain.Grid, start, finish domain.Coord) (domain.PathResult, ports.Stats, error) {
	if u.Solver == nil {
		return domain.PathResult{}, ports.Stats{}, errNotConfigured
	}
	return u.Solver.FindPath(ctx, g, start, finish)
}

func (u *Service) Generate(ctx context.Context, seed int64, t domain.Tier) (*domain.Level, ports.Stats, error) {
	if u.Generator == nil {
		return nil, ports.Stats{}, errNotConfigured
	}
	l, st, err := u.Generator.Generate(ctx, seed, t)
	if err != nil {
		u.logger().Warn("generate failed", "tier", int(t), "seed", seed, "attempts", st.Attempts, "dur", st.Duration, "err", err)
		return nil, st, err
	}
	u.logger().Debug("generated level", "id", l.ID, "tier", int(t), "seed", seed,
		"minSteps", l.MinSteps, "attempts", st.Attempts, "nodes", st.Nodes, "dur", st.Duration)
	return l, st, nil
}

func (u *Service) Validate(ctx context.Context, g *domain.Grid) (bool, []domain.Coord, error) {
	if u.Validator == nil {
		return false, nil, errNotConfigured
	}
	return u.Validator.Validate(ctx, g)
}

func (u *Service) Hint(ctx context.Context, g *domain.Grid, from, finish domain.Coord) (domain.Hint, bool, error) {
	if u.Hinter == nil {
		return domain.Hint{}, false, errNotConfigured
	}
	return u.Hinter.Hint(ctx, g, from, finish)
}

// ErrInvalidLevel indicates a level that breaks the grid invariants or whose
// start or finish does not name the matching cell.
var ErrInvalidLevel = errors.New("usecase: invalid level")

// Persistence
func (u *Service) Save(ctx context.Context, l *domain.Level) error {
	if u.Storage == nil {
		return errNotConfigured
	}
	if err := u.checkLevel(ctx, l); err != nil {
		return err
	}
	return u.Storage.Save(ctx, l)
}

// checkLevel runs the validator, when one is configured, and checks that
// Start and Finish point at cells carrying those tags.
func (u *Service) checkLevel(ctx context.Context, l *domain.Level) error {
	if l == nil || l.Grid == nil {
		return fmt.Errorf("%w: no grid", ErrInvalidLevel)
	}
	if u.Validator != nil {
		ok, violations, err := u.Validator.Validate(ctx, l.Grid)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidLevel, err)
		}
		if !ok {
			at := violations[0]
			return fmt.Errorf("%w: %d violation(s), first at (%d,%d)", ErrInvalidLevel, len(violations), at.X, at.Y)
		}
	}
	if !tagged(l.Grid, l.Start, domain.Start) {
		return fmt.Errorf("%w: start (%d,%d) is not a start cell", ErrInvalidLevel, l.Start.X, l.Start.Y)
	}
	if !tagged(l.Grid, l.Finish, domain.Finish) {
		return fmt.Errorf("%w: finish (%d,%d) is not a finish cell", ErrInvalidLevel, l.Finish.X, l.Finish.Y)
	}
	return nil
}

func tagged(g *domain.Grid, c domain.Coord, v domain.Cell) bool {
	if !g.InBounds(c) || c.Y >= len(g.Cells) || c.X >= len(g.Cells[c.Y]) {
		return false
	}
	return g.At(c) == v
}
func (u *Service) Load(ctx context.Context, id string) (*domain.Level, error) {
	if u.Storage == nil {
		return nil, errNotConfigured
	}
	return u.Storage.Load(ctx, id)
}
func (u *Service) List(ctx context.Context) ([]domain.LevelMeta, error) {
	if u.Storage == nil {
		return nil, errNotConfigured
	}
	return u.Storage.List(ctx)
}

// Stats returns every recorded level outcome, oldest first.
func (u *Service) Stats(ctx context.Context) ([]domain.StatRecord, error) {
	if u.StatsLog == nil {
		return nil, errNotConfigured
	}
	return u.StatsLog.ReadStats(ctx)
}

func (u *Service) record(ctx context.Context, rec domain.StatRecord) error {
	if u.StatsLog == nil {
		return errNotConfigured
	}
	if err := u.StatsLog.Append(ctx, rec); err != nil {
		u.logger().Error("append stats", "player", rec.Player, "err", err)
		return err
	}
	return nil
}
