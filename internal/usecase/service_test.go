package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/automaze/internal/domain"
	"svw.info/automaze/internal/hint"
	"svw.info/automaze/internal/ports"
	"svw.info/automaze/internal/solver"
)

// fixedGenerator hands out copies of a 6×4 level whose finish is three
// steps east of the start.
type fixedGenerator struct {
	mu    sync.Mutex
	tiers []domain.Tier
}

func (f *fixedGenerator) Generate(ctx context.Context, seed int64, t domain.Tier) (*domain.Level, ports.Stats, error) {
	f.mu.Lock()
	f.tiers = append(f.tiers, t)
	f.mu.Unlock()

	g := domain.NewGrid(6, 4, domain.Wall)
	for x := 1; x <= 4; x++ {
		g.Set(domain.Coord{X: x, Y: 1}, domain.Open)
		g.Set(domain.Coord{X: x, Y: 2}, domain.Open)
	}
	g.Set(domain.Coord{X: 1, Y: 1}, domain.Start)
	g.Set(domain.Coord{X: 4, Y: 1}, domain.Finish)
	return &domain.Level{
		ID:       "fixed",
		Seed:     seed,
		Tier:     t,
		Grid:     g,
		Start:    domain.Coord{X: 1, Y: 1},
		Finish:   domain.Coord{X: 4, Y: 1},
		MinSteps: 3,
	}, ports.Stats{Attempts: 1}, nil
}

type memStats struct {
	recs []domain.StatRecord
	fail error
}

func (m *memStats) Append(ctx context.Context, rec domain.StatRecord) error {
	if m.fail != nil {
		return m.fail
	}
	m.recs = append(m.recs, rec)
	return nil
}

func (m *memStats) ReadStats(ctx context.Context) ([]domain.StatRecord, error) {
	return append([]domain.StatRecord(nil), m.recs...), nil
}

func newTestService() (*Service, *fixedGenerator, *memStats) {
	s := solver.NewGreedySolver()
	gen := &fixedGenerator{}
	stats := &memStats{}
	return NewService(s, gen, nil, hint.NewNextStep(s), nil, stats), gen, stats
}

func TestNotConfigured(t *testing.T) {
	u := &Service{}
	ctx := context.Background()

	_, _, err := u.Generate(ctx, 1, domain.Tier1)
	assert.ErrorIs(t, err, errNotConfigured)
	_, _, err = u.Solve(ctx, domain.NewGrid(4, 4, domain.Wall), domain.Coord{}, domain.Coord{})
	assert.ErrorIs(t, err, errNotConfigured)
	_, _, err = u.Validate(ctx, domain.NewGrid(4, 4, domain.Wall))
	assert.ErrorIs(t, err, errNotConfigured)
	_, err = u.List(ctx)
	assert.ErrorIs(t, err, errNotConfigured)
	_, err = u.Stats(ctx)
	assert.ErrorIs(t, err, errNotConfigured)
}

func TestSessionCompletesLevel(t *testing.T) {
	u, gen, stats := newTestService()
	ctx := context.Background()

	v, err := u.StartSession(ctx, "ada", 7)
	require.NoError(t, err)
	require.Equal(t, "ada", v.Player)
	require.Equal(t, 1, v.Iteration)
	require.Equal(t, domain.Tier1, v.Tier)
	require.Equal(t, domain.Coord{X: 1, Y: 1}, v.Position)
	require.Equal(t, []domain.Tier{domain.Tier1}, gen.tiers)

	h, ok, err := u.SessionHint(ctx, v.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, domain.East, h.Direction)
	require.Equal(t, 3, h.Remaining)

	for i := 0; i < 3; i++ {
		_, v, err = u.Move(ctx, v.ID, domain.East)
		require.NoError(t, err)
	}
	require.True(t, v.Finished)
	require.Equal(t, 3, v.Steps)
	// an exact run on a tier-1 level raises the tier
	require.Equal(t, domain.Tier2, v.Tier)

	recs, err := u.Stats(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.True(t, recs[0].Completed)
	assert.Equal(t, "ada", recs[0].Player)
	assert.Equal(t, 3, recs[0].PlayerSteps)
	assert.Equal(t, domain.Tier2, recs[0].Tier)

	_, ok, err = u.SessionHint(ctx, v.ID)
	require.NoError(t, err)
	require.False(t, ok)

	v, err = u.NextLevel(ctx, v.ID, 8)
	require.NoError(t, err)
	require.Equal(t, 2, v.Iteration)
	require.False(t, v.Finished)
	require.Equal(t, domain.Tier2, gen.tiers[1])
	require.Len(t, stats.recs, 1)
}

func TestNextLevelAbandonsUnfinished(t *testing.T) {
	u, _, stats := newTestService()
	ctx := context.Background()

	v, err := u.StartSession(ctx, "", 1)
	require.NoError(t, err)
	_, v, err = u.Move(ctx, v.ID, domain.South)
	require.NoError(t, err)
	require.Equal(t, 1, v.Steps)

	v, err = u.NextLevel(ctx, v.ID, 2)
	require.NoError(t, err)
	require.Equal(t, 2, v.Iteration)
	require.Equal(t, 0, v.Steps)
	require.Len(t, stats.recs, 1)
	assert.False(t, stats.recs[0].Completed)
	assert.Equal(t, "noname", stats.recs[0].Player)
	assert.Equal(t, 1, stats.recs[0].PlayerSteps)
}

func TestAbandonEndsSession(t *testing.T) {
	u, _, stats := newTestService()
	ctx := context.Background()

	v, err := u.StartSession(ctx, "bo", 1)
	require.NoError(t, err)

	rec, err := u.Abandon(ctx, v.ID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.False(t, rec.Completed)
	require.Len(t, stats.recs, 1)

	_, err = u.Session(ctx, v.ID)
	require.ErrorIs(t, err, ErrSessionNotFound)
	_, _, err = u.Move(ctx, v.ID, domain.East)
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestUnknownSession(t *testing.T) {
	u, _, _ := newTestService()
	ctx := context.Background()

	_, err := u.NextLevel(ctx, "not-a-uuid", 1)
	require.ErrorIs(t, err, ErrSessionNotFound)
	_, _, err = u.SessionHint(ctx, "6f1c2d8e-1b1a-4c3e-9f7a-0a1b2c3d4e5f")
	require.ErrorIs(t, err, ErrSessionNotFound)
	_, err = u.Abandon(ctx, "")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestBlockedMoveKeepsPosition(t *testing.T) {
	u, _, _ := newTestService()
	ctx := context.Background()

	v, err := u.StartSession(ctx, "cy", 1)
	require.NoError(t, err)
	res, v, err := u.Move(ctx, v.ID, domain.North)
	require.NoError(t, err)
	require.False(t, res.Moved)
	require.Equal(t, 0, v.Steps)
	require.Equal(t, domain.Coord{X: 1, Y: 1}, v.Position)
}

func TestAbandonKeepsSessionWhenStatsFail(t *testing.T) {
	u, _, stats := newTestService()
	ctx := context.Background()

	v, err := u.StartSession(ctx, "di", 1)
	require.NoError(t, err)
	_, _, err = u.Move(ctx, v.ID, domain.East)
	require.NoError(t, err)

	stats.fail = errors.New("disk full")
	_, err = u.Abandon(ctx, v.ID)
	require.ErrorIs(t, err, stats.fail)

	got, err := u.Session(ctx, v.ID)
	require.NoError(t, err)
	require.False(t, got.Finished)
	require.Equal(t, 1, got.Steps)
	_, err = u.NextLevel(ctx, v.ID, 2)
	require.ErrorIs(t, err, stats.fail)

	stats.fail = nil
	rec, err := u.Abandon(ctx, v.ID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 1, rec.PlayerSteps)
	require.Len(t, stats.recs, 1)

	_, err = u.Session(ctx, v.ID)
	require.ErrorIs(t, err, ErrSessionNotFound)
}
