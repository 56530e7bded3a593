package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"

	"svw.info/automaze/internal/difficulty"
	"svw.info/automaze/internal/domain"
	"svw.info/automaze/internal/ports"
)

// ValidateDifficulty reports whether a level with minSteps belongs to tier.
func ValidateDifficulty(minSteps int, tier domain.Tier) bool {
	return difficulty.Matches(minSteps, tier)
}

// Generate repeats {GenerateGrid, FindPath, ValidateDifficulty} until a grid
// is solvable and its step count classifies as tier. The loop stops after
// Options.MaxAttempts grids, after Options.Timeout, or when ctx is done, and
// then returns ErrGenerationTimeout. The same seed with one worker yields the
// same grid.
func (g *LevelGenerator) Generate(ctx context.Context, seed int64, tier domain.Tier) (*domain.Level, ports.Stats, error) {
	start := time.Now()
	if !tier.Valid() {
		return nil, ports.Stats{}, fmt.Errorf("%w: %d", difficulty.ErrInvalidTier, int(tier))
	}
	if err := checkDimensions(g.Options.Width, g.Options.Height); err != nil {
		return nil, ports.Stats{}, err
	}
	if g.Solver == nil {
		return nil, ports.Stats{}, ErrNoSolver
	}
	if g.Options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Options.Timeout)
		defer cancel()
	}

	var (
		lvl *domain.Level
		st  ports.Stats
		err error
	)
	if g.Options.Workers > 1 {
		lvl, st, err = g.race(ctx, seed, tier)
	} else {
		lvl, st, err = g.attempts(ctx, seed, tier, g.Options.MaxAttempts)
	}
	st.Duration = time.Since(start)
	if err != nil {
		return nil, st, err
	}
	lvl.ID = uuid.NewString()
	lvl.CreatedAt = time.Now().UnixNano()
	return lvl, st, nil
}

// attempts runs the retry loop on one RNG stream.
func (g *LevelGenerator) attempts(ctx context.Context, seed int64, tier domain.Tier, budget int) (*domain.Level, ports.Stats, error) {
	rng := rand.New(rand.NewSource(uint64(seed)))
	var st ports.Stats
	for st.Attempts < budget {
		if err := ctx.Err(); err != nil {
			return nil, st, fmt.Errorf("%w after %d attempts: %w", ErrGenerationTimeout, st.Attempts, err)
		}
		st.Attempts++
		grid, s, f, err := GenerateGrid(rng, g.Options.Width, g.Options.Height)
		if err != nil {
			return nil, st, err
		}
		res, sst, err := g.Solver.FindPath(ctx, grid, s, f)
		st.Nodes += sst.Nodes
		if err != nil {
			if ctx.Err() != nil {
				return nil, st, fmt.Errorf("%w after %d attempts: %w", ErrGenerationTimeout, st.Attempts, err)
			}
			return nil, st, err
		}
		if res.Found && ValidateDifficulty(res.MinSteps, tier) {
			return &domain.Level{
				Seed:     seed,
				Tier:     tier,
				Grid:     grid,
				Start:    s,
				Finish:   f,
				MinSteps: res.MinSteps,
			}, st, nil
		}
	}
	return nil, st, fmt.Errorf("%w: no %s grid in %d attempts", ErrGenerationTimeout, tier, st.Attempts)
}

// race runs Options.Workers attempt loops on derived seeds, splitting the
// attempt budget between them. The first accepted level cancels the others.
func (g *LevelGenerator) race(ctx context.Context, seed int64, tier domain.Tier) (*domain.Level, ports.Stats, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcome struct {
		lvl *domain.Level
		st  ports.Stats
		err error
	}
	workers := g.Options.Workers
	budget := (g.Options.MaxAttempts + workers - 1) / workers
	out := make(chan outcome, workers)
	for i := 0; i < workers; i++ {
		go func(seed int64) {
			lvl, st, err := g.attempts(ctx, seed, tier, budget)
			out <- outcome{lvl: lvl, st: st, err: err}
		}(workerSeed(seed, i))
	}

	var (
		total    ports.Stats
		won      *domain.Level
		firstErr error
	)
	for i := 0; i < workers; i++ {
		o := <-out
		total.Attempts += o.st.Attempts
		total.Nodes += o.st.Nodes
		switch {
		case o.err == nil && won == nil:
			won = o.lvl
			cancel()
		case o.err != nil && firstErr == nil:
			firstErr = o.err
		}
	}
	if won != nil {
		return won, total, nil
	}
	return nil, total, firstErr
}

// workerSeed derives the seed of worker i; worker 0 keeps the caller's seed.
func workerSeed(seed int64, i int) int64 {
	return seed + int64(i)*7919
}
