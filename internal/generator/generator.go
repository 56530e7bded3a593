// Package generator synthesises random maze grids and runs the
// generate → search → classify loop until a level matches a requested tier.
package generator

import (
	"errors"
	"time"

	"svw.info/automaze/internal/ports"
)

var (
	// ErrInvalidDimensions indicates a width or height below MinSize.
	ErrInvalidDimensions = errors.New("generator: width and height must be at least 4")
	// ErrGenerationTimeout indicates the retry loop ran out of attempts or time
	// before producing a solvable level of the requested tier.
	ErrGenerationTimeout = errors.New("generator: no matching level found")
	// ErrNoSolver indicates the generator was built without a solver.
	ErrNoSolver = errors.New("generator: solver not configured")
)

const (
	// MinSize is the smallest width or height with a non-empty interior
	// large enough to hold distinct start and finish cells.
	MinSize = 4
	// OpenWeight is the probability that an interior cell starts open.
	OpenWeight = 0.7

	DefaultWidth       = 20
	DefaultHeight      = 20
	DefaultMaxAttempts = 20000
	DefaultTimeout     = 3 * time.Second
)

// Options configures level generation.
type Options struct {
	Width, Height int
	MaxAttempts   int           // cap on generated grids per Generate call
	Timeout       time.Duration // wall-clock cap per Generate call (0 = none)
	Workers       int           // independent attempt loops raced against each other
}

// DefaultOptions returns a 20×20 single-worker configuration.
func DefaultOptions() Options {
	return Options{
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		MaxAttempts: DefaultMaxAttempts,
		Timeout:     DefaultTimeout,
		Workers:     1,
	}
}

// LevelGenerator creates levels whose solver-measured step count falls in a
// requested tier.
type LevelGenerator struct {
	Solver  ports.Solver
	Options Options
}

// NewLevelGenerator wires a generator that measures grids with the given solver.
func NewLevelGenerator(s ports.Solver, opts Options) *LevelGenerator {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &LevelGenerator{Solver: s, Options: opts}
}
