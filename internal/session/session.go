// Package session tracks one player's progress through successive levels:
// position, step count, iteration and the adaptive tier. It holds no
// globals; callers own each Session and serialise access to it.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"svw.info/automaze/internal/difficulty"
	"svw.info/automaze/internal/domain"
)

var (
	// ErrNoLevel indicates a move or abandon before any level was begun.
	ErrNoLevel = errors.New("session: no level in progress")
	// ErrLevelFinished indicates a move after the finish was reached.
	ErrLevelFinished = errors.New("session: level already finished")
	// ErrInvalidDirection indicates a direction outside the eight moves.
	ErrInvalidDirection = errors.New("session: invalid direction")
)

// DefaultPlayer names sessions started without a player name.
const DefaultPlayer = "noname"

// Session is the explicit game state passed between level generations.
type Session struct {
	ID        uuid.UUID
	Player    string
	Tier      domain.Tier // tier requested for the next level
	Iteration int         // levels begun so far, starting at 1
	Level     *domain.Level
	Position  domain.Coord
	Steps     int
	Finished  bool

	now func() time.Time
}

// New starts a session at tier 1.
func New(player string) *Session {
	if player == "" {
		player = DefaultPlayer
	}
	return &Session{
		ID:     uuid.New(),
		Player: player,
		Tier:   domain.Tier1,
		now:    time.Now,
	}
}

// Begin places the player on the level's start cell.
func (s *Session) Begin(l *domain.Level) {
	s.Level = l
	s.Position = l.Start
	s.Steps = 0
	s.Finished = false
	s.Iteration++
}

// MoveResult reports what a single move did.
type MoveResult struct {
	Moved    bool               `json:"moved"`
	Position domain.Coord       `json:"position"`
	Steps    int                `json:"steps"`
	Finished bool               `json:"finished"`
	Record   *domain.StatRecord `json:"record,omitempty"`
	NextTier domain.Tier        `json:"nextTier,omitempty"`
}

// Move steps one cell in dir. Walls and cells off the grid block the move
// without counting a step. Reaching the finish completes the level, adapts
// the tier for the next one and returns the completed stats record.
func (s *Session) Move(dir domain.Direction) (MoveResult, error) {
	if s.Level == nil {
		return MoveResult{}, ErrNoLevel
	}
	if s.Finished {
		return MoveResult{}, ErrLevelFinished
	}
	if !dir.Valid() {
		return MoveResult{}, fmt.Errorf("%w: %d", ErrInvalidDirection, int(dir))
	}
	g := s.Level.Grid
	to := s.Position.Add(dir.Delta())
	if !g.InBounds(to) || g.At(to) == domain.Wall {
		return MoveResult{Position: s.Position, Steps: s.Steps}, nil
	}
	if to != s.Level.Finish {
		s.Position = to
		s.Steps++
		return MoveResult{Moved: true, Position: to, Steps: s.Steps}, nil
	}

	// adapt before touching state so a failure leaves the session as it was
	next, err := difficulty.Adapt(s.Level.Tier, s.Level.MinSteps, s.Steps+1)
	if err != nil {
		return MoveResult{Position: s.Position, Steps: s.Steps}, err
	}
	s.Position = to
	s.Steps++
	s.Finished = true
	// the record carries the tier the player moves on to
	s.Tier = next
	rec := s.record(true)
	return MoveResult{
		Moved:    true,
		Position: to,
		Steps:    s.Steps,
		Finished: true,
		Record:   &rec,
		NextTier: next,
	}, nil
}

// Abandon ends the current level without reaching the finish and returns
// the uncompleted stats record. The tier is left unchanged.
func (s *Session) Abandon() (domain.StatRecord, error) {
	if s.Level == nil {
		return domain.StatRecord{}, ErrNoLevel
	}
	if s.Finished {
		return domain.StatRecord{}, ErrLevelFinished
	}
	s.Finished = true
	return s.record(false), nil
}

func (s *Session) record(completed bool) domain.StatRecord {
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	return domain.StatRecord{
		Timestamp:   now().UTC().Truncate(time.Second),
		Player:      s.Player,
		Iteration:   s.Iteration,
		Tier:        s.Tier,
		MinSteps:    s.Level.MinSteps,
		PlayerSteps: s.Steps,
		Completed:   completed,
	}
}
