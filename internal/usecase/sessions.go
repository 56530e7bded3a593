package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"svw.info/automaze/internal/domain"
	"svw.info/automaze/internal/session"
)

// ErrSessionNotFound indicates an unknown or ended session ID.
var ErrSessionNotFound = errors.New("usecase: session not found")

// SessionView is a read-only snapshot of a session.
type SessionView struct {
	ID        string        `json:"id"`
	Player    string        `json:"player"`
	Tier      domain.Tier   `json:"tier"`
	Iteration int           `json:"iteration"`
	Level     *domain.Level `json:"level,omitempty"`
	Position  domain.Coord  `json:"position"`
	Steps     int           `json:"steps"`
	Finished  bool          `json:"finished"`
}

func view(s *session.Session) SessionView {
	return SessionView{
		ID:        s.ID.String(),
		Player:    s.Player,
		Tier:      s.Tier,
		Iteration: s.Iteration,
		Level:     s.Level,
		Position:  s.Position,
		Steps:     s.Steps,
		Finished:  s.Finished,
	}
}

func (u *Service) lookup(id string) (*entry, error) {
	key, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	e, ok := u.sessions[key]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return e, nil
}

// StartSession opens a session at tier 1 and generates its first level.
func (u *Service) StartSession(ctx context.Context, player string, seed int64) (SessionView, error) {
	s := session.New(player)
	l, _, err := u.Generate(ctx, seed, s.Tier)
	if err != nil {
		return SessionView{}, err
	}
	s.Begin(l)

	u.mu.Lock()
	u.sessions[s.ID] = &entry{s: s}
	u.mu.Unlock()
	u.logger().Info("session started", "session", s.ID, "player", s.Player)
	return view(s), nil
}

// NextLevel generates a level at the session's current tier. A level still
// in progress is abandoned and recorded first.
func (u *Service) NextLevel(ctx context.Context, id string, seed int64) (SessionView, error) {
	e, err := u.lookup(id)
	if err != nil {
		return SessionView{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.s.Finished {
		if _, err := u.abandonLevel(ctx, e.s); err != nil {
			return SessionView{}, err
		}
	}
	l, _, err := u.Generate(ctx, seed, e.s.Tier)
	if err != nil {
		return SessionView{}, err
	}
	e.s.Begin(l)
	return view(e.s), nil
}

// Move steps the session's player; reaching the finish records the level.
func (u *Service) Move(ctx context.Context, id string, dir domain.Direction) (session.MoveResult, SessionView, error) {
	e, err := u.lookup(id)
	if err != nil {
		return session.MoveResult{}, SessionView{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	res, err := e.s.Move(dir)
	if err != nil {
		return res, view(e.s), err
	}
	if res.Record != nil {
		if err := u.record(ctx, *res.Record); err != nil {
			return res, view(e.s), err
		}
		u.logger().Info("level finished", "session", e.s.ID, "iteration", e.s.Iteration,
			"minSteps", res.Record.MinSteps, "steps", res.Steps, "nextTier", int(res.NextTier))
	}
	return res, view(e.s), nil
}

// SessionHint suggests the next step from the player's position.
func (u *Service) SessionHint(ctx context.Context, id string) (domain.Hint, bool, error) {
	e, err := u.lookup(id)
	if err != nil {
		return domain.Hint{}, false, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.s.Level == nil || e.s.Finished {
		return domain.Hint{}, false, nil
	}
	return u.Hint(ctx, e.s.Level.Grid, e.s.Position, e.s.Level.Finish)
}

// Session returns a snapshot of a live session.
func (u *Service) Session(ctx context.Context, id string) (SessionView, error) {
	e, err := u.lookup(id)
	if err != nil {
		return SessionView{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return view(e.s), nil
}

// abandonLevel records the level in progress as not completed. If the record
// cannot be written the level stays in progress.
func (u *Service) abandonLevel(ctx context.Context, s *session.Session) (domain.StatRecord, error) {
	rec, err := s.Abandon()
	if err != nil {
		return rec, err
	}
	if err := u.record(ctx, rec); err != nil {
		s.Finished = false
		return rec, err
	}
	return rec, nil
}

// Abandon ends the session. A level in progress is recorded as not completed;
// the session is dropped only once that record is written.
func (u *Service) Abandon(ctx context.Context, id string) (*domain.StatRecord, error) {
	e, err := u.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	var out *domain.StatRecord
	if !e.s.Finished {
		rec, err := u.abandonLevel(ctx, e.s)
		if err != nil {
			return nil, err
		}
		out = &rec
	}

	u.mu.Lock()
	delete(u.sessions, e.s.ID)
	u.mu.Unlock()
	u.logger().Info("session ended", "session", e.s.ID, "iteration", e.s.Iteration)
	return out, nil
}
