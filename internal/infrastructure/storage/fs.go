package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"svw.info/automaze/internal/domain"
)

// FS stores levels as JSON files under one directory per tier and keeps the
// play statistics log alongside them.
type FS struct {
	dir string
	mu  sync.Mutex // serialises stats appends
}

func NewFS(dir string) *FS { return &FS{dir: dir} }

func tierDir(t domain.Tier) string {
	return fmt.Sprintf("tier-%d", int(t))
}

func (s *FS) pathFor(id string, t domain.Tier) string {
	return filepath.Join(s.dir, tierDir(t), strings.TrimSpace(id)+".json")
}

func validID(id string) bool {
	id = strings.TrimSpace(id)
	return id != "" && !strings.ContainsAny(id, `/\`) && id != "." && id != ".."
}

func (s *FS) Save(ctx context.Context, l *domain.Level) error {
	if l == nil || !validID(l.ID) {
		return errors.New("invalid level: missing or malformed ID")
	}
	if !l.Tier.Valid() {
		return fmt.Errorf("invalid level: tier %d", int(l.Tier))
	}
	// Ensure directory <dir>/tier-N exists
	target := s.pathFor(l.ID, l.Tier)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	f, err := os.Create(target)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(l)
}

func (s *FS) Load(ctx context.Context, id string) (*domain.Level, error) {
	if !validID(id) {
		return nil, os.ErrNotExist
	}
	for t := domain.MinTier; t <= domain.MaxTier; t++ {
		data, err := os.ReadFile(s.pathFor(id, t))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		var out domain.Level
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, err
		}
		// infer tier from the folder we loaded from if absent
		if out.Tier == 0 {
			out.Tier = t
		}
		return &out, nil
	}
	return nil, os.ErrNotExist
}

func (s *FS) List(ctx context.Context) ([]domain.LevelMeta, error) {
	type m struct {
		ID        string      `json:"id"`
		Name      string      `json:"name,omitempty"`
		Tier      domain.Tier `json:"tier"`
		MinSteps  int         `json:"minSteps"`
		CreatedAt int64       `json:"createdAt"`
	}

	var out []domain.LevelMeta
	for t := domain.MinTier; t <= domain.MaxTier; t++ {
		dir := filepath.Join(s.dir, tierDir(t))
		ents, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		for _, e := range ents {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
				continue
			}
			data, err := os.ReadFile(filepath.Join(dir, e.Name()))
			if err != nil {
				continue
			}
			var mm m
			if err := json.Unmarshal(data, &mm); err != nil || mm.ID == "" {
				continue
			}
			tt := mm.Tier
			if tt == 0 {
				tt = t
			}
			out = append(out, domain.LevelMeta{
				ID:        mm.ID,
				Name:      mm.Name,
				Tier:      tt,
				MinSteps:  mm.MinSteps,
				CreatedAt: mm.CreatedAt,
			})
		}
	}
	return out, nil
}
