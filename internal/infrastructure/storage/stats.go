package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"svw.info/automaze/internal/domain"
)

// StatsFile is the name of the append-only play statistics log.
const StatsFile = "player_stats.csv"

const statsTimeLayout = "2006-01-02 15:04:05"

var statsHeader = []string{"timestamp", "player", "iteration", "tier", "min_steps", "player_steps", "completed"}

func (s *FS) statsPath() string { return filepath.Join(s.dir, StatsFile) }

// Append adds one record to the statistics log, writing the header when the
// file is new.
func (s *FS) Append(ctx context.Context, rec domain.StatRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(s.statsPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if fi.Size() == 0 {
		if err := w.Write(statsHeader); err != nil {
			return err
		}
	}
	completed := "no"
	if rec.Completed {
		completed = "yes"
	}
	if err := w.Write([]string{
		rec.Timestamp.UTC().Format(statsTimeLayout),
		rec.Player,
		strconv.Itoa(rec.Iteration),
		strconv.Itoa(int(rec.Tier)),
		strconv.Itoa(rec.MinSteps),
		strconv.Itoa(rec.PlayerSteps),
		completed,
	}); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// ReadStats returns every record in the log in append order. A missing log
// reads as empty.
func (s *FS) ReadStats(ctx context.Context) ([]domain.StatRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.statsPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(statsHeader)
	var out []domain.StatRecord
	for line := 1; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if line == 1 && row[0] == statsHeader[0] {
			continue
		}
		rec, err := parseStatRow(row)
		if err != nil {
			return nil, fmt.Errorf("stats line %d: %w", line, err)
		}
		out = append(out, rec)
	}
}

func parseStatRow(row []string) (domain.StatRecord, error) {
	ts, err := time.Parse(statsTimeLayout, row[0])
	if err != nil {
		return domain.StatRecord{}, err
	}
	nums := make([]int, 4)
	for i := range nums {
		if nums[i], err = strconv.Atoi(row[2+i]); err != nil {
			return domain.StatRecord{}, err
		}
	}
	return domain.StatRecord{
		Timestamp:   ts,
		Player:      row[1],
		Iteration:   nums[0],
		Tier:        domain.Tier(nums[1]),
		MinSteps:    nums[2],
		PlayerSteps: nums[3],
		Completed:   row[6] == "yes",
	}, nil
}
