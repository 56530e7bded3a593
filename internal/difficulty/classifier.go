// Package difficulty maps minimum step counts to tiers and adapts the
// player's tier after each level.
package difficulty

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"svw.info/automaze/internal/domain"
)

var (
	// ErrInvalidStepCount is returned for step counts ≤ 0, which have no tier.
	ErrInvalidStepCount = errors.New("difficulty: step count must be positive")
	// ErrInvalidTier is returned when a tier falls outside 1..4.
	ErrInvalidTier = errors.New("difficulty: tier must be between 1 and 4")
)

// band is the inclusive lower step bound of a tier.
type band struct {
	minSteps int
	tier     domain.Tier
}

// bands is ordered from the hardest tier down so the first match wins.
var bands = [...]band{
	{16, domain.Tier4},
	{11, domain.Tier3},
	{6, domain.Tier2},
	{1, domain.Tier1},
}

// Classify returns the tier for a minimum step count:
// 1–5 → 1, 6–10 → 2, 11–15 → 3, 16 and above → 4.
func Classify(steps int) (domain.Tier, error) {
	for _, b := range bands {
		if steps >= b.minSteps {
			return b.tier, nil
		}
	}
	return 0, fmt.Errorf("%w: got %d", ErrInvalidStepCount, steps)
}

// Matches reports whether steps classifies as tier. Non-positive step counts
// never match.
func Matches(steps int, tier domain.Tier) bool {
	got, err := Classify(steps)
	return err == nil && got == tier
}

// ParseTier accepts "3", "tier 3", "tier3" or "level 3".
func ParseTier(s string) (domain.Tier, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "tier")
	s = strings.TrimPrefix(s, "level")
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTier, s)
	}
	t := domain.Tier(n)
	if !t.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidTier, n)
	}
	return t, nil
}
