package difficulty

import (
	"fmt"

	"svw.info/automaze/internal/domain"
)

const (
	// RaiseWithin is the largest overshoot (player steps beyond the minimum)
	// that still earns a harder next level.
	RaiseWithin = 2
	// LowerFrom is the smallest overshoot that drops the next level a tier.
	LowerFrom = 5
)

// Adapt returns the tier for the player's next level after finishing a level
// whose minimum was minSteps in playerSteps moves. The new tier is derived
// from the finished level's own tier and never leaves 1..4.
func Adapt(current domain.Tier, minSteps, playerSteps int) (domain.Tier, error) {
	if !current.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidTier, int(current))
	}
	played, err := Classify(minSteps)
	if err != nil {
		return 0, err
	}
	overshoot := playerSteps - minSteps
	switch {
	case overshoot <= RaiseWithin:
		if current == domain.MaxTier {
			return current, nil
		}
		return clamp(played + 1), nil
	case overshoot >= LowerFrom:
		if current == domain.MinTier {
			return current, nil
		}
		return clamp(played - 1), nil
	}
	return current, nil
}

func clamp(t domain.Tier) domain.Tier {
	return min(max(t, domain.MinTier), domain.MaxTier)
}
