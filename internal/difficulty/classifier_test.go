package difficulty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/automaze/internal/domain"
)

func TestClassifyTable(t *testing.T) {
	cases := []struct {
		steps int
		want  domain.Tier
	}{
		{1, domain.Tier1},
		{5, domain.Tier1},
		{6, domain.Tier2},
		{10, domain.Tier2},
		{11, domain.Tier3},
		{15, domain.Tier3},
		{16, domain.Tier4},
		{1000, domain.Tier4},
	}
	for _, tc := range cases {
		got, err := Classify(tc.steps)
		require.NoError(t, err, "Classify(%d)", tc.steps)
		assert.Equal(t, tc.want, got, "Classify(%d)", tc.steps)
	}
}

func TestClassifyRejectsNonPositive(t *testing.T) {
	for _, steps := range []int{0, -1, -100} {
		_, err := Classify(steps)
		require.ErrorIs(t, err, ErrInvalidStepCount, "Classify(%d)", steps)
	}
}

func TestClassifyMonotonic(t *testing.T) {
	prev := domain.Tier(0)
	for n := 1; n <= 200; n++ {
		got, err := Classify(n)
		require.NoError(t, err)
		require.GreaterOrEqual(t, int(got), int(prev), "Classify(%d) dropped below Classify(%d)", n, n-1)
		require.True(t, got.Valid())
		prev = got
	}
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches(1, domain.Tier1))
	assert.False(t, Matches(1, domain.Tier2))
	assert.True(t, Matches(12, domain.Tier3))
	assert.False(t, Matches(0, domain.Tier1))
}

func TestParseTier(t *testing.T) {
	cases := map[string]domain.Tier{
		"1":       domain.Tier1,
		" 2 ":     domain.Tier2,
		"tier 3":  domain.Tier3,
		"Level 4": domain.Tier4,
		"tier2":   domain.Tier2,
	}
	for in, want := range cases {
		got, err := ParseTier(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, bad := range []string{"", "0", "5", "hard", "level"} {
		_, err := ParseTier(bad)
		assert.ErrorIs(t, err, ErrInvalidTier, bad)
	}
}
