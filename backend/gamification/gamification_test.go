package gamification

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLevelForXP(t *testing.T) {
	cases := map[int]int{
		0:     0,
		99:    0,
		100:   1,
		399:   1,
		400:   2,
		2500:  5,
		16899: 12,
		16900: 13,
		22500: 15,
	}
	for xp, want := range cases {
		assert.Equal(t, want, LevelForXP(xp), "xp=%d", xp)
	}
	assert.Equal(t, 0, LevelForXP(-50))
}

func TestLevelForXPMatchesFormula(t *testing.T) {
	for xp := 0; xp <= 200_000; xp += 37 {
		want := int(math.Floor(math.Sqrt(float64(xp) / 100)))
		assert.Equal(t, want, LevelForXP(xp), "xp=%d", xp)
	}
}

func TestXPThresholdForLevel(t *testing.T) {
	assert.Equal(t, 100, XPThresholdForLevel(0))
	assert.Equal(t, 400, XPThresholdForLevel(1))
	assert.Equal(t, 16900, XPThresholdForLevel(12))
	for level := 0; level < 50; level++ {
		assert.Equal(t, (level+1)*(level+1)*100, XPThresholdForLevel(level))
		// The threshold is exactly where the next level begins.
		assert.Equal(t, level+1, LevelForXP(XPThresholdForLevel(level)))
	}
}

func TestXPToNextLevel(t *testing.T) {
	assert.Equal(t, 100, XPToNextLevel(0))
	assert.Equal(t, 1100, XPToNextLevel(2500))
	assert.Equal(t, 1, XPToNextLevel(399))
}

func TestClassifyStreak(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		ts := now.Add(-d)
		return &ts
	}

	assert.Equal(t, StreakSameSession, ClassifyStreak(at(0), now))
	assert.Equal(t, StreakSameSession, ClassifyStreak(at(23*time.Hour+59*time.Minute), now))
	assert.Equal(t, StreakContinued, ClassifyStreak(at(24*time.Hour), now))
	assert.Equal(t, StreakContinued, ClassifyStreak(at(47*time.Hour), now))
	assert.Equal(t, StreakBroken, ClassifyStreak(at(48*time.Hour), now))
	assert.Equal(t, StreakBroken, ClassifyStreak(nil, now))
}

func TestMilestoneBonus(t *testing.T) {
	r := DefaultRewards()

	assert.Equal(t, 100, MilestoneBonus(7, r))
	assert.Equal(t, 500, MilestoneBonus(30, r))
	for _, n := range []int{0, 1, 6, 8, 29, 31, 60} {
		assert.Zero(t, MilestoneBonus(n, r), "streak=%d", n)
	}
}
