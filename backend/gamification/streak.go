package gamification

import "time"

type StreakOutcome string

const (
	StreakSameSession StreakOutcome = "same_session"
	StreakContinued   StreakOutcome = "continued"
	StreakBroken      StreakOutcome = "broken"
)

// Rewards is the XP table for gamified events.
type Rewards struct {
	LessonComplete int
	DailyLogin     int
	Streak7Days    int
	Streak30Days   int
}

func DefaultRewards() Rewards {
	return Rewards{
		LessonComplete: 50,
		DailyLogin:     10,
		Streak7Days:    100,
		Streak30Days:   500,
	}
}

// ClassifyStreak buckets the time since the last login. A missing last login
// counts from the Unix epoch, which always breaks the streak.
func ClassifyStreak(lastLogin *time.Time, now time.Time) StreakOutcome {
	last := time.Unix(0, 0)
	if lastLogin != nil {
		last = *lastLogin
	}
	hours := now.Sub(last).Hours()
	switch {
	case hours < 24:
		return StreakSameSession
	case hours < 48:
		return StreakContinued
	default:
		return StreakBroken
	}
}

// MilestoneBonus returns the extra XP for reaching exactly 7 or 30 days.
// Counts that skip past a milestone earn nothing.
func MilestoneBonus(streakCount int, rewards Rewards) int {
	switch streakCount {
	case 7:
		return rewards.Streak7Days
	case 30:
		return rewards.Streak30Days
	default:
		return 0
	}
}
