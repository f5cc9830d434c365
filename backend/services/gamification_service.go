package services

import (
	"context"

	"engilearn/backend/apperrors"
	"engilearn/backend/gamification"
	"engilearn/backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GamificationService applies XP awards and daily streak updates. Every
// mutation runs in one transaction holding the user row lock.
type GamificationService struct {
	db *gorm.DB
	options
}

func NewGamificationService(db *gorm.DB, opts ...Option) *GamificationService {
	return &GamificationService{db: db, options: newOptions(opts)}
}

// AwardXP adds amount to the user's total and recomputes the level.
func (s *GamificationService) AwardXP(ctx context.Context, userID uuid.UUID, amount int) (*models.User, error) {
	if amount <= 0 {
		return nil, apperrors.Invalid("amount", "must be a positive number of XP")
	}

	var user *models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, err := lockUser(tx, userID)
		if err != nil {
			return err
		}
		if err := applyXP(tx, u, amount); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, apperrors.FromDB(err, "user")
	}

	s.logger.Printf("Awarded %d XP to user %s. Total XP: %d, Level: %d", amount, userID, user.TotalXP, user.Level)
	s.metrics.AddXP("manual", amount)
	s.invalidateStats(ctx, userID)
	return user, nil
}

// UpdateStreak advances, keeps or resets the daily streak based on the time since
// the last login, and always stamps the last login with the current time.
func (s *GamificationService) UpdateStreak(ctx context.Context, userID uuid.UUID) (int, error) {
	now := s.now()

	var (
		user    *models.User
		outcome gamification.StreakOutcome
		bonus   int
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, err := lockUser(tx, userID)
		if err != nil {
			return err
		}

		outcome = gamification.ClassifyStreak(u.LastLogin, now)
		switch outcome {
		case gamification.StreakContinued:
			u.StreakCount++
			bonus = gamification.MilestoneBonus(u.StreakCount, s.rewards)
			u.AddXP(s.rewards.DailyLogin + bonus)
		case gamification.StreakBroken:
			u.StreakCount = 1
		}
		u.LastLogin = &now

		if err := tx.Model(u).Updates(map[string]any{
			"streak_count": u.StreakCount,
			"last_login":   now,
			"total_xp":     u.TotalXP,
			"level":        u.Level,
		}).Error; err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return 0, apperrors.FromDB(err, "user")
	}

	s.metrics.IncrementStreak(string(outcome))
	if outcome == gamification.StreakContinued {
		s.metrics.AddXP("daily_login", s.rewards.DailyLogin)
		if bonus > 0 {
			s.metrics.AddXP("streak_milestone", bonus)
			s.logger.Printf("User %s reached a %d-day streak (+%d XP)", userID, user.StreakCount, bonus)
		}
	}
	s.invalidateStats(ctx, userID)
	return user.StreakCount, nil
}
