// Package scheduler runs background maintenance jobs.
package scheduler

import (
	"context"
	"log"
	"time"

	"engilearn/backend/cache"
	"engilearn/backend/gamification"
	"engilearn/backend/metrics"
	"engilearn/backend/models"

	"github.com/go-co-op/gocron"
	"gorm.io/gorm"
)

const reconcileBatchSize = 200

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	db        *gorm.DB
	logger    *log.Logger
	metrics   *metrics.Metrics
	stats     cache.StatsCache
}

// New creates a new scheduler instance. metrics and stats may be nil.
func New(db *gorm.DB, logger *log.Logger, m *metrics.Metrics, stats cache.StatsCache) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		db:        db,
		logger:    logger,
		metrics:   m,
		stats:     stats,
	}
}

// Start schedules the daily level reconciliation at the given "HH:MM" (UTC) and
// starts the scheduler without blocking.
func (s *Scheduler) Start(at string) error {
	_, err := s.scheduler.Every(1).Day().At(at).Do(func() {
		if _, err := s.ReconcileLevels(context.Background()); err != nil {
			s.logger.Printf("Level reconciliation failed: %v", err)
		}
	})
	if err != nil {
		return err
	}
	s.scheduler.StartAsync()
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// ReconcileLevels rewrites every stored level that disagrees with the level
// derived from total XP and returns how many users were repaired.
func (s *Scheduler) ReconcileLevels(ctx context.Context) (int, error) {
	var (
		users    []models.User
		repaired int
	)
	result := s.db.WithContext(ctx).
		Select("id", "total_xp", "level").
		FindInBatches(&users, reconcileBatchSize, func(tx *gorm.DB, batch int) error {
			for _, u := range users {
				want := gamification.LevelForXP(u.TotalXP)
				if u.Level == want {
					continue
				}
				err := s.db.WithContext(ctx).Model(&models.User{}).
					Where("id = ? AND total_xp = ?", u.ID, u.TotalXP).
					Update("level", want).Error
				if err != nil {
					return err
				}
				s.logger.Printf("Repaired level for user %s: %d -> %d", u.ID, u.Level, want)
				if s.stats != nil {
					if err := s.stats.Invalidate(ctx, u.ID); err != nil {
						s.logger.Printf("Stats cache invalidation failed for user %s: %v", u.ID, err)
					}
				}
				repaired++
			}
			return nil
		})
	if result.Error != nil {
		return repaired, result.Error
	}

	s.metrics.AddLevelRepairs(repaired)
	s.logger.Printf("Level reconciliation finished: %d users repaired", repaired)
	return repaired, nil
}
