package services

import (
	"context"
	"io"
	"log"
	"time"

	"engilearn/backend/cache"
	"engilearn/backend/gamification"
	"engilearn/backend/metrics"
	"engilearn/backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type options struct {
	logger  *log.Logger
	metrics *metrics.Metrics
	stats   cache.StatsCache
	rewards gamification.Rewards
	now     func() time.Time
}

type Option func(o *options)

func WithLogger(logger *log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithStatsCache enables caching of UserStatsSummary results.
func WithStatsCache(c cache.StatsCache) Option {
	return func(o *options) { o.stats = c }
}

func WithRewards(r gamification.Rewards) Option {
	return func(o *options) { o.rewards = r }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func newOptions(opts []Option) options {
	o := options{
		logger:  log.New(io.Discard, "", 0),
		rewards: gamification.DefaultRewards(),
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func (o *options) invalidateStats(ctx context.Context, userID uuid.UUID) {
	if o.stats == nil {
		return
	}
	if err := o.stats.Invalidate(ctx, userID); err != nil {
		o.logger.Printf("Failed to invalidate stats cache for user %s: %v", userID, err)
	}
}

// lockUser reads a user row for update. SQLite ignores the locking clause; its
// single connection already serializes transactions.
func lockUser(tx *gorm.DB, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// applyXP adds XP to a locked user and persists the derived level with it.
func applyXP(tx *gorm.DB, user *models.User, amount int) error {
	user.AddXP(amount)
	return tx.Model(user).Updates(map[string]any{
		"total_xp": user.TotalXP,
		"level":    user.Level,
	}).Error
}
