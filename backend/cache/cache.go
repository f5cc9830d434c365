// Package cache stores computed user stats between requests.
package cache

import (
	"context"

	"engilearn/backend/models"

	"github.com/google/uuid"
)

// StatsCache is a read-through cache for UserStats. Implementations must treat a
// missing entry as (nil, false, nil).
//
// Every Invalidate bumps the user's generation. A loader reads Generation before
// it queries the database and passes that value to Set, which drops the write if
// an invalidation happened in between.
type StatsCache interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.UserStats, bool, error)
	Generation(ctx context.Context, userID uuid.UUID) (uint64, error)
	Set(ctx context.Context, userID uuid.UUID, generation uint64, stats *models.UserStats) (bool, error)
	Invalidate(ctx context.Context, userID uuid.UUID) error
}
