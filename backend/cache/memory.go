package cache

import (
	"context"
	"sync"
	"time"

	"engilearn/backend/models"

	"github.com/google/uuid"
)

type memoryEntry struct {
	stats     models.UserStats
	expiresAt time.Time
}

// MemoryStatsCache is a process-local StatsCache for single-instance deployments.
type MemoryStatsCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]memoryEntry
	gens    map[uuid.UUID]uint64
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStatsCache(ttl time.Duration) *MemoryStatsCache {
	return &MemoryStatsCache{
		entries: make(map[uuid.UUID]memoryEntry),
		gens:    make(map[uuid.UUID]uint64),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryStatsCache) Get(_ context.Context, userID uuid.UUID) (*models.UserStats, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[userID]
	if !ok || !c.now().Before(entry.expiresAt) {
		return nil, false, nil
	}
	stats := entry.stats
	return &stats, true, nil
}

func (c *MemoryStatsCache) Generation(_ context.Context, userID uuid.UUID) (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.gens[userID], nil
}

// Set stores stats unless the user was invalidated after generation was read.
func (c *MemoryStatsCache) Set(_ context.Context, userID uuid.UUID, generation uint64, stats *models.UserStats) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gens[userID] != generation {
		return false, nil
	}
	c.entries[userID] = memoryEntry{stats: *stats, expiresAt: c.now().Add(c.ttl)}
	return true, nil
}

func (c *MemoryStatsCache) Invalidate(_ context.Context, userID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, userID)
	c.gens[userID]++
	return nil
}
