package cache

import (
	"context"
	"testing"
	"time"

	"engilearn/backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type MemoryStatsCacheSuite struct {
	suite.Suite
	cache *MemoryStatsCache
	now   time.Time
	ctx   context.Context
}

func TestMemoryStatsCacheSuite(t *testing.T) {
	suite.Run(t, new(MemoryStatsCacheSuite))
}

func (s *MemoryStatsCacheSuite) SetupTest() {
	s.now = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.cache = NewMemoryStatsCache(time.Minute)
	s.cache.now = func() time.Time { return s.now }
	s.ctx = context.Background()
}

func (s *MemoryStatsCacheSuite) set(userID uuid.UUID, stats *models.UserStats) {
	gen, err := s.cache.Generation(s.ctx, userID)
	s.Require().NoError(err)
	stored, err := s.cache.Set(s.ctx, userID, gen, stats)
	s.Require().NoError(err)
	s.Require().True(stored)
}

func (s *MemoryStatsCacheSuite) TestMissThenHit() {
	userID := uuid.New()

	_, ok, err := s.cache.Get(s.ctx, userID)
	s.Require().NoError(err)
	s.False(ok)

	s.set(userID, &models.UserStats{TotalXP: 250, Level: 1})

	stats, ok, err := s.cache.Get(s.ctx, userID)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(250, stats.TotalXP)
}

func (s *MemoryStatsCacheSuite) TestReturnedStatsAreCopies() {
	userID := uuid.New()
	s.set(userID, &models.UserStats{TotalXP: 10})

	stats, _, _ := s.cache.Get(s.ctx, userID)
	stats.TotalXP = 9999

	again, _, _ := s.cache.Get(s.ctx, userID)
	s.Equal(10, again.TotalXP)
}

func (s *MemoryStatsCacheSuite) TestExpiry() {
	userID := uuid.New()
	s.set(userID, &models.UserStats{})

	s.now = s.now.Add(time.Minute)

	_, ok, err := s.cache.Get(s.ctx, userID)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *MemoryStatsCacheSuite) TestInvalidate() {
	userID := uuid.New()
	s.set(userID, &models.UserStats{})
	s.Require().NoError(s.cache.Invalidate(s.ctx, userID))

	_, ok, _ := s.cache.Get(s.ctx, userID)
	s.False(ok)
}

func (s *MemoryStatsCacheSuite) TestSetAfterInvalidateIsDropped() {
	userID := uuid.New()
	gen, err := s.cache.Generation(s.ctx, userID)
	s.Require().NoError(err)

	s.Require().NoError(s.cache.Invalidate(s.ctx, userID))

	stored, err := s.cache.Set(s.ctx, userID, gen, &models.UserStats{TotalXP: 0})
	s.Require().NoError(err)
	s.False(stored)

	_, ok, _ := s.cache.Get(s.ctx, userID)
	s.False(ok)

	s.set(userID, &models.UserStats{TotalXP: 500})
	stats, ok, _ := s.cache.Get(s.ctx, userID)
	s.True(ok)
	s.Equal(500, stats.TotalXP)
}
