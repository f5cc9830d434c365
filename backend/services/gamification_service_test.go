package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"engilearn/backend/apperrors"
	"engilearn/backend/database"
	"engilearn/backend/models"
	"engilearn/backend/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type GamificationServiceSuite struct {
	suite.Suite
	conn    *database.Connection
	clock   *testutil.Clock
	service *GamificationService
	ctx     context.Context
}

func TestGamificationServiceSuite(t *testing.T) {
	suite.Run(t, new(GamificationServiceSuite))
}

func (s *GamificationServiceSuite) SetupTest() {
	s.conn = testutil.NewConnection(s.T())
	s.clock = testutil.NewClock()
	s.service = NewGamificationService(s.conn.DB, WithClock(s.clock.Now))
	s.ctx = context.Background()
}

func (s *GamificationServiceSuite) reload(id uuid.UUID) models.User {
	var u models.User
	s.Require().NoError(s.conn.DB.First(&u, "id = ?", id).Error)
	return u
}

func (s *GamificationServiceSuite) hoursAgo(h int) *time.Time {
	t := s.clock.Now().Add(-time.Duration(h) * time.Hour)
	return &t
}

func (s *GamificationServiceSuite) TestAwardXP() {
	s.Run("sequential awards accumulate and level follows", func() {
		user := testutil.CreateUser(s.T(), s.conn, 0, 0, nil)

		for _, amount := range []int{1000, 1000, 500} {
			_, err := s.service.AwardXP(s.ctx, user.ID, amount)
			s.Require().NoError(err)
		}

		got := s.reload(user.ID)
		s.Equal(2500, got.TotalXP)
		s.Equal(5, got.Level)
	})

	s.Run("returns the updated user", func() {
		user := testutil.CreateUser(s.T(), s.conn, 350, 0, nil)

		updated, err := s.service.AwardXP(s.ctx, user.ID, 50)
		s.Require().NoError(err)
		s.Equal(400, updated.TotalXP)
		s.Equal(2, updated.Level)
	})

	s.Run("unknown user is not found", func() {
		_, err := s.service.AwardXP(s.ctx, uuid.New(), 10)
		s.ErrorIs(err, apperrors.ErrNotFound)
	})

	s.Run("non-positive amounts are rejected without changes", func() {
		user := testutil.CreateUser(s.T(), s.conn, 120, 0, nil)

		for _, amount := range []int{0, -10} {
			_, err := s.service.AwardXP(s.ctx, user.ID, amount)
			s.ErrorIs(err, apperrors.ErrValidation)
		}
		s.Equal(120, s.reload(user.ID).TotalXP)
	})
}

func (s *GamificationServiceSuite) TestAwardXPConcurrent() {
	user := testutil.CreateUser(s.T(), s.conn, 0, 0, nil)

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.service.AwardXP(s.ctx, user.ID, 25)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.Require().NoError(err)
	}

	got := s.reload(user.ID)
	s.Equal(workers*25, got.TotalXP)
	s.Equal(2, got.Level)
}

func (s *GamificationServiceSuite) TestUpdateStreak() {
	s.Run("same session keeps the streak but stamps last login", func() {
		user := testutil.CreateUser(s.T(), s.conn, 0, 3, s.hoursAgo(5))

		streak, err := s.service.UpdateStreak(s.ctx, user.ID)
		s.Require().NoError(err)
		s.Equal(3, streak)

		got := s.reload(user.ID)
		s.Equal(0, got.TotalXP)
		s.Require().NotNil(got.LastLogin)
		s.True(got.LastLogin.Equal(s.clock.Now()))
	})

	s.Run("next day increments and awards the daily bonus", func() {
		user := testutil.CreateUser(s.T(), s.conn, 0, 3, s.hoursAgo(30))

		streak, err := s.service.UpdateStreak(s.ctx, user.ID)
		s.Require().NoError(err)
		s.Equal(4, streak)
		s.Equal(10, s.reload(user.ID).TotalXP)
	})

	s.Run("a gap of two days resets to one without XP", func() {
		user := testutil.CreateUser(s.T(), s.conn, 40, 12, s.hoursAgo(48))

		streak, err := s.service.UpdateStreak(s.ctx, user.ID)
		s.Require().NoError(err)
		s.Equal(1, streak)
		s.Equal(40, s.reload(user.ID).TotalXP)
	})

	s.Run("first login ever starts the streak at one", func() {
		user := testutil.CreateUser(s.T(), s.conn, 0, 0, nil)

		streak, err := s.service.UpdateStreak(s.ctx, user.ID)
		s.Require().NoError(err)
		s.Equal(1, streak)
	})

	s.Run("reaching exactly seven days adds the milestone bonus", func() {
		user := testutil.CreateUser(s.T(), s.conn, 0, 6, s.hoursAgo(25))

		streak, err := s.service.UpdateStreak(s.ctx, user.ID)
		s.Require().NoError(err)
		s.Equal(7, streak)
		s.Equal(110, s.reload(user.ID).TotalXP)
	})

	s.Run("skipping past seven earns no milestone bonus", func() {
		user := testutil.CreateUser(s.T(), s.conn, 0, 7, s.hoursAgo(25))

		streak, err := s.service.UpdateStreak(s.ctx, user.ID)
		s.Require().NoError(err)
		s.Equal(8, streak)
		s.Equal(10, s.reload(user.ID).TotalXP)
	})

	s.Run("reaching exactly thirty days adds the larger bonus", func() {
		user := testutil.CreateUser(s.T(), s.conn, 0, 29, s.hoursAgo(25))

		_, err := s.service.UpdateStreak(s.ctx, user.ID)
		s.Require().NoError(err)

		got := s.reload(user.ID)
		s.Equal(510, got.TotalXP)
		s.Equal(2, got.Level)
	})

	s.Run("unknown user is not found", func() {
		_, err := s.service.UpdateStreak(s.ctx, uuid.New())
		s.ErrorIs(err, apperrors.ErrNotFound)
	})
}

func (s *GamificationServiceSuite) TestStreakAcrossDays() {
	user := testutil.CreateUser(s.T(), s.conn, 0, 0, nil)

	streaks := []int{}
	for range 3 {
		streak, err := s.service.UpdateStreak(s.ctx, user.ID)
		s.Require().NoError(err)
		streaks = append(streaks, streak)
		s.clock.Advance(25 * time.Hour)
	}
	s.Equal([]int{1, 2, 3}, streaks)

	s.clock.Advance(72 * time.Hour)
	streak, err := s.service.UpdateStreak(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal(1, streak)
}
