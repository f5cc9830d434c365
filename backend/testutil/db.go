// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"io"
	"log"
	"path/filepath"
	"testing"
	"time"

	"engilearn/backend/config"
	"engilearn/backend/database"
	"engilearn/backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Logger discards output.
func Logger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// NewConnection opens a migrated SQLite database in a per-test directory.
func NewConnection(t *testing.T) *database.Connection {
	t.Helper()
	cfg := &config.Config{
		DBDriver: "sqlite",
		DBPath:   filepath.Join(t.TempDir(), "test.db"),
	}
	conn, err := database.Open(cfg, Logger())
	require.NoError(t, err)
	require.NoError(t, conn.Migrate())
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// Clock is a settable time source.
type Clock struct {
	Current time.Time
}

func NewClock() *Clock {
	return &Clock{Current: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time { return c.Current }

func (c *Clock) Advance(d time.Duration) { c.Current = c.Current.Add(d) }

// CreateUser inserts a user with the given XP and streak.
func CreateUser(t *testing.T, conn *database.Connection, totalXP, streak int, lastLogin *time.Time) *models.User {
	t.Helper()
	name := uuid.NewString()[:8]
	user := &models.User{
		Email:        name + "@example.com",
		Username:     name,
		PasswordHash: "x",
		TotalXP:      totalXP,
		StreakCount:  streak,
		LastLogin:    lastLogin,
	}
	user.AddXP(0)
	require.NoError(t, conn.DB.Create(user).Error)
	return user
}

// CreateCourse inserts a published course with n lessons worth xpPerLesson each.
func CreateCourse(t *testing.T, conn *database.Connection, instructorID uuid.UUID, n, xpPerLesson int) *models.Course {
	t.Helper()
	course := &models.Course{
		Title:        "Course " + uuid.NewString()[:6],
		Description:  "test course",
		Difficulty:   "beginner",
		Category:     "test",
		InstructorID: instructorID,
		IsPublished:  true,
	}
	for i := n; i >= 1; i-- {
		course.Lessons = append(course.Lessons, models.Lesson{
			OrderNumber: i,
			Title:       "Lesson",
			Duration:    10,
			LessonType:  "reading",
			XPReward:    xpPerLesson,
		})
	}
	require.NoError(t, conn.DB.Create(course).Error)
	return course
}
