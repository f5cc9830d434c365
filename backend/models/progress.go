package models

import (
	"time"

	"github.com/google/uuid"
)

type ProgressStatus string

const (
	StatusNotStarted ProgressStatus = "not_started"
	StatusInProgress ProgressStatus = "in_progress"
	StatusCompleted  ProgressStatus = "completed"
)

// Progress is the per-user, per-lesson completion record.
type Progress struct {
	Model
	UserID             uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_lesson" json:"userId"`
	LessonID           uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_lesson" json:"lessonId"`
	CourseID           uuid.UUID      `gorm:"type:uuid;not null;index" json:"courseId"`
	Status             ProgressStatus `gorm:"not null;default:'not_started'" json:"status"`
	ProgressPercentage int            `gorm:"not null;default:0" json:"progressPercentage"`
	TimeSpent          int            `gorm:"not null;default:0" json:"timeSpent"` // minutes
	LastAccessed       *time.Time     `json:"lastAccessed,omitempty"`
	CompletedAt        *time.Time     `json:"completedAt,omitempty"`
	Notes              string         `gorm:"type:text" json:"notes,omitempty"`

	Lesson *Lesson `gorm:"foreignKey:LessonID" json:"lesson,omitempty"`
	Course *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (Progress) TableName() string { return "user_progress" }

type CourseProgressSummary struct {
	Records              []Progress `json:"progress"`
	TotalLessons         int        `json:"totalLessons"`
	CompletedLessons     int        `json:"completedLessons"`
	CompletionPercentage int        `json:"completionPercentage"`
	TotalTimeSpent       int        `json:"totalTimeSpent"`
}

type UserStats struct {
	Level             int `json:"level"`
	TotalXP           int `json:"totalXp"`
	XPToNextLevel     int `json:"xpToNextLevel"`
	StreakCount       int `json:"streakCount"`
	LessonsCompleted  int `json:"lessonsCompleted"`
	CoursesEnrolled   int `json:"coursesEnrolled"`
	TotalLearningTime int `json:"totalLearningTime"`
}

type Dashboard struct {
	User          *User      `json:"user"`
	RecentLessons []Progress `json:"recentLessons"`
	Stats         UserStats  `json:"stats"`
}
