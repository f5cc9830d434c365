package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Course struct {
	Model
	Title          string    `gorm:"not null" json:"title"`
	Description    string    `gorm:"type:text;not null" json:"description"`
	Difficulty     string    `gorm:"not null" json:"difficulty"` // beginner, intermediate, advanced
	Category       string    `gorm:"size:50;not null" json:"category"`
	EstimatedHours float64   `json:"estimatedHours"`
	ModuleCount    int       `json:"moduleCount"`
	CoverImage     string    `gorm:"size:500" json:"coverImage,omitempty"`
	InstructorID   uuid.UUID `gorm:"type:uuid;not null;index" json:"instructorId"`
	Instructor     *User     `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`
	IsPublished    bool      `json:"isPublished"`
	Rating         float64   `json:"rating"`
	StudentCount   int       `json:"studentCount"`
	Lessons        []Lesson  `gorm:"constraint:OnDelete:CASCADE" json:"lessons,omitempty"`
}

type Lesson struct {
	Model
	CourseID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"courseId"`
	OrderNumber int            `gorm:"not null" json:"orderNumber"`
	Title       string         `gorm:"not null" json:"title"`
	Duration    int            `gorm:"not null" json:"duration"` // minutes
	Content     datatypes.JSON `json:"content,omitempty"`
	VideoURL    string         `gorm:"size:500" json:"videoUrl,omitempty"`
	XPReward    int            `gorm:"column:xp_reward;not null" json:"xpReward"`
	LessonType  string         `gorm:"not null" json:"lessonType"` // video, reading, quiz, lab
}

var (
	Difficulties = []string{"beginner", "intermediate", "advanced"}
	LessonTypes  = []string{"video", "reading", "quiz", "lab"}
)
