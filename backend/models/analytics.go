package models

import "github.com/google/uuid"

// StudentProgress is one row of a course analytics report.
type StudentProgress struct {
	UserID           uuid.UUID `json:"userId"`
	Username         string    `json:"username"`
	LessonsCompleted int       `json:"lessonsCompleted"`
	TimeSpent        int       `json:"timeSpent"`
	CompletionRate   int       `json:"completionRate"`
}

// CourseAnalytics summarizes how enrolled students progress through a course.
type CourseAnalytics struct {
	CourseID          uuid.UUID         `json:"courseId"`
	TotalLessons      int               `json:"totalLessons"`
	Students          []StudentProgress `json:"students"`
	AvgCompletionRate float64           `json:"avgCompletionRate"`
}
