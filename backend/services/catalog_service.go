package services

import (
	"context"
	"errors"
	"math"
	"strings"

	"engilearn/backend/apperrors"
	"engilearn/backend/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogService reads and maintains courses and lessons. Progress code only
// reads from it.
type CatalogService struct {
	db *gorm.DB
	options
}

func NewCatalogService(db *gorm.DB, opts ...Option) *CatalogService {
	return &CatalogService{db: db, options: newOptions(opts)}
}

type CourseFilter struct {
	Category   string
	Difficulty string
	Search     string
	Page       int
	Limit      int
	// UserID, when set, fills in enrollment flags.
	UserID *uuid.UUID
}

type CourseListItem struct {
	models.Course
	IsEnrolled       bool                  `json:"isEnrolled"`
	EnrollmentStatus models.ProgressStatus `json:"enrollmentStatus,omitempty"`
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

type CoursePage struct {
	Courses    []CourseListItem `json:"courses"`
	Pagination Pagination       `json:"pagination"`
}

type CourseDetail struct {
	*models.Course
	IsEnrolled       bool `json:"isEnrolled"`
	Progress         int  `json:"progress"`
	CompletedLessons int  `json:"completedLessons"`
	TotalLessons     int  `json:"totalLessons"`
}

type CreateCourseInput struct {
	Title          string  `json:"title" validate:"required,max=255"`
	Description    string  `json:"description" validate:"required"`
	Difficulty     string  `json:"difficulty" validate:"required,oneof=beginner intermediate advanced"`
	Category       string  `json:"category" validate:"required,max=50"`
	EstimatedHours float64 `json:"estimatedHours" validate:"gte=0"`
	ModuleCount    int     `json:"moduleCount" validate:"gte=0"`
	CoverImage     string  `json:"coverImage" validate:"omitempty,url,max=500"`
}

type AddLessonInput struct {
	OrderNumber int            `json:"orderNumber" validate:"required,gte=1"`
	Title       string         `json:"title" validate:"required,max=255"`
	Duration    int            `json:"duration" validate:"required,gte=1"`
	Content     datatypes.JSON `json:"content"`
	VideoURL    string         `json:"videoUrl" validate:"omitempty,url,max=500"`
	XPReward    *int           `json:"xpReward" validate:"omitempty,gte=0"`
	LessonType  string         `json:"lessonType" validate:"required,oneof=video reading quiz lab"`
}

// lookupLesson is the catalog lookup used inside progress transactions. A missing
// lesson is reported through found=false, not as an error.
func lookupLesson(db *gorm.DB, lessonID uuid.UUID) (*models.Lesson, bool, error) {
	var lesson models.Lesson
	err := db.First(&lesson, "id = ?", lessonID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &lesson, true, nil
}

func (s *CatalogService) FindLesson(ctx context.Context, lessonID uuid.UUID) (*models.Lesson, bool, error) {
	lesson, found, err := lookupLesson(s.db.WithContext(ctx), lessonID)
	if err != nil {
		return nil, false, apperrors.FromDB(err, "lesson")
	}
	return lesson, found, nil
}

func (s *CatalogService) ListCourses(ctx context.Context, f CourseFilter) (*CoursePage, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 12
	}

	db := s.db.WithContext(ctx)
	query := db.Model(&models.Course{}).Where("is_published = ?", true)
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.Difficulty != "" {
		query = query.Where("difficulty = ?", f.Difficulty)
	}
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		query = query.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", like, like)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.FromDB(err, "courses")
	}

	var courses []models.Course
	err := query.
		Preload("Instructor", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "username", "avatar_url")
		}).
		Order("created_at DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&courses).Error
	if err != nil {
		return nil, apperrors.FromDB(err, "courses")
	}

	enrolled := map[uuid.UUID]models.ProgressStatus{}
	if f.UserID != nil && len(courses) > 0 {
		ids := make([]uuid.UUID, len(courses))
		for i, c := range courses {
			ids[i] = c.ID
		}
		var rows []models.Progress
		if err := db.Select("course_id", "status").
			Where("user_id = ? AND course_id IN ?", *f.UserID, ids).
			Find(&rows).Error; err != nil {
			return nil, apperrors.FromDB(err, "progress")
		}
		for _, r := range rows {
			enrolled[r.CourseID] = r.Status
		}
	}

	items := make([]CourseListItem, len(courses))
	for i, c := range courses {
		status, ok := enrolled[c.ID]
		items[i] = CourseListItem{Course: c, IsEnrolled: ok, EnrollmentStatus: status}
	}

	return &CoursePage{
		Courses: items,
		Pagination: Pagination{
			Total: total,
			Page:  f.Page,
			Limit: f.Limit,
			Pages: int(math.Ceil(float64(total) / float64(f.Limit))),
		},
	}, nil
}

// GetCourse returns the course with its ordered lessons and, when userID is set,
// the caller's completion rollup.
func (s *CatalogService) GetCourse(ctx context.Context, courseID uuid.UUID, userID *uuid.UUID) (*CourseDetail, error) {
	db := s.db.WithContext(ctx)

	var course models.Course
	err := db.
		Preload("Instructor", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "username", "avatar_url")
		}).
		Preload("Lessons", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("order_number ASC")
		}).
		First(&course, "id = ?", courseID).Error
	if err != nil {
		return nil, apperrors.FromDB(err, "course")
	}

	detail := &CourseDetail{Course: &course, TotalLessons: len(course.Lessons)}
	if userID == nil {
		return detail, nil
	}

	var rows []models.Progress
	if err := db.Select("status").Where("user_id = ? AND course_id = ?", *userID, courseID).Find(&rows).Error; err != nil {
		return nil, apperrors.FromDB(err, "progress")
	}
	for _, r := range rows {
		if r.Status == models.StatusCompleted {
			detail.CompletedLessons++
		}
	}
	detail.IsEnrolled = len(rows) > 0
	detail.Progress = completionPercentage(detail.CompletedLessons, detail.TotalLessons)
	return detail, nil
}

func (s *CatalogService) CreateCourse(ctx context.Context, instructorID uuid.UUID, in CreateCourseInput) (*models.Course, error) {
	course := &models.Course{
		Title:          in.Title,
		Description:    in.Description,
		Difficulty:     in.Difficulty,
		Category:       in.Category,
		EstimatedHours: in.EstimatedHours,
		ModuleCount:    in.ModuleCount,
		CoverImage:     in.CoverImage,
		InstructorID:   instructorID,
		IsPublished:    true,
	}
	if err := s.db.WithContext(ctx).Create(course).Error; err != nil {
		return nil, apperrors.FromDB(err, "course")
	}
	s.logger.Printf("Course %s created by %s", course.ID, instructorID)
	return course, nil
}

// AddLesson appends a lesson to a course. Only the course instructor may do this.
func (s *CatalogService) AddLesson(ctx context.Context, userID, courseID uuid.UUID, in AddLessonInput) (*models.Lesson, error) {
	db := s.db.WithContext(ctx)

	var course models.Course
	if err := db.Select("id", "instructor_id").First(&course, "id = ?", courseID).Error; err != nil {
		return nil, apperrors.FromDB(err, "course")
	}
	if course.InstructorID != userID {
		return nil, apperrors.Forbidden("only the course instructor can add lessons")
	}

	// Omitted means the configured default; an explicit 0 is kept.
	xp := s.rewards.LessonComplete
	if in.XPReward != nil {
		xp = *in.XPReward
	}
	lesson := &models.Lesson{
		CourseID:    courseID,
		OrderNumber: in.OrderNumber,
		Title:       in.Title,
		Duration:    in.Duration,
		Content:     in.Content,
		VideoURL:    in.VideoURL,
		XPReward:    xp,
		LessonType:  in.LessonType,
	}
	if err := db.Create(lesson).Error; err != nil {
		return nil, apperrors.FromDB(err, "lesson")
	}
	return lesson, nil
}

// Enroll registers the user in a course by creating a not_started progress row
// for its first lesson and bumping the course's student count.
func (s *CatalogService) Enroll(ctx context.Context, userID, courseID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course models.Course
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&course, "id = ?", courseID).Error; err != nil {
			return apperrors.FromDB(err, "course")
		}

		var existing int64
		if err := tx.Model(&models.Progress{}).Where("user_id = ? AND course_id = ?", userID, courseID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return apperrors.Conflict("already enrolled in this course")
		}

		var first models.Lesson
		err := tx.Where("course_id = ?", courseID).Order("order_number ASC").First(&first).Error
		switch {
		case err == nil:
			row := models.Progress{
				UserID:   userID,
				LessonID: first.ID,
				CourseID: courseID,
				Status:   models.StatusNotStarted,
			}
			if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
				return err
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		return tx.Model(&course).UpdateColumn("student_count", gorm.Expr("student_count + ?", 1)).Error
	})
	if err != nil {
		return apperrors.FromDB(err, "course")
	}
	s.logger.Printf("User %s enrolled in course %s", userID, courseID)
	return nil
}

// completionPercentage rounds completed/total to a whole percent; 0 when the
// course has no lessons.
func completionPercentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
