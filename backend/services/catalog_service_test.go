package services

import (
	"context"
	"testing"

	"engilearn/backend/apperrors"
	"engilearn/backend/database"
	"engilearn/backend/gamification"
	"engilearn/backend/models"
	"engilearn/backend/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type CatalogServiceSuite struct {
	suite.Suite
	conn    *database.Connection
	catalog *CatalogService
	ctx     context.Context
}

func TestCatalogServiceSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceSuite))
}

func (s *CatalogServiceSuite) SetupTest() {
	s.conn = testutil.NewConnection(s.T())
	s.catalog = NewCatalogService(s.conn.DB)
	s.ctx = context.Background()
}

func (s *CatalogServiceSuite) createCourse(instructorID uuid.UUID, title, category string) *models.Course {
	course, err := s.catalog.CreateCourse(s.ctx, instructorID, CreateCourseInput{
		Title:       title,
		Description: "About " + title,
		Difficulty:  "beginner",
		Category:    category,
	})
	s.Require().NoError(err)
	return course
}

func (s *CatalogServiceSuite) TestEnroll() {
	user := testutil.CreateUser(s.T(), s.conn, 0, 0, nil)
	course := testutil.CreateCourse(s.T(), s.conn, user.ID, 3, 50)

	s.Require().NoError(s.catalog.Enroll(s.ctx, user.ID, course.ID))

	var rows []models.Progress
	s.Require().NoError(s.conn.DB.Where("user_id = ?", user.ID).Find(&rows).Error)
	s.Require().Len(rows, 1)
	s.Equal(models.StatusNotStarted, rows[0].Status)
	s.Equal(course.ID, rows[0].CourseID)
	// Lessons[2] carries order number 1.
	s.Equal(course.Lessons[2].ID, rows[0].LessonID)

	var reloaded models.Course
	s.Require().NoError(s.conn.DB.First(&reloaded, "id = ?", course.ID).Error)
	s.Equal(1, reloaded.StudentCount)

	s.Run("enrolling twice conflicts", func() {
		err := s.catalog.Enroll(s.ctx, user.ID, course.ID)
		s.ErrorIs(err, apperrors.ErrConflict)
	})

	s.Run("unknown course", func() {
		err := s.catalog.Enroll(s.ctx, user.ID, uuid.New())
		s.ErrorIs(err, apperrors.ErrNotFound)
	})
}

func (s *CatalogServiceSuite) TestListCourses() {
	instructor := testutil.CreateUser(s.T(), s.conn, 0, 0, nil)
	student := testutil.CreateUser(s.T(), s.conn, 0, 0, nil)

	goBasics := s.createCourse(instructor.ID, "Go Basics", "programming")
	s.createCourse(instructor.ID, "Advanced Go", "programming")
	s.createCourse(instructor.ID, "Watercolor", "art")

	draft := &models.Course{Title: "Go Draft", Description: "hidden", Difficulty: "beginner", Category: "programming", InstructorID: instructor.ID}
	s.Require().NoError(s.conn.DB.Create(draft).Error)
	s.Require().NoError(s.conn.DB.Model(draft).Update("is_published", false).Error)

	s.Run("search is case insensitive and skips drafts", func() {
		page, err := s.catalog.ListCourses(s.ctx, CourseFilter{Search: "GO"})
		s.Require().NoError(err)
		s.Equal(int64(2), page.Pagination.Total)
		s.Len(page.Courses, 2)
	})

	s.Run("category filter", func() {
		page, err := s.catalog.ListCourses(s.ctx, CourseFilter{Category: "art"})
		s.Require().NoError(err)
		s.Require().Len(page.Courses, 1)
		s.Equal("Watercolor", page.Courses[0].Title)
	})

	s.Run("pagination", func() {
		page, err := s.catalog.ListCourses(s.ctx, CourseFilter{Page: 2, Limit: 2})
		s.Require().NoError(err)
		s.Equal(int64(3), page.Pagination.Total)
		s.Equal(2, page.Pagination.Pages)
		s.Len(page.Courses, 1)
	})

	s.Run("enrollment flags for the caller", func() {
		s.Require().NoError(s.catalog.Enroll(s.ctx, student.ID, goBasics.ID))

		page, err := s.catalog.ListCourses(s.ctx, CourseFilter{Category: "programming", UserID: &student.ID})
		s.Require().NoError(err)
		s.Require().Len(page.Courses, 2)
		for _, c := range page.Courses {
			s.Equal(c.ID == goBasics.ID, c.IsEnrolled, c.Title)
		}
	})
}

func (s *CatalogServiceSuite) TestGetCourse() {
	user := testutil.CreateUser(s.T(), s.conn, 0, 0, nil)
	course := testutil.CreateCourse(s.T(), s.conn, user.ID, 3, 50)
	progress := NewProgressService(s.conn.DB)

	_, err := progress.UpdateProgress(s.ctx, UpdateProgressInput{
		UserID:             user.ID,
		LessonID:           course.Lessons[0].ID,
		ProgressPercentage: intPtr(100),
	})
	s.Require().NoError(err)

	s.Run("anonymous", func() {
		detail, err := s.catalog.GetCourse(s.ctx, course.ID, nil)
		s.Require().NoError(err)
		s.Equal(3, detail.TotalLessons)
		s.False(detail.IsEnrolled)
		for i, l := range detail.Lessons {
			s.Equal(i+1, l.OrderNumber)
		}
	})

	s.Run("with caller progress", func() {
		detail, err := s.catalog.GetCourse(s.ctx, course.ID, &user.ID)
		s.Require().NoError(err)
		s.True(detail.IsEnrolled)
		s.Equal(1, detail.CompletedLessons)
		s.Equal(33, detail.Progress)
	})

	s.Run("unknown course", func() {
		_, err := s.catalog.GetCourse(s.ctx, uuid.New(), nil)
		s.ErrorIs(err, apperrors.ErrNotFound)
	})
}

func (s *CatalogServiceSuite) TestAddLesson() {
	instructor := testutil.CreateUser(s.T(), s.conn, 0, 0, nil)
	other := testutil.CreateUser(s.T(), s.conn, 0, 0, nil)
	course := s.createCourse(instructor.ID, "Rust", "programming")

	in := AddLessonInput{OrderNumber: 1, Title: "Ownership", Duration: 20, LessonType: "reading"}

	s.Run("other users are forbidden", func() {
		_, err := s.catalog.AddLesson(s.ctx, other.ID, course.ID, in)
		s.ErrorIs(err, apperrors.ErrForbidden)
	})

	s.Run("omitted reward falls back to the default", func() {
		lesson, err := s.catalog.AddLesson(s.ctx, instructor.ID, course.ID, in)
		s.Require().NoError(err)
		s.Equal(gamification.DefaultRewards().LessonComplete, lesson.XPReward)

		found, ok, err := s.catalog.FindLesson(s.ctx, lesson.ID)
		s.Require().NoError(err)
		s.True(ok)
		s.Equal("Ownership", found.Title)
	})

	s.Run("explicit zero reward is kept", func() {
		zero := in
		zero.OrderNumber = 2
		zero.XPReward = intPtr(0)
		lesson, err := s.catalog.AddLesson(s.ctx, instructor.ID, course.ID, zero)
		s.Require().NoError(err)
		s.Equal(0, lesson.XPReward)

		found, ok, err := s.catalog.FindLesson(s.ctx, lesson.ID)
		s.Require().NoError(err)
		s.True(ok)
		s.Equal(0, found.XPReward)
	})

	s.Run("explicit reward is kept", func() {
		custom := in
		custom.OrderNumber = 3
		custom.XPReward = intPtr(120)
		lesson, err := s.catalog.AddLesson(s.ctx, instructor.ID, course.ID, custom)
		s.Require().NoError(err)
		s.Equal(120, lesson.XPReward)
	})

	s.Run("unknown lesson is reported as absent", func() {
		lesson, ok, err := s.catalog.FindLesson(s.ctx, uuid.New())
		s.NoError(err)
		s.False(ok)
		s.Nil(lesson)
	})

	s.Run("unknown course", func() {
		_, err := s.catalog.AddLesson(s.ctx, instructor.ID, uuid.New(), in)
		s.ErrorIs(err, apperrors.ErrNotFound)
	})
}

func (s *CatalogServiceSuite) TestCompletionPercentage() {
	s.Equal(0, completionPercentage(0, 0))
	s.Equal(50, completionPercentage(2, 4))
	s.Equal(67, completionPercentage(2, 3))
	s.Equal(100, completionPercentage(5, 5))
}
