package services

import (
	"context"
	"errors"

	"engilearn/backend/apperrors"
	"engilearn/backend/gamification"
	"engilearn/backend/models"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const recentLessonsLimit = 5

// ProgressService owns the per-lesson progress lifecycle and the rollups built
// from progress rows.
type ProgressService struct {
	db    *gorm.DB
	loads singleflight.Group
	options
}

func NewProgressService(db *gorm.DB, opts ...Option) *ProgressService {
	return &ProgressService{db: db, options: newOptions(opts)}
}

// UpdateProgressInput carries a progress submission. Nil pointers mean "not
// provided"; a non-nil empty Notes clears the stored notes.
type UpdateProgressInput struct {
	UserID             uuid.UUID
	LessonID           uuid.UUID
	CourseID           *uuid.UUID
	ProgressPercentage *int
	TimeSpentDelta     *int
	Notes              *string
}

func (in UpdateProgressInput) validate() error {
	fields := map[string]string{}
	if p := in.ProgressPercentage; p != nil && (*p < 0 || *p > 100) {
		fields["progressPercentage"] = "must be between 0 and 100"
	}
	if d := in.TimeSpentDelta; d != nil && *d < 0 {
		fields["timeSpent"] = "must not be negative"
	}
	if len(fields) > 0 {
		return &apperrors.ValidationError{Fields: fields}
	}
	return nil
}

// UpdateProgress records a progress submission for (user, lesson). The first
// submission that reaches 100% completes the lesson and awards its XP; later
// submissions never award again.
func (s *ProgressService) UpdateProgress(ctx context.Context, in UpdateProgressInput) (*models.Progress, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	now := s.now()

	var (
		progress  models.Progress
		completed bool
		awarded   int
		user      *models.User
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Locking the user first serializes every mutation for that user.
		u, err := lockUser(tx, in.UserID)
		if err != nil {
			return apperrors.FromDB(err, "user")
		}
		user = u

		lesson, lessonFound, err := lookupLesson(tx, in.LessonID)
		if err != nil {
			return err
		}

		if err := s.findOrCreate(tx, &progress, in, lesson); err != nil {
			return err
		}

		if in.ProgressPercentage != nil {
			progress.ProgressPercentage = *in.ProgressPercentage
		}
		if in.TimeSpentDelta != nil {
			progress.TimeSpent += *in.TimeSpentDelta
		}
		progress.LastAccessed = &now
		if in.Notes != nil {
			progress.Notes = *in.Notes
		}

		if progress.ProgressPercentage >= 100 && progress.Status != models.StatusCompleted {
			progress.Status = models.StatusCompleted
			progress.CompletedAt = &now
			completed = true

			if lessonFound {
				if err := applyXP(tx, user, lesson.XPReward); err != nil {
					return err
				}
				awarded = lesson.XPReward
			} else {
				s.logger.Printf("Lesson %s not found, skipping XP award for user %s", in.LessonID, in.UserID)
			}
		} else if progress.ProgressPercentage > 0 && progress.Status == models.StatusNotStarted {
			progress.Status = models.StatusInProgress
		}

		return tx.Omit(clause.Associations).Save(&progress).Error
	})
	if err != nil {
		return nil, apperrors.FromDB(err, "progress")
	}

	if completed {
		s.metrics.IncrementLessonsCompleted()
		s.logger.Printf("User %s completed lesson %s", in.UserID, in.LessonID)
	}
	if awarded > 0 {
		s.metrics.AddXP("lesson_complete", awarded)
		s.logger.Printf("Awarded %d XP to user %s. Total XP: %d, Level: %d", awarded, in.UserID, user.TotalXP, user.Level)
	}
	s.invalidateStats(ctx, in.UserID)
	return &progress, nil
}

// findOrCreate loads the (user, lesson) row for update, inserting a not_started
// row first when none exists. The insert ignores conflicts so two racing first
// submissions end up on the same row.
func (s *ProgressService) findOrCreate(tx *gorm.DB, progress *models.Progress, in UpdateProgressInput, lesson *models.Lesson) error {
	find := func() error {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND lesson_id = ?", in.UserID, in.LessonID).
			First(progress).Error
	}

	err := find()
	if err == nil || !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	courseID := uuid.Nil
	switch {
	case in.CourseID != nil:
		courseID = *in.CourseID
	case lesson != nil:
		courseID = lesson.CourseID
	}
	if courseID == uuid.Nil {
		return apperrors.Invalid("courseId", "required when the lesson is not in the catalog")
	}

	row := models.Progress{
		UserID:   in.UserID,
		LessonID: in.LessonID,
		CourseID: courseID,
		Status:   models.StatusNotStarted,
	}
	if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return err
	}
	return find()
}

// GetLessonProgress returns the record for (user, lesson), or nil if the user has
// not touched the lesson.
func (s *ProgressService) GetLessonProgress(ctx context.Context, userID, lessonID uuid.UUID) (*models.Progress, error) {
	var progress models.Progress
	err := s.db.WithContext(ctx).Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.FromDB(err, "progress")
	}
	return &progress, nil
}

func (s *ProgressService) CourseProgressSummary(ctx context.Context, userID, courseID uuid.UUID) (*models.CourseProgressSummary, error) {
	db := s.db.WithContext(ctx)

	var course models.Course
	if err := db.Select("id").First(&course, "id = ?", courseID).Error; err != nil {
		return nil, apperrors.FromDB(err, "course")
	}

	var records []models.Progress
	err := db.Joins("Lesson").
		Where("user_progress.user_id = ? AND user_progress.course_id = ?", userID, courseID).
		Order(clause.OrderByColumn{Column: clause.Column{Table: "Lesson", Name: "order_number"}}).
		Find(&records).Error
	if err != nil {
		return nil, apperrors.FromDB(err, "progress")
	}

	var totalLessons int64
	if err := db.Model(&models.Lesson{}).Where("course_id = ?", courseID).Count(&totalLessons).Error; err != nil {
		return nil, apperrors.FromDB(err, "lessons")
	}

	summary := &models.CourseProgressSummary{
		Records:      records,
		TotalLessons: int(totalLessons),
	}
	for _, r := range records {
		if r.Status == models.StatusCompleted {
			summary.CompletedLessons++
		}
		summary.TotalTimeSpent += r.TimeSpent
	}
	summary.CompletionPercentage = completionPercentage(summary.CompletedLessons, summary.TotalLessons)
	return summary, nil
}

// UserStatsSummary returns the gamification stats for a user, from the cache
// when possible. Concurrent misses for one user share a single load, which runs
// detached from any one caller's cancellation.
func (s *ProgressService) UserStatsSummary(ctx context.Context, userID uuid.UUID) (*models.UserStats, error) {
	if s.stats != nil {
		stats, ok, err := s.stats.Get(ctx, userID)
		switch {
		case err != nil:
			s.metrics.IncrementCacheLookup("error")
			s.logger.Printf("Stats cache read failed for user %s: %v", userID, err)
		case ok:
			s.metrics.IncrementCacheLookup("hit")
			return stats, nil
		default:
			s.metrics.IncrementCacheLookup("miss")
		}
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := s.loads.DoChan(userID.String(), func() (any, error) {
		return s.loadAndCacheStats(loadCtx, userID)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		stats := *res.Val.(*models.UserStats)
		return &stats, nil
	}
}

// loadAndCacheStats reads the cache generation before touching the database so
// that a snapshot taken before a concurrent XP change is never cached.
func (s *ProgressService) loadAndCacheStats(ctx context.Context, userID uuid.UUID) (*models.UserStats, error) {
	if s.stats == nil {
		return s.loadStats(ctx, userID)
	}

	gen, genErr := s.stats.Generation(ctx, userID)
	if genErr != nil {
		s.logger.Printf("Stats cache generation read failed for user %s: %v", userID, genErr)
	}
	stats, err := s.loadStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	if genErr != nil {
		return stats, nil
	}
	stored, err := s.stats.Set(ctx, userID, gen, stats)
	switch {
	case err != nil:
		s.logger.Printf("Stats cache write failed for user %s: %v", userID, err)
	case !stored:
		s.logger.Printf("Stats for user %s changed during load, not caching", userID)
	}
	return stats, nil
}

func (s *ProgressService) loadStats(ctx context.Context, userID uuid.UUID) (*models.UserStats, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, apperrors.FromDB(err, "user")
	}

	var completed, enrolled, learningTime int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return db.WithContext(gctx).Model(&models.Progress{}).
			Where("user_id = ? AND status = ?", userID, models.StatusCompleted).
			Count(&completed).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).Model(&models.Progress{}).
			Where("user_id = ?", userID).
			Distinct("course_id").
			Count(&enrolled).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).Model(&models.Progress{}).
			Where("user_id = ?", userID).
			Select("COALESCE(SUM(time_spent), 0)").
			Scan(&learningTime).Error
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.FromDB(err, "progress")
	}

	level := gamification.LevelForXP(user.TotalXP)
	return &models.UserStats{
		Level:             level,
		TotalXP:           user.TotalXP,
		XPToNextLevel:     gamification.XPToNextLevel(user.TotalXP),
		StreakCount:       user.StreakCount,
		LessonsCompleted:  int(completed),
		CoursesEnrolled:   int(enrolled),
		TotalLearningTime: int(learningTime),
	}, nil
}

// Dashboard returns the user, their most recently accessed lessons and stats.
func (s *ProgressService) Dashboard(ctx context.Context, userID uuid.UUID) (*models.Dashboard, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, apperrors.FromDB(err, "user")
	}

	var recent []models.Progress
	err := db.
		Preload("Lesson", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "title", "duration", "xp_reward")
		}).
		Preload("Course", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "title", "cover_image")
		}).
		Where("user_id = ? AND status IN ?", userID, []models.ProgressStatus{models.StatusInProgress, models.StatusCompleted}).
		Order("last_accessed DESC").
		Limit(recentLessonsLimit).
		Find(&recent).Error
	if err != nil {
		return nil, apperrors.FromDB(err, "progress")
	}

	stats, err := s.UserStatsSummary(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.Dashboard{User: &user, RecentLessons: recent, Stats: *stats}, nil
}

// CourseAnalytics reports per-student progress for a course. Only the course
// instructor may read it.
func (s *ProgressService) CourseAnalytics(ctx context.Context, requesterID, courseID uuid.UUID) (*models.CourseAnalytics, error) {
	db := s.db.WithContext(ctx)

	var course models.Course
	if err := db.Select("id", "instructor_id").First(&course, "id = ?", courseID).Error; err != nil {
		return nil, apperrors.FromDB(err, "course")
	}
	if course.InstructorID != requesterID {
		return nil, apperrors.Forbidden("only the course instructor can view analytics")
	}

	var totalLessons int64
	if err := db.Model(&models.Lesson{}).Where("course_id = ?", courseID).Count(&totalLessons).Error; err != nil {
		return nil, apperrors.FromDB(err, "lessons")
	}

	var students []models.StudentProgress
	err := db.Model(&models.Progress{}).
		Select("user_progress.user_id, users.username, "+
			"SUM(CASE WHEN user_progress.status = ? THEN 1 ELSE 0 END) AS lessons_completed, "+
			"COALESCE(SUM(user_progress.time_spent), 0) AS time_spent", models.StatusCompleted).
		Joins("JOIN users ON users.id = user_progress.user_id").
		Where("user_progress.course_id = ?", courseID).
		Group("user_progress.user_id, users.username").
		Order("lessons_completed DESC, users.username ASC").
		Scan(&students).Error
	if err != nil {
		return nil, apperrors.FromDB(err, "progress")
	}

	report := &models.CourseAnalytics{
		CourseID:     courseID,
		TotalLessons: int(totalLessons),
		Students:     students,
	}
	if len(students) == 0 {
		return report, nil
	}
	sum := 0
	for i := range report.Students {
		rate := completionPercentage(report.Students[i].LessonsCompleted, report.TotalLessons)
		report.Students[i].CompletionRate = rate
		sum += rate
	}
	report.AvgCompletionRate = float64(sum) / float64(len(students))
	return report, nil
}
