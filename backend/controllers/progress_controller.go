package controllers

import (
	"log"

	"engilearn/backend/services"
	"engilearn/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ProgressController struct {
	Progress *services.ProgressService
	Logger   *log.Logger
}

func NewProgressController(progress *services.ProgressService, logger *log.Logger) *ProgressController {
	return &ProgressController{Progress: progress, Logger: logger}
}

type updateProgressRequest struct {
	CourseID           *uuid.UUID `json:"courseId"`
	ProgressPercentage *int       `json:"progressPercentage"`
	TimeSpent          *int       `json:"timeSpent"`
	Notes              *string    `json:"notes"`
}

// GetDashboard godoc
// @Summary Get dashboard
// @Description Returns the user, recently accessed lessons and gamification stats
// @Tags progress
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress/dashboard [get]
func (pc *ProgressController) GetDashboard(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return utils.FromError(c, pc.Logger, err)
	}

	dashboard, err := pc.Progress.Dashboard(c.UserContext(), userID)
	if err != nil {
		return utils.FromError(c, pc.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, dashboard)
}

// GetStats godoc
// @Summary Get user stats
// @Description Level, XP, streak and learning totals
// @Tags progress
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress/stats [get]
func (pc *ProgressController) GetStats(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return utils.FromError(c, pc.Logger, err)
	}

	stats, err := pc.Progress.UserStatsSummary(c.UserContext(), userID)
	if err != nil {
		return utils.FromError(c, pc.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, stats)
}

// GetLessonProgress godoc
// @Summary Get lesson progress
// @Description Returns null data when the lesson was never opened
// @Tags progress
// @Produce json
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /progress/lesson/{lessonId} [get]
func (pc *ProgressController) GetLessonProgress(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return utils.FromError(c, pc.Logger, err)
	}
	lessonID, err := paramUUID(c, "lessonId")
	if err != nil {
		return utils.FromError(c, pc.Logger, err)
	}

	progress, err := pc.Progress.GetLessonProgress(c.UserContext(), userID, lessonID)
	if err != nil {
		return utils.FromError(c, pc.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, progress)
}

// UpdateLessonProgress godoc
// @Summary Update lesson progress
// @Description Sets the percentage, adds time spent and completes the lesson at 100%
// @Tags progress
// @Accept json
// @Produce json
// @Param lessonId path string true "Lesson ID"
// @Param input body updateProgressRequest true "Progress update"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress/lesson/{lessonId} [post]
func (pc *ProgressController) UpdateLessonProgress(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return utils.FromError(c, pc.Logger, err)
	}
	lessonID, err := paramUUID(c, "lessonId")
	if err != nil {
		return utils.FromError(c, pc.Logger, err)
	}

	var req updateProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	progress, err := pc.Progress.UpdateProgress(c.UserContext(), services.UpdateProgressInput{
		UserID:             userID,
		LessonID:           lessonID,
		CourseID:           req.CourseID,
		ProgressPercentage: req.ProgressPercentage,
		TimeSpentDelta:     req.TimeSpent,
		Notes:              req.Notes,
	})
	if err != nil {
		return utils.FromError(c, pc.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, progress)
}

// GetCourseProgress godoc
// @Summary Get course progress
// @Description Per-lesson records plus completion totals for one course
// @Tags progress
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress/course/{courseId} [get]
func (pc *ProgressController) GetCourseProgress(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return utils.FromError(c, pc.Logger, err)
	}
	courseID, err := paramUUID(c, "courseId")
	if err != nil {
		return utils.FromError(c, pc.Logger, err)
	}

	summary, err := pc.Progress.CourseProgressSummary(c.UserContext(), userID, courseID)
	if err != nil {
		return utils.FromError(c, pc.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, summary)
}
