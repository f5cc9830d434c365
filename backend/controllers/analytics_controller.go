package controllers

import (
	"log"

	"engilearn/backend/services"
	"engilearn/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type AnalyticsController struct {
	Progress *services.ProgressService
	Logger   *log.Logger
}

func NewAnalyticsController(progress *services.ProgressService, logger *log.Logger) *AnalyticsController {
	return &AnalyticsController{Progress: progress, Logger: logger}
}

// GetCourseAnalytics godoc
// @Summary Course analytics
// @Description Per-student completion for a course; instructor only
// @Tags analytics
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/analytics [get]
func (ac *AnalyticsController) GetCourseAnalytics(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return utils.FromError(c, ac.Logger, err)
	}
	courseID, err := paramUUID(c, "id")
	if err != nil {
		return utils.FromError(c, ac.Logger, err)
	}

	report, err := ac.Progress.CourseAnalytics(c.UserContext(), userID, courseID)
	if err != nil {
		return utils.FromError(c, ac.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, report)
}
