package controllers

import (
	"log"

	"engilearn/backend/middleware"
	"engilearn/backend/services"
	"engilearn/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type CoursesController struct {
	Catalog *services.CatalogService
	Logger  *log.Logger
}

func NewCoursesController(catalog *services.CatalogService, logger *log.Logger) *CoursesController {
	return &CoursesController{Catalog: catalog, Logger: logger}
}

// ListCourses godoc
// @Summary List published courses
// @Description Filters by category, difficulty and search text; marks courses the caller is enrolled in
// @Tags courses
// @Produce json
// @Param category query string false "Category"
// @Param difficulty query string false "beginner, intermediate or advanced"
// @Param search query string false "Search in title and description"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} utils.SuccessResponse
// @Router /courses [get]
func (cc *CoursesController) ListCourses(c *fiber.Ctx) error {
	filter := services.CourseFilter{
		Category:   c.Query("category"),
		Difficulty: c.Query("difficulty"),
		Search:     c.Query("search"),
		Page:       c.QueryInt("page", 1),
		Limit:      c.QueryInt("limit", 12),
	}
	if userID, ok := middleware.UserID(c); ok {
		filter.UserID = &userID
	}

	page, err := cc.Catalog.ListCourses(c.UserContext(), filter)
	if err != nil {
		return utils.FromError(c, cc.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, page.Courses, page.Pagination)
}

// GetCourse godoc
// @Summary Get course details
// @Description Returns the course with ordered lessons and the caller's progress
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /courses/{id} [get]
func (cc *CoursesController) GetCourse(c *fiber.Ctx) error {
	courseID, err := paramUUID(c, "id")
	if err != nil {
		return utils.FromError(c, cc.Logger, err)
	}

	detail, err := cc.Catalog.GetCourse(c.UserContext(), courseID, optionalUser(c))
	if err != nil {
		return utils.FromError(c, cc.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, detail)
}

// CreateCourse godoc
// @Summary Create a course
// @Description The caller becomes the course instructor
// @Tags courses
// @Accept json
// @Produce json
// @Param course body services.CreateCourseInput true "Course data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses [post]
func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return utils.FromError(c, cc.Logger, err)
	}

	var input services.CreateCourseInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.FromError(c, cc.Logger, err)
	}

	course, err := cc.Catalog.CreateCourse(c.UserContext(), userID, input)
	if err != nil {
		return utils.FromError(c, cc.Logger, err)
	}
	return utils.Created(c, course)
}

// AddLesson godoc
// @Summary Add a lesson to a course
// @Description Only the course instructor may add lessons
// @Tags courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param lesson body services.AddLessonInput true "Lesson data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/lessons [post]
func (cc *CoursesController) AddLesson(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return utils.FromError(c, cc.Logger, err)
	}
	courseID, err := paramUUID(c, "id")
	if err != nil {
		return utils.FromError(c, cc.Logger, err)
	}

	var input services.AddLessonInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.FromError(c, cc.Logger, err)
	}

	lesson, err := cc.Catalog.AddLesson(c.UserContext(), userID, courseID, input)
	if err != nil {
		return utils.FromError(c, cc.Logger, err)
	}
	return utils.Created(c, lesson)
}

// Enroll godoc
// @Summary Enroll in a course
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/enroll [post]
func (cc *CoursesController) Enroll(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return utils.FromError(c, cc.Logger, err)
	}
	courseID, err := paramUUID(c, "id")
	if err != nil {
		return utils.FromError(c, cc.Logger, err)
	}

	if err := cc.Catalog.Enroll(c.UserContext(), userID, courseID); err != nil {
		return utils.FromError(c, cc.Logger, err)
	}
	return c.JSON(utils.SuccessResponse{Success: true, Message: "Successfully enrolled in course"})
}
