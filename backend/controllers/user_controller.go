package controllers

import (
	"log"

	"engilearn/backend/models"
	"engilearn/backend/services"
	"engilearn/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	Accounts *services.AccountService
	Progress *services.ProgressService
	Logger   *log.Logger
}

func NewUserController(accounts *services.AccountService, progress *services.ProgressService, logger *log.Logger) *UserController {
	return &UserController{Accounts: accounts, Progress: progress, Logger: logger}
}

type profileResponse struct {
	User  *models.User      `json:"user"`
	Stats *models.UserStats `json:"stats"`
}

// GetProfile godoc
// @Summary Get user profile
// @Description Returns authenticated user's profile data and gamification stats
// @Tags users
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /auth/profile [get]
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return utils.FromError(c, uc.Logger, err)
	}

	user, err := uc.Accounts.Profile(c.UserContext(), userID)
	if err != nil {
		return utils.FromError(c, uc.Logger, err)
	}
	stats, err := uc.Progress.UserStatsSummary(c.UserContext(), userID)
	if err != nil {
		return utils.FromError(c, uc.Logger, err)
	}

	return utils.Success(c, fiber.StatusOK, profileResponse{User: user, Stats: stats})
}

// UpdateProfile godoc
// @Summary Update user profile
// @Description Updates username, avatar and bio of the authenticated user
// @Tags users
// @Accept json
// @Produce json
// @Param input body services.UpdateProfileInput true "Profile update data"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /auth/profile [put]
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return utils.FromError(c, uc.Logger, err)
	}

	var input services.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.FromError(c, uc.Logger, err)
	}

	user, err := uc.Accounts.UpdateProfile(c.UserContext(), userID, input)
	if err != nil {
		return utils.FromError(c, uc.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, user)
}
