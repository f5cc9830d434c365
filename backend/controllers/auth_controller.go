package controllers

import (
	"log"

	"engilearn/backend/config"
	"engilearn/backend/middleware"
	"engilearn/backend/models"
	"engilearn/backend/services"
	"engilearn/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthController struct {
	Accounts     *services.AccountService
	Gamification *services.GamificationService
	Cfg          *config.Config
	Logger       *log.Logger
}

func NewAuthController(accounts *services.AccountService, gamification *services.GamificationService, cfg *config.Config, logger *log.Logger) *AuthController {
	return &AuthController{
		Accounts:     accounts,
		Gamification: gamification,
		Cfg:          cfg,
		Logger:       logger,
	}
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register godoc
// @Summary Register a new user
// @Description Creates a new user account and returns a JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param user body services.RegisterInput true "User registration data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /auth/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input services.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.FromError(c, ac.Logger, err)
	}

	user, err := ac.Accounts.Register(c.UserContext(), input)
	if err != nil {
		return utils.FromError(c, ac.Logger, err)
	}

	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return utils.FromError(c, ac.Logger, err)
	}

	return utils.Created(c, authResponse{Token: token, User: user})
}

// Login godoc
// @Summary User login
// @Description Authenticates the user, advances the daily streak and returns a JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.LoginInput true "Login credentials"
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input services.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.FromError(c, ac.Logger, err)
	}

	user, err := ac.Accounts.Authenticate(c.UserContext(), input)
	if err != nil {
		return utils.FromError(c, ac.Logger, err)
	}

	// Вход в систему продлевает серию дней
	if _, err := ac.Gamification.UpdateStreak(c.UserContext(), user.ID); err != nil {
		return utils.FromError(c, ac.Logger, err)
	}
	user, err = ac.Accounts.Profile(c.UserContext(), user.ID)
	if err != nil {
		return utils.FromError(c, ac.Logger, err)
	}

	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return utils.FromError(c, ac.Logger, err)
	}

	return utils.Success(c, fiber.StatusOK, authResponse{Token: token, User: user})
}

// currentUser returns the caller set by AuthMiddleware.
func currentUser(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return id, nil
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}

func optionalUser(c *fiber.Ctx) *uuid.UUID {
	if id, ok := middleware.UserID(c); ok {
		return &id
	}
	return nil
}
