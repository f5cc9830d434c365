package utils

import (
	"errors"
	"log"
	"net/http"

	"engilearn/backend/apperrors"

	"github.com/gofiber/fiber/v2"
)

// SuccessResponse структура для успешных ответов
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// ErrorResponse структура для ошибок
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Message string      `json:"message,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// Success создает успешный JSON ответ
func Success(c *fiber.Ctx, status int, data interface{}, meta ...interface{}) error {
	response := SuccessResponse{
		Success: true,
		Data:    data,
	}

	if len(meta) > 0 {
		response.Meta = meta[0]
	}

	return c.Status(status).JSON(response)
}

// Error создает JSON ответ с ошибкой
func Error(c *fiber.Ctx, status int, err error, details ...interface{}) error {
	response := ErrorResponse{
		Success: false,
		Error:   http.StatusText(status),
	}
	if err != nil {
		response.Message = err.Error()
	}

	if len(details) > 0 {
		response.Details = details[0]
	}

	return c.Status(status).JSON(response)
}

// ValidationError создает JSON ответ для ошибок валидации
func ValidationError(c *fiber.Ctx, errors map[string]string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
		Success: false,
		Error:   "Validation Error",
		Details: errors,
	})
}

// Created отправляет ответ 201 Created
func Created(c *fiber.Ctx, data interface{}) error {
	return Success(c, fiber.StatusCreated, data)
}

// BadRequest отправляет ответ 400 Bad Request
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, errors.New(message))
}

// Unauthorized отправляет ответ 401 Unauthorized
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, errors.New(message))
}

// FromError переводит ошибку сервиса в HTTP ответ. Ошибки хранилища логируются,
// клиент получает только общее сообщение.
func FromError(c *fiber.Ctx, logger *log.Logger, err error) error {
	var fe *fiber.Error
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		if fields := apperrors.Fields(err); fields != nil {
			return ValidationError(c, fields)
		}
		return Error(c, fiber.StatusUnprocessableEntity, err)
	case errors.Is(err, apperrors.ErrNotFound):
		return Error(c, fiber.StatusNotFound, err)
	case errors.Is(err, apperrors.ErrConflict):
		return Error(c, fiber.StatusBadRequest, err)
	case errors.Is(err, apperrors.ErrForbidden):
		return Error(c, fiber.StatusForbidden, err)
	case errors.Is(err, apperrors.ErrUnauthorized):
		return Error(c, fiber.StatusUnauthorized, err)
	case errors.As(err, &fe):
		return Error(c, fe.Code, fe)
	case errors.Is(err, apperrors.ErrTransientStore):
		logger.Printf("Store error on %s %s: %v", c.Method(), c.Path(), err)
		return Error(c, fiber.StatusServiceUnavailable, errors.New("service temporarily unavailable"))
	default:
		logger.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
		return Error(c, fiber.StatusInternalServerError, errors.New("internal server error"))
	}
}
