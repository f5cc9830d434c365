package utils

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http/httptest"
	"testing"

	"engilearn/backend/apperrors"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromError(t *testing.T) {
	logger := log.New(io.Discard, "", 0)

	tests := []struct {
		name    string
		err     error
		status  int
		details bool
	}{
		{"validation with fields", apperrors.Invalid("amount", "must be positive"), fiber.StatusUnprocessableEntity, true},
		{"not found", apperrors.NotFound("user"), fiber.StatusNotFound, false},
		{"conflict", apperrors.Conflict("already enrolled"), fiber.StatusBadRequest, false},
		{"forbidden", apperrors.Forbidden("nope"), fiber.StatusForbidden, false},
		{"unauthorized", apperrors.Unauthorized("invalid credentials"), fiber.StatusUnauthorized, false},
		{"store outage", apperrors.FromDB(errors.New("connection refused"), "user"), fiber.StatusServiceUnavailable, false},
		{"fiber error", fiber.NewError(fiber.StatusUnauthorized, "Invalid token"), fiber.StatusUnauthorized, false},
		{"unknown", errors.New("boom"), fiber.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return FromError(c, logger, tt.err) })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			var out ErrorResponse
			require.NoError(t, json.Unmarshal(body, &out))
			assert.False(t, out.Success)
			assert.Equal(t, tt.details, out.Details != nil)
			assert.NotContains(t, out.Message, "connection refused")
		})
	}
}

func TestValidateStruct(t *testing.T) {
	type input struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
	}

	assert.NoError(t, ValidateStruct(input{Email: "a@b.co", Password: "secret1"}))

	err := ValidateStruct(input{Email: "nope", Password: "123"})
	require.ErrorIs(t, err, apperrors.ErrValidation)
	fields := apperrors.Fields(err)
	assert.Equal(t, "must be a valid email", fields["email"])
	assert.Equal(t, "must be at least 6", fields["password"])
}
