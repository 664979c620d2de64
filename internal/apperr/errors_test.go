package apperr_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/SitNav/Market-1.0-sub000/internal/apperr"
)

func respond(t *testing.T, err error) (int, map[string]any) {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: apperr.ErrorHandler(zap.NewNop().Sugar())})
	app.Get("/", func(c fiber.Ctx) error { return err })

	resp, testErr := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, testErr)
	defer resp.Body.Close()

	raw, readErr := io.ReadAll(resp.Body)
	require.NoError(t, readErr)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func TestErrorHandler_Mapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"not found", apperr.NotFound("listing"), 404, "listing not found"},
		{"wrapped not found", fmt.Errorf("get listing: %w", apperr.NotFound("listing")), 404, "listing not found"},
		{"forbidden", apperr.Forbidden("not your listing"), 403, "not your listing"},
		{"bare forbidden", apperr.ErrForbidden, 403, "forbidden"},
		{"unauthorized", apperr.ErrUnauthorized, 401, "unauthorized"},
		{"conflict", apperr.Conflict("slug already used"), 409, "slug already used"},
		{"fiber error", fiber.NewError(fiber.StatusRequestEntityTooLarge, "too big"), 413, "too big"},
		{"unknown", errors.New("pg: connection reset"), 500, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := respond(t, tt.err)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.message, body["error"])
		})
	}
}

func TestErrorHandler_Validation(t *testing.T) {
	err := apperr.Validation().Add("title", "is required").Add("price", "must not be negative")

	code, body := respond(t, err)
	assert.Equal(t, 400, code)
	assert.Equal(t, "validation failed", body["error"])
	assert.Equal(t, map[string]any{"title": "is required", "price": "must not be negative"}, body["fields"])
}

func TestValidationError_Err(t *testing.T) {
	assert.NoError(t, apperr.Validation().Err())
	err := apperr.Validation().Add("b", "x").Add("a", "y").Err()
	assert.EqualError(t, err, "validation failed: a: y; b: x")
}
