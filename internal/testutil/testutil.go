// Package testutil holds helpers shared by handler tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/SitNav/Market-1.0-sub000/internal/apperr"
	"github.com/SitNav/Market-1.0-sub000/internal/utils"
)

// Timeout is the query timeout handed to services under test.
const Timeout = 2 * time.Second

// JWT returns the token service used by handler tests.
func JWT() *utils.JWTService {
	return utils.NewJWTService("test-secret", time.Hour)
}

// Log is a logger that drops everything.
func Log() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// NewApp builds a Fiber app with the production error handler.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: apperr.ErrorHandler(Log()),
		BodyLimit:    30 << 20,
	})
}

// Token signs a session token for the user.
func Token(t *testing.T, userID string, isAdmin bool) string {
	t.Helper()
	token, err := JWT().GenerateToken(userID, isAdmin)
	require.NoError(t, err)
	return token
}

// Response is a decoded test response.
type Response struct {
	Code int
	Body []byte
}

// JSON decodes the body into a map.
func (r Response) JSON(t *testing.T) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(r.Body, &out), string(r.Body))
	return out
}

// Decode unmarshals the body into v.
func (r Response) Decode(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Body, v), string(r.Body))
}

// Do sends a request. body is JSON-encoded unless it is nil.
func Do(t *testing.T, app *fiber.App, method, path string, body any, token string) Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return Send(t, app, req, token)
}

// Send runs a prepared request through the app.
func Send(t *testing.T, app *fiber.App, req *http.Request, token string) Response {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return Response{Code: resp.StatusCode, Body: raw}
}
