package server_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SitNav/Market-1.0-sub000/internal/config"
	"github.com/SitNav/Market-1.0-sub000/internal/server"
	"github.com/SitNav/Market-1.0-sub000/internal/storage"
	"github.com/SitNav/Market-1.0-sub000/internal/testutil"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

// recordingDB answers every QueryRow with a row that fills time columns and
// remembers the arguments of the last statement.
type recordingDB struct {
	args []any
}

func (d *recordingDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("exec not expected")
}

func (d *recordingDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("query not expected")
}

func (d *recordingDB) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	d.args = args
	return timeRow{}
}

type timeRow struct{}

func (timeRow) Scan(dest ...any) error {
	for _, d := range dest {
		if t, ok := d.(*time.Time); ok {
			*t = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		}
	}
	return nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		AppEnv:         "test",
		JWTSecret:      "test-secret",
		JWTTTL:         time.Hour,
		DatabaseConfig: config.DatabaseConfig{QueryTimeout: 2 * time.Second},
		StorageConfig:  config.StorageConfig{Driver: "local", UploadDir: t.TempDir(), URLPrefix: "/uploads"},
		CORSOrigins:    []string{"*"},
	}
}

func TestHealth(t *testing.T) {
	cfg := testConfig(t)

	app := server.New(cfg, server.Deps{
		Pinger: pingFunc(func(context.Context) error { return nil }),
		Log:    testutil.Log(),
	})
	resp := testutil.Do(t, app, "GET", "/api/health", nil, "")
	require.Equal(t, 200, resp.Code)
	assert.Equal(t, "ok", resp.JSON(t)["status"])

	app = server.New(cfg, server.Deps{
		Pinger: pingFunc(func(context.Context) error { return errors.New("down") }),
		Log:    testutil.Log(),
	})
	assert.Equal(t, 503, testutil.Do(t, app, "GET", "/api/health", nil, "").Code)
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	app := server.New(testConfig(t), server.Deps{Log: testutil.Log()})

	resp := testutil.Do(t, app, "GET", "/api/nope", nil, "")
	require.Equal(t, 404, resp.Code)
	assert.NotEmpty(t, resp.JSON(t)["error"])
}

func TestUploadsServedForLocalStore(t *testing.T) {
	cfg := testConfig(t)
	store, err := storage.NewLocalStore(cfg.StorageConfig.UploadDir, cfg.StorageConfig.URLPrefix)
	require.NoError(t, err)

	url, err := store.Save(context.Background(), storage.Image{ContentType: "image/png", Data: []byte("\x89PNG\r\n\x1a\nfake")})
	require.NoError(t, err)

	app := server.New(cfg, server.Deps{Images: store, Log: testutil.Log()})
	resp := testutil.Do(t, app, "GET", url, nil, "")
	assert.Equal(t, 200, resp.Code)
	assert.Equal(t, "\x89PNG\r\n\x1a\nfake", string(resp.Body))

	// Local storage cannot sign direct uploads.
	resp = testutil.Do(t, app, "GET", "/api/upload/params", nil, testutil.Token(t, "u1", false))
	assert.Equal(t, 501, resp.Code)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	app := server.New(testConfig(t), server.Deps{Log: testutil.Log()})

	for _, route := range []struct{ method, path string }{
		{"POST", "/api/listings"},
		{"GET", "/api/messages"},
		{"GET", "/api/conversations"},
		{"POST", "/api/reports"},
		{"GET", "/api/admin/stats"},
		{"GET", "/api/wishlist"},
		{"GET", "/api/cart"},
		{"PUT", "/api/users/me"},
		{"GET", "/api/auth/me"},
	} {
		resp := testutil.Do(t, app, route.method, route.path, map[string]any{}, "")
		assert.Equal(t, 401, resp.Code, route.method+" "+route.path)
	}
}

func TestAuthenticatedRoutesReachHandlers(t *testing.T) {
	cfg := testConfig(t)
	database := &recordingDB{}
	app := server.New(cfg, server.Deps{DB: database, Log: testutil.Log()})

	resp := testutil.Do(t, app, "POST", "/api/reports",
		map[string]any{"reportedUserId": "tg_9", "reason": "spam"}, testutil.Token(t, "tg_1", false))
	require.Equal(t, 201, resp.Code, string(resp.Body))
	body := resp.JSON(t)
	assert.Equal(t, "tg_1", body["reporterId"])
	assert.Equal(t, "pending", body["status"])
	require.NotEmpty(t, database.args)
	assert.Equal(t, "tg_1", database.args[1])

	// Validation only runs once the session has been accepted.
	resp = testutil.Do(t, app, "POST", "/api/reports", map[string]any{}, testutil.Token(t, "tg_1", false))
	assert.Equal(t, 400, resp.Code)

	// Admin checks run after authentication on the same route.
	resp = testutil.Do(t, app, "POST", "/api/categories", map[string]any{"name": "Housing"}, testutil.Token(t, "tg_1", false))
	assert.Equal(t, 403, resp.Code)
	resp = testutil.Do(t, app, "GET", "/api/reports", nil, testutil.Token(t, "tg_1", false))
	assert.Equal(t, 403, resp.Code)
}
