package httpapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"crm/internal/config"
	httpapi "crm/internal/http"
	"crm/internal/http/handlers"
	"crm/internal/repos"
)

func testConfig() config.Config {
	return config.Config{
		DBDSN:          ":memory:",
		JWTSecret:      "test-secret",
		TokenTTL:       time.Hour,
		StorageTimeout: 5 * time.Second,
		LedgerRetries:  3,
		BcryptCost:     4,
		LoginRateMax:   50,
	}
}

func newApp(t *testing.T, cfg config.Config) *fiber.App {
	t.Helper()
	db, err := repos.OpenDB(cfg.DBDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return httpapi.NewApp(handlers.NewDeps(db, cfg), cfg)
}

type result struct {
	status int
	body   []byte
}

func (r result) json(t *testing.T, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.body, out), "body=%s", r.body)
}

func (r result) errMsg(t *testing.T) string {
	t.Helper()
	var e struct {
		Error string `json:"error"`
	}
	r.json(t, &e)
	return e.Error
}

func call(t *testing.T, app *fiber.App, method, path string, body any, token string) result {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return result{status: resp.StatusCode, body: b}
}

// signup registers a salesperson and returns a bearer token for them.
func signup(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	r := call(t, app, "POST", "/api/v1/users", map[string]string{
		"name": "Test", "surname": "User", "email": email, "password": "S3cure!pass",
	}, "")
	require.Equal(t, http.StatusCreated, r.status, "body=%s", r.body)

	r = call(t, app, "POST", "/api/v1/auth/login", map[string]string{"email": email, "password": "S3cure!pass"}, "")
	require.Equal(t, http.StatusOK, r.status, "body=%s", r.body)
	var out struct {
		Token string `json:"token"`
	}
	r.json(t, &out)
	require.NotEmpty(t, out.Token)
	return out.Token
}
