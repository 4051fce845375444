package httpapi_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginAndMe(t *testing.T) {
	app := newApp(t, testConfig())
	tok := signup(t, app, "seller@crm.test")

	r := call(t, app, "GET", "/api/v1/users/me", nil, tok)
	require.Equal(t, http.StatusOK, r.status)
	var me map[string]any
	r.json(t, &me)
	assert.Equal(t, "seller@crm.test", me["email"])
	assert.NotEmpty(t, me["id"])

	r = call(t, app, "POST", "/api/v1/auth/verify", map[string]string{"token": tok}, "")
	require.Equal(t, http.StatusOK, r.status)

	r = call(t, app, "POST", "/api/v1/auth/verify", map[string]string{"token": tok + "x"}, "")
	assert.Equal(t, http.StatusUnauthorized, r.status)
	assert.Equal(t, "invalid credential", r.errMsg(t))
}

func TestRegister_DuplicateIs409(t *testing.T) {
	app := newApp(t, testConfig())
	signup(t, app, "dup@crm.test")

	r := call(t, app, "POST", "/api/v1/users", map[string]string{
		"name": "X", "surname": "Y", "email": "Dup@crm.test", "password": "S3cure!pass",
	}, "")
	assert.Equal(t, http.StatusConflict, r.status)
	assert.Contains(t, r.errMsg(t), "already registered")
}

func TestLogin_Failures(t *testing.T) {
	app := newApp(t, testConfig())
	signup(t, app, "seller@crm.test")

	r := call(t, app, "POST", "/api/v1/auth/login", map[string]string{"email": "seller@crm.test", "password": "Wrong!pass1"}, "")
	assert.Equal(t, http.StatusUnauthorized, r.status)
	assert.Equal(t, "incorrect password", r.errMsg(t))

	r = call(t, app, "POST", "/api/v1/auth/login", map[string]string{"email": "ghost@crm.test", "password": "S3cure!pass"}, "")
	assert.Equal(t, http.StatusNotFound, r.status)
}

func TestProtectedRoutesRequireCredential(t *testing.T) {
	app := newApp(t, testConfig())

	for _, path := range []string{"/api/v1/users/me", "/api/v1/clients", "/api/v1/orders/mine"} {
		r := call(t, app, "GET", path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, r.status, path)
		assert.Equal(t, "authentication required", r.errMsg(t))

		r = call(t, app, "GET", path, nil, "garbage.token.value")
		assert.Equal(t, http.StatusUnauthorized, r.status, path)
	}

	// public catalog reads stay open
	r := call(t, app, "GET", "/api/v1/products", nil, "")
	assert.Equal(t, http.StatusOK, r.status)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(string(r.body)), "["))
}

func TestLoginRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.LoginRateMax = 2
	app := newApp(t, cfg)

	body := map[string]string{"email": "x@crm.test", "password": "S3cure!pass"}
	for i := 0; i < 2; i++ {
		r := call(t, app, "POST", "/api/v1/auth/login", body, "")
		require.NotEqual(t, http.StatusTooManyRequests, r.status, "hit limit early at %d", i)
	}
	r := call(t, app, "POST", "/api/v1/auth/login", body, "")
	assert.Equal(t, http.StatusTooManyRequests, r.status)
}
