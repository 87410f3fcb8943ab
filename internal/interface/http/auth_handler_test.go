package handlers_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maniblazestarboy/api-linkado/pkg/helpers"
)

func TestLogin_OK(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, request{method: http.MethodPost, path: "/api/auth/login", body: map[string]string{"email": adminEmail, "password": adminPassword}})
	require.Equal(t, http.StatusOK, w.Code)

	env := decode(t, w)
	assert.True(t, env.Success)
	var data struct {
		Token string         `json:"token"`
		User  map[string]any `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.NotEmpty(t, data.Token)
	assert.Equal(t, app.admin.ID, data.User["id"])
	assert.Equal(t, "Ana", data.User["name"])
	assert.Equal(t, adminEmail, data.User["email"])
	assert.Equal(t, "admin", data.User["role"])
	assert.NotContains(t, w.Body.String(), "password")

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == helpers.SessionCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, data.Token, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
	assert.InDelta(t, (24 * time.Hour).Seconds(), cookie.MaxAge, 5)
}

func TestLogin_FormEncoded(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, request{
		method:      http.MethodPost,
		path:        "/api/auth/login",
		raw:         []byte("email=a%40x.com&password=correct-pass"),
		contentType: "application/x-www-form-urlencoded",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogin_Errors(t *testing.T) {
	app := newTestApp(t)

	cases := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"wrong password", map[string]string{"email": adminEmail, "password": "wrong"}, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"unknown email", map[string]string{"email": "ghost@x.com", "password": "wrong"}, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"missing password", map[string]string{"email": adminEmail}, http.StatusBadRequest, "MISSING_CREDENTIALS"},
		{"bad email", map[string]string{"email": "nope", "password": "x"}, http.StatusBadRequest, "INVALID_EMAIL"},
	}
	var bodies []string
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := app.do(t, request{method: http.MethodPost, path: "/api/auth/login", body: tc.body})
			assert.Equal(t, tc.status, w.Code)
			env := decode(t, w)
			assert.Equal(t, tc.code, env.Code)
			assert.False(t, env.Success)
			if tc.code == "INVALID_CREDENTIALS" {
				bodies = append(bodies, env.Message)
			}
		})
	}
	require.Len(t, bodies, 2)
	assert.Equal(t, bodies[0], bodies[1])
}

func TestLogin_EmptyBody(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, request{method: http.MethodPost, path: "/api/auth/login", contentType: "application/json"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING_CREDENTIALS", decode(t, w).Code)

	w = app.do(t, request{method: http.MethodPost, path: "/api/auth/login", contentType: "application/json", raw: []byte("{bad")})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, w).Code)
}

func TestMe(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, request{method: http.MethodGet, path: "/api/auth/me"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", decode(t, w).Code)

	token := app.login(t, adminEmail, adminPassword)
	for _, bearer := range []bool{false, true} {
		w = app.do(t, request{method: http.MethodGet, path: "/api/auth/me", token: token, bearer: bearer})
		require.Equal(t, http.StatusOK, w.Code)
		var profile map[string]any
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &profile))
		assert.Equal(t, adminEmail, profile["email"])
	}

	w = app.do(t, request{method: http.MethodGet, path: "/api/auth/me", token: "forged.token.value"})
	assert.Equal(t, "INVALID_TOKEN", decode(t, w).Code)
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t, adminEmail, adminPassword)

	for _, method := range []string{http.MethodPost, http.MethodGet} {
		w := app.do(t, request{method: method, path: "/api/auth/logout", token: token})
		require.Equal(t, http.StatusOK, w.Code)
		var cleared bool
		for _, c := range w.Result().Cookies() {
			if c.Name == helpers.SessionCookieName {
				cleared = c.Value == "" && c.MaxAge < 0
			}
		}
		assert.True(t, cleared, method)
	}

	// No server-side revocation.
	w := app.do(t, request{method: http.MethodGet, path: "/api/auth/me", token: token})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestChangePassword(t *testing.T) {
	app := newTestApp(t)
	old := app.login(t, adminEmail, adminPassword)
	app.clock.Advance(5 * time.Second)

	w := app.do(t, request{
		method: http.MethodPatch,
		path:   "/api/auth/password",
		token:  old,
		body:   map[string]string{"currentPassword": adminPassword, "newPassword": "fresh-password"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))

	app.clock.Advance(time.Second)
	w = app.do(t, request{method: http.MethodGet, path: "/api/auth/me", token: old})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "PASSWORD_CHANGED", decode(t, w).Code)

	w = app.do(t, request{method: http.MethodGet, path: "/api/auth/me", token: data.Token})
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, request{
		method: http.MethodPatch,
		path:   "/api/auth/password",
		token:  data.Token,
		body:   map[string]string{"currentPassword": "fresh-password", "newPassword": "short"},
	})
	assert.Equal(t, "WEAK_PASSWORD", decode(t, w).Code)
}

func TestChangePassword_TooLongIsClientError(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t, adminEmail, adminPassword)

	w := app.do(t, request{
		method: http.MethodPatch,
		path:   "/api/auth/password",
		token:  token,
		body:   map[string]string{"currentPassword": adminPassword, "newPassword": strings.Repeat("a", 80)},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "PASSWORD_TOO_LONG", decode(t, w).Code)

	app.clock.Advance(time.Second)
	w = app.do(t, request{method: http.MethodGet, path: "/api/auth/me", token: token})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateUser(t *testing.T) {
	app := newTestApp(t)
	admin := app.login(t, adminEmail, adminPassword)
	editor := app.login(t, editorEmail, editorPassword)
	body := map[string]string{"name": "Caio", "email": "c@x.com", "password": "caio-pass-1"}

	w := app.do(t, request{method: http.MethodPost, path: "/api/admin/users", token: editor, body: body})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", decode(t, w).Code)

	w = app.do(t, request{method: http.MethodPost, path: "/api/admin/users", token: admin, body: body})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var profile map[string]any
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &profile))
	assert.Equal(t, "editor", profile["role"])

	w = app.do(t, request{method: http.MethodPost, path: "/api/admin/users", token: admin, body: body})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "EMAIL_TAKEN", decode(t, w).Code)

	app.login(t, "c@x.com", "caio-pass-1")
}
