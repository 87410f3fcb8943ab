package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Maniblazestarboy/api-linkado/internal/application"
	"github.com/Maniblazestarboy/api-linkado/internal/domain/entity"
	"github.com/Maniblazestarboy/api-linkado/internal/infrastructure/storage"
	handlers "github.com/Maniblazestarboy/api-linkado/internal/interface/http"
	"github.com/Maniblazestarboy/api-linkado/internal/interface/middleware"
	"github.com/Maniblazestarboy/api-linkado/internal/router"
	"github.com/Maniblazestarboy/api-linkado/internal/router/modules"
	"github.com/Maniblazestarboy/api-linkado/pkg/helpers"
)

const (
	adminEmail     = "a@x.com"
	adminPassword  = "correct-pass"
	editorEmail    = "e@x.com"
	editorPassword = "editor-pass"
)

type testApp struct {
	engine    *gin.Engine
	auth      *application.AuthService
	clock     *clock
	subs      *memSubmissions
	uploadDir string
	admin     *entity.User
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	logger, _ := test.NewNullLogger()
	clk := &clock{t: time.Now().Truncate(time.Second)}

	users := &memUsers{byID: map[string]entity.User{}}
	tokens := helpers.NewJWTManager("test-secret", 24*time.Hour).WithClock(clk.Now)
	auth := application.NewAuthService(users, helpers.NewBcryptHasher(bcrypt.MinCost), tokens, logger).WithClock(clk.Now)

	ctx := context.Background()
	admin, err := auth.CreateUser(ctx, application.NewUser{Name: "Ana", Email: adminEmail, Password: adminPassword, Role: entity.RoleAdmin})
	require.NoError(t, err)
	_, err = auth.CreateUser(ctx, application.NewUser{Name: "Edu", Email: editorEmail, Password: editorPassword, Role: entity.RoleEditor})
	require.NoError(t, err)

	uploadDir := filepath.Join(t.TempDir(), "uploads")
	files, err := storage.NewLocal(uploadDir)
	require.NoError(t, err)
	subs := &memSubmissions{items: map[string]entity.Submission{}}
	subSvc := application.NewSubmissionService(subs, files, nil, nil, nil, logger, application.SubmissionConfig{})

	adminDir := t.TempDir()
	publicDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(adminDir, "index.html"), []byte("<h1>painel</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(publicDir, handlers.AdminLoginFile), []byte("<form>login</form>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(publicDir, "form.css"), []byte("body{}"), 0o644))

	cookies := helpers.NewCookie("", false)
	engine := gin.New()
	engine.Use(middleware.RequestIDMiddleware())
	engine.NoRoute(handlers.PublicFiles(publicDir))

	reg := router.NewRegistry(engine)
	reg.Add(modules.NewAuthModule(handlers.NewAuthHandler(auth, cookies, logger), auth, logger))
	reg.Add(modules.NewSubmissionModule(handlers.NewSubmissionHandler(subSvc, logger), auth, logger))
	reg.AddRoot(modules.NewSiteModule(handlers.NewAdminHandler(adminDir, publicDir, cookies), auth, "/uploads", uploadDir))
	reg.RegisterAll()

	return &testApp{engine: engine, auth: auth, clock: clk, subs: subs, uploadDir: uploadDir, admin: admin}
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

type request struct {
	method, path string
	body         any
	token        string
	bearer       bool
	contentType  string
	raw          []byte
}

func (a *testApp) do(t *testing.T, r request) *httptest.ResponseRecorder {
	t.Helper()
	var body []byte
	switch {
	case r.raw != nil:
		body = r.raw
	case r.body != nil:
		b, err := json.Marshal(r.body)
		require.NoError(t, err)
		body = b
		if r.contentType == "" {
			r.contentType = "application/json"
		}
	}
	req := httptest.NewRequest(r.method, r.path, bytes.NewReader(body))
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.token != "" {
		if r.bearer {
			req.Header.Set("Authorization", "Bearer "+r.token)
		} else {
			req.AddCookie(&http.Cookie{Name: helpers.SessionCookieName, Value: r.token})
		}
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a *testApp) login(t *testing.T, email, password string) string {
	t.Helper()
	w := a.do(t, request{method: http.MethodPost, path: "/api/auth/login", body: map[string]string{"email": email, "password": password}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	return data.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}
