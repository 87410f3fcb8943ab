package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Maniblazestarboy/api-linkado/internal/domain/entity"
	handlers "github.com/Maniblazestarboy/api-linkado/internal/interface/http"
	"github.com/Maniblazestarboy/api-linkado/internal/interface/middleware"
)

// AuthModule wires login, logout, session and user management routes.
// Public: POST /auth/login, POST|GET /auth/logout
// Session: GET /auth/me, PATCH /auth/password
// Admin: POST /admin/users
type AuthModule struct {
	Handler *handlers.AuthHandler
	Auth    middleware.Verifier
	Logger  *logrus.Logger
}

func NewAuthModule(h *handlers.AuthHandler, auth middleware.Verifier, logger *logrus.Logger) *AuthModule {
	return &AuthModule{Handler: h, Auth: auth, Logger: logger}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	onFail := middleware.RespondJSON(m.Logger)

	rg.POST("/auth/login", m.Handler.Login)
	rg.POST("/auth/logout", m.Handler.Logout)
	rg.GET("/auth/logout", m.Handler.Logout)

	session := rg.Group("/auth", middleware.Protect(m.Auth, onFail))
	{
		session.GET("/me", m.Handler.Me)
		session.PATCH("/password", m.Handler.ChangePassword)
	}

	admin := rg.Group("/admin", middleware.Protect(m.Auth, onFail), middleware.RestrictTo(onFail, entity.RoleAdmin))
	{
		admin.POST("/users", m.Handler.CreateUser)
	}
}
