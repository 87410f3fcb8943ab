package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Maniblazestarboy/api-linkado/internal/domain/entity"
	handlers "github.com/Maniblazestarboy/api-linkado/internal/interface/http"
	"github.com/Maniblazestarboy/api-linkado/internal/interface/middleware"
)

// SubmissionModule wires the public form and the admin submission routes.
type SubmissionModule struct {
	Handler *handlers.SubmissionHandler
	Auth    middleware.Verifier
	Logger  *logrus.Logger
}

func NewSubmissionModule(h *handlers.SubmissionHandler, auth middleware.Verifier, logger *logrus.Logger) *SubmissionModule {
	return &SubmissionModule{Handler: h, Auth: auth, Logger: logger}
}

func (m *SubmissionModule) Register(rg *gin.RouterGroup) {
	onFail := middleware.RespondJSON(m.Logger)

	rg.POST("/form", m.Handler.Submit)

	admin := rg.Group("/admin/submissions", middleware.Protect(m.Auth, onFail), middleware.RestrictTo(onFail, entity.RoleAdmin))
	{
		admin.GET("", m.Handler.List)
		admin.GET("/search", m.Handler.Search)
		admin.GET("/:id", m.Handler.Get)
		admin.PATCH("/:id/status", m.Handler.UpdateStatus)
	}
}
