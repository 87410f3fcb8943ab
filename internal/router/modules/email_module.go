package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Maniblazestarboy/api-linkado/internal/domain/entity"
	handlers "github.com/Maniblazestarboy/api-linkado/internal/interface/http"
	"github.com/Maniblazestarboy/api-linkado/internal/interface/middleware"
)

type EmailModule struct {
	Handler *handlers.EmailHandler
	Auth    middleware.Verifier
	Logger  *logrus.Logger
}

func NewEmailModule(h *handlers.EmailHandler, auth middleware.Verifier, logger *logrus.Logger) *EmailModule {
	return &EmailModule{Handler: h, Auth: auth, Logger: logger}
}

func (m *EmailModule) Register(rg *gin.RouterGroup) {
	onFail := middleware.RespondJSON(m.Logger)
	admin := rg.Group("/admin", middleware.Protect(m.Auth, onFail), middleware.RestrictTo(onFail, entity.RoleAdmin))
	{
		admin.POST("/notifications/test", m.Handler.SendTest)
	}
}
