package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Maniblazestarboy/api-linkado/internal/domain/entity"
	"github.com/Maniblazestarboy/api-linkado/internal/interface/middleware"
)

// DebugModule exposes expvar counters to admins.
type DebugModule struct {
	Auth   middleware.Verifier
	Logger *logrus.Logger
}

func NewDebugModule(auth middleware.Verifier, logger *logrus.Logger) *DebugModule {
	return &DebugModule{Auth: auth, Logger: logger}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	onFail := middleware.RespondJSON(m.Logger)
	rg.GET("/admin/debug/vars",
		middleware.Protect(m.Auth, onFail),
		middleware.RestrictTo(onFail, entity.RoleAdmin),
		gin.WrapH(expvar.Handler()),
	)
}
