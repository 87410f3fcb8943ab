package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/Maniblazestarboy/api-linkado/internal/domain/entity"
	handlers "github.com/Maniblazestarboy/api-linkado/internal/interface/http"
	"github.com/Maniblazestarboy/api-linkado/internal/interface/middleware"
)

// SiteModule serves the non-API surface: health, the admin panel and
// uploaded files. Admin pages redirect to the login page instead of
// answering with JSON.
type SiteModule struct {
	Admin        *handlers.AdminHandler
	Auth         middleware.Verifier
	UploadPrefix string
	UploadDir    string // empty when uploads are not stored on local disk
}

func NewSiteModule(admin *handlers.AdminHandler, auth middleware.Verifier, uploadPrefix, uploadDir string) *SiteModule {
	return &SiteModule{Admin: admin, Auth: auth, UploadPrefix: uploadPrefix, UploadDir: uploadDir}
}

func (m *SiteModule) Register(rg *gin.RouterGroup) {
	rg.GET("/", handlers.Health)

	redirect := middleware.RedirectTo(handlers.AdminLoginPath)
	rg.GET("/admin/*filepath",
		middleware.Unless(handlers.IsPublicPage, middleware.Protect(m.Auth, redirect)),
		middleware.Unless(handlers.IsPublicPage, middleware.RestrictTo(redirect, entity.RoleAdmin)),
		m.Admin.Page,
	)

	if m.UploadDir != "" && m.UploadPrefix != "" {
		rg.Static(m.UploadPrefix, m.UploadDir)
	}
}
