package handlers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/Maniblazestarboy/api-linkado/internal/interface/apierror"
	"github.com/Maniblazestarboy/api-linkado/pkg/helpers"
	"github.com/Maniblazestarboy/api-linkado/pkg/response"
)

const (
	AdminLoginPath = "/admin/login"
	AdminLoginFile = "admin-login.html"
)

// AdminHandler serves the static admin panel from Dir. The login page lives
// with the public files.
type AdminHandler struct {
	Dir       string
	LoginPage string
	Cookies   *helpers.Manager
}

func NewAdminHandler(dir, publicDir string, cookies *helpers.Manager) *AdminHandler {
	return &AdminHandler{Dir: dir, LoginPage: filepath.Join(publicDir, AdminLoginFile), Cookies: cookies}
}

// IsPublicPage reports whether an /admin/*filepath request needs no session.
func IsPublicPage(c *gin.Context) bool {
	switch c.Param("filepath") {
	case "/login", "/logout":
		return true
	}
	return false
}

// Page serves /admin/*filepath.
func (h *AdminHandler) Page(c *gin.Context) {
	switch p := c.Param("filepath"); p {
	case "/login":
		c.File(h.LoginPage)
	case "/logout":
		h.Logout(c)
	default:
		c.FileFromFS(p, gin.Dir(h.Dir, false))
	}
}

// Logout clears the session cookie and returns the browser to the login page.
func (h *AdminHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	c.Redirect(http.StatusFound, AdminLoginPath)
}

// PublicFiles serves unmatched GET requests from dir and answers everything
// else with a JSON 404.
func PublicFiles(dir string) gin.HandlerFunc {
	fs := gin.Dir(dir, false)
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			name := path.Clean("/" + c.Request.URL.Path)
			if f, err := fs.Open(name); err == nil {
				st, statErr := f.Stat()
				_ = f.Close()
				if statErr == nil && !st.IsDir() {
					c.FileFromFS(name, fs)
					return
				}
			} else if !os.IsNotExist(err) {
				_ = c.Error(err)
			}
		}
		resp := response.Error[any](c, http.StatusNotFound, "route not found", nil).WithCode(apierror.CodeNotFound)
		response.Abort(c, resp)
	}
}

// Health answers the root path.
func Health(c *gin.Context) {
	c.String(http.StatusOK, "API do Formulário Funcionando!")
}
