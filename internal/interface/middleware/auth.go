package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Maniblazestarboy/api-linkado/internal/application"
	"github.com/Maniblazestarboy/api-linkado/internal/domain/entity"
	"github.com/Maniblazestarboy/api-linkado/internal/interface/apierror"
	"github.com/Maniblazestarboy/api-linkado/pkg/helpers"
)

const (
	CtxUserIDKey    = "userID"
	CtxPrincipalKey = "principal"
)

// FailureStrategy decides what the client sees when Protect or RestrictTo
// rejects a request. It must abort the context.
type FailureStrategy func(c *gin.Context, err error)

// RespondJSON answers with the standard error envelope.
func RespondJSON(logger logrus.FieldLogger) FailureStrategy {
	return func(c *gin.Context, err error) {
		apierror.Respond(c, logger, err)
	}
}

// RedirectTo sends browsers to path, typically a login page.
func RedirectTo(path string) FailureStrategy {
	return func(c *gin.Context, _ error) {
		c.Redirect(http.StatusFound, path)
		c.Abort()
	}
}

// Verifier resolves a token to the user it belongs to.
type Verifier interface {
	Verify(ctx context.Context, token string) (*entity.User, error)
}

// Protect requires a valid session. The token is read from the session
// cookie, then from an Authorization bearer header. On success the principal
// and its id are stored on the context.
func Protect(v Verifier, onFail FailureStrategy) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := v.Verify(c.Request.Context(), tokenFrom(c))
		if err != nil {
			onFail(c, err)
			return
		}
		c.Set(CtxPrincipalKey, u)
		c.Set(CtxUserIDKey, u.ID)
		c.Next()
	}
}

// RestrictTo lets through only principals holding one of roles. It must run
// after Protect.
func RestrictTo(onFail FailureStrategy, roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := application.Authorize(Principal(c), roles); err != nil {
			onFail(c, err)
			return
		}
		c.Next()
	}
}

// Principal returns the user set by Protect, or nil.
func Principal(c *gin.Context) *entity.User {
	v, ok := c.Get(CtxPrincipalKey)
	if !ok {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}

func tokenFrom(c *gin.Context) string {
	if token, err := c.Cookie(helpers.SessionCookieName); err == nil && token != "" {
		return token
	}
	h := c.GetHeader("Authorization")
	if scheme, token, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}

// Unless runs h only when skip reports false.
func Unless(skip func(*gin.Context) bool, h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if skip(c) {
			c.Next()
			return
		}
		h(c)
	}
}
