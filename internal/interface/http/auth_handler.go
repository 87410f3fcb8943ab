package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Maniblazestarboy/api-linkado/internal/application"
	"github.com/Maniblazestarboy/api-linkado/internal/domain/entity"
	"github.com/Maniblazestarboy/api-linkado/internal/interface/apierror"
	"github.com/Maniblazestarboy/api-linkado/internal/interface/middleware"
	"github.com/Maniblazestarboy/api-linkado/pkg/helpers"
	"github.com/Maniblazestarboy/api-linkado/pkg/response"
)

type AuthHandler struct {
	Auth    *application.AuthService
	Cookies *helpers.Manager
	Logger  *logrus.Logger
}

func NewAuthHandler(auth *application.AuthService, cookies *helpers.Manager, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Cookies: cookies, Logger: logger}
}

// Field presence is checked by the service so that an empty body yields
// MISSING_CREDENTIALS rather than a validation error.
type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" form:"currentPassword"`
	NewPassword     string `json:"newPassword" form:"newPassword"`
}

type createUserRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Role     string `json:"role" form:"role"`
}

type sessionView struct {
	Token string         `json:"token"`
	User  entity.Profile `json:"user"`
}

// bind accepts JSON or form bodies. An empty body binds to the zero value.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBind(dst); err != nil && !errors.Is(err, io.EOF) {
		apierror.BadRequest(c, err)
		return false
	}
	return true
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bind(c, &req) {
		return
	}
	sess, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		apierror.Respond(c, h.Logger, err)
		return
	}
	h.Cookies.SetSession(c, sess.Token, sess.ExpiresAt)
	response.JSON(c, response.Success(c, http.StatusOK, sessionView{Token: sess.Token, User: sess.User}, "login successful", gin.H{"expiresAt": sess.ExpiresAt}))
}

// Logout clears the session cookie. The token itself stays valid until it
// expires or the password changes.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.JSON(c, response.Success[any](c, http.StatusOK, nil, "logged out", nil))
}

func (h *AuthHandler) Me(c *gin.Context) {
	u := middleware.Principal(c)
	if u == nil {
		apierror.Respond(c, h.Logger, application.ErrUnauthenticated)
		return
	}
	response.JSON(c, response.Success(c, http.StatusOK, u.Profile(), "profile", nil))
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if !bind(c, &req) {
		return
	}
	sess, err := h.Auth.ChangePassword(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), req.CurrentPassword, req.NewPassword)
	if err != nil {
		apierror.Respond(c, h.Logger, err)
		return
	}
	h.Cookies.SetSession(c, sess.Token, sess.ExpiresAt)
	response.JSON(c, response.Success(c, http.StatusOK, sessionView{Token: sess.Token, User: sess.User}, "password updated", gin.H{"expiresAt": sess.ExpiresAt}))
}

func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if !bind(c, &req) {
		return
	}
	u, err := h.Auth.CreateUser(c.Request.Context(), application.NewUser{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     entity.Role(req.Role),
	})
	if err != nil {
		apierror.Respond(c, h.Logger, err)
		return
	}
	response.JSON(c, response.Success(c, http.StatusCreated, u.Profile(), "user created", nil))
}
