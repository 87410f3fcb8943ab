// Package apierror maps application errors onto HTTP statuses and stable
// error codes.
package apierror

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Maniblazestarboy/api-linkado/internal/application"
	"github.com/Maniblazestarboy/api-linkado/pkg/helpers"
	"github.com/Maniblazestarboy/api-linkado/pkg/response"
	"github.com/Maniblazestarboy/api-linkado/pkg/validation"
)

const (
	CodeMissingCredentials = "MISSING_CREDENTIALS"
	CodeInvalidEmail       = "INVALID_EMAIL"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodePasswordChanged    = "PASSWORD_CHANGED"
	CodeForbidden          = "FORBIDDEN"
	CodeWeakPassword       = "WEAK_PASSWORD"
	CodePasswordUnchanged  = "PASSWORD_UNCHANGED"
	CodePasswordTooLong    = "PASSWORD_TOO_LONG"
	CodeInvalidRole        = "INVALID_ROLE"
	CodeInvalidName        = "INVALID_NAME"
	CodeEmailTaken         = "EMAIL_TAKEN"
	CodeMissingFields      = "MISSING_FIELDS"
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidUpload      = "INVALID_UPLOAD"
	CodeInvalidStatus      = "INVALID_STATUS"
	CodeNotFound           = "NOT_FOUND"
	CodeInternal           = "INTERNAL_ERROR"
)

// Problem is the client facing view of an error.
type Problem struct {
	Status  int
	Code    string
	Message string
	Details any
}

type mapping struct {
	err    error
	status int
	code   string
}

var table = []mapping{
	{application.ErrMissingCredentials, http.StatusBadRequest, CodeMissingCredentials},
	{application.ErrInvalidEmailFormat, http.StatusBadRequest, CodeInvalidEmail},
	{application.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
	{application.ErrUnauthenticated, http.StatusUnauthorized, CodeUnauthorized},
	{application.ErrInvalidToken, http.StatusUnauthorized, CodeInvalidToken},
	{application.ErrTokenExpired, http.StatusUnauthorized, CodeTokenExpired},
	{application.ErrUserNotFound, http.StatusUnauthorized, CodeUserNotFound},
	{application.ErrPasswordChanged, http.StatusUnauthorized, CodePasswordChanged},
	{application.ErrForbidden, http.StatusForbidden, CodeForbidden},
	{application.ErrWeakPassword, http.StatusBadRequest, CodeWeakPassword},
	{application.ErrPasswordUnchanged, http.StatusBadRequest, CodePasswordUnchanged},
	{application.ErrPasswordTooLong, http.StatusBadRequest, CodePasswordTooLong},
	{application.ErrInvalidRole, http.StatusBadRequest, CodeInvalidRole},
	{application.ErrInvalidName, http.StatusBadRequest, CodeInvalidName},
	{application.ErrEmailTaken, http.StatusConflict, CodeEmailTaken},
	{application.ErrInvalidUpload, http.StatusBadRequest, CodeInvalidUpload},
	{application.ErrUploadTooLarge, http.StatusBadRequest, CodeInvalidUpload},
	{application.ErrInvalidStatus, http.StatusBadRequest, CodeInvalidStatus},
	{application.ErrSubmissionNotFound, http.StatusNotFound, CodeNotFound},
}

// Resolve classifies err. Unknown errors resolve to a generic 500 whose
// message does not leak the cause.
func Resolve(err error) Problem {
	var missing *application.MissingFieldsError
	if errors.As(err, &missing) {
		return Problem{
			Status:  http.StatusBadRequest,
			Code:    CodeMissingFields,
			Message: "missing required fields",
			Details: gin.H{"fields": missing.Fields},
		}
	}
	if validation.IsValidationError(err) {
		return Problem{
			Status:  http.StatusBadRequest,
			Code:    CodeValidation,
			Message: "validation failed",
			Details: validation.ToDetails(err),
		}
	}
	for _, m := range table {
		if errors.Is(err, m.err) {
			return Problem{Status: m.status, Code: m.code, Message: m.err.Error()}
		}
	}
	return Problem{Status: http.StatusInternalServerError, Code: CodeInternal, Message: "internal server error"}
}

// Respond writes the error envelope for err. Server errors are logged with
// the request id; their cause never reaches the client.
func Respond(c *gin.Context, logger logrus.FieldLogger, err error) {
	p := Resolve(err)
	if p.Status >= http.StatusInternalServerError {
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		})
	}
	response.Abort(c, response.Error[any](c, p.Status, p.Message, p.Details).WithCode(p.Code))
}

// BadRequest answers a malformed request body.
func BadRequest(c *gin.Context, err error) {
	resp := response.Error[any](c, http.StatusBadRequest, "invalid request", validation.ToDetails(err)).WithCode(CodeValidation)
	response.Abort(c, resp)
}
