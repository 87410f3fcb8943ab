package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Maniblazestarboy/api-linkado/internal/application"
	"github.com/Maniblazestarboy/api-linkado/internal/interface/apierror"
	"github.com/Maniblazestarboy/api-linkado/pkg/mailer"
	"github.com/Maniblazestarboy/api-linkado/pkg/response"
	"github.com/Maniblazestarboy/api-linkado/pkg/validation"
)

// EmailHandler lets admins check the notification pipeline end to end.
type EmailHandler struct {
	Pub         application.Publisher
	Logger      *logrus.Logger
	NotifyEmail string
	SendEnabled bool
}

func NewEmailHandler(pub application.Publisher, logger *logrus.Logger, notifyEmail string, sendEnabled bool) *EmailHandler {
	return &EmailHandler{Pub: pub, Logger: logger, NotifyEmail: notifyEmail, SendEnabled: sendEnabled}
}

type testEmailRequest struct {
	To string `json:"to" form:"to"`
}

var errNoRecipient = errors.New("no recipient: set NOTIFY_EMAIL or pass \"to\"")

// SendTest enqueues a plain test email to the given address or NOTIFY_EMAIL.
func (h *EmailHandler) SendTest(c *gin.Context) {
	var req testEmailRequest
	if !bind(c, &req) {
		return
	}
	to := req.To
	if to == "" {
		to = h.NotifyEmail
	}
	if to == "" || !validation.IsEmail(to) {
		resp := response.Error[any](c, http.StatusBadRequest, errNoRecipient.Error(), nil).WithCode(apierror.CodeValidation)
		response.JSON(c, resp)
		return
	}

	if !h.SendEnabled || h.Pub == nil {
		response.JSON(c, response.Success[any](c, http.StatusAccepted, gin.H{"enqueued": false, "disabled": true}, "email sending disabled", nil))
		return
	}

	job := mailer.EmailJob{
		To:      to,
		Subject: "Linkado notification test",
		Text:    "Notifications for new submissions are configured correctly.",
	}
	if err := h.Pub.PublishJSON(c.Request.Context(), job); err != nil {
		apierror.Respond(c, h.Logger, err)
		return
	}
	response.JSON(c, response.Success[any](c, http.StatusAccepted, gin.H{"enqueued": true}, "email enqueued", nil))
}
