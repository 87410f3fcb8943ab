package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Maniblazestarboy/api-linkado/internal/application"
	"github.com/Maniblazestarboy/api-linkado/internal/domain/entity"
	"github.com/Maniblazestarboy/api-linkado/internal/interface/apierror"
	"github.com/Maniblazestarboy/api-linkado/pkg/response"
)

type SubmissionHandler struct {
	Svc    *application.SubmissionService
	Logger *logrus.Logger
}

func NewSubmissionHandler(svc *application.SubmissionService, logger *logrus.Logger) *SubmissionHandler {
	return &SubmissionHandler{Svc: svc, Logger: logger}
}

// linkList accepts either a JSON array or a single comma separated string.
type linkList []string

func (l *linkList) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*l = linkList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*l = many
	return nil
}

type submitJSON struct {
	Name      string   `json:"nome"`
	Contact   string   `json:"contato"`
	Plan      string   `json:"plano"`
	Instagram string   `json:"instagram"`
	Links     linkList `json:"links"`
	Notes     string   `json:"observacoes"`
}

type submitted struct {
	ID        string      `json:"id"`
	Name      string      `json:"nome"`
	Plan      entity.Plan `json:"plano"`
	CreatedAt time.Time   `json:"createdAt"`
}

type statusRequest struct {
	Status string `json:"status" form:"status"`
}

// Submit takes the public form, either as multipart with an optional "logo"
// file or as JSON.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	var (
		in   application.SubmissionInput
		logo *application.Upload
	)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBind(&in); err != nil {
			apierror.BadRequest(c, err)
			return
		}
		fh, err := c.FormFile("logo")
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			apierror.Respond(c, h.Logger, application.ErrInvalidUpload)
			return
		default:
			f, err := fh.Open()
			if err != nil {
				apierror.Respond(c, h.Logger, err)
				return
			}
			defer func() { _ = f.Close() }()
			logo = &application.Upload{
				Filename:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Size:        fh.Size,
				Body:        f,
			}
		}
	} else {
		var req submitJSON
		if !bind(c, &req) {
			return
		}
		in = application.SubmissionInput{
			Name:      req.Name,
			Contact:   req.Contact,
			Plan:      req.Plan,
			Instagram: req.Instagram,
			Links:     req.Links,
			Notes:     req.Notes,
		}
	}

	sub, err := h.Svc.Submit(c.Request.Context(), in, logo)
	if err != nil {
		apierror.Respond(c, h.Logger, err)
		return
	}
	response.JSON(c, response.Success(c, http.StatusCreated, submitted{
		ID:        sub.ID,
		Name:      sub.Name,
		Plan:      sub.Plan,
		CreatedAt: sub.CreatedAt,
	}, "submission received", nil))
}

func (h *SubmissionHandler) List(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context())
	if err != nil {
		apierror.Respond(c, h.Logger, err)
		return
	}
	response.JSON(c, response.Success(c, http.StatusOK, list, "submissions", gin.H{"count": len(list)}))
}

func (h *SubmissionHandler) Get(c *gin.Context) {
	sub, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierror.Respond(c, h.Logger, err)
		return
	}
	response.JSON(c, response.Success(c, http.StatusOK, sub, "submission", nil))
}

func (h *SubmissionHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	hits, err := h.Svc.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		apierror.Respond(c, h.Logger, err)
		return
	}
	response.JSON(c, response.Success(c, http.StatusOK, hits, "search results", gin.H{"count": len(hits)}))
}

func (h *SubmissionHandler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if !bind(c, &req) {
		return
	}
	sub, err := h.Svc.UpdateStatus(c.Request.Context(), c.Param("id"), entity.SubmissionStatus(req.Status))
	if err != nil {
		apierror.Respond(c, h.Logger, err)
		return
	}
	response.JSON(c, response.Success(c, http.StatusOK, sub, "status updated", nil))
}
