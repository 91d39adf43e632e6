package video

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"talentflow-backend/internal/shared/server/middleware"
	"talentflow-backend/internal/shared/server/respond"
)

// Handler exposes the video capture endpoint.
type Handler struct {
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Service: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/videos", h.upload)
}

// upload accepts a recorded clip as multipart form data and stores it.
func (h *Handler) upload(c *gin.Context) {
	if h.Service.MaxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Service.MaxBytes+1)
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_input", "clip file is required", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_input", "could not read clip", nil)
		return
	}

	email := c.PostForm("email")
	if email == "" {
		email = middleware.UserEmailFromContext(c)
	}
	jobID := c.PostForm("jobId")

	durationSec := 0
	if v := c.PostForm("durationSeconds"); v != "" {
		// advisory metadata; bad values are ignored
		if n, convErr := strconv.Atoi(v); convErr == nil && n >= 0 {
			durationSec = n
		}
	}
	clip := &Clip{Data: data, Duration: time.Duration(durationSec) * time.Second, MimeType: clipMimeType}

	out, err := h.Service.Capture(c.Request.Context(), middleware.UserIDFromContext(c), email, jobID, clip)
	if err != nil {
		writeCaptureError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func writeCaptureError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "invalid_input", "email and clip are required", nil)
	case errors.Is(err, ErrEmptyClip):
		respond.Error(c, http.StatusBadRequest, "empty_clip", "the recorded clip is empty", nil)
	case errors.Is(err, ErrTooLarge):
		respond.Error(c, http.StatusRequestEntityTooLarge, "clip_too_large", "the recorded clip exceeds the size limit", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "upload_failed", "could not store the clip", nil)
	}
}
