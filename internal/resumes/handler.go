package resumes

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"talentflow-backend/internal/shared/server/middleware"
	"talentflow-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the capture service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches resume capture routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes", h.capture)
}

func (h *Handler) capture(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Svc.maxBytes()+(1<<20))

	email := strings.TrimSpace(c.PostForm("email"))
	if email == "" {
		email = middleware.UserEmailFromContext(c)
	}
	jobID := strings.TrimSpace(c.PostForm("jobId"))

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	capture, err := h.Svc.Capture(
		c.Request.Context(),
		userID,
		email,
		jobID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "email and file are required", nil)
		case errors.Is(err, ErrEmptyFile):
			respond.Error(c, http.StatusBadRequest, "validation_error", "file is empty", nil)
		case errors.Is(err, ErrTooLarge):
			respond.Error(c, http.StatusBadRequest, "validation_error", "file exceeds the size limit", nil)
		case errors.Is(err, ErrUnsupportedType):
			respond.Error(c, http.StatusBadRequest, "validation_error", "only PDF, DOC and DOCX resumes are accepted", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "upload_failed", "failed to upload resume", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, capture)
}
