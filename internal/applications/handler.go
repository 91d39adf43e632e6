package applications

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"talentflow-backend/internal/candidates"
	"talentflow-backend/internal/shared/server/middleware"
	"talentflow-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the submission service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the public submission route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/applications", h.submit)
}

// RegisterStaffRoutes attaches the review routes to a staff-only group.
func (h *Handler) RegisterStaffRoutes(rg *gin.RouterGroup) {
	rg.GET("/applications/:id", h.get)
	rg.GET("/applications", h.list)
}

func (h *Handler) submit(c *gin.Context) {
	var form submitForm
	if err := c.ShouldBind(&form); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid form data", nil)
		return
	}
	if form.Email == "" {
		form.Email = middleware.UserEmailFromContext(c)
	}

	resume, err := readFormFile(c, "resume")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "resume file is required", nil)
		return
	}
	video, err := readFormFile(c, "video")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "video clip is required", nil)
		return
	}

	result, err := h.Svc.Submit(c.Request.Context(), SubmitInput{
		Identity: candidates.Identity{
			Email:     form.Email,
			FirstName: form.FirstName,
			LastName:  form.LastName,
			Phone:     form.Phone,
		},
		JobID:      form.JobID,
		Notes:      form.Notes,
		Resume:     resume,
		Video:      video,
		HasSession: !middleware.IsGuestFromContext(c),
	})
	if err != nil {
		writeSubmitError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *Handler) get(c *gin.Context) {
	app, err := h.Svc.Repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "application not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load application", nil)
		return
	}
	c.JSON(http.StatusOK, applicationResponse{Application: app})
}

func (h *Handler) list(c *gin.Context) {
	candidateID := c.Query("candidateId")
	if candidateID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "candidateId is required", nil)
		return
	}
	apps, err := h.Svc.Repo.ListByCandidate(c.Request.Context(), candidateID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list applications", nil)
		return
	}
	if apps == nil {
		apps = []Application{}
	}
	c.JSON(http.StatusOK, listResponse{Applications: apps})
}

func readFormFile(c *gin.Context, field string) (Artifact, error) {
	file, header, err := c.Request.FormFile(field)
	if err != nil {
		return Artifact{}, err
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{
		FileName: header.Filename,
		MimeType: contentTypeOf(header),
		Data:     data,
	}, nil
}

func contentTypeOf(header *multipart.FileHeader) string {
	if header == nil {
		return ""
	}
	return header.Header.Get("Content-Type")
}

func writeSubmitError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "a valid email is required", nil)
	case errors.Is(err, ErrMissingResume):
		respond.Error(c, http.StatusBadRequest, "validation_error", "resume file is required", nil)
	case errors.Is(err, ErrMissingVideo):
		respond.Error(c, http.StatusBadRequest, "validation_error", "video clip is required", nil)
	case errors.Is(err, ErrUnsupportedResume):
		respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_type", "only PDF, DOC and DOCX resumes are accepted", nil)
	case errors.Is(err, ErrResumeTooLarge), errors.Is(err, ErrVideoTooLarge):
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "an uploaded file exceeds the size limit", nil)
	case errors.Is(err, ErrSubmissionInFlight):
		respond.Error(c, http.StatusConflict, "submission_in_flight", "a submission for this email is already in progress", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to submit application", nil)
	}
}
