package signin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"talentflow-backend/internal/shared/server/respond"
)

// Handler exposes the passwordless sign-in endpoints. Both are exempt from
// auth middleware since callers have no session yet.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/signin/request", h.request)
	rg.GET("/signin/verify", h.verify)
}

type requestBody struct {
	Email string `json:"email"`
}

func (h *Handler) request(c *gin.Context) {
	var body requestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "email is required", nil)
		return
	}
	if err := h.Svc.SendSignInLink(c.Request.Context(), body.Email); err != nil {
		if errors.Is(err, ErrInvalidEmail) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "a valid email is required", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to send sign-in link", nil)
		return
	}
	// same response whether or not delivery did anything useful; the endpoint
	// must not leak which emails exist
	c.JSON(http.StatusAccepted, gin.H{"status": "sent"})
}

func (h *Handler) verify(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "token is required", nil)
		return
	}
	session, err := h.Svc.Verify(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, ErrInvalidLink) {
			respond.Error(c, http.StatusUnauthorized, "invalid_link", "the sign-in link is invalid or has expired", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to verify sign-in link", nil)
		return
	}
	c.JSON(http.StatusOK, session)
}
