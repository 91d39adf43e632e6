package onboarding

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"talentflow-backend/internal/shared/server/middleware"
	"talentflow-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the controller.
type Handler struct {
	Ctrl *Controller
}

func NewHandler(ctrl *Controller) *Handler {
	return &Handler{Ctrl: ctrl}
}

// RegisterRoutes attaches onboarding routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/onboarding", h.hydrate)
	rg.POST("/onboarding/start", h.transition(h.Ctrl.Start))
	rg.POST("/onboarding/next", h.transition(h.Ctrl.Next))
	rg.POST("/onboarding/prev", h.transition(h.Ctrl.Prev))
	rg.POST("/onboarding/minimize", h.transition(h.Ctrl.Minimize))
	rg.POST("/onboarding/reopen", h.transition(h.Ctrl.Reopen))
	rg.POST("/onboarding/complete", h.transition(h.Ctrl.Complete))
	rg.POST("/onboarding/reset", h.transition(h.Ctrl.Reset))
	rg.PATCH("/onboarding/resume", h.updateResume)
	rg.PATCH("/onboarding/video", h.updateVideo)
}

func (h *Handler) hydrate(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	view, err := h.Ctrl.Hydrate(c.Request.Context(), userID)
	if err != nil {
		writeControllerError(c, err)
		return
	}
	c.Set("onboardingStep", view.Progress.Step.String())
	respond.OK(c, view)
}

func (h *Handler) transition(op func(ctx context.Context, userID string) (View, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserIDFromContext(c)

		view, err := op(c.Request.Context(), userID)
		if err != nil {
			writeControllerError(c, err)
			return
		}
		c.Set("onboardingStep", view.Progress.Step.String())
		respond.OK(c, view)
	}
}

func (h *Handler) updateResume(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var upd ResumeUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	view, err := h.Ctrl.UpdateResume(c.Request.Context(), userID, upd)
	if err != nil {
		writeControllerError(c, err)
		return
	}
	respond.OK(c, view)
}

func (h *Handler) updateVideo(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var upd VideoUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	view, err := h.Ctrl.UpdateVideo(c.Request.Context(), userID, upd)
	if err != nil {
		writeControllerError(c, err)
		return
	}
	respond.OK(c, view)
}

func writeControllerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "user identity required", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "onboarding transition failed", nil)
	}
}
