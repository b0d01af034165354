package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portfoliohub/internal/service/timeline"
	"portfoliohub/pkg/apperrors"
)

type TimelineHandler struct {
	svc    *timeline.Service
	logger *zap.Logger
}

func NewTimelineHandler(svc *timeline.Service, logger *zap.Logger) *TimelineHandler {
	return &TimelineHandler{svc: svc, logger: logger}
}

// Get reconstructs the project timeline on demand. Nothing is persisted;
// every call recomputes from the current schedule and deliverable state.
func (h *TimelineHandler) Get(c *gin.Context) {
	projectID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.Validation("invalid project id", []string{"id must be an integer"}))
		return
	}

	phases, err := h.svc.Get(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "timeline reconstructed", phases)
}
