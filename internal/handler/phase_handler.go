package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portfoliohub/internal/service/phases"
	"portfoliohub/internal/util"
	"portfoliohub/pkg/apperrors"
)

type PhaseHandler struct {
	svc    *phases.Service
	logger *zap.Logger
}

func NewPhaseHandler(svc *phases.Service, logger *zap.Logger) *PhaseHandler {
	return &PhaseHandler{svc: svc, logger: logger}
}

// ResolveBudget maps a budget amount to its range and the default phase
// durations configured for that range.
func (h *PhaseHandler) ResolveBudget(c *gin.Context) {
	raw := c.Query("budget")
	cents, err := util.ParseAmountCents(raw)
	if err != nil {
		respondError(c, apperrors.Validation("invalid budget", []string{err.Error()}))
		return
	}

	br, durations, err := h.svc.ResolveByBudget(c.Request.Context(), cents)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "budget range resolved", gin.H{
		"budget_range":    br,
		"phase_durations": durations,
	})
}

// ListDurations returns the default phase durations for a known range.
func (h *PhaseHandler) ListDurations(c *gin.Context) {
	rangeID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.Validation("invalid range id", []string{"id must be an integer"}))
		return
	}

	durations, err := h.svc.DefaultPhaseDurations(c.Request.Context(), rangeID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "phase durations listed", durations)
}
