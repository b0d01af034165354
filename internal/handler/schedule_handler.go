package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portfoliohub/internal/service/schedule"
	"portfoliohub/pkg/apperrors"
)

type ScheduleHandler struct {
	svc    *schedule.Service
	logger *zap.Logger
}

func NewScheduleHandler(svc *schedule.Service, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{svc: svc, logger: logger}
}

type upsertScheduleRequest struct {
	Entries []schedule.EntryInput `json:"entries"`
}

// Upsert replaces the project's entire schedule plan. Validation enumerates
// every violation before any row is written.
func (h *ScheduleHandler) Upsert(c *gin.Context) {
	projectID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.Validation("invalid project id", []string{"id must be an integer"}))
		return
	}

	var req upsertScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Validation("invalid request body", []string{err.Error()}))
		return
	}

	entries, err := h.svc.Upsert(c.Request.Context(), projectID, req.Entries)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "schedule plan saved", entries)
}

func (h *ScheduleHandler) Get(c *gin.Context) {
	projectID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.Validation("invalid project id", []string{"id must be an integer"}))
		return
	}

	views, err := h.svc.Get(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "schedule plan listed", views)
}
