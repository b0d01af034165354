package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portfoliohub/internal/model"
	"portfoliohub/internal/service/project"
	"portfoliohub/internal/util"
	"portfoliohub/pkg/apperrors"
)

const dateLayout = "2006-01-02"

type ProjectHandler struct {
	svc    *project.Service
	logger *zap.Logger
}

func NewProjectHandler(svc *project.Service, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{svc: svc, logger: logger}
}

func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "projects listed", projects)
}

func (h *ProjectHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.Validation("invalid project id", []string{"id must be an integer"}))
		return
	}

	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "project found", p)
}

type createProjectRequest struct {
	Name                    string  `json:"name"`
	Budget                  string  `json:"budget"`
	CurrentPhase            string  `json:"current_phase"`
	ExecutionStartDate      *string `json:"execution_start_date"`
	ExecutionEndDate        *string `json:"execution_end_date"`
	ExecutionDurationDays   *int    `json:"execution_duration_days"`
	MaintenanceDurationDays *int    `json:"maintenance_duration_days"`
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Validation("invalid request body", []string{err.Error()}))
		return
	}

	var violations []string
	if req.Name == "" {
		violations = append(violations, "name is required")
	}

	var budgetCents int64
	if req.Budget != "" {
		cents, err := util.ParseAmountCents(req.Budget)
		if err != nil {
			violations = append(violations, err.Error())
		} else if cents < 0 {
			violations = append(violations, "budget must be non-negative")
		} else {
			budgetCents = cents
		}
	}

	parseDate := func(field string, raw *string) *time.Time {
		if raw == nil {
			return nil
		}
		t, err := time.Parse(dateLayout, *raw)
		if err != nil {
			violations = append(violations, fmt.Sprintf("%s %q is not a valid date", field, *raw))
			return nil
		}
		return &t
	}
	start := parseDate("execution_start_date", req.ExecutionStartDate)
	end := parseDate("execution_end_date", req.ExecutionEndDate)

	if len(violations) > 0 {
		respondError(c, apperrors.Validation("invalid project", violations))
		return
	}

	p, err := h.svc.Create(c.Request.Context(), &model.Project{
		Name:                    req.Name,
		BudgetCents:             budgetCents,
		CurrentPhase:            req.CurrentPhase,
		ExecutionStartDate:      start,
		ExecutionEndDate:        end,
		ExecutionDurationDays:   req.ExecutionDurationDays,
		MaintenanceDurationDays: req.MaintenanceDurationDays,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.logger.Info("Project created", zap.Int("project_id", p.ID))
	respondSuccess(c, http.StatusCreated, "project created", p)
}

// RequestApproval is fire-and-forget from the caller's perspective: the
// status change and event enqueue commit together, and the response never
// waits on downstream task creation.
func (h *ProjectHandler) RequestApproval(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.Validation("invalid project id", []string{"id must be an integer"}))
		return
	}

	if err := h.svc.RequestApproval(c.Request.Context(), id, c.GetInt("user_id")); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "approval requested", nil)
}

func (h *ProjectHandler) Approve(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.Validation("invalid project id", []string{"id must be an integer"}))
		return
	}

	if err := h.svc.Approve(c.Request.Context(), id, c.GetInt("user_id")); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "project approved", nil)
}
