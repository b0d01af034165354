package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portfoliohub/internal/repository"
	"portfoliohub/pkg/apperrors"
)

type TaskHandler struct {
	tasks  *repository.TaskRepository
	logger *zap.Logger
}

func NewTaskHandler(tasks *repository.TaskRepository, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, logger: logger}
}

// List returns workflow tasks, filterable by assignee and status.
func (h *TaskHandler) List(c *gin.Context) {
	var assignedTo *int
	if raw := c.Query("assigned_to"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, apperrors.Validation("invalid filter", []string{"assigned_to must be an integer"}))
			return
		}
		assignedTo = &id
	}

	tasks, err := h.tasks.List(c.Request.Context(), assignedTo, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "tasks listed", tasks)
}
