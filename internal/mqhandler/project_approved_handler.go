package mqhandler

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"portfoliohub/internal/service/worker"
	"portfoliohub/internal/util"
	"portfoliohub/pkg/metrics"
	"portfoliohub/pkg/mq"
)

// ProjectApprovedHandler creates the kickoff task once a project is approved.
type ProjectApprovedHandler struct {
	creator *worker.TaskCreator
	deduper *util.Deduper
	logger  *zap.Logger
}

func NewProjectApprovedHandler(creator *worker.TaskCreator, deduper *util.Deduper, logger *zap.Logger) *ProjectApprovedHandler {
	return &ProjectApprovedHandler{creator: creator, deduper: deduper, logger: logger}
}

func (h *ProjectApprovedHandler) HandleProjectApproved(ctx context.Context, data json.RawMessage) error {
	start := time.Now()
	defer func() {
		metrics.RecordMQConsumeLatency(mq.RoutingKeyProjectApproved, "workflow.project_approved.q", time.Since(start))
	}()

	var payload mq.ProjectApprovedPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		h.logger.Error("Failed to unmarshal project_approved payload", zap.Error(err))
		return nil
	}

	if !h.deduper.AcquireOnce(ctx, "project_approved", payload.ProjectID) {
		h.logger.Debug("Duplicate project_approved event skipped",
			zap.Int("project_id", payload.ProjectID),
		)
		return nil
	}

	if err := h.creator.CreateForActivity(ctx,
		worker.ActivityProjectKickoff, "approved", "project", payload.ProjectID); err != nil {
		h.logger.Error("Failed to create kickoff task",
			zap.Int("project_id", payload.ProjectID),
			zap.Error(err),
		)
	}
	return nil
}
