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

// ApprovalRequestedHandler creates an approval task when a project enters
// PENDING_APPROVAL. Task creation is best-effort: every failure is logged
// and swallowed so the event is always acked.
type ApprovalRequestedHandler struct {
	creator *worker.TaskCreator
	deduper *util.Deduper
	logger  *zap.Logger
}

func NewApprovalRequestedHandler(creator *worker.TaskCreator, deduper *util.Deduper, logger *zap.Logger) *ApprovalRequestedHandler {
	return &ApprovalRequestedHandler{creator: creator, deduper: deduper, logger: logger}
}

func (h *ApprovalRequestedHandler) HandleApprovalRequested(ctx context.Context, data json.RawMessage) error {
	start := time.Now()
	defer func() {
		metrics.RecordMQConsumeLatency(mq.RoutingKeyApprovalRequested, "workflow.approval_requested.q", time.Since(start))
	}()

	var payload mq.ApprovalRequestedPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		h.logger.Error("Failed to unmarshal approval_requested payload", zap.Error(err))
		return nil
	}

	if !h.deduper.AcquireOnce(ctx, "approval_requested", payload.ProjectID) {
		h.logger.Debug("Duplicate approval_requested event skipped",
			zap.Int("project_id", payload.ProjectID),
		)
		return nil
	}

	if err := h.creator.CreateForActivity(ctx,
		worker.ActivityProjectApproval, "approval_requested", "project", payload.ProjectID); err != nil {
		h.logger.Error("Failed to create approval task",
			zap.Int("project_id", payload.ProjectID),
			zap.Error(err),
		)
	}
	return nil
}
