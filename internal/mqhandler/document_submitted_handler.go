package mqhandler

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"portfoliohub/internal/model"
	"portfoliohub/internal/service/worker"
	"portfoliohub/internal/util"
	"portfoliohub/pkg/metrics"
	"portfoliohub/pkg/mq"
)

// DocumentSubmittedHandler creates a review task for each uploaded
// deliverable document, picked by document type.
type DocumentSubmittedHandler struct {
	creator *worker.TaskCreator
	deduper *util.Deduper
	logger  *zap.Logger
}

func NewDocumentSubmittedHandler(creator *worker.TaskCreator, deduper *util.Deduper, logger *zap.Logger) *DocumentSubmittedHandler {
	return &DocumentSubmittedHandler{creator: creator, deduper: deduper, logger: logger}
}

func (h *DocumentSubmittedHandler) HandleDocumentSubmitted(ctx context.Context, data json.RawMessage) error {
	start := time.Now()
	defer func() {
		metrics.RecordMQConsumeLatency(mq.RoutingKeyDocumentSubmitted, "workflow.document_submitted.q", time.Since(start))
	}()

	var payload mq.DocumentSubmittedPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		h.logger.Error("Failed to unmarshal document_submitted payload", zap.Error(err))
		return nil
	}

	if !h.deduper.AcquireOnce(ctx, "document_submitted", payload.DocumentID) {
		h.logger.Debug("Duplicate document_submitted event skipped",
			zap.Int("document_id", payload.DocumentID),
		)
		return nil
	}

	activity := worker.ActivityDocumentReview
	switch payload.DocumentType {
	case model.DocumentTypeInvoice:
		activity = worker.ActivityInvoiceReview
	case model.DocumentTypeDeliveryNote:
		activity = worker.ActivityDeliveryConfirmation
	}

	if err := h.creator.CreateForActivity(ctx,
		activity, "document", "deliverable", payload.DeliverableID); err != nil {
		h.logger.Error("Failed to create document review task",
			zap.Int("deliverable_id", payload.DeliverableID),
			zap.String("document_type", payload.DocumentType),
			zap.Error(err),
		)
	}
	return nil
}
