package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"portfoliohub/internal/model"
	"portfoliohub/pkg/apperrors"
	"portfoliohub/pkg/mq"
	"portfoliohub/pkg/outbox"
)

// DeliverableStore resolves deliverables for existence checks and derivation.
type DeliverableStore interface {
	GetByID(ctx context.Context, id int) (*model.Deliverable, error)
}

// ProgressStore persists the 1:1 progress rows with merge semantics.
type ProgressStore interface {
	GetByDeliverable(ctx context.Context, deliverableID int) (*model.DeliverableProgress, error)
	UpsertMerge(ctx context.Context, deliverableID int, scope, progress *float64, status, notes *string) (*model.DeliverableProgress, error)
	UpsertMergeTx(ctx context.Context, tx pgx.Tx, deliverableID int, scope, progress *float64, status, notes *string) (*model.DeliverableProgress, error)
	ForceCompletedTx(ctx context.Context, tx pgx.Tx, deliverableID int) error
}

// DocumentStore is the append-only document history.
type DocumentStore interface {
	InsertTx(ctx context.Context, tx pgx.Tx, doc *model.DeliverableDocument) error
	ListByDeliverable(ctx context.Context, deliverableID int) ([]model.DeliverableDocument, error)
}

// OutboxStore enqueues workflow events inside the caller's transaction.
type OutboxStore interface {
	InsertEvent(ctx context.Context, tx pgx.Tx, event *outbox.Event) error
}

// DocumentInput describes one submitted document after its file has been
// uploaded to object storage.
type DocumentInput struct {
	DocumentType             string
	StoragePath              string
	InvoiceAmountCents       *int64
	RelatedScopePercentage   *float64
	RelatedPaymentPercentage *float64
}

var validDocumentTypes = map[string]bool{
	model.DocumentTypeInvoice:       true,
	model.DocumentTypeDeliveryNote:  true,
	model.DocumentTypeScopeEvidence: true,
	model.DocumentTypeOther:         true,
}

// Service is the deliverable progress ledger: append-only document history
// plus the upserted current-state row, with latest-wins derivation.
type Service struct {
	pool         *pgxpool.Pool
	deliverables DeliverableStore
	progress     ProgressStore
	documents    DocumentStore
	outbox       OutboxStore
	logger       *zap.Logger
	now          func() time.Time
}

func NewService(
	pool *pgxpool.Pool,
	deliverables DeliverableStore,
	progress ProgressStore,
	documents DocumentStore,
	outboxRepo OutboxStore,
	logger *zap.Logger,
) *Service {
	return &Service{
		pool:         pool,
		deliverables: deliverables,
		progress:     progress,
		documents:    documents,
		outbox:       outboxRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// WithNow overrides the clock, for tests.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// DeriveCurrentState folds the document history and progress row into the
// deliverable's current percentages and status.
func (s *Service) DeriveCurrentState(ctx context.Context, deliverableID int) (*model.CurrentState, error) {
	d, err := s.deliverables.GetByID(ctx, deliverableID)
	if err != nil {
		return nil, err
	}

	progressRow, err := s.progress.GetByDeliverable(ctx, deliverableID)
	if err != nil {
		return nil, err
	}

	docs, err := s.documents.ListByDeliverable(ctx, deliverableID)
	if err != nil {
		return nil, err
	}

	state := Derive(DeriveInput{
		AmountCents: d.AmountCents,
		EndDate:     d.EndDate,
		Progress:    progressRow,
		Documents:   docs,
		Now:         s.now(),
	})
	return &state, nil
}

// UpsertManual applies a merge-patch to the progress row through a single
// atomic upsert statement.
func (s *Service) UpsertManual(ctx context.Context, deliverableID int, patch *Patch) (*model.DeliverableProgress, error) {
	if _, err := s.deliverables.GetByID(ctx, deliverableID); err != nil {
		return nil, err
	}

	return s.progress.UpsertMerge(ctx, deliverableID,
		patch.ScopePercentage,
		patch.ProgressPercentage,
		patch.Status,
		patch.Notes,
	)
}

// RecordDocument appends a history row and, in the same transaction, applies
// the document's effect on the progress row and queues the workflow event.
// A DELIVERY_NOTE unconditionally pins the deliverable at scope 100/COMPLETED.
func (s *Service) RecordDocument(ctx context.Context, deliverableID int, in DocumentInput) (*model.DeliverableDocument, error) {
	if violations := validateDocumentInput(in); len(violations) > 0 {
		return nil, apperrors.Validation("invalid document submission", violations)
	}

	if _, err := s.deliverables.GetByID(ctx, deliverableID); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	doc := &model.DeliverableDocument{
		DeliverableID:            deliverableID,
		DocumentType:             in.DocumentType,
		StoragePath:              in.StoragePath,
		InvoiceAmountCents:       in.InvoiceAmountCents,
		RelatedScopePercentage:   in.RelatedScopePercentage,
		RelatedPaymentPercentage: in.RelatedPaymentPercentage,
	}
	if err := s.documents.InsertTx(ctx, tx, doc); err != nil {
		return nil, err
	}

	switch {
	case in.DocumentType == model.DocumentTypeDeliveryNote:
		if err := s.progress.ForceCompletedTx(ctx, tx, deliverableID); err != nil {
			return nil, err
		}
	case in.RelatedScopePercentage != nil:
		if _, err := s.progress.UpsertMergeTx(ctx, tx, deliverableID,
			in.RelatedScopePercentage, nil, nil, nil); err != nil {
			return nil, err
		}
	}

	payload, err := json.Marshal(mq.DocumentSubmittedPayload{
		DocumentID:    doc.ID,
		DeliverableID: deliverableID,
		DocumentType:  in.DocumentType,
		UploadedAt:    doc.UploadedAt,
	})
	if err != nil {
		return nil, err
	}
	aggregateID := int64(deliverableID)
	event := &outbox.Event{
		AggregateType: "deliverable",
		AggregateID:   &aggregateID,
		RoutingKey:    mq.RoutingKeyDocumentSubmitted,
		Payload:       payload,
		Status:        "pending",
	}
	if err := s.outbox.InsertEvent(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit document submission: %w", err)
	}

	s.logger.Info("Document recorded",
		zap.Int("deliverable_id", deliverableID),
		zap.Int("document_id", doc.ID),
		zap.String("document_type", in.DocumentType),
	)
	return doc, nil
}

func validateDocumentInput(in DocumentInput) []string {
	var violations []string

	if !validDocumentTypes[in.DocumentType] {
		violations = append(violations, fmt.Sprintf("document_type %q is not valid", in.DocumentType))
	}
	if in.StoragePath == "" {
		violations = append(violations, "storage_path is required")
	}
	if in.InvoiceAmountCents != nil && *in.InvoiceAmountCents < 0 {
		violations = append(violations, "invoice_amount must be non-negative")
	}
	for name, pct := range map[string]*float64{
		"related_scope_percentage":   in.RelatedScopePercentage,
		"related_payment_percentage": in.RelatedPaymentPercentage,
	} {
		if pct != nil && (*pct < 0 || *pct > 100) {
			violations = append(violations, fmt.Sprintf("%s: %v is out of range [0,100]", name, *pct))
		}
	}
	return violations
}
