package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"portfoliohub/internal/model"
	"portfoliohub/pkg/apperrors"
)

// DocumentRepository is the append-only document history of deliverables.
// Rows are never updated after insertion.
type DocumentRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewDocumentRepository(db *pgxpool.Pool, logger *zap.Logger) *DocumentRepository {
	return &DocumentRepository{db: db, logger: logger}
}

const documentColumns = `
	id, deliverable_id, document_type, storage_path,
	invoice_amount_cents, related_scope_percentage, related_payment_percentage,
	uploaded_at
`

func scanDocument(row pgx.Row) (*model.DeliverableDocument, error) {
	var d model.DeliverableDocument
	err := row.Scan(
		&d.ID,
		&d.DeliverableID,
		&d.DocumentType,
		&d.StoragePath,
		&d.InvoiceAmountCents,
		&d.RelatedScopePercentage,
		&d.RelatedPaymentPercentage,
		&d.UploadedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// InsertTx appends a history row inside the caller's transaction.
func (r *DocumentRepository) InsertTx(ctx context.Context, tx pgx.Tx, doc *model.DeliverableDocument) error {
	query := `
        INSERT INTO deliverable_documents
            (deliverable_id, document_type, storage_path,
             invoice_amount_cents, related_scope_percentage, related_payment_percentage)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, uploaded_at
    `
	err := tx.QueryRow(ctx, query,
		doc.DeliverableID,
		doc.DocumentType,
		doc.StoragePath,
		doc.InvoiceAmountCents,
		doc.RelatedScopePercentage,
		doc.RelatedPaymentPercentage,
	).Scan(&doc.ID, &doc.UploadedAt)
	if err != nil {
		r.logger.Error("Failed to insert deliverable document",
			zap.Int("deliverable_id", doc.DeliverableID),
			zap.String("document_type", doc.DocumentType),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id int) (*model.DeliverableDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM deliverable_documents WHERE id = $1`
	d, err := scanDocument(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(fmt.Sprintf("document %d not found", id))
		}
		r.logger.Error("Failed to get document", zap.Int("document_id", id), zap.Error(err))
		return nil, err
	}
	return d, nil
}

// ListByDeliverable returns the history newest-first.
func (r *DocumentRepository) ListByDeliverable(ctx context.Context, deliverableID int) ([]model.DeliverableDocument, error) {
	query := `
        SELECT ` + documentColumns + `
        FROM deliverable_documents
        WHERE deliverable_id = $1
        ORDER BY uploaded_at DESC, id DESC
    `
	rows, err := r.db.Query(ctx, query, deliverableID)
	if err != nil {
		r.logger.Error("Failed to list deliverable documents",
			zap.Int("deliverable_id", deliverableID),
			zap.Error(err),
		)
		return nil, err
	}
	defer rows.Close()

	docs := []model.DeliverableDocument{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *d)
	}
	return docs, rows.Err()
}

// ListByProject returns all history rows for a project keyed by deliverable,
// newest-first within each deliverable.
func (r *DocumentRepository) ListByProject(ctx context.Context, projectID int) (map[int][]model.DeliverableDocument, error) {
	query := `
        SELECT dd.id, dd.deliverable_id, dd.document_type, dd.storage_path,
               dd.invoice_amount_cents, dd.related_scope_percentage, dd.related_payment_percentage,
               dd.uploaded_at
        FROM deliverable_documents dd
        JOIN deliverables d ON d.id = dd.deliverable_id
        JOIN items i ON i.id = d.item_id
        WHERE i.project_id = $1
        ORDER BY dd.uploaded_at DESC, dd.id DESC
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to list project documents",
			zap.Int("project_id", projectID),
			zap.Error(err),
		)
		return nil, err
	}
	defer rows.Close()

	byDeliverable := map[int][]model.DeliverableDocument{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		byDeliverable[d.DeliverableID] = append(byDeliverable[d.DeliverableID], *d)
	}
	return byDeliverable, rows.Err()
}
