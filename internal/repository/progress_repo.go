package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"portfoliohub/internal/model"
)

// ProgressRepository maintains the 1:1 deliverable_progress rows. Every write
// is a single atomic INSERT .. ON CONFLICT statement so two concurrent
// updates for the same deliverable never race a read-modify-write cycle.
type ProgressRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProgressRepository(db *pgxpool.Pool, logger *zap.Logger) *ProgressRepository {
	return &ProgressRepository{db: db, logger: logger}
}

const progressUpsertQuery = `
	INSERT INTO deliverable_progress
	    (deliverable_id, scope_percentage, progress_percentage, status, notes, updated_at)
	VALUES ($1,
	        COALESCE($2, 0),
	        COALESCE($3, $2, 0),
	        COALESCE($4, 'NOT_STARTED'),
	        COALESCE($5, ''),
	        NOW())
	ON CONFLICT (deliverable_id) DO UPDATE SET
	    scope_percentage    = COALESCE($2, deliverable_progress.scope_percentage),
	    progress_percentage = COALESCE($3, deliverable_progress.progress_percentage),
	    status              = COALESCE($4, deliverable_progress.status),
	    notes               = COALESCE($5, deliverable_progress.notes),
	    updated_at          = NOW()
	RETURNING deliverable_id, scope_percentage, progress_percentage, status, notes, updated_at
`

func scanProgress(row pgx.Row) (*model.DeliverableProgress, error) {
	var p model.DeliverableProgress
	err := row.Scan(
		&p.DeliverableID,
		&p.ScopePercentage,
		&p.ProgressPercentage,
		&p.Status,
		&p.Notes,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertMerge applies a merge-patch: nil fields keep their stored value.
// On first insert an unset progress_percentage defaults to the given scope.
func (r *ProgressRepository) UpsertMerge(ctx context.Context, deliverableID int, scope, progress *float64, status, notes *string) (*model.DeliverableProgress, error) {
	r.logger.Debug("Upserting deliverable progress", zap.Int("deliverable_id", deliverableID))

	p, err := scanProgress(r.db.QueryRow(ctx, progressUpsertQuery,
		deliverableID, scope, progress, status, notes))
	if err != nil {
		r.logger.Error("Failed to upsert deliverable progress",
			zap.Int("deliverable_id", deliverableID),
			zap.Error(err),
		)
		return nil, err
	}

	r.logger.Info("Deliverable progress upserted",
		zap.Int("deliverable_id", deliverableID),
		zap.Float64("scope_percentage", p.ScopePercentage),
		zap.String("status", p.Status),
	)
	return p, nil
}

// UpsertMergeTx is UpsertMerge inside the caller's transaction.
func (r *ProgressRepository) UpsertMergeTx(ctx context.Context, tx pgx.Tx, deliverableID int, scope, progress *float64, status, notes *string) (*model.DeliverableProgress, error) {
	return scanProgress(tx.QueryRow(ctx, progressUpsertQuery,
		deliverableID, scope, progress, status, notes))
}

// ForceCompletedTx pins a deliverable at scope 100 / COMPLETED. Delivery-note
// confirmation is authoritative and overrides any manual edit.
func (r *ProgressRepository) ForceCompletedTx(ctx context.Context, tx pgx.Tx, deliverableID int) error {
	query := `
        INSERT INTO deliverable_progress
            (deliverable_id, scope_percentage, progress_percentage, status, notes, updated_at)
        VALUES ($1, 100, 100, 'COMPLETED', '', NOW())
        ON CONFLICT (deliverable_id) DO UPDATE SET
            scope_percentage    = 100,
            progress_percentage = 100,
            status              = 'COMPLETED',
            updated_at          = NOW()
    `
	if _, err := tx.Exec(ctx, query, deliverableID); err != nil {
		r.logger.Error("Failed to force-complete deliverable progress",
			zap.Int("deliverable_id", deliverableID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// GetByDeliverable returns the progress row, or nil when none exists.
func (r *ProgressRepository) GetByDeliverable(ctx context.Context, deliverableID int) (*model.DeliverableProgress, error) {
	query := `
        SELECT deliverable_id, scope_percentage, progress_percentage, status, notes, updated_at
        FROM deliverable_progress
        WHERE deliverable_id = $1
    `
	p, err := scanProgress(r.db.QueryRow(ctx, query, deliverableID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get deliverable progress",
			zap.Int("deliverable_id", deliverableID),
			zap.Error(err),
		)
		return nil, err
	}
	return p, nil
}

// ListByProject returns all progress rows for a project keyed by deliverable.
func (r *ProgressRepository) ListByProject(ctx context.Context, projectID int) (map[int]model.DeliverableProgress, error) {
	query := `
        SELECT p.deliverable_id, p.scope_percentage, p.progress_percentage, p.status, p.notes, p.updated_at
        FROM deliverable_progress p
        JOIN deliverables d ON d.id = p.deliverable_id
        JOIN items i ON i.id = d.item_id
        WHERE i.project_id = $1
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to list progress rows",
			zap.Int("project_id", projectID),
			zap.Error(err),
		)
		return nil, err
	}
	defer rows.Close()

	byDeliverable := map[int]model.DeliverableProgress{}
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, err
		}
		byDeliverable[p.DeliverableID] = *p
	}
	return byDeliverable, rows.Err()
}
