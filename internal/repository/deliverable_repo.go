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

type DeliverableRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewDeliverableRepository(db *pgxpool.Pool, logger *zap.Logger) *DeliverableRepository {
	return &DeliverableRepository{db: db, logger: logger}
}

const deliverableColumns = `
	id, item_id, name, amount_cents, start_date, end_date, status, created_at
`

func scanDeliverable(row pgx.Row) (*model.Deliverable, error) {
	var d model.Deliverable
	err := row.Scan(
		&d.ID,
		&d.ItemID,
		&d.Name,
		&d.AmountCents,
		&d.StartDate,
		&d.EndDate,
		&d.Status,
		&d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DeliverableRepository) GetByID(ctx context.Context, id int) (*model.Deliverable, error) {
	query := `SELECT ` + deliverableColumns + ` FROM deliverables WHERE id = $1`
	d, err := scanDeliverable(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(fmt.Sprintf("deliverable %d not found", id))
		}
		r.logger.Error("Failed to get deliverable", zap.Int("deliverable_id", id), zap.Error(err))
		return nil, err
	}
	return d, nil
}

// ListByProject returns every deliverable under the project's items.
func (r *DeliverableRepository) ListByProject(ctx context.Context, projectID int) ([]model.Deliverable, error) {
	query := `
        SELECT d.id, d.item_id, d.name, d.amount_cents, d.start_date, d.end_date, d.status, d.created_at
        FROM deliverables d
        JOIN items i ON i.id = d.item_id
        WHERE i.project_id = $1
        ORDER BY d.start_date, d.id
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to list deliverables",
			zap.Int("project_id", projectID),
			zap.Error(err),
		)
		return nil, err
	}
	defer rows.Close()

	deliverables := []model.Deliverable{}
	for rows.Next() {
		d, err := scanDeliverable(rows)
		if err != nil {
			return nil, err
		}
		deliverables = append(deliverables, *d)
	}
	return deliverables, rows.Err()
}
