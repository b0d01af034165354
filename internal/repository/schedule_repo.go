package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"portfoliohub/internal/model"
	"portfoliohub/pkg/apperrors"
)

type ScheduleRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewScheduleRepository(db *pgxpool.Pool, logger *zap.Logger) *ScheduleRepository {
	return &ScheduleRepository{db: db, logger: logger}
}

// ReplaceForProject deletes every existing entry for the project and inserts
// the new set inside one transaction. A concurrent reader sees either the old
// complete set or the new complete set.
func (r *ScheduleRepository) ReplaceForProject(ctx context.Context, projectID int, entries []model.SchedulePlanEntry) ([]model.SchedulePlanEntry, error) {
	r.logger.Debug("Replacing schedule plan",
		zap.Int("project_id", projectID),
		zap.Int("entry_count", len(entries)),
	)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM schedule_plan_entries WHERE project_id = $1`, projectID); err != nil {
		r.logger.Error("Failed to delete existing schedule entries",
			zap.Int("project_id", projectID),
			zap.Error(err),
		)
		return nil, err
	}

	insertQuery := `
        INSERT INTO schedule_plan_entries (project_id, phase_id, duration_days, start_date, end_date)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
	stored := make([]model.SchedulePlanEntry, 0, len(entries))
	for _, e := range entries {
		e.ProjectID = projectID
		err := tx.QueryRow(ctx, insertQuery,
			projectID,
			e.PhaseID,
			e.DurationDays,
			e.StartDate,
			e.EndDate,
		).Scan(&e.ID)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return nil, apperrors.Wrap(err, apperrors.CodeConflict,
					fmt.Sprintf("unknown phase_id %d: %s", e.PhaseID, pgErr.ConstraintName))
			}
			r.logger.Error("Failed to insert schedule entry",
				zap.Int("project_id", projectID),
				zap.Int("phase_id", e.PhaseID),
				zap.Error(err),
			)
			return nil, err
		}
		stored = append(stored, e)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit schedule replace: %w", err)
	}

	r.logger.Info("Schedule plan replaced",
		zap.Int("project_id", projectID),
		zap.Int("entry_count", len(stored)),
	)
	return stored, nil
}

// ListByProject returns stored entries joined with phase display metadata,
// ordered by phase order.
func (r *ScheduleRepository) ListByProject(ctx context.Context, projectID int) ([]model.SchedulePlanView, error) {
	query := `
        SELECT s.id, s.project_id, s.phase_id, s.duration_days, s.start_date, s.end_date,
               pd.name, pd.main_phase, pd.sort_order
        FROM schedule_plan_entries s
        JOIN phase_definitions pd ON pd.id = s.phase_id
        WHERE s.project_id = $1
        ORDER BY pd.sort_order
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to query schedule plan",
			zap.Int("project_id", projectID),
			zap.Error(err),
		)
		return nil, err
	}
	defer rows.Close()

	views := []model.SchedulePlanView{}
	for rows.Next() {
		var v model.SchedulePlanView
		if err := rows.Scan(
			&v.ID,
			&v.ProjectID,
			&v.PhaseID,
			&v.DurationDays,
			&v.StartDate,
			&v.EndDate,
			&v.PhaseName,
			&v.MainPhase,
			&v.PhaseOrder,
		); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}
