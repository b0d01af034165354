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

type TaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

func (r *TaskRepository) Insert(ctx context.Context, t *model.Task) (int, error) {
	r.logger.Debug("Inserting task",
		zap.String("title", t.Title),
		zap.String("related_entity_type", t.RelatedEntityType),
		zap.Int("related_entity_id", t.RelatedEntityID),
	)
	query := `
        INSERT INTO tasks (title, status, due_date, assigned_to, related_entity_type, related_entity_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `
	var id int
	err := r.db.QueryRow(ctx, query,
		t.Title,
		t.Status,
		t.DueDate,
		t.AssignedTo,
		t.RelatedEntityType,
		t.RelatedEntityID,
	).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to insert task",
			zap.String("title", t.Title),
			zap.Error(err),
		)
		return 0, err
	}
	r.logger.Info("Task inserted", zap.Int("task_id", id))
	return id, nil
}

// List returns tasks, optionally filtered by assignee and status.
func (r *TaskRepository) List(ctx context.Context, assignedTo *int, status string) ([]model.Task, error) {
	query := `
        SELECT id, title, status, due_date, assigned_to, related_entity_type, related_entity_id, created_at
        FROM tasks
        WHERE ($1::int IS NULL OR assigned_to = $1)
          AND ($2 = '' OR status = $2)
        ORDER BY due_date, id
    `
	rows, err := r.db.Query(ctx, query, assignedTo, status)
	if err != nil {
		r.logger.Error("Failed to query tasks", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(
			&t.ID,
			&t.Title,
			&t.Status,
			&t.DueDate,
			&t.AssignedTo,
			&t.RelatedEntityType,
			&t.RelatedEntityID,
			&t.CreatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// MarkOverdue flips every Open task past its due date to Delayed.
// Idempotent; safe to run on any cadence.
func (r *TaskRepository) MarkOverdue(ctx context.Context) (int64, error) {
	result, err := r.db.Exec(ctx, `
        UPDATE tasks
        SET status = 'Delayed'
        WHERE status = 'Open' AND due_date < CURRENT_DATE
    `)
	if err != nil {
		r.logger.Error("Failed to mark overdue tasks", zap.Error(err))
		return 0, err
	}
	return result.RowsAffected(), nil
}

// GetActivityByCode looks up workflow activity reference data.
func (r *TaskRepository) GetActivityByCode(ctx context.Context, code string) (*model.WorkflowActivity, error) {
	query := `
        SELECT id, code, title, duration_days, assigned_role
        FROM workflow_activities
        WHERE code = $1
    `
	var a model.WorkflowActivity
	err := r.db.QueryRow(ctx, query, code).Scan(
		&a.ID,
		&a.Code,
		&a.Title,
		&a.DurationDays,
		&a.AssignedRole,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(fmt.Sprintf("workflow activity %q not found", code))
		}
		r.logger.Error("Failed to get workflow activity",
			zap.String("code", code),
			zap.Error(err),
		)
		return nil, err
	}
	return &a, nil
}
