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

type ProjectRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProjectRepository(db *pgxpool.Pool, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{db: db, logger: logger}
}

const projectColumns = `
	id, name, status, budget_cents, current_phase,
	execution_start_date, execution_end_date,
	execution_duration_days, maintenance_duration_days,
	created_at, updated_at
`

func scanProject(row pgx.Row) (*model.Project, error) {
	var p model.Project
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Status,
		&p.BudgetCents,
		&p.CurrentPhase,
		&p.ExecutionStartDate,
		&p.ExecutionEndDate,
		&p.ExecutionDurationDays,
		&p.MaintenanceDurationDays,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id int) (*model.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	p, err := scanProject(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(fmt.Sprintf("project %d not found", id))
		}
		r.logger.Error("Failed to get project", zap.Int("project_id", id), zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (r *ProjectRepository) List(ctx context.Context) ([]model.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list projects", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepository) Create(ctx context.Context, p *model.Project) (int, error) {
	r.logger.Debug("Inserting project", zap.String("name", p.Name))
	query := `
        INSERT INTO projects (name, status, budget_cents, current_phase,
            execution_start_date, execution_end_date,
            execution_duration_days, maintenance_duration_days)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id
    `
	var id int
	err := r.db.QueryRow(ctx, query,
		p.Name,
		p.Status,
		p.BudgetCents,
		p.CurrentPhase,
		p.ExecutionStartDate,
		p.ExecutionEndDate,
		p.ExecutionDurationDays,
		p.MaintenanceDurationDays,
	).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to insert project", zap.String("name", p.Name), zap.Error(err))
		return 0, err
	}
	r.logger.Info("Project inserted", zap.Int("project_id", id))
	return id, nil
}

// UpdateStatusTx updates the project status inside the caller's transaction.
func (r *ProjectRepository) UpdateStatusTx(ctx context.Context, tx pgx.Tx, id int, status string) error {
	tag, err := tx.Exec(ctx, `
        UPDATE projects SET status = $1, updated_at = NOW() WHERE id = $2
    `, status, id)
	if err != nil {
		r.logger.Error("Failed to update project status",
			zap.Int("project_id", id),
			zap.String("status", status),
			zap.Error(err),
		)
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound(fmt.Sprintf("project %d not found", id))
	}
	return nil
}
