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

// PhaseRepository reads phase reference data: budget ranges, phase
// definitions and per-range expected durations.
type PhaseRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewPhaseRepository(db *pgxpool.Pool, logger *zap.Logger) *PhaseRepository {
	return &PhaseRepository{db: db, logger: logger}
}

// FindRangeForBudget selects the unique range where
// min_budget < budget AND (budget <= max_budget OR max_budget IS NULL).
func (r *PhaseRepository) FindRangeForBudget(ctx context.Context, budgetCents int64) (*model.BudgetRange, error) {
	query := `
        SELECT id, label, min_budget_cents, max_budget_cents, sort_order
        FROM budget_ranges
        WHERE min_budget_cents < $1
          AND (max_budget_cents IS NULL OR $1 <= max_budget_cents)
        ORDER BY sort_order
        LIMIT 1
    `
	var br model.BudgetRange
	err := r.db.QueryRow(ctx, query, budgetCents).Scan(
		&br.ID,
		&br.Label,
		&br.MinBudgetCents,
		&br.MaxBudgetCents,
		&br.SortOrder,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(fmt.Sprintf("no budget range matches budget %d", budgetCents))
		}
		r.logger.Error("Failed to resolve budget range",
			zap.Int64("budget_cents", budgetCents),
			zap.Error(err),
		)
		return nil, err
	}
	return &br, nil
}

func (r *PhaseRepository) ListBudgetRanges(ctx context.Context) ([]model.BudgetRange, error) {
	query := `
        SELECT id, label, min_budget_cents, max_budget_cents, sort_order
        FROM budget_ranges
        ORDER BY sort_order
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query budget ranges", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	ranges := []model.BudgetRange{}
	for rows.Next() {
		var br model.BudgetRange
		if err := rows.Scan(&br.ID, &br.Label, &br.MinBudgetCents, &br.MaxBudgetCents, &br.SortOrder); err != nil {
			return nil, err
		}
		ranges = append(ranges, br)
	}
	return ranges, rows.Err()
}

func (r *PhaseRepository) ListPhaseDefinitions(ctx context.Context) ([]model.PhaseDefinition, error) {
	query := `
        SELECT id, name, main_phase, sort_order
        FROM phase_definitions
        ORDER BY sort_order
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query phase definitions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	defs := []model.PhaseDefinition{}
	for rows.Next() {
		var pd model.PhaseDefinition
		if err := rows.Scan(&pd.ID, &pd.Name, &pd.MainPhase, &pd.SortOrder); err != nil {
			return nil, err
		}
		defs = append(defs, pd)
	}
	return defs, rows.Err()
}

// ListDurationsForRange left-joins all phase definitions with the duration
// rows for one budget range. A phase with no configured duration yields 0.
func (r *PhaseRepository) ListDurationsForRange(ctx context.Context, rangeID int) ([]model.PhaseDurationView, error) {
	r.logger.Debug("Listing phase durations", zap.Int("range_id", rangeID))
	query := `
        SELECT pd.id, pd.name, pd.main_phase, COALESCE(dur.duration_days, 0)
        FROM phase_definitions pd
        LEFT JOIN phase_durations dur
          ON dur.phase_id = pd.id AND dur.range_id = $1
        ORDER BY pd.sort_order
    `
	rows, err := r.db.Query(ctx, query, rangeID)
	if err != nil {
		r.logger.Error("Failed to query phase durations",
			zap.Int("range_id", rangeID),
			zap.Error(err),
		)
		return nil, err
	}
	defer rows.Close()

	views := []model.PhaseDurationView{}
	for rows.Next() {
		var v model.PhaseDurationView
		if err := rows.Scan(&v.PhaseID, &v.PhaseName, &v.MainPhase, &v.DurationDays); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}
