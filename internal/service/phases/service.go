package phases

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"portfoliohub/internal/model"
	"portfoliohub/pkg/apperrors"
)

// Store is the reference-data access the resolver needs.
type Store interface {
	FindRangeForBudget(ctx context.Context, budgetCents int64) (*model.BudgetRange, error)
	ListDurationsForRange(ctx context.Context, rangeID int) ([]model.PhaseDurationView, error)
	ListPhaseDefinitions(ctx context.Context) ([]model.PhaseDefinition, error)
}

const cacheTTL = 10 * time.Minute

// Service resolves a project budget to its range and the expected phase
// durations for that range. Pure reads; duration lists are cached in redis
// since they are static reference data.
type Service struct {
	store  Store
	rdb    *redis.Client
	logger *zap.Logger
}

func NewService(store Store, rdb *redis.Client, logger *zap.Logger) *Service {
	return &Service{store: store, rdb: rdb, logger: logger}
}

// ResolveBudgetRange returns the unique range matching a non-negative budget.
func (s *Service) ResolveBudgetRange(ctx context.Context, budgetCents int64) (*model.BudgetRange, error) {
	if budgetCents < 0 {
		return nil, apperrors.Validation("invalid budget", []string{"budget must be non-negative"})
	}
	return s.store.FindRangeForBudget(ctx, budgetCents)
}

// DefaultPhaseDurations lists every phase with its configured duration for
// the range; phases without a duration row come back with 0 days.
func (s *Service) DefaultPhaseDurations(ctx context.Context, rangeID int) ([]model.PhaseDurationView, error) {
	key := fmt.Sprintf("phases:durations:%d", rangeID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
			var views []model.PhaseDurationView
			if err := json.Unmarshal(cached, &views); err == nil {
				s.logger.Debug("Phase durations served from cache", zap.Int("range_id", rangeID))
				return views, nil
			}
		}
	}

	views, err := s.store.ListDurationsForRange(ctx, rangeID)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if data, err := json.Marshal(views); err == nil {
			if err := s.rdb.Set(ctx, key, data, cacheTTL).Err(); err != nil {
				s.logger.Warn("Failed to cache phase durations", zap.Error(err))
			}
		}
	}

	return views, nil
}

// ResolveByBudget combines range resolution with the default durations.
func (s *Service) ResolveByBudget(ctx context.Context, budgetCents int64) (*model.BudgetRange, []model.PhaseDurationView, error) {
	br, err := s.ResolveBudgetRange(ctx, budgetCents)
	if err != nil {
		return nil, nil, err
	}

	views, err := s.DefaultPhaseDurations(ctx, br.ID)
	if err != nil {
		return nil, nil, err
	}
	return br, views, nil
}
