package schedule

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"portfoliohub/internal/model"
	"portfoliohub/pkg/apperrors"
)

const dateLayout = "2006-01-02"

// Store persists schedule plans with full-replace semantics.
type Store interface {
	ReplaceForProject(ctx context.Context, projectID int, entries []model.SchedulePlanEntry) ([]model.SchedulePlanEntry, error)
	ListByProject(ctx context.Context, projectID int) ([]model.SchedulePlanView, error)
}

// EntryInput is one schedule row as submitted by the client. Pointer fields
// so missing values are detectable during validation.
type EntryInput struct {
	PhaseID      *int    `json:"phase_id"`
	DurationDays *int    `json:"duration_days"`
	StartDate    *string `json:"start_date"`
	EndDate      *string `json:"end_date"`
}

type Service struct {
	store  Store
	logger *zap.Logger
}

func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Upsert validates every entry before touching storage, then replaces the
// project's plan wholesale in one transaction.
func (s *Service) Upsert(ctx context.Context, projectID int, inputs []EntryInput) ([]model.SchedulePlanEntry, error) {
	entries, violations := ValidateEntries(inputs)
	if len(violations) > 0 {
		return nil, apperrors.Validation("invalid schedule entries", violations)
	}

	stored, err := s.store.ReplaceForProject(ctx, projectID, entries)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Schedule plan upserted",
		zap.Int("project_id", projectID),
		zap.Int("entry_count", len(stored)),
	)
	return stored, nil
}

func (s *Service) Get(ctx context.Context, projectID int) ([]model.SchedulePlanView, error) {
	return s.store.ListByProject(ctx, projectID)
}

// ValidateEntries checks every entry and collects every violation found
// instead of failing on the first.
func ValidateEntries(inputs []EntryInput) ([]model.SchedulePlanEntry, []string) {
	var violations []string

	if len(inputs) == 0 {
		return nil, []string{"at least one schedule entry is required"}
	}

	entries := make([]model.SchedulePlanEntry, 0, len(inputs))
	for i, in := range inputs {
		var e model.SchedulePlanEntry
		ok := true

		if in.PhaseID == nil {
			violations = append(violations, fmt.Sprintf("entry %d: phase_id is required", i))
			ok = false
		} else {
			e.PhaseID = *in.PhaseID
		}

		if in.DurationDays == nil {
			violations = append(violations, fmt.Sprintf("entry %d: duration_days is required", i))
			ok = false
		} else {
			e.DurationDays = *in.DurationDays
		}

		if in.StartDate == nil {
			violations = append(violations, fmt.Sprintf("entry %d: start_date is required", i))
			ok = false
		} else if start, err := time.Parse(dateLayout, *in.StartDate); err != nil {
			violations = append(violations, fmt.Sprintf("entry %d: start_date %q is not a valid date", i, *in.StartDate))
			ok = false
		} else {
			e.StartDate = start
		}

		if in.EndDate == nil {
			violations = append(violations, fmt.Sprintf("entry %d: end_date is required", i))
			ok = false
		} else if end, err := time.Parse(dateLayout, *in.EndDate); err != nil {
			violations = append(violations, fmt.Sprintf("entry %d: end_date %q is not a valid date", i, *in.EndDate))
			ok = false
		} else {
			e.EndDate = end
		}

		if ok && e.EndDate.Before(e.StartDate) {
			violations = append(violations, fmt.Sprintf("entry %d: end_date precedes start_date", i))
			ok = false
		}

		if ok {
			entries = append(entries, e)
		}
	}

	if len(violations) > 0 {
		return nil, violations
	}
	return entries, nil
}
