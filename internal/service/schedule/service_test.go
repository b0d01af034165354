package schedule

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"portfoliohub/internal/model"
	"portfoliohub/pkg/apperrors"
)

type fakeStore struct {
	replaced    []model.SchedulePlanEntry
	replacedFor int
	replaceErr  error
}

func (f *fakeStore) ReplaceForProject(ctx context.Context, projectID int, entries []model.SchedulePlanEntry) ([]model.SchedulePlanEntry, error) {
	if f.replaceErr != nil {
		return nil, f.replaceErr
	}
	f.replacedFor = projectID
	f.replaced = entries
	return entries, nil
}

func (f *fakeStore) ListByProject(ctx context.Context, projectID int) ([]model.SchedulePlanView, error) {
	return nil, nil
}

func strPtr(s string) *string { return &s }
func intPtr(v int) *int       { return &v }

func TestUpsertValidEntries(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, zap.NewNop())

	entries, err := svc.Upsert(context.Background(), 7, []EntryInput{
		{PhaseID: intPtr(1), DurationDays: intPtr(14), StartDate: strPtr("2026-01-01"), EndDate: strPtr("2026-01-14")},
		{PhaseID: intPtr(2), DurationDays: intPtr(7), StartDate: strPtr("2026-01-15"), EndDate: strPtr("2026-01-21")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if store.replacedFor != 7 {
		t.Errorf("replaced project = %d, want 7", store.replacedFor)
	}
}

func TestUpsertCollectsAllViolations(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, zap.NewNop())

	_, err := svc.Upsert(context.Background(), 7, []EntryInput{
		{DurationDays: intPtr(14), StartDate: strPtr("2026-01-01"), EndDate: strPtr("2026-01-14")}, // no phase_id
		{PhaseID: intPtr(2), DurationDays: intPtr(7), StartDate: strPtr("01/15/2026"), EndDate: strPtr("2026-01-21")},
		{PhaseID: intPtr(3), DurationDays: intPtr(7), StartDate: strPtr("2026-02-10"), EndDate: strPtr("2026-02-01")},
	})
	if err == nil {
		t.Fatal("expected validation error")
	}

	ae := apperrors.AsAppError(err)
	if ae.Code != apperrors.CodeInvalid {
		t.Fatalf("code = %q, want invalid", ae.Code)
	}
	if len(ae.Violations) != 3 {
		t.Errorf("violations = %v, want 3", ae.Violations)
	}

	// Nothing was written.
	if store.replaced != nil {
		t.Error("store must not be touched when validation fails")
	}
}

func TestUpsertRejectsEmptyPlan(t *testing.T) {
	svc := NewService(&fakeStore{}, zap.NewNop())

	_, err := svc.Upsert(context.Background(), 7, nil)
	if !apperrors.IsCode(err, apperrors.CodeInvalid) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestValidateEntriesMessagesNameTheEntry(t *testing.T) {
	_, violations := ValidateEntries([]EntryInput{
		{PhaseID: intPtr(1), DurationDays: intPtr(5), StartDate: strPtr("2026-01-01"), EndDate: strPtr("2026-01-05")},
		{PhaseID: intPtr(2)},
	})

	for _, v := range violations {
		if !strings.HasPrefix(v, "entry 1:") {
			t.Errorf("violation %q should name entry 1", v)
		}
	}
	if len(violations) != 3 {
		t.Errorf("violations = %v, want 3 for the second entry", violations)
	}
}
