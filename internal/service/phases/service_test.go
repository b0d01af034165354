package phases

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"portfoliohub/internal/model"
	"portfoliohub/pkg/apperrors"
)

type fakeStore struct {
	ranges    []model.BudgetRange
	durations map[int][]model.PhaseDurationView
}

func (f *fakeStore) FindRangeForBudget(ctx context.Context, budgetCents int64) (*model.BudgetRange, error) {
	for _, r := range f.ranges {
		if r.MinBudgetCents < budgetCents && (r.MaxBudgetCents == nil || budgetCents <= *r.MaxBudgetCents) {
			match := r
			return &match, nil
		}
	}
	return nil, apperrors.NotFound("no budget range matches")
}

func (f *fakeStore) ListDurationsForRange(ctx context.Context, rangeID int) ([]model.PhaseDurationView, error) {
	return f.durations[rangeID], nil
}

func (f *fakeStore) ListPhaseDefinitions(ctx context.Context) ([]model.PhaseDefinition, error) {
	return nil, nil
}

func i64(v int64) *int64 { return &v }

func newFakeStore() *fakeStore {
	return &fakeStore{
		ranges: []model.BudgetRange{
			{ID: 1, Label: "small", MinBudgetCents: 0, MaxBudgetCents: i64(10_000_00)},
			{ID: 2, Label: "medium", MinBudgetCents: 10_000_00, MaxBudgetCents: i64(100_000_00)},
			{ID: 3, Label: "large", MinBudgetCents: 100_000_00, MaxBudgetCents: nil},
		},
		durations: map[int][]model.PhaseDurationView{
			2: {
				{PhaseID: 1, PhaseName: "Requirements", MainPhase: model.MainPhasePlanning, DurationDays: 10},
				{PhaseID: 2, PhaseName: "Tender", MainPhase: model.MainPhaseBidding, DurationDays: 0},
			},
		},
	}
}

func TestResolveBudgetRangeBoundaries(t *testing.T) {
	svc := NewService(newFakeStore(), nil, zap.NewNop())
	ctx := context.Background()

	cases := []struct {
		budgetCents int64
		wantLabel   string
	}{
		{50_00, "small"},
		{10_000_00, "small"}, // upper bound is inclusive
		{10_000_01, "medium"},
		{5_000_000_00, "large"},
	}
	for _, c := range cases {
		br, err := svc.ResolveBudgetRange(ctx, c.budgetCents)
		if err != nil {
			t.Fatalf("budget %d: %v", c.budgetCents, err)
		}
		if br.Label != c.wantLabel {
			t.Errorf("budget %d resolved to %q, want %q", c.budgetCents, br.Label, c.wantLabel)
		}
	}
}

func TestResolveBudgetRangeRejectsNegative(t *testing.T) {
	svc := NewService(newFakeStore(), nil, zap.NewNop())

	_, err := svc.ResolveBudgetRange(context.Background(), -1)
	if !apperrors.IsCode(err, apperrors.CodeInvalid) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestResolveByBudgetReturnsDurations(t *testing.T) {
	svc := NewService(newFakeStore(), nil, zap.NewNop())

	br, durations, err := svc.ResolveByBudget(context.Background(), 50_000_00)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if br.ID != 2 {
		t.Errorf("range = %d, want 2", br.ID)
	}
	if len(durations) != 2 {
		t.Fatalf("durations = %d, want 2", len(durations))
	}
	// Unconfigured phases still appear, with zero days.
	if durations[1].DurationDays != 0 {
		t.Errorf("unconfigured phase days = %d, want 0", durations[1].DurationDays)
	}
}

func TestDefaultPhaseDurationsUnknownRange(t *testing.T) {
	svc := NewService(newFakeStore(), nil, zap.NewNop())

	durations, err := svc.DefaultPhaseDurations(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(durations) != 0 {
		t.Errorf("durations = %v, want empty", durations)
	}
}
