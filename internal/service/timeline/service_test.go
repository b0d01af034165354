package timeline

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"portfoliohub/internal/model"
	"portfoliohub/pkg/apperrors"
)

type fakeProjects struct {
	byID map[int]*model.Project
}

func (f *fakeProjects) GetByID(ctx context.Context, id int) (*model.Project, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, apperrors.NotFound("project not found")
}

type fakeSchedules struct {
	views []model.SchedulePlanView
}

func (f *fakeSchedules) ListByProject(ctx context.Context, projectID int) ([]model.SchedulePlanView, error) {
	return f.views, nil
}

type fakeDeliverables struct {
	rows []model.Deliverable
}

func (f *fakeDeliverables) ListByProject(ctx context.Context, projectID int) ([]model.Deliverable, error) {
	return f.rows, nil
}

type fakeProgressRows struct {
	byDeliverable map[int]model.DeliverableProgress
}

func (f *fakeProgressRows) ListByProject(ctx context.Context, projectID int) (map[int]model.DeliverableProgress, error) {
	return f.byDeliverable, nil
}

type fakeDocuments struct {
	byDeliverable map[int][]model.DeliverableDocument
}

func (f *fakeDocuments) ListByProject(ctx context.Context, projectID int) (map[int][]model.DeliverableDocument, error) {
	return f.byDeliverable, nil
}

func newTestService(projects *fakeProjects, schedules *fakeSchedules, deliverables *fakeDeliverables, progressRows *fakeProgressRows, documents *fakeDocuments) *Service {
	return NewService(projects, schedules, deliverables, progressRows, documents, zap.NewNop())
}

func scheduleView(mainPhase, start, end string) model.SchedulePlanView {
	return model.SchedulePlanView{
		SchedulePlanEntry: model.SchedulePlanEntry{
			StartDate: date(start),
			EndDate:   date(end),
		},
		MainPhase: mainPhase,
	}
}

func TestServiceGetUsesProgressRowValue(t *testing.T) {
	projects := &fakeProjects{byID: map[int]*model.Project{
		1: {ID: 1, CurrentPhase: model.MainPhasePlanning},
	}}
	schedules := &fakeSchedules{views: []model.SchedulePlanView{
		scheduleView(model.MainPhasePlanning, "2026-05-01", "2026-05-31"),
	}}
	deliverables := &fakeDeliverables{rows: []model.Deliverable{
		{ID: 7, AmountCents: 100000, StartDate: date("2026-05-05"), EndDate: date("2026-05-20")},
	}}
	// The row's progress_percentage (55) drives the timeline, not the
	// derived scope (30).
	progressRows := &fakeProgressRows{byDeliverable: map[int]model.DeliverableProgress{
		7: {DeliverableID: 7, ScopePercentage: 30, ProgressPercentage: 55, Status: model.DeliverableInProgress},
	}}
	documents := &fakeDocuments{byDeliverable: map[int][]model.DeliverableDocument{}}

	svc := newTestService(projects, schedules, deliverables, progressRows, documents).
		WithNow(func() time.Time { return date("2026-05-10") })

	phases, err := svc.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	planning := findPhase(t, phases, model.MainPhasePlanning)
	if planning.Progress != 55 {
		t.Errorf("Planning progress = %d, want 55 from progress row", planning.Progress)
	}
	if planning.Status != StatusInProgress {
		t.Errorf("Planning status = %q, want %q", planning.Status, StatusInProgress)
	}
	if planning.DeliverableCount != 1 {
		t.Errorf("Planning deliverable count = %d, want 1", planning.DeliverableCount)
	}
}

func TestServiceGetMapsScheduleViews(t *testing.T) {
	projects := &fakeProjects{byID: map[int]*model.Project{
		1: {ID: 1, CurrentPhase: model.MainPhaseBidding},
	}}
	schedules := &fakeSchedules{views: []model.SchedulePlanView{
		scheduleView(model.MainPhasePlanning, "2026-01-01", "2026-01-31"),
		scheduleView("Before execution", "2026-02-01", "2026-02-28"),
	}}
	svc := newTestService(projects, schedules, &fakeDeliverables{}, &fakeProgressRows{}, &fakeDocuments{}).
		WithNow(func() time.Time { return date("2026-02-10") })

	phases, err := svc.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	planning := findPhase(t, phases, model.MainPhasePlanning)
	if planning.Status != StatusCompleted {
		t.Errorf("Planning status = %q, want %q for an elapsed entry", planning.Status, StatusCompleted)
	}
	// The alias folds onto the canonical label before grouping.
	before := findPhase(t, phases, model.MainPhaseBeforeExecuting)
	if before.DurationDays != 28 {
		t.Errorf("Before executing duration = %d, want 28", before.DurationDays)
	}
}

func TestServiceGetUnknownProject(t *testing.T) {
	svc := newTestService(&fakeProjects{}, &fakeSchedules{}, &fakeDeliverables{}, &fakeProgressRows{}, &fakeDocuments{})

	if _, err := svc.Get(context.Background(), 42); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Errorf("err = %v, want not_found", err)
	}
}
