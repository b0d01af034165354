package timeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"portfoliohub/internal/model"
	"portfoliohub/internal/service/progress"
)

// ProjectStore resolves the project whose timeline is being reconstructed.
type ProjectStore interface {
	GetByID(ctx context.Context, id int) (*model.Project, error)
}

// ScheduleStore lists the stored plan joined with phase metadata.
type ScheduleStore interface {
	ListByProject(ctx context.Context, projectID int) ([]model.SchedulePlanView, error)
}

// DeliverableStore lists a project's deliverables.
type DeliverableStore interface {
	ListByProject(ctx context.Context, projectID int) ([]model.Deliverable, error)
}

// ProgressStore batch-loads progress rows keyed by deliverable.
type ProgressStore interface {
	ListByProject(ctx context.Context, projectID int) (map[int]model.DeliverableProgress, error)
}

// DocumentStore batch-loads document history keyed by deliverable.
type DocumentStore interface {
	ListByProject(ctx context.Context, projectID int) (map[int][]model.DeliverableDocument, error)
}

// Service assembles the engine's inputs from storage and recomputes the
// timeline on every call. It degrades through the engine's fallbacks instead
// of failing when schedule data is missing.
type Service struct {
	projects     ProjectStore
	schedules    ScheduleStore
	deliverables DeliverableStore
	progressRows ProgressStore
	documents    DocumentStore
	logger       *zap.Logger
	now          func() time.Time
}

func NewService(
	projects ProjectStore,
	schedules ScheduleStore,
	deliverables DeliverableStore,
	progressRows ProgressStore,
	documents DocumentStore,
	logger *zap.Logger,
) *Service {
	return &Service{
		projects:     projects,
		schedules:    schedules,
		deliverables: deliverables,
		progressRows: progressRows,
		documents:    documents,
		logger:       logger,
		now:          time.Now,
	}
}

// WithNow overrides the clock, for tests.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// Get reconstructs the project timeline.
func (s *Service) Get(ctx context.Context, projectID int) ([]Phase, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	views, err := s.schedules.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	entries := make([]ScheduleEntry, 0, len(views))
	for _, v := range views {
		entries = append(entries, ScheduleEntry{
			MainPhase: v.MainPhase,
			StartDate: v.StartDate,
			EndDate:   v.EndDate,
		})
	}

	states, err := s.deliverableStates(ctx, projectID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	phases := Reconstruct(ProjectInput{
		ExecutionStartDate:      project.ExecutionStartDate,
		ExecutionEndDate:        project.ExecutionEndDate,
		ExecutionDurationDays:   project.ExecutionDurationDays,
		MaintenanceDurationDays: project.MaintenanceDurationDays,
		CurrentPhase:            project.CurrentPhase,
	}, entries, states, now)

	s.logger.Debug("Timeline reconstructed",
		zap.Int("project_id", projectID),
		zap.Int("phase_count", len(phases)),
		zap.Int("schedule_entries", len(entries)),
		zap.Int("deliverables", len(states)),
	)
	return phases, nil
}

// deliverableStates loads the project's deliverables and derives each one's
// current progress from its progress row and document history.
func (s *Service) deliverableStates(ctx context.Context, projectID int) ([]DeliverableState, error) {
	deliverables, err := s.deliverables.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if len(deliverables) == 0 {
		return nil, nil
	}

	progressByID, err := s.progressRows.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	docsByID, err := s.documents.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	states := make([]DeliverableState, 0, len(deliverables))
	for _, d := range deliverables {
		var row *model.DeliverableProgress
		if p, ok := progressByID[d.ID]; ok {
			row = &p
		}

		derived := progress.Derive(progress.DeriveInput{
			AmountCents: d.AmountCents,
			EndDate:     d.EndDate,
			Progress:    row,
			Documents:   docsByID[d.ID],
			Now:         now,
		})

		progressVal := derived.ScopePercentage
		if row != nil {
			progressVal = row.ProgressPercentage
		}

		states = append(states, DeliverableState{
			StartDate: d.StartDate,
			EndDate:   d.EndDate,
			Progress:  progressVal,
			Status:    derived.Status,
			Delayed:   derived.Delayed,
		})
	}
	return states, nil
}
