package timeline

import (
	"math"
	"sort"
	"time"

	"portfoliohub/internal/model"
)

// Display statuses of a timeline phase.
const (
	StatusNotStarted = "Not Started"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
	StatusDelayed    = "Delayed"
)

// ProjectInput is the slice of project columns the engine needs.
type ProjectInput struct {
	ExecutionStartDate      *time.Time
	ExecutionEndDate        *time.Time
	ExecutionDurationDays   *int
	MaintenanceDurationDays *int
	CurrentPhase            string
}

// ScheduleEntry is one planned phase row, already joined to its main phase.
type ScheduleEntry struct {
	MainPhase string
	StartDate time.Time
	EndDate   time.Time
}

// DeliverableState is a deliverable's date range with its derived progress.
type DeliverableState struct {
	StartDate time.Time
	EndDate   time.Time
	Progress  float64
	Status    string
	Delayed   bool
}

// Phase is one computed timeline bucket. Never persisted.
type Phase struct {
	Name             string     `json:"phase_name"`
	StartDate        *time.Time `json:"start_date"`
	EndDate          *time.Time `json:"end_date"`
	DurationDays     int        `json:"duration_days"`
	Progress         int        `json:"progress"`
	Status           string     `json:"status"`
	DeliverableCount int        `json:"deliverable_count"`
	Order            int        `json:"order"`
}

const defaultMaintenanceDays = 365

// Reconstruct blends the planned schedule with observed deliverable progress
// into a main-phase timeline. Recomputed on every call; it degrades through
// three levels rather than failing: schedule-based grouping, an even split of
// the execution window, and finally a fixed five-phase skeleton.
func Reconstruct(project ProjectInput, entries []ScheduleEntry, deliverables []DeliverableState, now time.Time) []Phase {
	var phases []Phase

	if len(entries) > 0 {
		phases = phasesFromSchedule(entries, deliverables, now)
	} else {
		phases = phasesFromExecutionWindow(project, deliverables, now)
	}

	phases = appendSyntheticPhases(phases, project, deliverables, now)

	if len(phases) == 0 {
		phases = skeletonPhases(project.CurrentPhase)
	}

	sort.SliceStable(phases, func(i, j int) bool {
		return phases[i].Order < phases[j].Order
	})
	return phases
}

// NormalizeMainPhase folds known aliases onto the canonical labels.
func NormalizeMainPhase(mainPhase string) string {
	switch mainPhase {
	case "Before execution", "Pre-executing", "Pre-execution":
		return model.MainPhaseBeforeExecuting
	default:
		return mainPhase
	}
}

func phasesFromSchedule(entries []ScheduleEntry, deliverables []DeliverableState, now time.Time) []Phase {
	type group struct {
		start time.Time
		end   time.Time
	}
	groups := map[string]*group{}

	// A main phase appears only when at least one entry maps to it.
	for _, e := range entries {
		name := NormalizeMainPhase(e.MainPhase)
		g, ok := groups[name]
		if !ok {
			groups[name] = &group{start: e.StartDate, end: e.EndDate}
			continue
		}
		if e.StartDate.Before(g.start) {
			g.start = e.StartDate
		}
		if e.EndDate.After(g.end) {
			g.end = e.EndDate
		}
	}

	phases := make([]Phase, 0, len(groups))
	for name, g := range groups {
		p := computePhase(name, g.start, g.end, deliverables, now)
		phases = append(phases, p)
	}
	return phases
}

// computePhase applies the shared progress/status rules to one date range.
func computePhase(name string, start, end time.Time, deliverables []DeliverableState, now time.Time) Phase {
	overlapping := overlappingDeliverables(start, end, deliverables)

	p := Phase{
		Name:             name,
		StartDate:        &start,
		EndDate:          &end,
		DurationDays:     daysInclusive(start, end),
		DeliverableCount: len(overlapping),
		Order:            model.MainPhaseOrder(name),
	}

	// Elapsed phases are always closed, regardless of deliverable state.
	if now.After(end) {
		p.Progress = 100
		p.Status = StatusCompleted
		return p
	}

	if len(overlapping) > 0 {
		p.Progress = averageProgress(overlapping)
		p.Status = statusFromDeliverables(overlapping, p.Progress, start, now)
		return p
	}

	p.Progress = elapsedProgress(start, end, now)
	if !now.Before(start) {
		p.Status = StatusInProgress
	} else {
		p.Status = StatusNotStarted
	}
	return p
}

// overlappingDeliverables keeps deliverables whose interval touches the
// phase interval; the test is inclusive on both ends.
func overlappingDeliverables(start, end time.Time, deliverables []DeliverableState) []DeliverableState {
	var out []DeliverableState
	for _, d := range deliverables {
		if !d.StartDate.After(end) && !d.EndDate.Before(start) {
			out = append(out, d)
		}
	}
	return out
}

func averageProgress(deliverables []DeliverableState) int {
	var sum float64
	for _, d := range deliverables {
		sum += d.Progress
	}
	avg := sum / float64(len(deliverables))
	return clampProgress(int(math.Round(avg)))
}

func statusFromDeliverables(deliverables []DeliverableState, progress int, start, now time.Time) string {
	allCompleted := true
	anyInProgress := false
	for _, d := range deliverables {
		if d.Delayed || d.Status == model.DeliverableDelayed {
			return StatusDelayed
		}
		if d.Status != model.DeliverableCompleted {
			allCompleted = false
		}
		if d.Status == model.DeliverableInProgress {
			anyInProgress = true
		}
	}
	if allCompleted {
		return StatusCompleted
	}
	if anyInProgress || progress > 0 || !now.Before(start) {
		return StatusInProgress
	}
	return StatusNotStarted
}

// elapsedProgress estimates progress linearly by elapsed days over total days.
func elapsedProgress(start, end time.Time, now time.Time) int {
	if now.Before(start) {
		return 0
	}
	total := daysInclusive(start, end)
	elapsed := daysInclusive(start, now)
	pct := int(math.Round(float64(elapsed) / float64(total) * 100))
	return clampProgress(pct)
}

// phasesFromExecutionWindow evenly divides the execution window across the
// canonical main phases when no schedule rows exist at all. current_phase
// decides which phases are already closed.
func phasesFromExecutionWindow(project ProjectInput, deliverables []DeliverableState, now time.Time) []Phase {
	start, end, ok := executionWindow(project)
	if !ok {
		return nil
	}

	names := []string{
		model.MainPhasePlanning,
		model.MainPhaseBidding,
		model.MainPhaseBeforeExecuting,
		model.MainPhaseExecuting,
		model.MainPhaseSupport,
	}

	totalDays := daysInclusive(start, end)
	span := totalDays / len(names)
	if span < 1 {
		span = 1
	}

	currentOrder := model.MainPhaseOrder(NormalizeMainPhase(project.CurrentPhase))

	phases := make([]Phase, 0, len(names))
	cursor := start
	for i, name := range names {
		phaseStart := cursor
		phaseEnd := phaseStart.AddDate(0, 0, span-1)
		if i == len(names)-1 || phaseEnd.After(end) {
			phaseEnd = end
		}
		if phaseEnd.Before(phaseStart) {
			phaseEnd = phaseStart
		}
		cursor = phaseEnd.AddDate(0, 0, 1)

		// An unknown or unset current_phase gives no ordinal to compare
		// against, so every phase falls back to the time-based rules.
		order := model.MainPhaseOrder(name)
		var p Phase
		switch {
		case currentOrder != 99 && order < currentOrder:
			p = Phase{
				Name:         name,
				StartDate:    &phaseStart,
				EndDate:      &phaseEnd,
				DurationDays: daysInclusive(phaseStart, phaseEnd),
				Progress:     100,
				Status:       StatusCompleted,
				Order:        order,
			}
		case currentOrder != 99 && order > currentOrder:
			p = Phase{
				Name:         name,
				StartDate:    &phaseStart,
				EndDate:      &phaseEnd,
				DurationDays: daysInclusive(phaseStart, phaseEnd),
				Progress:     0,
				Status:       StatusNotStarted,
				Order:        order,
			}
		default:
			p = computePhase(name, phaseStart, phaseEnd, deliverables, now)
		}
		phases = append(phases, p)
	}
	return phases
}

// appendSyntheticPhases adds Executing and Support derived from the project's
// execution fields rather than stored schedule rows.
func appendSyntheticPhases(phases []Phase, project ProjectInput, deliverables []DeliverableState, now time.Time) []Phase {
	have := map[string]bool{}
	for _, p := range phases {
		have[p.Name] = true
	}

	execStart, execEnd, ok := executionWindow(project)
	if !ok {
		return phases
	}

	if !have[model.MainPhaseExecuting] {
		phases = append(phases, computePhase(model.MainPhaseExecuting, execStart, execEnd, deliverables, now))
	}

	if !have[model.MainPhaseSupport] {
		maintenanceDays := defaultMaintenanceDays
		if project.MaintenanceDurationDays != nil && *project.MaintenanceDurationDays > 0 {
			maintenanceDays = *project.MaintenanceDurationDays
		}
		supportStart := execEnd.AddDate(0, 0, 1)
		supportEnd := supportStart.AddDate(0, 0, maintenanceDays-1)
		phases = append(phases, computePhase(model.MainPhaseSupport, supportStart, supportEnd, deliverables, now))
	}

	return phases
}

// executionWindow resolves the execution interval from explicit dates or
// start + duration. ok is false when no window can be derived.
func executionWindow(project ProjectInput) (time.Time, time.Time, bool) {
	if project.ExecutionStartDate == nil {
		return time.Time{}, time.Time{}, false
	}
	start := *project.ExecutionStartDate

	if project.ExecutionEndDate != nil {
		end := *project.ExecutionEndDate
		if end.Before(start) {
			end = start
		}
		return start, end, true
	}
	if project.ExecutionDurationDays != nil && *project.ExecutionDurationDays > 0 {
		return start, start.AddDate(0, 0, *project.ExecutionDurationDays-1), true
	}
	return time.Time{}, time.Time{}, false
}

// skeletonPhases is the last-resort placeholder: the five canonical phases
// with binary progress from the current_phase ordinal alone.
func skeletonPhases(currentPhase string) []Phase {
	names := []string{
		model.MainPhasePlanning,
		model.MainPhaseBidding,
		model.MainPhaseBeforeExecuting,
		model.MainPhaseExecuting,
		model.MainPhaseSupport,
	}
	currentOrder := model.MainPhaseOrder(NormalizeMainPhase(currentPhase))

	phases := make([]Phase, 0, len(names))
	for _, name := range names {
		order := model.MainPhaseOrder(name)
		p := Phase{Name: name, Order: order}
		switch {
		case currentOrder != 99 && order < currentOrder:
			p.Progress = 100
			p.Status = StatusCompleted
		case currentOrder != 99 && order == currentOrder:
			p.Progress = 0
			p.Status = StatusInProgress
		default:
			p.Progress = 0
			p.Status = StatusNotStarted
		}
		phases = append(phases, p)
	}
	return phases
}

// daysInclusive counts calendar days from start to end, both ends included.
// Identical start and end yield 1, never 0.
func daysInclusive(start, end time.Time) int {
	days := int(end.Sub(start).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

func clampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
