package timeline

import (
	"testing"
	"time"

	"portfoliohub/internal/model"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func datePtr(s string) *time.Time {
	d := date(s)
	return &d
}

func intPtr(v int) *int { return &v }

func findPhase(t *testing.T, phases []Phase, name string) Phase {
	t.Helper()
	for _, p := range phases {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("phase %q not found in %v", name, phases)
	return Phase{}
}

func TestReconstructElapsedPhaseAlwaysCompleted(t *testing.T) {
	// The phase window has fully passed but its deliverable sits at 20%.
	entries := []ScheduleEntry{
		{MainPhase: model.MainPhasePlanning, StartDate: date("2026-01-01"), EndDate: date("2026-01-31")},
	}
	deliverables := []DeliverableState{
		{StartDate: date("2026-01-05"), EndDate: date("2026-01-20"), Progress: 20, Status: model.DeliverableInProgress},
	}

	phases := Reconstruct(ProjectInput{}, entries, deliverables, date("2026-03-01"))

	p := findPhase(t, phases, model.MainPhasePlanning)
	if p.Progress != 100 {
		t.Errorf("elapsed phase progress = %d, want 100", p.Progress)
	}
	if p.Status != StatusCompleted {
		t.Errorf("elapsed phase status = %q, want %q", p.Status, StatusCompleted)
	}
}

func TestReconstructGroupsEntriesByMainPhase(t *testing.T) {
	entries := []ScheduleEntry{
		{MainPhase: model.MainPhaseExecuting, StartDate: date("2026-03-01"), EndDate: date("2026-03-31")},
		{MainPhase: model.MainPhaseExecuting, StartDate: date("2026-04-01"), EndDate: date("2026-05-15")},
		{MainPhase: "Before execution", StartDate: date("2026-02-01"), EndDate: date("2026-02-28")},
	}

	phases := Reconstruct(ProjectInput{}, entries, nil, date("2026-02-15"))

	exec := findPhase(t, phases, model.MainPhaseExecuting)
	if !exec.StartDate.Equal(date("2026-03-01")) || !exec.EndDate.Equal(date("2026-05-15")) {
		t.Errorf("executing span = %v..%v, want 2026-03-01..2026-05-15", exec.StartDate, exec.EndDate)
	}

	// The alias maps onto the canonical label.
	findPhase(t, phases, model.MainPhaseBeforeExecuting)
}

func TestReconstructSortsByCanonicalOrder(t *testing.T) {
	entries := []ScheduleEntry{
		{MainPhase: model.MainPhaseSupport, StartDate: date("2026-06-01"), EndDate: date("2026-12-31")},
		{MainPhase: model.MainPhasePlanning, StartDate: date("2026-01-01"), EndDate: date("2026-01-31")},
		{MainPhase: model.MainPhaseExecuting, StartDate: date("2026-03-01"), EndDate: date("2026-05-31")},
	}

	phases := Reconstruct(ProjectInput{}, entries, nil, date("2026-01-15"))

	for i := 1; i < len(phases); i++ {
		if phases[i-1].Order > phases[i].Order {
			t.Fatalf("phases out of order: %v", phases)
		}
	}
}

func TestReconstructInclusiveOverlap(t *testing.T) {
	entries := []ScheduleEntry{
		{MainPhase: model.MainPhaseExecuting, StartDate: date("2026-03-01"), EndDate: date("2026-03-31")},
	}
	deliverables := []DeliverableState{
		// Touches only the phase's last day.
		{StartDate: date("2026-03-31"), EndDate: date("2026-04-10"), Progress: 50, Status: model.DeliverableInProgress},
		// Ends the day before the phase starts.
		{StartDate: date("2026-02-01"), EndDate: date("2026-02-28"), Progress: 10, Status: model.DeliverableInProgress},
	}

	phases := Reconstruct(ProjectInput{}, entries, deliverables, date("2026-03-15"))

	p := findPhase(t, phases, model.MainPhaseExecuting)
	if p.DeliverableCount != 1 {
		t.Errorf("deliverable count = %d, want 1", p.DeliverableCount)
	}
	if p.Progress != 50 {
		t.Errorf("progress = %d, want 50", p.Progress)
	}
}

func TestReconstructDelayedDeliverableWinsOverAverage(t *testing.T) {
	entries := []ScheduleEntry{
		{MainPhase: model.MainPhaseExecuting, StartDate: date("2026-03-01"), EndDate: date("2026-06-30")},
	}
	deliverables := []DeliverableState{
		{StartDate: date("2026-03-01"), EndDate: date("2026-03-31"), Progress: 90, Status: model.DeliverableInProgress, Delayed: true},
		{StartDate: date("2026-04-01"), EndDate: date("2026-04-30"), Progress: 100, Status: model.DeliverableCompleted},
	}

	phases := Reconstruct(ProjectInput{}, entries, deliverables, date("2026-04-15"))

	p := findPhase(t, phases, model.MainPhaseExecuting)
	if p.Status != StatusDelayed {
		t.Errorf("status = %q, want %q", p.Status, StatusDelayed)
	}
	if p.Progress != 95 {
		t.Errorf("progress = %d, want 95", p.Progress)
	}
}

func TestReconstructEvenSplitFallback(t *testing.T) {
	// No schedule rows: the execution window splits evenly across the five
	// canonical phases and current_phase closes earlier ones.
	project := ProjectInput{
		ExecutionStartDate: datePtr("2026-01-01"),
		ExecutionEndDate:   datePtr("2026-01-25"), // 25 days, 5 per phase
		CurrentPhase:       model.MainPhaseBeforeExecuting,
	}

	phases := Reconstruct(project, nil, nil, date("2026-01-12"))

	if len(phases) != 5 {
		t.Fatalf("phase count = %d, want 5", len(phases))
	}

	planning := findPhase(t, phases, model.MainPhasePlanning)
	if planning.Progress != 100 || planning.Status != StatusCompleted {
		t.Errorf("planning = %d/%q, want 100/%q", planning.Progress, planning.Status, StatusCompleted)
	}
	if planning.DurationDays != 5 {
		t.Errorf("planning duration = %d, want 5", planning.DurationDays)
	}

	executing := findPhase(t, phases, model.MainPhaseExecuting)
	if executing.Progress != 0 || executing.Status != StatusNotStarted {
		t.Errorf("executing = %d/%q, want 0/%q", executing.Progress, executing.Status, StatusNotStarted)
	}
}

func TestReconstructEvenSplitUnknownCurrentPhase(t *testing.T) {
	// A fresh project has current_phase '' and an execution window entirely
	// in the future: with no ordinal to compare against, every phase follows
	// the time-based rules instead of being closed by the comparison.
	project := ProjectInput{
		ExecutionStartDate: datePtr("2027-06-01"),
		ExecutionEndDate:   datePtr("2027-06-25"),
		CurrentPhase:       "",
	}

	phases := Reconstruct(project, nil, nil, date("2026-01-01"))

	if len(phases) != 5 {
		t.Fatalf("phase count = %d, want 5", len(phases))
	}
	for _, p := range phases {
		if p.Progress != 0 || p.Status != StatusNotStarted {
			t.Errorf("phase %q = %d/%q before the window starts, want 0/%q",
				p.Name, p.Progress, p.Status, StatusNotStarted)
		}
	}
}

func TestReconstructEvenSplitUnknownPhaseElapsedWindow(t *testing.T) {
	// Same unknown ordinal, but the window has fully passed: the elapsed
	// rule closes every phase on its own.
	project := ProjectInput{
		ExecutionStartDate: datePtr("2025-01-01"),
		ExecutionEndDate:   datePtr("2025-01-25"),
		CurrentPhase:       "Warranty",
	}

	phases := Reconstruct(project, nil, nil, date("2026-01-01"))

	for _, p := range phases {
		if p.Progress != 100 || p.Status != StatusCompleted {
			t.Errorf("phase %q = %d/%q after the window ends, want 100/%q",
				p.Name, p.Progress, p.Status, StatusCompleted)
		}
	}
}

func TestReconstructSyntheticExecutingAndSupport(t *testing.T) {
	// Schedule rows cover only the early phases; Executing and Support come
	// from the project's execution fields.
	entries := []ScheduleEntry{
		{MainPhase: model.MainPhasePlanning, StartDate: date("2026-01-01"), EndDate: date("2026-01-31")},
	}
	project := ProjectInput{
		ExecutionStartDate:      datePtr("2026-03-01"),
		ExecutionDurationDays:   intPtr(30),
		MaintenanceDurationDays: intPtr(90),
	}

	phases := Reconstruct(project, entries, nil, date("2026-01-15"))

	exec := findPhase(t, phases, model.MainPhaseExecuting)
	if !exec.EndDate.Equal(date("2026-03-30")) {
		t.Errorf("executing end = %v, want 2026-03-30", exec.EndDate)
	}

	support := findPhase(t, phases, model.MainPhaseSupport)
	if !support.StartDate.Equal(date("2026-03-31")) {
		t.Errorf("support start = %v, want 2026-03-31", support.StartDate)
	}
	if support.DurationDays != 90 {
		t.Errorf("support duration = %d, want 90", support.DurationDays)
	}
}

func TestReconstructDefaultMaintenanceDuration(t *testing.T) {
	entries := []ScheduleEntry{
		{MainPhase: model.MainPhasePlanning, StartDate: date("2026-01-01"), EndDate: date("2026-01-31")},
	}
	project := ProjectInput{
		ExecutionStartDate: datePtr("2026-03-01"),
		ExecutionEndDate:   datePtr("2026-03-31"),
	}

	phases := Reconstruct(project, entries, nil, date("2026-03-15"))

	support := findPhase(t, phases, model.MainPhaseSupport)
	if support.DurationDays != 365 {
		t.Errorf("support duration = %d, want 365", support.DurationDays)
	}
}

func TestReconstructSkeletonFallback(t *testing.T) {
	phases := Reconstruct(ProjectInput{CurrentPhase: model.MainPhaseBidding}, nil, nil, date("2026-01-01"))

	if len(phases) != 5 {
		t.Fatalf("phase count = %d, want 5", len(phases))
	}

	planning := findPhase(t, phases, model.MainPhasePlanning)
	if planning.Progress != 100 || planning.Status != StatusCompleted {
		t.Errorf("planning = %d/%q, want completed", planning.Progress, planning.Status)
	}
	bidding := findPhase(t, phases, model.MainPhaseBidding)
	if bidding.Status != StatusInProgress {
		t.Errorf("bidding status = %q, want %q", bidding.Status, StatusInProgress)
	}
	support := findPhase(t, phases, model.MainPhaseSupport)
	if support.Status != StatusNotStarted {
		t.Errorf("support status = %q, want %q", support.Status, StatusNotStarted)
	}
	if support.StartDate != nil {
		t.Errorf("skeleton phases carry no dates, got %v", support.StartDate)
	}
}

func TestReconstructSkeletonUnknownCurrentPhase(t *testing.T) {
	phases := Reconstruct(ProjectInput{CurrentPhase: "Warranty"}, nil, nil, date("2026-01-01"))

	for _, p := range phases {
		if p.Status != StatusNotStarted || p.Progress != 0 {
			t.Errorf("phase %q = %d/%q, want 0/%q", p.Name, p.Progress, p.Status, StatusNotStarted)
		}
	}
}

func TestDaysInclusive(t *testing.T) {
	cases := []struct {
		start, end string
		want       int
	}{
		{"2026-01-01", "2026-01-01", 1},
		{"2026-01-01", "2026-01-02", 2},
		{"2026-01-01", "2026-01-31", 31},
		{"2026-01-10", "2026-01-01", 1}, // inverted never yields zero
	}
	for _, c := range cases {
		if got := daysInclusive(date(c.start), date(c.end)); got != c.want {
			t.Errorf("daysInclusive(%s, %s) = %d, want %d", c.start, c.end, got, c.want)
		}
	}
}

func TestElapsedProgressLinear(t *testing.T) {
	start, end := date("2026-01-01"), date("2026-01-10")

	if got := elapsedProgress(start, end, date("2025-12-31")); got != 0 {
		t.Errorf("before start = %d, want 0", got)
	}
	if got := elapsedProgress(start, end, date("2026-01-05")); got != 50 {
		t.Errorf("halfway = %d, want 50", got)
	}
	if got := elapsedProgress(start, end, date("2026-01-10")); got != 100 {
		t.Errorf("last day = %d, want 100", got)
	}
}

func TestNormalizeMainPhase(t *testing.T) {
	cases := map[string]string{
		"Before execution": model.MainPhaseBeforeExecuting,
		"Pre-executing":    model.MainPhaseBeforeExecuting,
		"Executing":        model.MainPhaseExecuting,
		"Warranty":         "Warranty",
	}
	for in, want := range cases {
		if got := NormalizeMainPhase(in); got != want {
			t.Errorf("NormalizeMainPhase(%q) = %q, want %q", in, got, want)
		}
	}
}
