package model

import "time"

// Canonical main-phase labels, in timeline order.
const (
	MainPhasePlanning        = "Planning"
	MainPhaseBidding         = "Bidding"
	MainPhaseBeforeExecuting = "Before executing"
	MainPhaseExecuting       = "Executing"
	MainPhaseSupport         = "Support"
)

// MainPhaseOrder returns the canonical position of a main phase, starting at 1.
// Unknown labels sort last.
func MainPhaseOrder(mainPhase string) int {
	switch mainPhase {
	case MainPhasePlanning:
		return 1
	case MainPhaseBidding:
		return 2
	case MainPhaseBeforeExecuting:
		return 3
	case MainPhaseExecuting:
		return 4
	case MainPhaseSupport:
		return 5
	default:
		return 99
	}
}

// BudgetRange is a bucket of project budgets. Ranges are contiguous and
// non-overlapping; a null MaxBudgetCents means the range is unbounded above.
type BudgetRange struct {
	ID             int    `json:"id"`
	Label          string `json:"label"`
	MinBudgetCents int64  `json:"min_budget_cents"`
	MaxBudgetCents *int64 `json:"max_budget_cents"`
	SortOrder      int    `json:"sort_order"`
}

// PhaseDefinition is static reference data; MainPhase groups several
// definitions under one timeline bucket.
type PhaseDefinition struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	MainPhase string `json:"main_phase"`
	SortOrder int    `json:"sort_order"`
}

// PhaseDuration is the expected duration of a phase for a budget bucket.
type PhaseDuration struct {
	PhaseID      int `json:"phase_id"`
	RangeID      int `json:"range_id"`
	DurationDays int `json:"duration_days"`
}

// PhaseDurationView is a phase joined with its configured duration for a
// resolved budget range. DurationDays is 0 when not yet configured.
type PhaseDurationView struct {
	PhaseID      int    `json:"phase_id"`
	PhaseName    string `json:"phase_name"`
	MainPhase    string `json:"main_phase"`
	DurationDays int    `json:"duration_days"`
}

// SchedulePlanEntry is one per-phase row of a project's schedule plan.
// The full set is replaced wholesale on every upsert.
type SchedulePlanEntry struct {
	ID           int       `json:"id"`
	ProjectID    int       `json:"project_id"`
	PhaseID      int       `json:"phase_id"`
	DurationDays int       `json:"duration_days"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
}

// SchedulePlanView is a stored entry joined with phase display metadata.
type SchedulePlanView struct {
	SchedulePlanEntry
	PhaseName  string `json:"phase_name"`
	MainPhase  string `json:"main_phase"`
	PhaseOrder int    `json:"phase_order"`
}
