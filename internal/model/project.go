package model

import "time"

// Project statuses.
const (
	ProjectStatusDraft           = "DRAFT"
	ProjectStatusPendingApproval = "PENDING_APPROVAL"
	ProjectStatusApproved        = "APPROVED"
)

type Project struct {
	ID                      int        `json:"id"`
	Name                    string     `json:"name"`
	Status                  string     `json:"status"`
	BudgetCents             int64      `json:"budget_cents"`
	CurrentPhase            string     `json:"current_phase"`
	ExecutionStartDate      *time.Time `json:"execution_start_date"`
	ExecutionEndDate        *time.Time `json:"execution_end_date"`
	ExecutionDurationDays   *int       `json:"execution_duration_days"`
	MaintenanceDurationDays *int       `json:"maintenance_duration_days"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
}

// Item groups deliverables under a project.
type Item struct {
	ID        int    `json:"id"`
	ProjectID int    `json:"project_id"`
	Name      string `json:"name"`
}
