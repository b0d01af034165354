package model

import "time"

// Task statuses.
const (
	TaskStatusOpen    = "Open"
	TaskStatusDone    = "Done"
	TaskStatusDelayed = "Delayed"
)

type Task struct {
	ID                int       `json:"id"`
	Title             string    `json:"title"`
	Status            string    `json:"status"`
	DueDate           time.Time `json:"due_date"`
	AssignedTo        *int      `json:"assigned_to"`
	RelatedEntityType string    `json:"related_entity_type"`
	RelatedEntityID   int       `json:"related_entity_id"`
	CreatedAt         time.Time `json:"created_at"`
}

// WorkflowActivity is reference data describing a follow-up action: how long
// it should take and which role it is assigned to.
type WorkflowActivity struct {
	ID           int    `json:"id"`
	Code         string `json:"code"`
	Title        string `json:"title"`
	DurationDays int    `json:"duration_days"`
	AssignedRole string `json:"assigned_role"`
}
