package mq

import "time"

// Routing keys for workflow events.
const (
	RoutingKeyApprovalRequested = "project.approval_requested"
	RoutingKeyProjectApproved   = "project.approved"
	RoutingKeyDocumentSubmitted = "document.submitted"
)

type ApprovalRequestedPayload struct {
	ProjectID   int       `json:"project_id"`
	ProjectName string    `json:"project_name"`
	RequestedBy int       `json:"requested_by"`
	RequestedAt time.Time `json:"requested_at"`
}

type ProjectApprovedPayload struct {
	ProjectID   int       `json:"project_id"`
	ProjectName string    `json:"project_name"`
	ApprovedBy  int       `json:"approved_by"`
	ApprovedAt  time.Time `json:"approved_at"`
}

type DocumentSubmittedPayload struct {
	DocumentID    int       `json:"document_id"`
	DeliverableID int       `json:"deliverable_id"`
	DocumentType  string    `json:"document_type"`
	UploadedAt    time.Time `json:"uploaded_at"`
}
