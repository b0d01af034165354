package model

import "time"

// Deliverable statuses.
const (
	DeliverableNotStarted    = "NOT_STARTED"
	DeliverableInProgress    = "IN_PROGRESS"
	DeliverablePendingReview = "PENDING_REVIEW"
	DeliverableCompleted     = "COMPLETED"
	DeliverableDelayed       = "DELAYED"
)

// Document types recorded against a deliverable.
const (
	DocumentTypeInvoice       = "INVOICE"
	DocumentTypeDeliveryNote  = "DELIVERY_NOTE"
	DocumentTypeScopeEvidence = "SCOPE_EVIDENCE"
	DocumentTypeOther         = "OTHER"
)

type Deliverable struct {
	ID          int       `json:"id"`
	ItemID      int       `json:"item_id"`
	Name        string    `json:"name"`
	AmountCents int64     `json:"amount_cents"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// DeliverableProgress is the manually maintained state row, upserted 1:1
// with a deliverable via merge-patch semantics.
type DeliverableProgress struct {
	DeliverableID      int       `json:"deliverable_id"`
	ScopePercentage    float64   `json:"scope_percentage"`
	ProgressPercentage float64   `json:"progress_percentage"`
	Status             string    `json:"status"`
	Notes              string    `json:"notes"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// DeliverableDocument is one append-only history row. Rows are immutable
// once inserted.
type DeliverableDocument struct {
	ID                       int        `json:"id"`
	DeliverableID            int        `json:"deliverable_id"`
	DocumentType             string     `json:"document_type"`
	StoragePath              string     `json:"storage_path"`
	InvoiceAmountCents       *int64     `json:"invoice_amount_cents"`
	RelatedScopePercentage   *float64   `json:"related_scope_percentage"`
	RelatedPaymentPercentage *float64   `json:"related_payment_percentage"`
	UploadedAt               time.Time  `json:"uploaded_at"`
}

// CurrentState is the derived view of a deliverable: latest-wins over the
// document history, with the progress row taking precedence. Delayed is a
// display flag only and never mutates the stored status.
type CurrentState struct {
	ScopePercentage   float64 `json:"scope_percentage"`
	PaymentPercentage float64 `json:"payment_percentage"`
	Status            string  `json:"status"`
	Delayed           bool    `json:"delayed"`
}
