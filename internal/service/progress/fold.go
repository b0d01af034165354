package progress

import (
	"math"
	"time"

	"portfoliohub/internal/model"
)

// DeriveInput is everything needed to derive a deliverable's current state:
// the deliverable's own amount and end date, the optional manually-upserted
// progress row, and the document history ordered newest-first.
type DeriveInput struct {
	AmountCents int64
	EndDate     time.Time
	Progress    *model.DeliverableProgress
	Documents   []model.DeliverableDocument
	Now         time.Time
}

// Derive folds the document history and progress row into the current state.
// It is a pure function so the latest-wins rules stay independently testable.
//
// Precedence: a recorded DELIVERY_NOTE is authoritative (scope locked at 100,
// COMPLETED); otherwise the progress row wins over history-derived values.
func Derive(in DeriveInput) model.CurrentState {
	state := model.CurrentState{
		PaymentPercentage: derivePayment(in),
		ScopePercentage:   deriveScope(in),
	}

	if hasDeliveryNote(in.Documents) {
		state.ScopePercentage = 100
		state.Status = model.DeliverableCompleted
	} else {
		state.Status = statusForScope(state.ScopePercentage, in.Progress)
	}

	// Display flag only; the stored status is never mutated by the clock.
	if state.ScopePercentage < 100 && in.Now.After(in.EndDate) {
		state.Delayed = true
	}

	return state
}

func hasDeliveryNote(docs []model.DeliverableDocument) bool {
	for _, d := range docs {
		if d.DocumentType == model.DocumentTypeDeliveryNote {
			return true
		}
	}
	return false
}

// derivePayment takes the latest explicit payment percentage if any history
// row carries one; otherwise it falls back to cumulative invoiced amount over
// the deliverable amount, capped at 100.
func derivePayment(in DeriveInput) float64 {
	for _, d := range in.Documents {
		if d.RelatedPaymentPercentage != nil {
			return *d.RelatedPaymentPercentage
		}
	}

	if in.AmountCents <= 0 {
		return 0
	}

	var invoicedCents int64
	for _, d := range in.Documents {
		if d.InvoiceAmountCents != nil {
			invoicedCents += *d.InvoiceAmountCents
		}
	}

	pct := float64(invoicedCents) / float64(in.AmountCents) * 100
	return math.Round(math.Min(100, pct))
}

// deriveScope prefers the upserted progress row, then the latest history row
// carrying a scope percentage, then zero.
func deriveScope(in DeriveInput) float64 {
	if in.Progress != nil {
		return in.Progress.ScopePercentage
	}
	for _, d := range in.Documents {
		if d.RelatedScopePercentage != nil {
			return *d.RelatedScopePercentage
		}
	}
	return 0
}

func statusForScope(scope float64, progressRow *model.DeliverableProgress) string {
	switch {
	case scope <= 0:
		return model.DeliverableNotStarted
	case scope < 100:
		return model.DeliverableInProgress
	default:
		// Full scope stays pending until confirmed.
		if progressRow != nil && progressRow.Status == model.DeliverableCompleted {
			return model.DeliverableCompleted
		}
		return model.DeliverablePendingReview
	}
}
