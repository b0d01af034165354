package progress

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

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }

func TestDerivePaymentFromInvoiceSum(t *testing.T) {
	state := Derive(DeriveInput{
		AmountCents: 100000, // 1000.00
		EndDate:     date("2026-12-31"),
		Documents: []model.DeliverableDocument{
			{DocumentType: model.DocumentTypeInvoice, InvoiceAmountCents: i64(30000)},
			{DocumentType: model.DocumentTypeInvoice, InvoiceAmountCents: i64(40000)},
		},
		Now: date("2026-06-01"),
	})

	if state.PaymentPercentage != 70 {
		t.Errorf("payment = %v, want 70", state.PaymentPercentage)
	}
}

func TestDerivePaymentCappedAt100(t *testing.T) {
	state := Derive(DeriveInput{
		AmountCents: 50000,
		EndDate:     date("2026-12-31"),
		Documents: []model.DeliverableDocument{
			{DocumentType: model.DocumentTypeInvoice, InvoiceAmountCents: i64(80000)},
		},
		Now: date("2026-06-01"),
	})

	if state.PaymentPercentage != 100 {
		t.Errorf("payment = %v, want 100", state.PaymentPercentage)
	}
}

func TestDerivePaymentLatestExplicitWins(t *testing.T) {
	// History is newest-first; the newest explicit percentage overrides the
	// invoice sum entirely.
	state := Derive(DeriveInput{
		AmountCents: 100000,
		EndDate:     date("2026-12-31"),
		Documents: []model.DeliverableDocument{
			{DocumentType: model.DocumentTypeOther, RelatedPaymentPercentage: f64(55)},
			{DocumentType: model.DocumentTypeInvoice, InvoiceAmountCents: i64(90000)},
			{DocumentType: model.DocumentTypeOther, RelatedPaymentPercentage: f64(20)},
		},
		Now: date("2026-06-01"),
	})

	if state.PaymentPercentage != 55 {
		t.Errorf("payment = %v, want 55", state.PaymentPercentage)
	}
}

func TestDerivePaymentZeroAmount(t *testing.T) {
	state := Derive(DeriveInput{
		AmountCents: 0,
		EndDate:     date("2026-12-31"),
		Documents: []model.DeliverableDocument{
			{DocumentType: model.DocumentTypeInvoice, InvoiceAmountCents: i64(10000)},
		},
		Now: date("2026-06-01"),
	})

	if state.PaymentPercentage != 0 {
		t.Errorf("payment = %v, want 0 for zero-amount deliverable", state.PaymentPercentage)
	}
}

func TestDeriveDeliveryNoteForcesCompleted(t *testing.T) {
	// Even past the end date with no other signals, a delivery note locks the
	// deliverable at full scope and COMPLETED, never delayed.
	state := Derive(DeriveInput{
		AmountCents: 100000,
		EndDate:     date("2026-01-31"),
		Documents: []model.DeliverableDocument{
			{DocumentType: model.DocumentTypeDeliveryNote},
		},
		Now: date("2026-06-01"),
	})

	if state.ScopePercentage != 100 {
		t.Errorf("scope = %v, want 100", state.ScopePercentage)
	}
	if state.Status != model.DeliverableCompleted {
		t.Errorf("status = %q, want %q", state.Status, model.DeliverableCompleted)
	}
	if state.Delayed {
		t.Error("completed deliverable must not be delayed")
	}
}

func TestDeriveDeliveryNoteOverridesProgressRow(t *testing.T) {
	// Scope was set to 20 manually before the delivery note arrived; the
	// note still pins the deliverable at full scope.
	state := Derive(DeriveInput{
		AmountCents: 100000,
		EndDate:     date("2026-12-31"),
		Progress:    &model.DeliverableProgress{ScopePercentage: 20, Status: model.DeliverableInProgress},
		Documents: []model.DeliverableDocument{
			{DocumentType: model.DocumentTypeDeliveryNote},
		},
		Now: date("2026-06-01"),
	})

	if state.ScopePercentage != 100 {
		t.Errorf("scope = %v, want 100 despite the progress row", state.ScopePercentage)
	}
	if state.Status != model.DeliverableCompleted {
		t.Errorf("status = %q, want %q", state.Status, model.DeliverableCompleted)
	}
}

func TestDeriveScopeProgressRowWins(t *testing.T) {
	state := Derive(DeriveInput{
		AmountCents: 100000,
		EndDate:     date("2026-12-31"),
		Progress:    &model.DeliverableProgress{ScopePercentage: 45, Status: model.DeliverableInProgress},
		Documents: []model.DeliverableDocument{
			{DocumentType: model.DocumentTypeScopeEvidence, RelatedScopePercentage: f64(80)},
		},
		Now: date("2026-06-01"),
	})

	if state.ScopePercentage != 45 {
		t.Errorf("scope = %v, want 45 from progress row", state.ScopePercentage)
	}
	if state.Status != model.DeliverableInProgress {
		t.Errorf("status = %q, want %q", state.Status, model.DeliverableInProgress)
	}
}

func TestDeriveScopeFromLatestDocument(t *testing.T) {
	state := Derive(DeriveInput{
		AmountCents: 100000,
		EndDate:     date("2026-12-31"),
		Documents: []model.DeliverableDocument{
			{DocumentType: model.DocumentTypeScopeEvidence, RelatedScopePercentage: f64(60)},
			{DocumentType: model.DocumentTypeScopeEvidence, RelatedScopePercentage: f64(30)},
		},
		Now: date("2026-06-01"),
	})

	if state.ScopePercentage != 60 {
		t.Errorf("scope = %v, want 60 from newest document", state.ScopePercentage)
	}
}

func TestDeriveFullScopeStaysPendingUntilConfirmed(t *testing.T) {
	state := Derive(DeriveInput{
		AmountCents: 100000,
		EndDate:     date("2026-12-31"),
		Documents: []model.DeliverableDocument{
			{DocumentType: model.DocumentTypeScopeEvidence, RelatedScopePercentage: f64(100)},
		},
		Now: date("2026-06-01"),
	})

	if state.Status != model.DeliverablePendingReview {
		t.Errorf("status = %q, want %q", state.Status, model.DeliverablePendingReview)
	}
}

func TestDeriveFullScopeConfirmedByProgressRow(t *testing.T) {
	state := Derive(DeriveInput{
		AmountCents: 100000,
		EndDate:     date("2026-12-31"),
		Progress:    &model.DeliverableProgress{ScopePercentage: 100, Status: model.DeliverableCompleted},
		Now:         date("2026-06-01"),
	})

	if state.Status != model.DeliverableCompleted {
		t.Errorf("status = %q, want %q", state.Status, model.DeliverableCompleted)
	}
}

func TestDeriveDelayedPastEndDate(t *testing.T) {
	state := Derive(DeriveInput{
		AmountCents: 100000,
		EndDate:     date("2026-01-31"),
		Progress:    &model.DeliverableProgress{ScopePercentage: 40, Status: model.DeliverableInProgress},
		Now:         date("2026-02-15"),
	})

	if !state.Delayed {
		t.Error("incomplete deliverable past end date must be delayed")
	}
	if state.Status != model.DeliverableInProgress {
		t.Errorf("status = %q, the clock never rewrites stored status", state.Status)
	}
}

func TestDeriveEmptyHistory(t *testing.T) {
	state := Derive(DeriveInput{
		AmountCents: 100000,
		EndDate:     date("2026-12-31"),
		Now:         date("2026-06-01"),
	})

	if state.ScopePercentage != 0 || state.PaymentPercentage != 0 {
		t.Errorf("empty history = %v/%v, want 0/0", state.ScopePercentage, state.PaymentPercentage)
	}
	if state.Status != model.DeliverableNotStarted {
		t.Errorf("status = %q, want %q", state.Status, model.DeliverableNotStarted)
	}
}
