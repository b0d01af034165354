package progress

import (
	"strings"
	"testing"
)

func TestParsePatchPartialFields(t *testing.T) {
	p, violations := ParsePatch([]byte(`{"status": "IN_PROGRESS"}`))
	if len(violations) != 0 {
		t.Fatalf("unexpected violations: %v", violations)
	}

	if p.Status == nil || *p.Status != "IN_PROGRESS" {
		t.Errorf("status = %v, want IN_PROGRESS", p.Status)
	}
	// Omitted fields stay nil so the upsert keeps their stored values.
	if p.ScopePercentage != nil || p.ProgressPercentage != nil || p.Notes != nil {
		t.Errorf("omitted fields must stay nil, got %+v", p)
	}
}

func TestParsePatchAllFields(t *testing.T) {
	p, violations := ParsePatch([]byte(`{
		"scope_percentage": 45.5,
		"progress_percentage": 50,
		"status": "PENDING_REVIEW",
		"notes": "waiting on review"
	}`))
	if len(violations) != 0 {
		t.Fatalf("unexpected violations: %v", violations)
	}

	if *p.ScopePercentage != 45.5 || *p.ProgressPercentage != 50 {
		t.Errorf("percentages = %v/%v", *p.ScopePercentage, *p.ProgressPercentage)
	}
	if *p.Notes != "waiting on review" {
		t.Errorf("notes = %q", *p.Notes)
	}
}

func TestParsePatchRejectsExplicitNull(t *testing.T) {
	_, violations := ParsePatch([]byte(`{"scope_percentage": null}`))
	if len(violations) != 1 || !strings.Contains(violations[0], "explicit null") {
		t.Errorf("violations = %v, want explicit null rejection", violations)
	}
}

func TestParsePatchCollectsAllViolations(t *testing.T) {
	_, violations := ParsePatch([]byte(`{
		"scope_percentage": 150,
		"status": "DONE",
		"color": "red"
	}`))
	if len(violations) != 3 {
		t.Fatalf("violations = %v, want 3", violations)
	}
}

func TestParsePatchRejectsEmptyObject(t *testing.T) {
	_, violations := ParsePatch([]byte(`{}`))
	if len(violations) != 1 {
		t.Errorf("violations = %v, want one for empty patch", violations)
	}
}

func TestParsePatchRejectsNonObject(t *testing.T) {
	_, violations := ParsePatch([]byte(`[1, 2]`))
	if len(violations) == 0 {
		t.Error("array body must be rejected")
	}
}

func TestParsePatchRejectsDelayedStatus(t *testing.T) {
	// DELAYED is derived from the clock, never set manually.
	_, violations := ParsePatch([]byte(`{"status": "DELAYED"}`))
	if len(violations) != 1 || !strings.Contains(violations[0], "not a valid status") {
		t.Errorf("violations = %v, want invalid status rejection", violations)
	}
}

func TestValidateDocumentInput(t *testing.T) {
	bad := int64(-100)
	pct := 150.0
	violations := validateDocumentInput(DocumentInput{
		DocumentType:           "RECEIPT",
		StoragePath:            "",
		InvoiceAmountCents:     &bad,
		RelatedScopePercentage: &pct,
	})
	if len(violations) != 4 {
		t.Errorf("violations = %v, want 4", violations)
	}

	ok := validateDocumentInput(DocumentInput{
		DocumentType: "INVOICE",
		StoragePath:  "deliverables/1/invoice.pdf",
	})
	if len(ok) != 0 {
		t.Errorf("unexpected violations: %v", ok)
	}
}
