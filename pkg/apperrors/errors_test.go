package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationCarriesAllViolations(t *testing.T) {
	err := Validation("invalid input", []string{"name is required", "budget must be non-negative"})

	ae := AsAppError(err)
	if ae.Code != CodeInvalid {
		t.Errorf("code = %q, want %q", ae.Code, CodeInvalid)
	}
	if len(ae.Violations) != 2 {
		t.Errorf("violations = %v, want 2", ae.Violations)
	}
}

func TestIsCodeThroughWrapping(t *testing.T) {
	base := NotFound("project 9 not found")
	wrapped := fmt.Errorf("loading timeline: %w", base)

	if !IsCode(wrapped, CodeNotFound) {
		t.Error("IsCode must see through fmt.Errorf wrapping")
	}
	if IsCode(wrapped, CodeConflict) {
		t.Error("IsCode matched the wrong code")
	}
}

func TestAsAppErrorDefaultsToInternal(t *testing.T) {
	ae := AsAppError(errors.New("boom"))
	if ae.Code != CodeInternal {
		t.Errorf("code = %q, want %q", ae.Code, CodeInternal)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeStorage, "failed to upload object")

	if !errors.Is(err, cause) {
		t.Error("wrapped cause must be reachable via errors.Is")
	}
}
