package progress

import (
	"encoding/json"
	"fmt"

	"portfoliohub/internal/model"
)

// Patch is a merge-patch for the deliverable progress row. Nil means the
// field was omitted and keeps its stored value.
type Patch struct {
	ScopePercentage    *float64
	ProgressPercentage *float64
	Status             *string
	Notes              *string
}

var validManualStatuses = map[string]bool{
	model.DeliverableNotStarted:    true,
	model.DeliverableInProgress:    true,
	model.DeliverablePendingReview: true,
	model.DeliverableCompleted:     true,
}

// ParsePatch decodes a progress patch body, distinguishing omitted fields
// from explicit nulls. An explicit null is ambiguous intent and rejected.
// Every violation is collected, not just the first.
func ParsePatch(data []byte) (*Patch, []string) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, []string{"body must be a JSON object"}
	}

	var p Patch
	var violations []string

	for key, value := range raw {
		if string(value) == "null" {
			violations = append(violations, fmt.Sprintf("%s: explicit null is not allowed", key))
			continue
		}
		switch key {
		case "scope_percentage":
			p.ScopePercentage = decodePercentage(key, value, &violations)
		case "progress_percentage":
			p.ProgressPercentage = decodePercentage(key, value, &violations)
		case "status":
			var s string
			if err := json.Unmarshal(value, &s); err != nil {
				violations = append(violations, fmt.Sprintf("%s: must be a string", key))
				continue
			}
			if !validManualStatuses[s] {
				violations = append(violations, fmt.Sprintf("%s: %q is not a valid status", key, s))
				continue
			}
			p.Status = &s
		case "notes":
			var s string
			if err := json.Unmarshal(value, &s); err != nil {
				violations = append(violations, fmt.Sprintf("%s: must be a string", key))
				continue
			}
			p.Notes = &s
		default:
			violations = append(violations, fmt.Sprintf("%s: unknown field", key))
		}
	}

	if p.ScopePercentage == nil && p.ProgressPercentage == nil && p.Status == nil && p.Notes == nil && len(violations) == 0 {
		violations = append(violations, "at least one field must be provided")
	}

	if len(violations) > 0 {
		return nil, violations
	}
	return &p, nil
}

func decodePercentage(key string, value json.RawMessage, violations *[]string) *float64 {
	var f float64
	if err := json.Unmarshal(value, &f); err != nil {
		*violations = append(*violations, fmt.Sprintf("%s: must be a number", key))
		return nil
	}
	if f < 0 || f > 100 {
		*violations = append(*violations, fmt.Sprintf("%s: %v is out of range [0,100]", key, f))
		return nil
	}
	return &f
}
