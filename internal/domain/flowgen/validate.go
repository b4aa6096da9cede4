package flowgen

import (
	"fmt"
	"strings"
)

// Validate checks the structural rules of a canonical flow and reports the
// first violation. It does not judge content quality or day contiguity.
func Validate(flow CanonicalFlow) error {
	if strings.TrimSpace(flow.FlowName) == "" {
		return &ValidationError{Field: "flow_name", Reason: "is required"}
	}
	if len(flow.Notes) == 0 {
		return &ValidationError{Field: "notes", Reason: "must be a non-empty array"}
	}
	for i, note := range flow.Notes {
		field := fmt.Sprintf("notes[%d]", i)
		if note.DayIndex < 0 {
			return &ValidationError{Field: field + ".day_index", Reason: "must be a non-negative integer"}
		}
		if strings.TrimSpace(note.Title) == "" {
			return &ValidationError{Field: field + ".title", Reason: "is required"}
		}
		if strings.TrimSpace(note.Details) == "" {
			return &ValidationError{Field: field + ".details", Reason: "is required"}
		}
	}
	return nil
}
