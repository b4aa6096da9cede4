package flowgen

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultFlowName is used when the model omits a flow name entirely.
const DefaultFlowName = "Untitled Flow"

var clockPattern = regexp.MustCompile(`\d{1,2}:\d{2}`)

// Transform maps an untrusted model flow into the canonical shape.
// Day indices are reassigned from position; the model's own values are ignored.
func Transform(raw RawModelFlow) CanonicalFlow {
	flowName := DefaultFlowName
	if raw.FlowName != nil {
		// kept verbatim so a blank name still fails validation
		flowName = *raw.FlowName
	}

	overviewTitle := ""
	overviewSummary := ""
	if raw.Overview != nil {
		overviewTitle = trimmed(raw.Overview.Title)
		overviewSummary = trimmed(raw.Overview.Summary)
	}
	if overviewTitle == "" {
		overviewTitle = strings.TrimSpace(flowName)
	}
	if overviewTitle == "" {
		overviewTitle = DefaultFlowName
	}

	notes := make([]CanonicalNote, 0, len(raw.Notes))
	for i, n := range raw.Notes {
		title := trimmed(n.Title)
		if title == "" {
			title = fmt.Sprintf("Day %d", i+1)
		}
		note := CanonicalNote{
			DayIndex:  i,
			Title:     title,
			Details:   trimmed(n.Details),
			AllDay:    n.AllDay != nil && *n.AllDay,
			StartTime: clockTime(n.StartsAt),
			EndTime:   clockTime(n.EndsAt),
		}
		if loc := trimmed(n.Location); loc != "" {
			note.Location = &loc
		}
		notes = append(notes, note)
	}

	return CanonicalFlow{
		FlowName:        flowName,
		OverviewTitle:   overviewTitle,
		OverviewSummary: overviewSummary,
		Notes:           notes,
	}
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func clockTime(s *string) *string {
	value := trimmed(s)
	if !clockPattern.MatchString(value) {
		return nil
	}
	return &value
}
