package flowgen

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var (
	codeFencePattern  = regexp.MustCompile("(?i)```(?:json)?")
	objectSpanPattern = regexp.MustCompile(`\{[\s\S]*\}`)

	errNotObject = errors.New("model output is not a JSON object")
)

// Recover extracts a RawModelFlow from free-form provider text.
// It strips markdown fences, tries a strict parse, then falls back to the
// widest {...} span. finishReason is only used to annotate a ParseError.
func Recover(text, finishReason string) (RawModelFlow, error) {
	cleaned := strings.TrimSpace(codeFencePattern.ReplaceAllString(text, ""))

	flow, err := decodeFlow(cleaned)
	if err == nil {
		return flow, nil
	}

	if span := objectSpanPattern.FindString(cleaned); span != "" {
		recovered, spanErr := decodeFlow(span)
		if spanErr == nil {
			return recovered, nil
		}
		err = spanErr
	}

	return RawModelFlow{}, &ParseError{
		Length:       len(text),
		FinishReason: finishReason,
		Err:          err,
	}
}

func decodeFlow(text string) (RawModelFlow, error) {
	data := bytes.TrimSpace([]byte(text))
	if len(data) == 0 || data[0] != '{' {
		return RawModelFlow{}, errNotObject
	}
	var flow RawModelFlow
	if err := json.Unmarshal(data, &flow); err != nil {
		return RawModelFlow{}, err
	}
	return flow, nil
}

// UnmarshalJSON decodes the top-level object, ignoring fields of the wrong type.
func (f *RawModelFlow) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return errNotObject
	}
	*f = RawModelFlow{FlowName: looseString(fields["flowName"])}

	if raw, ok := fields["overview"]; ok && isObject(raw) {
		var overview map[string]json.RawMessage
		if err := json.Unmarshal(raw, &overview); err == nil {
			f.Overview = &RawOverview{
				Title:   looseString(overview["title"]),
				Summary: looseString(overview["summary"]),
			}
		}
	}

	if raw, ok := fields["notes"]; ok && isArray(raw) {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err == nil {
			f.Notes = make([]RawNote, 0, len(items))
			for _, item := range items {
				var note RawNote
				if err := json.Unmarshal(item, &note); err != nil {
					// non-object entries still occupy a day slot
					note = RawNote{}
				}
				f.Notes = append(f.Notes, note)
			}
		}
	}
	return nil
}

// UnmarshalJSON decodes a note, ignoring fields of the wrong type.
func (n *RawNote) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*n = RawNote{
		Title:    looseString(fields["title"]),
		Details:  looseString(fields["details"]),
		StartsAt: looseString(fields["startsAt"]),
		EndsAt:   looseString(fields["endsAt"]),
		Location: looseString(fields["location"]),
	}
	if raw, ok := fields["day_index"]; ok {
		var v float64
		if err := json.Unmarshal(raw, &v); err == nil {
			n.DayIndex = &v
		}
	}
	if raw, ok := fields["allDay"]; ok {
		var v bool
		if err := json.Unmarshal(raw, &v); err == nil {
			n.AllDay = &v
		}
	}
	if raw, ok := fields["chips"]; ok && isArray(raw) {
		var chips []int
		if err := json.Unmarshal(raw, &chips); err == nil {
			n.Chips = chips
		}
	}
	return nil
}

// looseString accepts JSON strings and renders numbers and booleans as text.
func looseString(raw json.RawMessage) *string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil
		}
		return &s
	case 't', 'f', '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		s := string(trimmed)
		return &s
	default:
		return nil
	}
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
