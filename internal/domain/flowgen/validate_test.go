package flowgen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsWellFormedFlow(t *testing.T) {
	flow := CanonicalFlow{
		FlowName: "Flow",
		Notes: []CanonicalNote{
			{DayIndex: 0, Title: "Day 1", Details: "do"},
			{DayIndex: 1, Title: "Day 2", Details: "more"},
		},
	}
	require.NoError(t, Validate(flow))
}

func TestValidateRules(t *testing.T) {
	cases := []struct {
		name    string
		flow    CanonicalFlow
		message string
	}{
		{
			name:    "blank flow name",
			flow:    CanonicalFlow{FlowName: " ", Notes: []CanonicalNote{{Title: "a", Details: "b"}}},
			message: "flow_name is required",
		},
		{
			name:    "empty notes",
			flow:    CanonicalFlow{FlowName: "Flow"},
			message: "notes must be a non-empty array",
		},
		{
			name:    "negative day index",
			flow:    CanonicalFlow{FlowName: "Flow", Notes: []CanonicalNote{{DayIndex: -1, Title: "a", Details: "b"}}},
			message: "notes[0].day_index must be a non-negative integer",
		},
		{
			name: "missing title",
			flow: CanonicalFlow{FlowName: "Flow", Notes: []CanonicalNote{
				{DayIndex: 0, Title: "a", Details: "b"},
				{DayIndex: 1, Title: "  ", Details: "b"},
			}},
			message: "notes[1].title is required",
		},
		{
			name:    "missing details",
			flow:    CanonicalFlow{FlowName: "Flow", Notes: []CanonicalNote{{DayIndex: 0, Title: "a", Details: ""}}},
			message: "notes[0].details is required",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.flow)
			require.Error(t, err)
			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr))
			require.Equal(t, tc.message, err.Error())
		})
	}
}

func TestValidateAfterTransformRejectsEmptyNotes(t *testing.T) {
	flow := Transform(RawModelFlow{FlowName: strPtr("X"), Notes: []RawNote{}})
	require.EqualError(t, Validate(flow), "notes must be a non-empty array")
}
