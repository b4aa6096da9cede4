package flowgen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func floatPtr(f float64) *float64 { return &f }

func TestTransformReassignsDayIndex(t *testing.T) {
	raw := RawModelFlow{
		FlowName: strPtr("Upper Body"),
		Notes: []RawNote{
			{DayIndex: floatPtr(5), Title: strPtr("Push"), Details: strPtr("bench")},
			{DayIndex: floatPtr(5), Title: strPtr("Pull"), Details: strPtr("rows")},
			{DayIndex: floatPtr(-3), Title: strPtr("Rest"), Details: strPtr("walk")},
		},
	}

	flow := Transform(raw)

	require.Len(t, flow.Notes, 3)
	for i, note := range flow.Notes {
		require.Equal(t, i, note.DayIndex)
	}
}

func TestTransformDefaults(t *testing.T) {
	raw := RawModelFlow{
		Notes: []RawNote{
			{Title: strPtr("   "), Details: strPtr("  do the thing  "), StartsAt: strPtr("morning"), EndsAt: strPtr("7:30"), Location: strPtr("  "), Chips: []int{1, 2}},
			{Title: strPtr(" Leg Day "), AllDay: boolPtr(true), StartsAt: strPtr("18:00"), Location: strPtr(" Gym ")},
		},
	}

	flow := Transform(raw)

	require.Equal(t, DefaultFlowName, flow.FlowName)
	require.Equal(t, DefaultFlowName, flow.OverviewTitle)
	require.Equal(t, "", flow.OverviewSummary)

	first := flow.Notes[0]
	require.Equal(t, "Day 1", first.Title)
	require.Equal(t, "do the thing", first.Details)
	require.False(t, first.AllDay)
	require.Nil(t, first.StartTime)
	require.Equal(t, "7:30", *first.EndTime)
	require.Nil(t, first.Location)

	second := flow.Notes[1]
	require.Equal(t, "Leg Day", second.Title)
	require.Equal(t, "", second.Details)
	require.True(t, second.AllDay)
	require.Equal(t, "18:00", *second.StartTime)
	require.Nil(t, second.EndTime)
	require.Equal(t, "Gym", *second.Location)
}

func TestTransformOverviewFallsBackToFlowName(t *testing.T) {
	flow := Transform(RawModelFlow{
		FlowName: strPtr("Scalp Reset"),
		Overview: &RawOverview{Summary: strPtr("  thirty days  ")},
	})
	require.Equal(t, "Scalp Reset", flow.OverviewTitle)
	require.Equal(t, "thirty days", flow.OverviewSummary)

	flow = Transform(RawModelFlow{
		FlowName: strPtr("Scalp Reset"),
		Overview: &RawOverview{Title: strPtr(" Reset Plan ")},
	})
	require.Equal(t, "Reset Plan", flow.OverviewTitle)
}

func TestTransformKeepsBlankFlowName(t *testing.T) {
	flow := Transform(RawModelFlow{FlowName: strPtr("  ")})
	require.Equal(t, "  ", flow.FlowName)
	require.Equal(t, DefaultFlowName, flow.OverviewTitle)
	require.Error(t, Validate(flow))
}
