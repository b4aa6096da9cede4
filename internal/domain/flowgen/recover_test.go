package flowgen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecoverStrictJSON(t *testing.T) {
	flow, err := Recover(`{"flowName":"X","notes":[{"title":"a","details":"b"}]}`, "stop")
	require.NoError(t, err)
	require.Equal(t, "X", *flow.FlowName)
	require.Len(t, flow.Notes, 1)
	require.Equal(t, "a", *flow.Notes[0].Title)
}

func TestRecoverFencedJSON(t *testing.T) {
	flow, err := Recover("```json\n{\"flowName\":\"X\",\"notes\":[]}\n```", "stop")
	require.NoError(t, err)
	require.Equal(t, "X", *flow.FlowName)
	require.Empty(t, flow.Notes)
}

func TestRecoverFallbackSpan(t *testing.T) {
	flow, err := Recover("Sure! Here is your flow: {\"flowName\":\"X\",\"notes\":[]} Enjoy.", "stop")
	require.NoError(t, err)
	require.Equal(t, "X", *flow.FlowName)
}

func TestRecoverTruncatedFails(t *testing.T) {
	text := `{"flowName":"X","notes":[{"title":"a"`
	_, err := Recover(text, "length")
	require.Error(t, err)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	require.Equal(t, len(text), parseErr.Length)
	require.Equal(t, "length", parseErr.FinishReason)
}

func TestRecoverRejectsNonObjects(t *testing.T) {
	for _, text := range []string{"", "null", "[1,2]", "no json here"} {
		_, err := Recover(text, "stop")
		require.Error(t, err, text)
	}
}

func TestRecoverToleratesWrongFieldTypes(t *testing.T) {
	flow, err := Recover(`{"flowName":"X","overview":"oops","notes":[{"title":5,"allDay":"yes","startsAt":null,"chips":"1"},"junk"]}`, "stop")
	require.NoError(t, err)
	require.Nil(t, flow.Overview)
	require.Len(t, flow.Notes, 2)
	require.Equal(t, "5", *flow.Notes[0].Title)
	require.Nil(t, flow.Notes[0].AllDay)
	require.Nil(t, flow.Notes[0].StartsAt)
	require.Nil(t, flow.Notes[0].Chips)
	require.Equal(t, RawNote{}, flow.Notes[1])
}
