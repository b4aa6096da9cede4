package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapMessageAndCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap("PROVIDER_ERROR", "AI provider request failed", cause)

	require.Equal(t, "AI provider request failed: connection reset", err.Error())
	require.ErrorIs(t, err, cause)
	require.Equal(t, "description is required", Wrap("INVALID_REQUEST", "description is required", nil).Error())
}

func TestCodeLookupThroughWrapping(t *testing.T) {
	err := fmt.Errorf("generate: %w", Wrap("LLM_TRUNCATED", "too long", nil))

	require.True(t, IsCode(err, "LLM_TRUNCATED"))
	require.False(t, IsCode(err, "LLM_PARSE_ERROR"))
	require.Equal(t, "LLM_TRUNCATED", CodeOf(err))
	require.Empty(t, CodeOf(errors.New("plain")))

	appErr, ok := As(err)
	require.True(t, ok)
	require.Equal(t, "too long", appErr.Message)
}
