package tokenizer

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/pkoukk/tiktoken-go"
	"github.com/stretchr/testify/require"
)

func TestApproximate(t *testing.T) {
	require.Equal(t, 1, approximate("a"))
	require.Equal(t, 1, approximate("abcd"))
	require.Equal(t, 2, approximate("abcde"))
}

func TestUnknownEncodingFallsBack(t *testing.T) {
	est := NewEstimator("no_such_encoding", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Equal(t, 0, est.Count(""))
	require.True(t, est.Warm(5*time.Second))
	require.Equal(t, 3, est.Count("twelve bytes"))
}

func TestCountDoesNotWaitForSlowLoad(t *testing.T) {
	release := make(chan struct{})
	est := NewEstimator("", slog.New(slog.NewTextHandler(io.Discard, nil)))
	est.loader = func(string) (*tiktoken.Tiktoken, error) {
		<-release
		return nil, errors.New("download failed")
	}

	counted := make(chan int, 1)
	go func() { counted <- est.Count("twelve bytes") }()
	select {
	case n := <-counted:
		require.Equal(t, 3, n)
	case <-time.After(2 * time.Second):
		t.Fatal("count blocked on encoding load")
	}
	require.False(t, est.Warm(20*time.Millisecond))

	close(release)
	require.True(t, est.Warm(2*time.Second))
	require.Equal(t, 3, est.Count("twelve bytes"))
}
