package tokenizer

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkoukk/tiktoken-go"

	"github.com/yanqian/ai-flowgen/internal/domain/flowgen"
)

const defaultEncoding = "cl100k_base"

// Estimator counts tokens with a BPE encoding, falling back to roughly four
// bytes per token while the encoding is loading or when it cannot be loaded.
// The first load may download BPE ranks, so it runs in the background and
// Count never waits on it.
type Estimator struct {
	encoding string
	logger   *slog.Logger
	loader   func(string) (*tiktoken.Tiktoken, error)

	once sync.Once
	done chan struct{}
	enc  atomic.Pointer[tiktoken.Tiktoken]
}

// NewEstimator returns an estimator that starts loading its encoding on first use.
func NewEstimator(encoding string, logger *slog.Logger) *Estimator {
	if encoding == "" {
		encoding = defaultEncoding
	}
	return &Estimator{
		encoding: encoding,
		logger:   logger,
		loader:   tiktoken.GetEncoding,
		done:     make(chan struct{}),
	}
}

// Warm starts loading the encoding and waits up to timeout for it to finish.
// It reports whether loading finished, successfully or not.
func (e *Estimator) Warm(timeout time.Duration) bool {
	e.start()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-e.done:
		return true
	case <-timer.C:
		return false
	}
}

// Count implements flowgen.TokenEstimator.
func (e *Estimator) Count(text string) int {
	if text == "" {
		return 0
	}
	e.start()
	enc := e.enc.Load()
	if enc == nil {
		return approximate(text)
	}
	return len(enc.Encode(text, nil, nil))
}

func (e *Estimator) start() {
	e.once.Do(func() { go e.load() })
}

func (e *Estimator) load() {
	defer close(e.done)
	enc, err := e.loader(e.encoding)
	if err != nil {
		if e.logger != nil {
			e.logger.Warn("tokenizer unavailable, using byte heuristic", "encoding", e.encoding, "error", err)
		}
		return
	}
	e.enc.Store(enc)
}

func approximate(text string) int {
	return (len(text) + 3) / 4
}

var _ flowgen.TokenEstimator = (*Estimator)(nil)
