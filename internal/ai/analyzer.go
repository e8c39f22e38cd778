package ai

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"salesboard/internal/models"
)

// ErrAnalysisInProgress is returned when an analysis is started while a
// previous one is still pending.
var ErrAnalysisInProgress = errors.New("analysis already in progress")

// Analyzer states as reported by Status
const (
	StateIdle    = "idle"
	StateRunning = "running"
	StateDone    = "done"
)

// Analyzer runs at most one summary request at a time and keeps the latest
// outcome. A summarizer failure is converted to the fixed failure message at
// this boundary; it never propagates as an error. There is no timeout or
// cancellation, matching the source behavior.
type Analyzer struct {
	summarizer Summarizer

	mu        sync.Mutex
	running   bool
	result    string
	hasResult bool
}

// NewAnalyzer creates a new Analyzer around a Summarizer
func NewAnalyzer(summarizer Summarizer) *Analyzer {
	return &Analyzer{
		summarizer: summarizer,
	}
}

// Start launches a summary of the given records in the background. While one
// is pending, re-invocation is rejected with ErrAnalysisInProgress.
func (a *Analyzer) Start(records []models.SaleRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return ErrAnalysisInProgress
	}

	a.running = true
	a.result = ""
	a.hasResult = false

	go a.run(records)
	return nil
}

func (a *Analyzer) run(records []models.SaleRecord) {
	text, err := a.summarizer.Summarize(context.Background(), records)
	if err != nil {
		logrus.WithError(err).Error("sales analysis failed")
		text = FailureMessage
	}

	a.mu.Lock()
	a.running = false
	a.result = text
	a.hasResult = true
	a.mu.Unlock()
}

// Status reports the analyzer state and, once done, the latest result text.
func (a *Analyzer) Status() (string, string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch {
	case a.running:
		return StateRunning, ""
	case a.hasResult:
		return StateDone, a.result
	default:
		return StateIdle, ""
	}
}
