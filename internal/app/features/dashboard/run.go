// internal/app/features/dashboard/run.go
package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/repairhub/internal/app/system/locale"
	"github.com/dalemusser/repairhub/internal/app/system/metrics"
	"go.uber.org/zap"
)

// Presenter receives the outcome of a dashboard run. Exactly one of Present
// or Fail is called unless the run was superseded, and Done is always called
// last.
type Presenter interface {
	Present(p Payload)
	Fail(message string)
	Done()
}

// PublicError carries a message that is safe to show to the user.
type PublicError struct {
	Message string
	Err     error
}

func (e *PublicError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *PublicError) Unwrap() error { return e.Err }

// PublicMessage returns the user-facing text.
func (e *PublicError) PublicMessage() string { return e.Message }

// Runner wraps an Assembler with stale-result discarding and the presenter
// contract.
type Runner struct {
	Assembler *Assembler
	Sequencer *Sequencer
	Locale    *locale.Locale
	Metrics   *metrics.Metrics
	Log       *zap.Logger
}

// NewRunner builds a Runner with a fresh Sequencer.
func NewRunner(a *Assembler, loc *locale.Locale, m *metrics.Metrics, logger *zap.Logger) *Runner {
	if loc == nil {
		loc = locale.New("en", nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{Assembler: a, Sequencer: NewSequencer(), Locale: loc, Metrics: m, Log: logger}
}

// Run assembles the dashboard for viewer and reports to p. It returns the
// outcome recorded in metrics.
func (r *Runner) Run(ctx context.Context, viewer string, req Request, p Presenter) string {
	ticket := r.Sequencer.Begin(viewer)
	defer ticket.Finish()
	start := time.Now()
	defer p.Done()

	payload, err := r.Assembler.Assemble(ctx, req)

	settled := ticket.Settle(func() {
		if err != nil {
			p.Fail(r.Message(err))
			return
		}
		p.Present(payload)
	})
	if !settled {
		r.Metrics.ObserveAssembly(metrics.OutcomeDiscarded, time.Since(start), 0)
		r.Log.Debug("dashboard result discarded",
			zap.String("viewer", viewer),
			zap.Int("page", req.Page))
		return metrics.OutcomeDiscarded
	}

	if err != nil {
		r.Metrics.ObserveAssembly(metrics.OutcomeFailed, time.Since(start), 0)
		r.Log.Error("dashboard assembly failed",
			zap.String("viewer", viewer),
			zap.Error(err))
		return metrics.OutcomeFailed
	}
	r.Metrics.ObserveAssembly(metrics.OutcomePresented, time.Since(start), payload.Folded)
	return metrics.OutcomePresented
}

// Message picks the text shown for err: its public message when it carries
// one, otherwise the localized generic fallback.
func (r *Runner) Message(err error) string {
	var pub interface{ PublicMessage() string }
	if errors.As(err, &pub) && pub.PublicMessage() != "" {
		return pub.PublicMessage()
	}
	return r.Locale.GenericError()
}
