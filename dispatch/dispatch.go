// Package dispatch routes queries to the remote answering capability and
// degrades to the deterministic fallback answerer when the remote call
// fails. The composed contract never surfaces a dispatch failure: callers
// always receive an answer.
package dispatch

import (
	"context"
	"time"

	"github.com/pagelens/pagelens"
)

// DefaultAnswerTimeout bounds a single remote attempt before falling back.
// The remote capability defines no timeout of its own, so we pin one here.
const DefaultAnswerTimeout = 20 * time.Second

// Ensure Dispatcher implements pagelens.Answerer at compile time.
var _ pagelens.Answerer = (*Dispatcher)(nil)

// Dispatcher makes a single attempt against the remote answerer per call
// (the remote capability owns its own retry policy, we add none) and falls
// back synchronously to the Responder on any failure: timeout, transport
// error, or an empty answer.
type Dispatcher struct {
	remote   pagelens.Answerer
	fallback pagelens.Responder
	timeout  time.Duration
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithTimeout sets the per-attempt bound on the remote call.
// Defaults to DefaultAnswerTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(dp *Dispatcher) {
		dp.timeout = d
	}
}

// NewDispatcher creates a Dispatcher. remote may be nil, in which case
// every query is answered by the fallback.
func NewDispatcher(remote pagelens.Answerer, fallback pagelens.Responder, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		remote:   remote,
		fallback: fallback,
		timeout:  DefaultAnswerTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Answer answers the query. The returned error is always nil; it is kept
// only to satisfy pagelens.Answerer.
func (d *Dispatcher) Answer(ctx context.Context, query *pagelens.Query) (*pagelens.Answer, error) {
	if d.remote != nil {
		rctx, cancel := context.WithTimeout(ctx, d.timeout)
		answer, err := d.remote.Answer(rctx, query)
		cancel()
		if err == nil && answer != nil && answer.Text != "" {
			answer.Source = pagelens.SourceRemote
			return answer, nil
		}
	}

	return &pagelens.Answer{
		Text:   d.fallback.Respond(query),
		Source: pagelens.SourceFallback,
	}, nil
}
