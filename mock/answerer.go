package mock

import (
	"context"

	"github.com/pagelens/pagelens"
)

var _ pagelens.Answerer = (*Answerer)(nil)

// Answerer is a mock implementation of pagelens.Answerer.
type Answerer struct {
	AnswerFn func(ctx context.Context, query *pagelens.Query) (*pagelens.Answer, error)
}

func (a *Answerer) Answer(ctx context.Context, query *pagelens.Query) (*pagelens.Answer, error) {
	return a.AnswerFn(ctx, query)
}

var _ pagelens.Responder = (*Responder)(nil)

// Responder is a mock implementation of pagelens.Responder.
type Responder struct {
	RespondFn func(query *pagelens.Query) string
}

func (r *Responder) Respond(query *pagelens.Query) string {
	return r.RespondFn(query)
}

var _ pagelens.HealthChecker = (*HealthChecker)(nil)

// HealthChecker is a mock implementation of pagelens.HealthChecker.
type HealthChecker struct {
	HealthyFn func(ctx context.Context) bool
}

func (h *HealthChecker) Healthy(ctx context.Context) bool {
	return h.HealthyFn(ctx)
}
