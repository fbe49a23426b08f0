// Package slog provides logging decorators for domain interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/pagelens/pagelens"
)

// Ensure LoggingAnswerer implements pagelens.Answerer.
var _ pagelens.Answerer = (*LoggingAnswerer)(nil)

// LoggingAnswerer wraps an Answerer with per-question logging.
type LoggingAnswerer struct {
	next   pagelens.Answerer
	logger *slog.Logger
}

// NewLoggingAnswerer creates a new LoggingAnswerer.
func NewLoggingAnswerer(next pagelens.Answerer, logger *slog.Logger) *LoggingAnswerer {
	return &LoggingAnswerer{next: next, logger: logger}
}

// Answer logs the question, the answer source and duration, and delegates
// to the wrapped answerer.
func (a *LoggingAnswerer) Answer(ctx context.Context, query *pagelens.Query) (answer *pagelens.Answer, err error) {
	defer func(begin time.Time) {
		source := pagelens.AnswerSource("")
		if answer != nil {
			source = answer.Source
		}
		a.logger.Info("answer",
			"question", query.Question,
			"source", source,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.Answer(ctx, query)
}
