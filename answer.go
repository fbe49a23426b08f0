package pagelens

import (
	"context"
	"strings"
)

// Query carries one question together with the snapshot it is about.
// Queries are built immediately before dispatch and never persisted.
type Query struct {
	Question string    `json:"question"`
	Snapshot *Snapshot `json:"context"`
}

// NewQuery returns a query with the question trimmed.
// Returns EINVALID if the question is empty or whitespace-only.
func NewQuery(question string, snap *Snapshot) (*Query, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, Errorf(EINVALID, "question required")
	}
	return &Query{Question: question, Snapshot: snap}, nil
}

// AnswerSource identifies which path produced an answer.
type AnswerSource string

// AnswerSource values.
const (
	SourceRemote   AnswerSource = "remote"
	SourceFallback AnswerSource = "fallback"
)

// Answer is the response to a query.
type Answer struct {
	Text string `json:"answer"`

	// ContextUsed summarizes what the answering capability consulted,
	// empty for fallback answers.
	ContextUsed string `json:"contextUsed,omitempty"`

	Source AnswerSource `json:"source"`
}

// Answerer answers a natural language question about a document snapshot.
type Answerer interface {
	// Answer produces an answer for the query. Remote implementations
	// return EUNAVAILABLE when the capability cannot be reached.
	Answer(ctx context.Context, query *Query) (*Answer, error)
}

// Responder produces a deterministic answer without any remote capability.
// Respond is total: it returns a non-empty string for every query,
// including queries over an empty snapshot.
type Responder interface {
	Respond(query *Query) string
}

// HealthChecker reports whether the remote answering capability is
// reachable. The result drives the connection indicator only; it never
// gates whether a question may be submitted.
type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

// Level grades a classification dimension.
type Level string

// Level values.
const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// PageClass is a heuristic classification of a snapshot.
type PageClass struct {
	PageType      string `json:"pageType"`
	Complexity    Level  `json:"complexity"`
	Interactivity Level  `json:"interactivity"`
}

// Classifier infers a page classification from a snapshot.
type Classifier interface {
	Classify(snap *Snapshot) PageClass
}

// Suggester proposes candidate questions for a snapshot, at most five.
type Suggester interface {
	Suggest(snap *Snapshot) []string
}
