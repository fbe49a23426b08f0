// Package http provides HTTP-based implementations of the remote answering
// capability, its health probe, and a fetcher for static pages.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pagelens/pagelens"
)

// DefaultAnswerTimeout is the default timeout for answer requests.
const DefaultAnswerTimeout = 20 * time.Second

// maxResponseBytes bounds how much of an answer response is read.
const maxResponseBytes = 1 << 20

// Ensure Answerer implements pagelens.Answerer at compile time.
var _ pagelens.Answerer = (*Answerer)(nil)

// Answerer calls a remote answering service over HTTP. One request per
// call; no retries. Any transport fault, non-2xx status, or malformed body
// is reported as EUNAVAILABLE so the dispatcher can fall back.
type Answerer struct {
	client  *http.Client
	url     string
	timeout time.Duration
}

// AnswererOption configures an Answerer.
type AnswererOption func(*Answerer)

// WithAnswerTimeout sets the timeout for answer requests.
// Defaults to DefaultAnswerTimeout if not specified.
func WithAnswerTimeout(d time.Duration) AnswererOption {
	return func(a *Answerer) {
		a.timeout = d
	}
}

// NewAnswerer creates an Answerer posting to the given endpoint URL.
func NewAnswerer(url string, opts ...AnswererOption) *Answerer {
	a := &Answerer{
		url:     url,
		timeout: DefaultAnswerTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.client = &http.Client{Timeout: a.timeout}
	return a
}

// answerResponse is the service's wire format.
type answerResponse struct {
	Answer      string `json:"answer"`
	ContextUsed string `json:"contextUsed"`
}

// Answer posts the query and returns the service's answer.
func (a *Answerer) Answer(ctx context.Context, query *pagelens.Query) (*pagelens.Answer, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, pagelens.Errorf(pagelens.EINTERNAL, "encoding query: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return nil, pagelens.Errorf(pagelens.EINTERNAL, "building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, pagelens.Errorf(pagelens.EUNAVAILABLE, "answer service unreachable: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, pagelens.Errorf(pagelens.EUNAVAILABLE, "answer service returned HTTP %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, pagelens.Errorf(pagelens.EUNAVAILABLE, "reading answer: %v", err)
	}

	var decoded answerResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, pagelens.Errorf(pagelens.EUNAVAILABLE, "malformed answer payload: %v", err)
	}
	if decoded.Answer == "" {
		return nil, pagelens.Errorf(pagelens.EUNAVAILABLE, "answer service returned an empty answer")
	}

	return &pagelens.Answer{
		Text:        decoded.Answer,
		ContextUsed: decoded.ContextUsed,
		Source:      pagelens.SourceRemote,
	}, nil
}
