// Package panel implements the user-facing panel controller. It pulls
// snapshots from the session store, submits questions through an answerer,
// and owns the bounded conversation history.
package panel

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pagelens/pagelens"
)

// Status is the connection indicator shown next to the conversation. It is
// driven by the health probe only and never gates whether a question may be
// submitted.
type Status string

// Status values.
const (
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
	StatusDisconnected Status = "disconnected"
)

// Controller mediates between the user and the answering pipeline. All
// methods are safe for concurrent use, but at most one question may be in
// flight at a time.
type Controller struct {
	sessions pagelens.SessionReader
	answerer pagelens.Answerer
	health   pagelens.HealthChecker
	suggest  pagelens.Suggester
	copyFn   func(string) error
	logger   *slog.Logger
	now      func() time.Time

	mu       sync.Mutex
	log      *pagelens.ConversationLog
	status   Status
	tabID    string
	snapshot *pagelens.Snapshot
	notice   string
	inFlight bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithCopyFunc sets the clipboard side effect used by CopyAnswer.
func WithCopyFunc(fn func(string) error) Option {
	return func(c *Controller) {
		c.copyFn = fn
	}
}

// WithSuggester enables question suggestions for the current snapshot.
func WithSuggester(s pagelens.Suggester) Option {
	return func(c *Controller) {
		c.suggest = s
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithClock overrides the timestamp source for conversation entries.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// NewController creates a Controller in the connecting state.
func NewController(sessions pagelens.SessionReader, answerer pagelens.Answerer, health pagelens.HealthChecker, opts ...Option) *Controller {
	c := &Controller{
		sessions: sessions,
		answerer: answerer,
		health:   health,
		logger:   slog.Default(),
		now:      time.Now,
		log:      pagelens.NewConversationLog(),
		status:   StatusConnecting,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Probe checks the remote answering capability and updates the connection
// indicator. Submission stays available either way; a disconnected panel
// simply answers from the fallback path.
func (c *Controller) Probe(ctx context.Context) Status {
	status := StatusDisconnected
	if c.health != nil && c.health.Healthy(ctx) {
		status = StatusConnected
	}
	c.mu.Lock()
	c.status = status
	c.mu.Unlock()
	return status
}

// Status returns the current connection indicator.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// RefreshSnapshot pulls the active tab's snapshot from the session store.
// A missing snapshot is a recoverable notice, not an error; the user can
// retry once extraction completes.
func (c *Controller) RefreshSnapshot() {
	tabID, ok := c.sessions.ActiveTab()
	if !ok {
		c.setSnapshot("", nil, "no active tab yet")
		return
	}
	snap, err := c.sessions.CurrentSnapshot(tabID)
	if err != nil {
		c.setSnapshot(tabID, nil, "page content not yet available, try again shortly")
		return
	}
	c.setSnapshot(tabID, snap, "")
}

func (c *Controller) setSnapshot(tabID string, snap *pagelens.Snapshot, notice string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tabID = tabID
	c.snapshot = snap
	c.notice = notice
}

// Snapshot returns the snapshot the panel is currently showing, nil when
// none is available.
func (c *Controller) Snapshot() *pagelens.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

// Notice returns the recoverable notice from the last refresh, empty when a
// snapshot is available.
func (c *Controller) Notice() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notice
}

// Suggestions proposes questions for the current snapshot.
func (c *Controller) Suggestions() []string {
	if c.suggest == nil {
		return nil
	}
	c.mu.Lock()
	snap := c.snapshot
	c.mu.Unlock()
	return c.suggest.Suggest(snap)
}

// Submit asks a question about the current snapshot and records the answer
// in the conversation history.
//
// Empty or whitespace-only questions are rejected locally with EINVALID;
// nothing is dispatched and the history is unchanged. A second submission
// while one is outstanding is rejected with ECONFLICT. If the active tab
// changed while the question was in flight the answer is discarded and
// Submit returns nil, nil.
func (c *Controller) Submit(ctx context.Context, question string) (*pagelens.Answer, error) {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return nil, pagelens.Errorf(pagelens.ECONFLICT, "a question is already in flight")
	}
	c.inFlight = true
	snap := c.snapshot
	tabID := c.tabID
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
	}()

	query, err := pagelens.NewQuery(question, snap)
	if err != nil {
		return nil, err
	}

	answer, err := c.answerer.Answer(ctx, query)
	if err != nil {
		c.logger.Error("answer failed", "question", query.Question, "err", err)
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if active, ok := c.sessions.ActiveTab(); ok && tabID != "" && active != tabID {
		c.logger.Debug("discarding answer for abandoned session",
			"submittedTab", tabID,
			"activeTab", active,
		)
		return nil, nil
	}
	c.log.Prepend(pagelens.ConversationEntry{
		Question:  query.Question,
		Answer:    answer.Text,
		Timestamp: c.now(),
	})
	return answer, nil
}

// History returns the conversation entries, newest first.
func (c *Controller) History() []pagelens.ConversationEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.log.Entries()
}

// ClearHistory removes all conversation entries.
func (c *Controller) ClearHistory() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log.Clear()
}

// CopyAnswer passes the newest answer to the injected copy function.
// Returns ENOTFOUND when the history is empty and EINVALID when no copy
// function was configured.
func (c *Controller) CopyAnswer() error {
	c.mu.Lock()
	newest, ok := c.log.Newest()
	c.mu.Unlock()
	if !ok {
		return pagelens.Errorf(pagelens.ENOTFOUND, "no answer to copy")
	}
	if c.copyFn == nil {
		return pagelens.Errorf(pagelens.EINVALID, "copying is not available")
	}
	return c.copyFn(newest.Answer)
}
