// Package coord provides the coordinator: the single source of truth for
// per-tab session state. It owns the generation counter that invalidates
// stale extraction results, schedules extraction around navigation, and
// toggles panel enablement on the host surface.
package coord

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pagelens/pagelens"
	"golang.org/x/sync/errgroup"
)

// Scheduling defaults. The settle delay gives the page time to finish
// late-loading content before the pre-warm extraction; the debounce window
// coalesces bursts of selection changes.
const (
	DefaultSettleDelay    = 800 * time.Millisecond
	DefaultDebounceWindow = 300 * time.Millisecond
	DefaultHealthInterval = 15 * time.Second

	// DefaultExtractionRate bounds extractions per second per tab.
	DefaultExtractionRate = 2.0
)

// Ensure Coordinator implements pagelens.SessionService at compile time.
var _ pagelens.SessionService = (*Coordinator)(nil)

// Coordinator owns all tab sessions. It is the sole mutator of session
// state; other contexts reach it through its methods or through messages
// on the bus. Safe for concurrent use.
type Coordinator struct {
	host      pagelens.Host
	extractor pagelens.Extractor
	bus       pagelens.Bus
	health    pagelens.HealthChecker
	logger    *slog.Logger

	settleDelay    time.Duration
	debounceWindow time.Duration
	healthInterval time.Duration
	limiter        *TabLimiter

	mu        sync.Mutex
	sessions  map[string]*session
	activeTab string
	connected bool

	// runCtx bounds the lifetime of scheduled tasks; nil until Run.
	runCtx context.Context
}

// session is the internal state behind pagelens.TabSession.
type session struct {
	generation  uint64
	snapshot    *pagelens.Snapshot
	fingerprint string
	url         string

	// settle is the pending pre-warm extraction, cancelled when the
	// generation moves on.
	settle *time.Timer

	// selection coalesces selection-change notifications.
	selection *debouncer
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithSettleDelay sets the delay before the pre-warm extraction.
func WithSettleDelay(d time.Duration) Option {
	return func(c *Coordinator) { c.settleDelay = d }
}

// WithDebounceWindow sets the selection-change debounce window.
func WithDebounceWindow(d time.Duration) Option {
	return func(c *Coordinator) { c.debounceWindow = d }
}

// WithHealthInterval sets how often the remote capability is probed.
func WithHealthInterval(d time.Duration) Option {
	return func(c *Coordinator) { c.healthInterval = d }
}

// WithExtractionRate sets the per-tab extraction rate limit.
func WithExtractionRate(rps float64) Option {
	return func(c *Coordinator) { c.limiter = NewTabLimiter(rps) }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = logger }
}

// NewCoordinator creates a Coordinator. health may be nil, in which case
// the connection indicator stays disconnected.
func NewCoordinator(host pagelens.Host, extractor pagelens.Extractor, b pagelens.Bus, health pagelens.HealthChecker, opts ...Option) *Coordinator {
	c := &Coordinator{
		host:           host,
		extractor:      extractor,
		bus:            b,
		health:         health,
		logger:         slog.Default(),
		settleDelay:    DefaultSettleDelay,
		debounceWindow: DefaultDebounceWindow,
		healthInterval: DefaultHealthInterval,
		limiter:        NewTabLimiter(DefaultExtractionRate),
		sessions:       make(map[string]*session),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run consumes host tab events and bus messages until ctx is done.
// Scheduled extraction tasks live no longer than ctx.
func (c *Coordinator) Run(ctx context.Context) error {
	c.mu.Lock()
	c.runCtx = ctx
	c.mu.Unlock()

	events, err := c.host.Watch(ctx)
	if err != nil {
		return err
	}

	msgs, cancel := c.bus.Subscribe(pagelens.ActionSnapshotResult, pagelens.ActionSelectionChanged)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case ev, ok := <-events:
				if !ok {
					return nil
				}
				c.handleTabEvent(ev)
			}
		}
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case msg, ok := <-msgs:
				if !ok {
					return nil
				}
				c.handleMessage(msg)
			}
		}
	})

	g.Go(func() error {
		return c.pollHealth(ctx)
	})

	return g.Wait()
}

func (c *Coordinator) handleTabEvent(ev pagelens.TabEvent) {
	switch ev.Kind {
	case pagelens.TabActivated:
		gen := c.ActivateTab(ev.TabID)
		c.setURL(ev.TabID, ev.URL)
		c.scheduleExtraction(ev.TabID, gen)
	case pagelens.TabNavigated:
		gen := c.CompleteNavigation(ev.TabID)
		c.setURL(ev.TabID, ev.URL)
		c.scheduleExtraction(ev.TabID, gen)
	case pagelens.TabClosed:
		c.CloseTab(ev.TabID)
	}
}

func (c *Coordinator) handleMessage(msg pagelens.Message) {
	switch msg.Action {
	case pagelens.ActionSnapshotResult:
		var payload pagelens.SnapshotPayload
		if err := msg.DecodePayload(&payload); err != nil {
			c.logger.Warn("dropping malformed snapshot result", "tab", msg.TabID, "error", err)
			return
		}
		if payload.Err != "" {
			// Extraction failed inside the page context; the session
			// snapshot stays absent.
			c.logger.Warn("extraction failed", "tab", msg.TabID, "error", payload.Err)
			return
		}
		if err := c.StoreSnapshot(msg.TabID, msg.Generation, payload.Snapshot); err != nil {
			if pagelens.ErrorCode(err) == pagelens.ECONFLICT {
				c.logger.Debug("discarding stale snapshot", "tab", msg.TabID, "generation", msg.Generation)
			} else {
				c.logger.Warn("rejecting snapshot", "tab", msg.TabID, "error", err)
			}
		}
	case pagelens.ActionSelectionChanged:
		var payload pagelens.SelectionPayload
		if err := msg.DecodePayload(&payload); err != nil {
			c.logger.Warn("dropping malformed selection change", "tab", msg.TabID, "error", err)
			return
		}
		c.MergeSelection(msg.TabID, msg.Generation, payload.Text)
	}
}

func (c *Coordinator) pollHealth(ctx context.Context) error {
	if c.health == nil {
		return nil
	}
	ticker := time.NewTicker(c.healthInterval)
	defer ticker.Stop()

	c.setConnected(c.health.Healthy(ctx))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.setConnected(c.health.Healthy(ctx))
		}
	}
}

func (c *Coordinator) setConnected(connected bool) {
	c.mu.Lock()
	changed := c.connected != connected
	c.connected = connected
	c.mu.Unlock()
	if changed {
		c.logger.Info("answer service availability changed", "connected", connected)
	}
}

// Connected reports the last observed health of the remote capability.
// It drives the connection indicator only.
func (c *Coordinator) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// ActivateTab implements pagelens.SessionService. The transition also
// enables the panel for the tab via the host surface.
func (c *Coordinator) ActivateTab(tabID string) uint64 {
	gen := c.invalidate(tabID, true)
	if err := c.host.SetPanelEnabled(tabID, true); err != nil {
		c.logger.Warn("panel toggle failed", "tab", tabID, "error", err)
	}
	return gen
}

// CompleteNavigation implements pagelens.SessionService.
func (c *Coordinator) CompleteNavigation(tabID string) uint64 {
	gen := c.invalidate(tabID, false)
	if err := c.host.SetPanelEnabled(tabID, true); err != nil {
		c.logger.Warn("panel toggle failed", "tab", tabID, "error", err)
	}
	return gen
}

// invalidate bumps the generation and clears the snapshot, creating the
// session if needed. Pending scheduled work for the old generation is
// cancelled.
func (c *Coordinator) invalidate(tabID string, activate bool) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, ok := c.sessions[tabID]
	if !ok {
		sess = &session{selection: newDebouncer(c.debounceWindow)}
		c.sessions[tabID] = sess
	}
	sess.generation++
	sess.snapshot = nil
	sess.fingerprint = ""
	if sess.settle != nil {
		sess.settle.Stop()
		sess.settle = nil
	}
	sess.selection.cancel()
	if activate {
		c.activeTab = tabID
	}
	return sess.generation
}

func (c *Coordinator) setURL(tabID, url string) {
	if url == "" {
		return
	}
	c.mu.Lock()
	if sess, ok := c.sessions[tabID]; ok {
		sess.url = url
	}
	c.mu.Unlock()
}

// StoreSnapshot implements pagelens.SessionService.
func (c *Coordinator) StoreSnapshot(tabID string, generation uint64, snap *pagelens.Snapshot) error {
	if snap == nil {
		return pagelens.Errorf(pagelens.EINVALID, "snapshot required")
	}
	if err := snap.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	sess, ok := c.sessions[tabID]
	if !ok {
		c.mu.Unlock()
		return pagelens.Errorf(pagelens.ENOTFOUND, "no session for tab %q", tabID)
	}
	if sess.generation != generation {
		c.mu.Unlock()
		return pagelens.Errorf(pagelens.ECONFLICT, "stale snapshot for tab %q: generation %d, session at %d",
			tabID, generation, sess.generation)
	}

	fingerprint := Fingerprint(snap)
	unchanged := sess.snapshot != nil && sess.fingerprint == fingerprint
	sess.snapshot = snap.Clone()
	sess.fingerprint = fingerprint
	c.mu.Unlock()

	c.publish(pagelens.Message{
		Action:     pagelens.ActionSnapshotUpdated,
		TabID:      tabID,
		Generation: generation,
	}, pagelens.SnapshotUpdatePayload{Unchanged: unchanged})
	return nil
}

// MergeSelection implements pagelens.SessionService. A selection for a
// missing session, absent snapshot, or old generation is silently ignored.
func (c *Coordinator) MergeSelection(tabID string, generation uint64, text string) {
	text = strings.TrimSpace(text)
	if runes := []rune(text); len(runes) > pagelens.MaxSelectionLen {
		text = string(runes[:pagelens.MaxSelectionLen])
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	sess, ok := c.sessions[tabID]
	if !ok || sess.snapshot == nil || sess.generation != generation {
		return
	}
	sess.snapshot.SelectedText = text
}

// CurrentSnapshot implements pagelens.SessionReader.
func (c *Coordinator) CurrentSnapshot(tabID string) (*pagelens.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, ok := c.sessions[tabID]
	if !ok {
		return nil, pagelens.Errorf(pagelens.ENOTFOUND, "no session for tab %q", tabID)
	}
	if sess.snapshot == nil {
		return nil, pagelens.Errorf(pagelens.ENOTFOUND, "snapshot for tab %q not yet available", tabID)
	}
	return sess.snapshot.Clone(), nil
}

// ActiveTab implements pagelens.SessionReader.
func (c *Coordinator) ActiveTab() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeTab, c.activeTab != ""
}

// CloseTab implements pagelens.SessionService.
func (c *Coordinator) CloseTab(tabID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, ok := c.sessions[tabID]
	if !ok {
		return
	}
	if sess.settle != nil {
		sess.settle.Stop()
	}
	sess.selection.cancel()
	delete(c.sessions, tabID)
	c.limiter.Forget(tabID)
	if c.activeTab == tabID {
		c.activeTab = ""
	}
}

// scheduleExtraction arms the pre-warm extraction for the generation. The
// task is a no-op if the generation has moved on by the time it fires.
func (c *Coordinator) scheduleExtraction(tabID string, generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, ok := c.sessions[tabID]
	if !ok || c.runCtx == nil {
		return
	}
	ctx := c.runCtx
	sess.settle = time.AfterFunc(c.settleDelay, func() {
		c.extract(ctx, tabID, generation)
	})
}

// RequestExtraction performs an on-demand extraction for the tab's current
// generation and publishes the result. Fails fast with EDENIED for
// privileged surfaces; denied requests are not retried.
func (c *Coordinator) RequestExtraction(ctx context.Context, tabID string) error {
	c.mu.Lock()
	sess, ok := c.sessions[tabID]
	if !ok {
		c.mu.Unlock()
		return pagelens.Errorf(pagelens.ENOTFOUND, "no session for tab %q", tabID)
	}
	gen := sess.generation
	c.mu.Unlock()

	return c.extract(ctx, tabID, gen)
}

// extract runs one extraction against the host and publishes the result to
// the bus tagged with the generation it was requested under. The result is
// applied by the message loop, where the generation check decides whether
// it is still current.
func (c *Coordinator) extract(ctx context.Context, tabID string, generation uint64) error {
	if err := c.limiter.Wait(ctx, tabID); err != nil {
		return err
	}

	c.mu.Lock()
	sess, ok := c.sessions[tabID]
	if !ok || sess.generation != generation {
		c.mu.Unlock()
		return nil
	}
	url := sess.url
	c.mu.Unlock()

	html, err := c.host.HTML(ctx, tabID)
	if err != nil {
		if pagelens.ErrorCode(err) == pagelens.EDENIED {
			c.logger.Info("extraction denied", "tab", tabID, "error", pagelens.ErrorMessage(err))
			return err
		}
		c.logger.Warn("reading tab failed", "tab", tabID, "error", err)
		return err
	}

	snap, err := c.extractor.Extract(html, url)
	payload := pagelens.SnapshotPayload{Snapshot: snap}
	if err != nil {
		payload = pagelens.SnapshotPayload{Err: pagelens.ErrorMessage(err)}
	}
	c.publish(pagelens.Message{
		Action:     pagelens.ActionSnapshotResult,
		TabID:      tabID,
		Generation: generation,
	}, payload)
	return err
}

// NotifySelectionChanged debounces selection-change notifications from the
// page context. After the window elapses the current selection is read and
// published, tagged with the generation observed at notification time.
func (c *Coordinator) NotifySelectionChanged(tabID string) {
	c.mu.Lock()
	sess, ok := c.sessions[tabID]
	if !ok {
		c.mu.Unlock()
		return
	}
	ctx := c.runCtx
	if ctx == nil {
		ctx = context.Background()
	}
	gen := sess.generation
	deb := sess.selection
	c.mu.Unlock()

	deb.debounce(func() {
		text, err := c.host.SelectedText(ctx, tabID)
		if err != nil {
			c.logger.Debug("reading selection failed", "tab", tabID, "error", err)
			return
		}
		c.publish(pagelens.Message{
			Action:     pagelens.ActionSelectionChanged,
			TabID:      tabID,
			Generation: gen,
		}, pagelens.SelectionPayload{Text: text})
	})
}

// publish marshals the payload and publishes the message, logging instead
// of propagating failures: bus delivery is fire-and-forget.
func (c *Coordinator) publish(msg pagelens.Message, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		c.logger.Error("marshaling payload failed", "action", msg.Action, "error", err)
		return
	}
	msg.Payload = raw

	ctx := context.Background()
	if err := c.bus.Publish(ctx, msg); err != nil {
		c.logger.Warn("publishing message failed", "action", msg.Action, "error", err)
	}
}
