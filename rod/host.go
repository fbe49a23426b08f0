package rod

import (
	"context"
	"net/url"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/pagelens/pagelens"
)

// eventBuffer bounds the tab event channel so a slow consumer stalls the
// watcher instead of growing unbounded.
const eventBuffer = 16

// Ensure Host implements pagelens.Host at compile time.
var _ pagelens.Host = (*Host)(nil)

// Host observes a live Chrome browser over the DevTools Protocol. Tab IDs
// are DevTools target IDs. Host is safe for concurrent use.
type Host struct {
	browser *rod.Browser

	mu     sync.Mutex
	urls   map[string]string // last known URL per target
	panels map[string]bool
}

// NewHost creates a Host observing the given browser. The browser connection
// is owned by the caller.
func NewHost(browser *rod.Browser) *Host {
	return &Host{
		browser: browser,
		urls:    make(map[string]string),
		panels:  make(map[string]bool),
	}
}

// Watch streams tab lifecycle events until ctx is done. Target creation maps
// to activation, URL changes on an existing target map to navigation.
func (h *Host) Watch(ctx context.Context) (<-chan pagelens.TabEvent, error) {
	events := make(chan pagelens.TabEvent, eventBuffer)
	browser := h.browser.Context(ctx)

	go func() {
		defer close(events)
		browser.EachEvent(
			func(e *proto.TargetTargetCreated) {
				if e.TargetInfo.Type != proto.TargetTargetInfoTypePage {
					return
				}
				tabID := string(e.TargetInfo.TargetID)
				h.rememberURL(tabID, e.TargetInfo.URL)
				send(ctx, events, pagelens.TabEvent{
					Kind:  pagelens.TabActivated,
					TabID: tabID,
					URL:   e.TargetInfo.URL,
				})
			},
			func(e *proto.TargetTargetInfoChanged) {
				if e.TargetInfo.Type != proto.TargetTargetInfoTypePage {
					return
				}
				tabID := string(e.TargetInfo.TargetID)
				if !h.rememberURL(tabID, e.TargetInfo.URL) {
					return
				}
				send(ctx, events, pagelens.TabEvent{
					Kind:  pagelens.TabNavigated,
					TabID: tabID,
					URL:   e.TargetInfo.URL,
				})
			},
			func(e *proto.TargetTargetDestroyed) {
				tabID := string(e.TargetID)
				if !h.forget(tabID) {
					return
				}
				send(ctx, events, pagelens.TabEvent{
					Kind:  pagelens.TabClosed,
					TabID: tabID,
				})
			},
		)()
	}()

	return events, nil
}

// HTML returns the rendered HTML of the tab's document.
func (h *Host) HTML(ctx context.Context, tabID string) (string, error) {
	page, err := h.page(ctx, tabID)
	if err != nil {
		return "", err
	}
	html, err := page.HTML()
	if err != nil {
		return "", pagelens.Errorf(pagelens.EINTERNAL, "reading document: %v", err)
	}
	return html, nil
}

// SelectedText returns the text currently selected inside the tab.
func (h *Host) SelectedText(ctx context.Context, tabID string) (string, error) {
	page, err := h.page(ctx, tabID)
	if err != nil {
		return "", err
	}
	obj, err := page.Eval(`() => window.getSelection().toString()`)
	if err != nil {
		return "", pagelens.Errorf(pagelens.EINTERNAL, "reading selection: %v", err)
	}
	return obj.Value.Str(), nil
}

// SetPanelEnabled toggles panel availability for the tab.
func (h *Host) SetPanelEnabled(tabID string, enabled bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.panels[tabID] = enabled
	return nil
}

// PanelEnabled reports the last panel toggle for the tab.
func (h *Host) PanelEnabled(tabID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.panels[tabID]
}

// page resolves a tab ID to its DevTools page, rejecting privileged surfaces.
func (h *Host) page(ctx context.Context, tabID string) (*rod.Page, error) {
	page, err := h.browser.PageFromTarget(proto.TargetTargetID(tabID))
	if err != nil {
		return nil, pagelens.Errorf(pagelens.ENOTFOUND, "tab %q not found", tabID)
	}
	page = page.Context(ctx)

	info, err := page.Info()
	if err != nil {
		return nil, pagelens.Errorf(pagelens.EINTERNAL, "reading tab info: %v", err)
	}
	if !readableURL(info.URL) {
		return nil, pagelens.Errorf(pagelens.EDENIED, "tab %q is not a readable page", tabID)
	}
	return page, nil
}

// rememberURL records the target's URL and reports whether it changed from a
// previously known non-empty URL.
func (h *Host) rememberURL(tabID, u string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	prev, known := h.urls[tabID]
	if u == "" {
		return false
	}
	h.urls[tabID] = u
	return known && prev != u
}

// forget drops tracking state for the target and reports whether it was known.
func (h *Host) forget(tabID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, known := h.urls[tabID]
	delete(h.urls, tabID)
	delete(h.panels, tabID)
	return known
}

// readableURL reports whether the document at u can be read. Privileged
// schemes like chrome:// and devtools:// are off limits.
func readableURL(u string) bool {
	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}
	switch parsed.Scheme {
	case "http", "https", "file", "about":
		return true
	}
	return false
}

func send(ctx context.Context, ch chan<- pagelens.TabEvent, ev pagelens.TabEvent) {
	select {
	case ch <- ev:
	case <-ctx.Done():
	}
}
