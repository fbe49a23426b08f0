package pagelens

import "context"

// TabEventKind identifies a tab lifecycle event.
type TabEventKind string

// Tab lifecycle events.
const (
	TabActivated TabEventKind = "activated"
	TabNavigated TabEventKind = "navigated"
	TabClosed    TabEventKind = "closed"
)

// TabEvent is a tab lifecycle notification from the host surface.
type TabEvent struct {
	Kind  TabEventKind
	TabID string
	URL   string
}

// Host is the browser surface the coordinator drives. It delivers tab
// lifecycle events, executes reads inside a given tab, and toggles panel
// availability.
type Host interface {
	// Watch streams tab lifecycle events until ctx is done.
	Watch(ctx context.Context) (<-chan TabEvent, error)

	// HTML returns the rendered HTML of the tab's document.
	// Returns EDENIED for privileged or unreadable surfaces; such
	// failures are final and are not retried.
	HTML(ctx context.Context, tabID string) (string, error)

	// SelectedText returns the text currently selected inside the tab,
	// empty when nothing is selected.
	SelectedText(ctx context.Context, tabID string) (string, error)

	// SetPanelEnabled toggles panel availability for the tab. Idempotent.
	SetPanelEnabled(tabID string, enabled bool) error
}
