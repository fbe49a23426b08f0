package pagelens

// TabSession is coordinator-owned state for a single tab. A session is
// created lazily on first activation, keeps its identity across navigations
// (only the snapshot is cleared), and is discarded when the tab closes.
type TabSession struct {
	TabID string `json:"tabId"`

	// Generation increases on every activation and navigation completion.
	// Extraction results tagged with an older generation are stale and
	// must be discarded.
	Generation uint64 `json:"generation"`

	// Snapshot is the current snapshot, nil until an extraction result
	// for the current generation arrives.
	Snapshot *Snapshot `json:"snapshot,omitempty"`
}

// SessionReader provides non-blocking read access to session state.
type SessionReader interface {
	// CurrentSnapshot returns a copy of the tab's snapshot.
	// Returns ENOTFOUND if the tab has no session or no snapshot yet.
	// Never blocks waiting for extraction.
	CurrentSnapshot(tabID string) (*Snapshot, error)

	// ActiveTab returns the tab currently eligible to receive answers.
	// Returns false if no tab has been activated yet.
	ActiveTab() (string, bool)
}

// SessionService owns per-tab session state. It is the single source of
// truth for "current tab's snapshot"; all mutations go through it.
type SessionService interface {
	SessionReader

	// ActivateTab marks the tab active, creating its session if needed.
	// Increments the generation, clears the snapshot, and returns the new
	// generation for tagging extraction requests.
	ActivateTab(tabID string) uint64

	// CompleteNavigation records a finished navigation in the tab.
	// Same generation/snapshot semantics as ActivateTab.
	CompleteNavigation(tabID string) uint64

	// StoreSnapshot installs an extraction result. Returns ECONFLICT if
	// generation no longer matches the session (stale result, discarded)
	// and ENOTFOUND if the tab has no session.
	StoreSnapshot(tabID string, generation uint64, snap *Snapshot) error

	// MergeSelection patches SelectedText into the existing snapshot.
	// Ignored without error when the session is missing, the snapshot is
	// absent, or the generation does not match.
	MergeSelection(tabID string, generation uint64, text string)

	// CloseTab discards the tab's session entirely.
	CloseTab(tabID string)
}
