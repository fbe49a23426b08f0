package pagelens

import "context"

// Fetcher retrieves rendered HTML from URLs. Used by the one-shot CLI
// commands, which have a URL rather than a live tab to extract from.
// Implementations may use browser automation to handle JavaScript-rendered
// content.
type Fetcher interface {
	// Fetch navigates to the URL and returns the rendered HTML.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases browser resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}
