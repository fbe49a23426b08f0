package mock

import "github.com/pagelens/pagelens"

var _ pagelens.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of pagelens.Extractor.
type Extractor struct {
	ExtractFn func(html, pageURL string) (*pagelens.Snapshot, error)
}

func (e *Extractor) Extract(html, pageURL string) (*pagelens.Snapshot, error) {
	return e.ExtractFn(html, pageURL)
}
