package mock

import "github.com/pagelens/pagelens"

var _ pagelens.Suggester = (*Suggester)(nil)

// Suggester is a mock implementation of pagelens.Suggester.
type Suggester struct {
	SuggestFn func(snap *pagelens.Snapshot) []string
}

func (s *Suggester) Suggest(snap *pagelens.Snapshot) []string {
	return s.SuggestFn(snap)
}

var _ pagelens.Classifier = (*Classifier)(nil)

// Classifier is a mock implementation of pagelens.Classifier.
type Classifier struct {
	ClassifyFn func(snap *pagelens.Snapshot) pagelens.PageClass
}

func (c *Classifier) Classify(snap *pagelens.Snapshot) pagelens.PageClass {
	return c.ClassifyFn(snap)
}
