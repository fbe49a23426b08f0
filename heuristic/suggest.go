package heuristic

import (
	"fmt"

	"github.com/pagelens/pagelens"
)

// Ensure Suggester implements pagelens.Suggester at compile time.
var _ pagelens.Suggester = (*Suggester)(nil)

// Suggester proposes candidate questions generated from the snapshot.
type Suggester struct{}

// NewSuggester creates a new Suggester.
func NewSuggester() *Suggester {
	return &Suggester{}
}

// MaxSuggestions caps the number of candidate questions.
const MaxSuggestions = 5

// maxSelectionHint bounds the selection excerpt quoted in a suggestion.
const maxSelectionHint = 40

// genericPrompts are always appended after snapshot-derived suggestions.
var genericPrompts = []string{
	"What is this page about?",
	"What actions can I take here?",
}

// Suggest returns up to MaxSuggestions candidate questions, generated in
// order from the first heading, the first action, the current selection,
// and two fixed generic prompts.
func (s *Suggester) Suggest(snap *pagelens.Snapshot) []string {
	if snap == nil {
		snap = &pagelens.Snapshot{}
	}
	suggestions := make([]string, 0, MaxSuggestions)

	if len(snap.Headings) > 0 {
		suggestions = append(suggestions, fmt.Sprintf("What does the %q section cover?", snap.Headings[0].Text))
	}
	if len(snap.Actions) > 0 {
		first := snap.Actions[0]
		suggestions = append(suggestions, fmt.Sprintf("What does the %q %s do?", first.Text, first.Kind))
	}
	if snap.SelectedText != "" {
		suggestions = append(suggestions, fmt.Sprintf("What does %q mean?", truncate(snap.SelectedText, maxSelectionHint)))
	}
	for _, prompt := range genericPrompts {
		if len(suggestions) == MaxSuggestions {
			break
		}
		suggestions = append(suggestions, prompt)
	}

	return suggestions
}
