// Package heuristic provides deterministic, rule-based question answering
// over snapshots, used when the remote answering capability is unavailable.
// It also provides page classification and question suggestions.
//
// Everything here is pure string matching over the snapshot. Answers are
// reproducible per input: questions are matched against keyword classes in
// a fixed priority order and the first match wins.
package heuristic

import (
	"fmt"
	"strings"

	"github.com/pagelens/pagelens"
)

// Ensure Responder implements the domain interfaces at compile time.
var _ pagelens.Responder = (*Responder)(nil)

// Responder is the fallback answerer. Respond is total: every
// (question, snapshot) pair yields a non-empty answer, including an empty
// snapshot.
type Responder struct {
	classifier *Classifier
}

// NewResponder creates a new Responder.
func NewResponder() *Responder {
	return &Responder{classifier: NewClassifier()}
}

// keywordClass maps trigger keywords to a templated answer. Classes are
// evaluated in slice order; the first class with a matching keyword wins.
type keywordClass struct {
	keywords []string
	answer   func(r *Responder, snap *pagelens.Snapshot) string
}

// classes in priority order: page-identity, title, url/links,
// headings/sections, actions/buttons, selection, summary, help.
var classes = []keywordClass{
	{
		keywords: []string{"what is this page", "what page is this", "what is this site", "what kind of page", "what sort of page"},
		answer:   (*Responder).answerIdentity,
	},
	{
		keywords: []string{"title", "what is it called", "name of the page", "name of this page"},
		answer:   (*Responder).answerTitle,
	},
	{
		keywords: []string{"url", "web address", "link", "domain"},
		answer:   (*Responder).answerURL,
	},
	{
		keywords: []string{"heading", "section", "outline", "structure", "chapter", "topic"},
		answer:   (*Responder).answerHeadings,
	},
	{
		keywords: []string{"button", "action", "click", "submit", "interact"},
		answer:   (*Responder).answerActions,
	},
	{
		keywords: []string{"select", "highlight"},
		answer:   (*Responder).answerSelection,
	},
	{
		keywords: []string{"summary", "summarize", "summarise", "overview", "about", "tl;dr"},
		answer:   (*Responder).answerSummary,
	},
	{
		keywords: []string{"help", "what can you", "how do i use"},
		answer:   (*Responder).answerHelp,
	},
}

// Respond answers the query from the snapshot alone.
func (r *Responder) Respond(query *pagelens.Query) string {
	question := strings.ToLower(query.Question)
	snap := query.Snapshot
	if snap == nil {
		snap = &pagelens.Snapshot{}
	}

	for _, class := range classes {
		for _, kw := range class.keywords {
			if strings.Contains(question, kw) {
				return class.answer(r, snap)
			}
		}
	}
	return r.answerGeneric(snap)
}

func (r *Responder) answerIdentity(snap *pagelens.Snapshot) string {
	class := r.classifier.Classify(snap)
	if snap.Title == "" {
		return fmt.Sprintf("This looks like %s. It has %d headings and %d interactive elements.",
			class.PageType, len(snap.Headings), len(snap.Actions))
	}
	return fmt.Sprintf("This looks like %s titled %q. It has %d headings and %d interactive elements.",
		class.PageType, snap.Title, len(snap.Headings), len(snap.Actions))
}

func (r *Responder) answerTitle(snap *pagelens.Snapshot) string {
	if snap.Title == "" {
		return "The page does not declare a title."
	}
	return fmt.Sprintf("The page title is %q.", snap.Title)
}

func (r *Responder) answerURL(snap *pagelens.Snapshot) string {
	links := 0
	for _, a := range snap.Actions {
		if a.Kind == pagelens.ActionLink {
			links++
		}
	}
	if snap.URL == "" {
		return fmt.Sprintf("The page URL is not known. I can see %d links on the page.", links)
	}
	return fmt.Sprintf("The page URL is %s. I can see %d links on the page.", snap.URL, links)
}

// maxCitedHeadings bounds how many heading texts an answer quotes.
const maxCitedHeadings = 3

func (r *Responder) answerHeadings(snap *pagelens.Snapshot) string {
	if len(snap.Headings) == 0 {
		return "The page has no headings I could detect."
	}
	cited := make([]string, 0, maxCitedHeadings)
	for _, h := range snap.Headings {
		if len(cited) == maxCitedHeadings {
			break
		}
		cited = append(cited, fmt.Sprintf("%q", h.Text))
	}
	return fmt.Sprintf("The page has %d headings. The first ones are: %s.",
		len(snap.Headings), strings.Join(cited, ", "))
}

const maxCitedActions = 3

func (r *Responder) answerActions(snap *pagelens.Snapshot) string {
	if len(snap.Actions) == 0 {
		return "I could not detect any buttons or actionable links on this page."
	}
	cited := make([]string, 0, maxCitedActions)
	for _, a := range snap.Actions {
		if len(cited) == maxCitedActions {
			break
		}
		cited = append(cited, fmt.Sprintf("%q (%s)", a.Text, a.Kind))
	}
	return fmt.Sprintf("The page has %d interactive elements, including %s.",
		len(snap.Actions), strings.Join(cited, ", "))
}

func (r *Responder) answerSelection(snap *pagelens.Snapshot) string {
	if snap.SelectedText == "" {
		return "Nothing is currently selected on the page."
	}
	return fmt.Sprintf("The selected text is: %q.", truncate(snap.SelectedText, 160))
}

func (r *Responder) answerSummary(snap *pagelens.Snapshot) string {
	var parts []string
	if snap.Title != "" {
		parts = append(parts, fmt.Sprintf("The page is titled %q.", snap.Title))
	}
	if snap.MetaDescription != "" {
		parts = append(parts, fmt.Sprintf("It describes itself as: %q.", snap.MetaDescription))
	}
	parts = append(parts, fmt.Sprintf("It has %d headings, %d interactive elements, and %d forms.",
		len(snap.Headings), len(snap.Actions), len(snap.Forms)))
	return strings.Join(parts, " ")
}

func (r *Responder) answerHelp(snap *pagelens.Snapshot) string {
	suggestions := NewSuggester().Suggest(snap)
	return "You can ask me about this page's title, URL, headings, buttons, forms, or selected text. For example: " +
		strings.Join(suggestions, " ")
}

func (r *Responder) answerGeneric(snap *pagelens.Snapshot) string {
	facts := fmt.Sprintf("I can see %d headings and %d interactive elements on this page.",
		len(snap.Headings), len(snap.Actions))
	if snap.SelectedText != "" {
		facts += fmt.Sprintf(" Text is selected: %q.", truncate(snap.SelectedText, 80))
	}
	return facts + " Could you ask something more specific, for example about the headings, buttons, or title?"
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
