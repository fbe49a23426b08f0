package heuristic_test

import (
	"strings"
	"testing"

	"github.com/pagelens/pagelens"
	"github.com/pagelens/pagelens/heuristic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() *pagelens.Snapshot {
	return &pagelens.Snapshot{
		Title:           "Widget Docs",
		URL:             "https://example.com/docs/widgets",
		MetaDescription: "Everything about widgets.",
		Headings: []pagelens.Heading{
			{Level: 1, Text: "Getting Started"},
			{Level: 2, Text: "Installation"},
			{Level: 2, Text: "Configuration"},
			{Level: 2, Text: "Troubleshooting"},
		},
		Actions: []pagelens.Action{
			{Text: "Sign up", Kind: pagelens.ActionButton},
			{Text: "Docs", Kind: pagelens.ActionLink, Href: "https://example.com/docs"},
		},
		SelectedText: "widget factory",
	}
}

func query(t *testing.T, question string, snap *pagelens.Snapshot) *pagelens.Query {
	t.Helper()
	q, err := pagelens.NewQuery(question, snap)
	require.NoError(t, err)
	return q
}

func TestResponder_Respond(t *testing.T) {
	t.Parallel()

	r := heuristic.NewResponder()

	t.Run("title questions cite the title", func(t *testing.T) {
		t.Parallel()

		answer := r.Respond(query(t, "What is the title of this?", testSnapshot()))
		assert.Contains(t, answer, `"Widget Docs"`)
	})

	t.Run("heading questions cite count and first headings", func(t *testing.T) {
		t.Parallel()

		answer := r.Respond(query(t, "What are the main sections?", testSnapshot()))
		assert.Contains(t, answer, "4 headings")
		assert.Contains(t, answer, `"Getting Started"`)
		assert.Contains(t, answer, `"Installation"`)
	})

	t.Run("single heading example cites count one and quotes it", func(t *testing.T) {
		t.Parallel()

		snap := &pagelens.Snapshot{Headings: []pagelens.Heading{{Level: 1, Text: "Getting Started"}}}
		answer := r.Respond(query(t, "What does the first section cover?", snap))

		assert.Contains(t, answer, "1 headings")
		assert.Contains(t, answer, `"Getting Started"`)
	})

	t.Run("url questions cite the URL and link count", func(t *testing.T) {
		t.Parallel()

		answer := r.Respond(query(t, "What is the URL?", testSnapshot()))
		assert.Contains(t, answer, "https://example.com/docs/widgets")
		assert.Contains(t, answer, "1 links")
	})

	t.Run("action questions cite interactive elements", func(t *testing.T) {
		t.Parallel()

		answer := r.Respond(query(t, "Which buttons are there?", testSnapshot()))
		assert.Contains(t, answer, "2 interactive elements")
		assert.Contains(t, answer, `"Sign up"`)
	})

	t.Run("selection questions quote the selection", func(t *testing.T) {
		t.Parallel()

		answer := r.Respond(query(t, "What did I highlight?", testSnapshot()))
		assert.Contains(t, answer, `"widget factory"`)
	})

	t.Run("identity questions use the page classification", func(t *testing.T) {
		t.Parallel()

		answer := r.Respond(query(t, "What is this page?", testSnapshot()))
		assert.Contains(t, answer, "a documentation page")
		assert.Contains(t, answer, `"Widget Docs"`)
	})

	t.Run("unmatched questions get a generic snapshot-grounded answer", func(t *testing.T) {
		t.Parallel()

		answer := r.Respond(query(t, "Is it going to rain tomorrow?", testSnapshot()))
		assert.Contains(t, answer, "4 headings")
		assert.Contains(t, answer, "2 interactive elements")
		assert.Contains(t, answer, "more specific")
	})

	t.Run("title outranks heading when both keywords appear", func(t *testing.T) {
		t.Parallel()

		// Priority order is fixed; per-run determinism matters more than
		// which class wins.
		for i := 0; i < 5; i++ {
			answer := r.Respond(query(t, "Is the title one of the headings?", testSnapshot()))
			assert.Equal(t, `The page title is "Widget Docs".`, answer)
		}
	})

	t.Run("total over empty snapshot for every class", func(t *testing.T) {
		t.Parallel()

		questions := []string{
			"What is this page?",
			"What is the title?",
			"What is the URL?",
			"What headings are there?",
			"What buttons are there?",
			"What is selected?",
			"Give me a summary.",
			"help",
			"completely unrelated question",
			"?",
		}
		empty := &pagelens.Snapshot{}
		for _, question := range questions {
			answer := r.Respond(query(t, question, empty))
			assert.NotEmpty(t, answer, "question %q", question)
		}
	})

	t.Run("total when query snapshot is nil", func(t *testing.T) {
		t.Parallel()

		answer := r.Respond(&pagelens.Query{Question: "summary please"})
		assert.NotEmpty(t, answer)
	})

	t.Run("summary includes meta description", func(t *testing.T) {
		t.Parallel()

		answer := r.Respond(query(t, "Give me an overview", testSnapshot()))
		assert.Contains(t, answer, "Everything about widgets.")
	})

	t.Run("long selection is truncated in the answer", func(t *testing.T) {
		t.Parallel()

		snap := testSnapshot()
		snap.SelectedText = strings.Repeat("x", 500)
		answer := r.Respond(query(t, "what did I select?", snap))
		assert.Contains(t, answer, "...")
		assert.Less(t, len(answer), 400)
	})
}
