package heuristic_test

import (
	"testing"

	"github.com/pagelens/pagelens"
	"github.com/pagelens/pagelens/heuristic"
	"github.com/stretchr/testify/assert"
)

func TestClassifier_PageType(t *testing.T) {
	t.Parallel()

	c := heuristic.NewClassifier()

	tests := []struct {
		name string
		snap *pagelens.Snapshot
		want string
	}{
		{
			name: "docs by URL",
			snap: &pagelens.Snapshot{URL: "https://example.com/docs/intro"},
			want: "a documentation page",
		},
		{
			name: "docs by subdomain",
			snap: &pagelens.Snapshot{URL: "https://docs.example.com/"},
			want: "a documentation page",
		},
		{
			name: "blog by URL",
			snap: &pagelens.Snapshot{URL: "https://example.com/blog/2026/hello"},
			want: "a blog post",
		},
		{
			name: "shopping by URL",
			snap: &pagelens.Snapshot{URL: "https://example.com/product/42"},
			want: "a shopping page",
		},
		{
			name: "sign-in by URL",
			snap: &pagelens.Snapshot{URL: "https://example.com/login"},
			want: "a sign-in page",
		},
		{
			name: "search by query string",
			snap: &pagelens.Snapshot{URL: "https://example.com/results?q=widgets"},
			want: "a search results page",
		},
		{
			name: "docs by heading vocabulary when URL is silent",
			snap: &pagelens.Snapshot{
				URL:      "https://example.com/x",
				Headings: []pagelens.Heading{{Level: 1, Text: "Getting Started"}},
			},
			want: "a documentation page",
		},
		{
			name: "sign-in by heading vocabulary",
			snap: &pagelens.Snapshot{
				Headings: []pagelens.Heading{{Level: 1, Text: "Welcome back"}},
			},
			want: "a sign-in page",
		},
		{
			name: "URL match outranks heading match",
			snap: &pagelens.Snapshot{
				URL:      "https://example.com/blog/post",
				Headings: []pagelens.Heading{{Level: 1, Text: "Getting Started"}},
			},
			want: "a blog post",
		},
		{
			name: "default when nothing matches",
			snap: &pagelens.Snapshot{URL: "https://example.com/x"},
			want: heuristic.DefaultPageType,
		},
		{
			name: "default for empty snapshot",
			snap: &pagelens.Snapshot{},
			want: heuristic.DefaultPageType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, c.Classify(tt.snap).PageType)
		})
	}
}

// The numeric thresholds are arbitrary policy constants; these tests pin
// the exact boundaries so a change is a deliberate decision.
func TestClassifier_Thresholds(t *testing.T) {
	t.Parallel()

	c := heuristic.NewClassifier()

	headings := func(n int) []pagelens.Heading {
		hs := make([]pagelens.Heading, n)
		for i := range hs {
			hs[i] = pagelens.Heading{Level: 2, Text: "h"}
		}
		return hs
	}
	actions := func(n int) []pagelens.Action {
		as := make([]pagelens.Action, n)
		for i := range as {
			as[i] = pagelens.Action{Text: "go", Kind: pagelens.ActionLink}
		}
		return as
	}

	t.Run("complexity boundaries", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, pagelens.LevelLow, c.Classify(&pagelens.Snapshot{Headings: headings(2)}).Complexity)
		assert.Equal(t, pagelens.LevelMedium, c.Classify(&pagelens.Snapshot{Headings: headings(3)}).Complexity)
		assert.Equal(t, pagelens.LevelMedium, c.Classify(&pagelens.Snapshot{Headings: headings(5)}).Complexity)
		assert.Equal(t, pagelens.LevelHigh, c.Classify(&pagelens.Snapshot{Headings: headings(6)}).Complexity)
	})

	t.Run("interactivity boundaries", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, pagelens.LevelLow, c.Classify(&pagelens.Snapshot{Actions: actions(2)}).Interactivity)
		assert.Equal(t, pagelens.LevelMedium, c.Classify(&pagelens.Snapshot{Actions: actions(3)}).Interactivity)
		assert.Equal(t, pagelens.LevelMedium, c.Classify(&pagelens.Snapshot{Actions: actions(10)}).Interactivity)
		assert.Equal(t, pagelens.LevelHigh, c.Classify(&pagelens.Snapshot{Actions: actions(11)}).Interactivity)
	})
}
