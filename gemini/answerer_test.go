package gemini_test

import (
	"context"
	"testing"

	"github.com/pagelens/pagelens"
	"github.com/pagelens/pagelens/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerer_Answer_Validation(t *testing.T) {
	t.Parallel()

	t.Run("empty question", func(t *testing.T) {
		t.Parallel()
		a := gemini.NewAnswerer(nil)
		_, err := a.Answer(context.Background(), &pagelens.Query{Question: ""})
		require.Error(t, err)
		assert.Equal(t, pagelens.EINVALID, pagelens.ErrorCode(err))
	})
}

func TestBuildUserPrompt(t *testing.T) {
	t.Parallel()

	snap := &pagelens.Snapshot{
		Title:           "Widget Docs",
		URL:             "https://example.com/docs",
		MetaDescription: "Documentation for widgets",
		Headings: []pagelens.Heading{
			{Level: 1, Text: "Getting Started"},
			{Level: 2, Text: "Installation"},
		},
		Actions: []pagelens.Action{
			{Text: "Submit", Kind: pagelens.ActionButton},
			{Text: "Home", Kind: pagelens.ActionLink, Href: "https://example.com/"},
		},
		Forms: []pagelens.Form{
			{ActionURL: "/search", Method: "get", Inputs: []pagelens.FormInput{{Type: "text", Name: "q"}}},
		},
		SelectedText: "widgets are great",
	}

	prompt := gemini.BuildUserPrompt(snap, "What is this page about?")

	assert.Contains(t, prompt, "<title>Widget Docs</title>")
	assert.Contains(t, prompt, "<url>https://example.com/docs</url>")
	assert.Contains(t, prompt, "<description>Documentation for widgets</description>")
	assert.Contains(t, prompt, "<h1>Getting Started</h1>")
	assert.Contains(t, prompt, "<h2>Installation</h2>")
	assert.Contains(t, prompt, "<button>Submit</button>")
	assert.Contains(t, prompt, `<link href="https://example.com/">Home</link>`)
	assert.Contains(t, prompt, `<form action="/search" method="get" inputs=1/>`)
	assert.Contains(t, prompt, "<selection>widgets are great</selection>")
	assert.Contains(t, prompt, "Question: What is this page about?")
}

func TestBuildUserPrompt_OmitsEmptySections(t *testing.T) {
	t.Parallel()

	prompt := gemini.BuildUserPrompt(&pagelens.Snapshot{Title: "Bare"}, "anything?")

	assert.NotContains(t, prompt, "<description>")
	assert.NotContains(t, prompt, "<headings>")
	assert.NotContains(t, prompt, "<actions>")
	assert.NotContains(t, prompt, "<forms>")
	assert.NotContains(t, prompt, "<selection>")
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	config := gemini.BuildConfig()
	require.NotNil(t, config.SystemInstruction)
	require.Len(t, config.SystemInstruction.Parts, 1)
	assert.Contains(t, config.SystemInstruction.Parts[0].Text, "page structure provided")
	require.NotNil(t, config.Temperature)
	assert.InDelta(t, 0.4, float64(*config.Temperature), 0.001)
}

func TestContextSummary(t *testing.T) {
	t.Parallel()

	snap := &pagelens.Snapshot{
		Title:        "Widget Docs",
		Headings:     []pagelens.Heading{{Level: 1, Text: "A"}},
		Actions:      []pagelens.Action{{Text: "B", Kind: pagelens.ActionButton}},
		SelectedText: "sel",
	}
	assert.Equal(t, "title, 1 headings, 1 actions, selection", gemini.ContextSummary(snap))
	assert.Equal(t, "0 headings, 0 actions", gemini.ContextSummary(&pagelens.Snapshot{}))
}
