// Package gemini implements the remote answering capability using Google
// Gemini, for running without a dedicated answering service.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/pagelens/pagelens"
	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// Ensure Answerer implements pagelens.Answerer at compile time.
var _ pagelens.Answerer = (*Answerer)(nil)

// Answerer answers questions about a snapshot using Google Gemini.
type Answerer struct {
	client *genai.Client
}

// NewAnswerer creates a new Answerer.
func NewAnswerer(client *genai.Client) *Answerer {
	return &Answerer{client: client}
}

// Answer answers a natural language question about the query's snapshot.
// Model failures are EUNAVAILABLE so the dispatcher can fall back.
func (a *Answerer) Answer(ctx context.Context, query *pagelens.Query) (*pagelens.Answer, error) {
	if query.Question == "" {
		return nil, pagelens.Errorf(pagelens.EINVALID, "question required")
	}
	snap := query.Snapshot
	if snap == nil {
		snap = &pagelens.Snapshot{}
	}

	prompt := BuildUserPrompt(snap, query.Question)
	config := BuildConfig()

	result, err := a.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return nil, pagelens.Errorf(pagelens.EUNAVAILABLE, "gemini call failed: %v", err)
	}
	if result == nil || result.Text() == "" {
		return nil, pagelens.Errorf(pagelens.EUNAVAILABLE, "gemini returned an empty answer")
	}

	return &pagelens.Answer{
		Text:        result.Text(),
		ContextUsed: ContextSummary(snap),
		Source:      pagelens.SourceRemote,
	}, nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are a helpful assistant answering questions about the web page the user is currently viewing. Answer based only on the page structure provided. If the answer is not in the provided structure, say so.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt serializes the snapshot and the question into the prompt.
func BuildUserPrompt(snap *pagelens.Snapshot, question string) string {
	var sb strings.Builder
	sb.WriteString("<page>\n")
	fmt.Fprintf(&sb, "<title>%s</title>\n", snap.Title)
	fmt.Fprintf(&sb, "<url>%s</url>\n", snap.URL)
	if snap.MetaDescription != "" {
		fmt.Fprintf(&sb, "<description>%s</description>\n", snap.MetaDescription)
	}
	if len(snap.Headings) > 0 {
		sb.WriteString("<headings>\n")
		for _, h := range snap.Headings {
			fmt.Fprintf(&sb, "<h%d>%s</h%d>\n", h.Level, h.Text, h.Level)
		}
		sb.WriteString("</headings>\n")
	}
	if len(snap.Actions) > 0 {
		sb.WriteString("<actions>\n")
		for _, a := range snap.Actions {
			if a.Href != "" {
				fmt.Fprintf(&sb, "<%s href=%q>%s</%s>\n", a.Kind, a.Href, a.Text, a.Kind)
			} else {
				fmt.Fprintf(&sb, "<%s>%s</%s>\n", a.Kind, a.Text, a.Kind)
			}
		}
		sb.WriteString("</actions>\n")
	}
	if len(snap.Forms) > 0 {
		sb.WriteString("<forms>\n")
		for _, f := range snap.Forms {
			fmt.Fprintf(&sb, "<form action=%q method=%q inputs=%d/>\n", f.ActionURL, f.Method, len(f.Inputs))
		}
		sb.WriteString("</forms>\n")
	}
	if snap.SelectedText != "" {
		fmt.Fprintf(&sb, "<selection>%s</selection>\n", snap.SelectedText)
	}
	sb.WriteString("</page>\n\n")
	fmt.Fprintf(&sb, "Question: %s", question)
	return sb.String()
}

// ContextSummary describes what the model was given, for display next to
// the answer.
func ContextSummary(snap *pagelens.Snapshot) string {
	parts := []string{fmt.Sprintf("%d headings", len(snap.Headings)), fmt.Sprintf("%d actions", len(snap.Actions))}
	if snap.Title != "" {
		parts = append([]string{"title"}, parts...)
	}
	if snap.SelectedText != "" {
		parts = append(parts, "selection")
	}
	return strings.Join(parts, ", ")
}
