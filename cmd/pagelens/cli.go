package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/pagelens/pagelens"
	"github.com/pagelens/pagelens/panel"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Fetcher    pagelens.Fetcher
	Extractor  pagelens.Extractor
	Answerer   pagelens.Answerer
	Classifier pagelens.Classifier
	Suggester  pagelens.Suggester

	// Panel command wiring.
	Sessions         pagelens.SessionService
	Panel            *panel.Controller
	StartCoordinator func(ctx context.Context) error
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Ask      AskCmd      `cmd:"" help:"Ask a question about a page"`
	Panel    PanelCmd    `cmd:"" help:"Open the interactive panel against a live browser"`
	Classify ClassifyCmd `cmd:"" help:"Classify a page by type, complexity and interactivity"`
	Suggest  SuggestCmd  `cmd:"" help:"Suggest questions to ask about a page"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	URL      string `arg:"" help:"Page URL"`
	Question string `arg:"" help:"Question to ask about the page"`
	Save     string `short:"s" help:"Archive the extracted snapshot under this directory"`
	Static   bool   `help:"Fetch over plain HTTP without a browser (static pages only)"`
}

// PanelCmd is the "panel" subcommand.
type PanelCmd struct{}

// ClassifyCmd is the "classify" subcommand.
type ClassifyCmd struct {
	URL    string `arg:"" help:"Page URL"`
	Static bool   `help:"Fetch over plain HTTP without a browser (static pages only)"`
}

// SuggestCmd is the "suggest" subcommand.
type SuggestCmd struct {
	URL    string `arg:"" help:"Page URL"`
	Static bool   `help:"Fetch over plain HTTP without a browser (static pages only)"`
}
