package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/pagelens/pagelens"
	"github.com/pagelens/pagelens/bus"
	"github.com/pagelens/pagelens/coord"
	"github.com/pagelens/pagelens/dispatch"
	"github.com/pagelens/pagelens/gemini"
	"github.com/pagelens/pagelens/goquery"
	"github.com/pagelens/pagelens/heuristic"
	pagelenshttp "github.com/pagelens/pagelens/http"
	"github.com/pagelens/pagelens/panel"
	"github.com/pagelens/pagelens/rod"
	pageslog "github.com/pagelens/pagelens/slog"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// RemoteURL is the base URL of the remote answering service. Set
	// before calling Run(). Empty means Gemini (when GEMINI_API_KEY is
	// set) or fallback-only answering.
	RemoteURL string

	// Logger used by all components.
	Logger *slog.Logger
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		RemoteURL: os.Getenv("PAGELENS_REMOTE_URL"),
		Logger:    slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fallback := heuristic.NewResponder()

	deps := &Dependencies{
		Ctx:        ctx,
		Stdin:      stdin,
		Stdout:     stdout,
		Stderr:     stderr,
		Logger:     m.Logger,
		Extractor:  goquery.NewExtractor(),
		Classifier: heuristic.NewClassifier(),
		Suggester:  heuristic.NewSuggester(),
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pagelens"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'pagelens --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Wire the answering path. The dispatcher recovers any remote failure
	// through the fallback, so a missing remote never blocks a question.
	remote, health, err := m.remoteAnswerer(ctx)
	if err != nil {
		return err
	}
	deps.Answerer = pageslog.NewLoggingAnswerer(
		dispatch.NewDispatcher(remote, fallback),
		m.Logger,
	)

	// Commands that read a fetched page take a browser for rendered HTML,
	// or plain HTTP when --static says the page needs no JavaScript.
	switch cmd {
	case "ask", "classify", "suggest":
		if cli.Ask.Static || cli.Classify.Static || cli.Suggest.Static {
			deps.Fetcher = rod.NewLoggingFetcher(pagelenshttp.NewFetcher(), m.Logger)
			break
		}
		fetcher, err := rod.NewFetcher()
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		defer fetcher.Close()
		deps.Fetcher = rod.NewLoggingFetcher(fetcher, m.Logger)

	case "panel":
		manager, err := rod.NewBrowserManager()
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		defer manager.Close()

		host := rod.NewHost(manager.Browser())
		coordinator := coord.NewCoordinator(host, deps.Extractor, bus.New(), health,
			coord.WithLogger(m.Logger),
		)
		deps.Sessions = pageslog.NewLoggingSessions(coordinator, m.Logger)
		deps.StartCoordinator = coordinator.Run
		deps.Panel = panel.NewController(deps.Sessions, deps.Answerer, health,
			panel.WithSuggester(deps.Suggester),
			panel.WithLogger(m.Logger),
			panel.WithCopyFunc(func(text string) error {
				_, err := fmt.Fprintln(stdout, text)
				return err
			}),
		)
	}

	return kongCtx.Run(deps)
}

// remoteAnswerer selects the remote answering capability: an HTTP service
// when RemoteURL is set, Gemini when an API key is available, otherwise
// none (fallback-only).
func (m *Main) remoteAnswerer(ctx context.Context) (pagelens.Answerer, pagelens.HealthChecker, error) {
	if m.RemoteURL != "" {
		return pagelenshttp.NewAnswerer(m.RemoteURL), pagelenshttp.NewHealthChecker(m.RemoteURL), nil
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, nil, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}
	return gemini.NewAnswerer(client), nil, nil
}
