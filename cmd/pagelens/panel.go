package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pagelens/pagelens"
)

// Run executes the panel command: an interactive loop over the live
// browser's active tab.
func (c *PanelCmd) Run(deps *Dependencies) error {
	ctx, cancel := context.WithCancel(deps.Ctx)
	defer cancel()

	if deps.StartCoordinator != nil {
		go func() {
			if err := deps.StartCoordinator(ctx); err != nil && !errors.Is(err, context.Canceled) {
				deps.Logger.Error("coordinator stopped", "err", err)
			}
		}()
	}

	controller := deps.Panel
	fmt.Fprintf(deps.Stdout, "status: %s\n", controller.Probe(ctx))
	fmt.Fprintln(deps.Stdout, `Type a question, or /refresh /suggest /history /clear /copy /status /quit.`)

	scanner := bufio.NewScanner(deps.Stdin)
	for {
		fmt.Fprint(deps.Stdout, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue

		case "/quit", "/exit":
			return nil

		case "/refresh":
			controller.RefreshSnapshot()
			if notice := controller.Notice(); notice != "" {
				fmt.Fprintln(deps.Stdout, notice)
				continue
			}
			fmt.Fprintf(deps.Stdout, "viewing: %s\n", controller.Snapshot().Title)

		case "/suggest":
			for _, question := range controller.Suggestions() {
				fmt.Fprintf(deps.Stdout, "- %s\n", question)
			}

		case "/history":
			for _, entry := range controller.History() {
				fmt.Fprintf(deps.Stdout, "Q: %s\nA: %s\n", entry.Question, entry.Answer)
			}

		case "/clear":
			controller.ClearHistory()
			fmt.Fprintln(deps.Stdout, "history cleared")

		case "/copy":
			if err := controller.CopyAnswer(); err != nil {
				fmt.Fprintf(deps.Stderr, "error: %s\n", pagelens.ErrorMessage(err))
			}

		case "/status":
			fmt.Fprintf(deps.Stdout, "status: %s\n", controller.Probe(ctx))

		default:
			controller.RefreshSnapshot()
			answer, err := controller.Submit(ctx, line)
			if err != nil {
				fmt.Fprintf(deps.Stderr, "error: %s\n", pagelens.ErrorMessage(err))
				continue
			}
			if answer == nil {
				continue // tab changed while answering
			}
			fmt.Fprintln(deps.Stdout, answer.Text)
			if answer.Source == pagelens.SourceFallback {
				fmt.Fprintln(deps.Stdout, "(answered offline from page structure)")
			}
		}
	}
	return scanner.Err()
}
