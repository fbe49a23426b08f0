package main

import (
	"fmt"

	"github.com/pagelens/pagelens"
	"github.com/pagelens/pagelens/fs"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	snap, err := fetchSnapshot(deps, c.URL)
	if err != nil {
		return err
	}

	if c.Save != "" {
		if err := archiveSnapshot(c.Save, snap); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", pagelens.ErrorMessage(err))
			return err
		}
	}

	query, err := pagelens.NewQuery(c.Question, snap)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagelens.ErrorMessage(err))
		return err
	}

	answer, err := deps.Answerer.Answer(deps.Ctx, query)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagelens.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, answer.Text)
	if answer.Source == pagelens.SourceFallback {
		fmt.Fprintln(deps.Stderr, "(answered offline from page structure)")
	}
	return nil
}

// archiveSnapshot saves the snapshot under dir, keeping any previous archive
// if the write fails.
func archiveSnapshot(dir string, snap *pagelens.Snapshot) error {
	store := fs.NewSnapshotStore(dir, "snapshots")
	if err := store.Save(snap); err != nil {
		_ = store.Abort()
		return err
	}
	return store.Commit()
}

// fetchSnapshot retrieves the page and extracts its structural snapshot.
func fetchSnapshot(deps *Dependencies, url string) (*pagelens.Snapshot, error) {
	html, err := deps.Fetcher.Fetch(deps.Ctx, url)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagelens.ErrorMessage(err))
		return nil, err
	}
	snap, err := deps.Extractor.Extract(html, url)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagelens.ErrorMessage(err))
		return nil, err
	}
	return snap, nil
}
