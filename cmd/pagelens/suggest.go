package main

import "fmt"

// Run executes the suggest command.
func (c *SuggestCmd) Run(deps *Dependencies) error {
	snap, err := fetchSnapshot(deps, c.URL)
	if err != nil {
		return err
	}

	for _, question := range deps.Suggester.Suggest(snap) {
		fmt.Fprintf(deps.Stdout, "- %s\n", question)
	}
	return nil
}
