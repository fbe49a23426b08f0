package main

import "fmt"

// Run executes the classify command.
func (c *ClassifyCmd) Run(deps *Dependencies) error {
	snap, err := fetchSnapshot(deps, c.URL)
	if err != nil {
		return err
	}

	class := deps.Classifier.Classify(snap)
	fmt.Fprintf(deps.Stdout, "type:          %s\n", class.PageType)
	fmt.Fprintf(deps.Stdout, "complexity:    %s\n", class.Complexity)
	fmt.Fprintf(deps.Stdout, "interactivity: %s\n", class.Interactivity)
	return nil
}
