package main

import (
	"fmt"

	"github.com/jeongsoo1975/blogscout"
)

// Run executes the collect command.
func (c *CollectCmd) Run(deps *Dependencies) error {
	batch, err := deps.Runner.Collect(deps.Ctx, c.Keywords, c.Limit)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", blogscout.ErrorMessage(err))
		return err
	}

	return reportBatch(deps, batch)
}

// reportBatch prints per-URL outcomes and writes the batch files. Shared
// by the collect and run commands.
func reportBatch(deps *Dependencies, batch *blogscout.BatchResult) error {
	for i := range batch.Outcomes {
		o := &batch.Outcomes[i]
		if o.Record != nil {
			fmt.Fprintf(deps.Stdout, "ok    %s  %s  %s\n", o.Record.BlogID, o.Record.BlogName, o.URL)
			continue
		}
		fmt.Fprintf(deps.Stdout, "fail  %s  [%s] %s\n", o.URL, o.Stage, o.Reason)
	}
	fmt.Fprintf(deps.Stdout, "%d recorded, %d failed\n", batch.Succeeded, batch.Failed)

	if deps.Writer == nil {
		return nil
	}

	path, err := deps.Writer.WriteBatch(deps.Ctx, batch)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", blogscout.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Saved to %s\n", path)
	return nil
}
