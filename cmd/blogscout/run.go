package main

import (
	"fmt"

	"github.com/jeongsoo1975/blogscout"
)

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	batch, err := deps.Runner.Run(deps.Ctx, c.Keyword, c.URLs)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", blogscout.ErrorMessage(err))
		return err
	}

	return reportBatch(deps, batch)
}
