package main

import (
	"fmt"

	"github.com/jeongsoo1975/blogscout"
)

// Run executes the records command.
func (c *RecordsCmd) Run(deps *Dependencies) error {
	filter := blogscout.RecordFilter{Limit: c.Limit}
	if c.Blog != "" {
		filter.BlogID = &c.Blog
	}
	if c.Keyword != "" {
		filter.Keyword = &c.Keyword
	}

	recs, err := deps.Records.FindRecords(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", blogscout.ErrorMessage(err))
		return err
	}

	if len(recs) == 0 {
		fmt.Fprintln(deps.Stdout, "No records found. Use 'blogscout collect' to gather some.")
		return nil
	}

	for _, r := range recs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s  %s\n", r.BlogID, r.BlogName, r.RecentPostDate, r.SourceKeyword, r.BlogURL)
		if c.Full {
			fmt.Fprintf(deps.Stdout, "    %s\n", r.Summary)
		}
	}

	return nil
}
