package main

import (
	"fmt"
	"time"

	"newsgrab"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	results, err := deps.Pipeline.RunAll(deps.Ctx, c.URLs)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsgrab.ErrorMessage(err))
		return err
	}

	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", r.URL, newsgrab.ErrorMessage(r.Err))
			continue
		}
		fmt.Fprintf(deps.Stdout, "%s  extracted=%d saved=%d duration=%s\n",
			r.URL, r.Extracted, r.Saved, r.Duration.Round(time.Millisecond))
	}

	if failed > 0 {
		return newsgrab.Errorf(newsgrab.EINTERNAL, "%d of %d URLs failed", failed, len(results))
	}
	return nil
}
