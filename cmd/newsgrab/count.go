package main

import (
	"fmt"

	"newsgrab"
)

// Run executes the count command.
func (c *CountCmd) Run(deps *Dependencies) error {
	filter := newsgrab.ArticleFilter{}
	if c.URL != "" {
		filter.URL = &c.URL
	}

	count, err := deps.Articles.CountArticles(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsgrab.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, count)
	return nil
}
