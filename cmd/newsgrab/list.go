package main

import (
	"fmt"

	"newsgrab"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := newsgrab.ArticleFilter{Limit: c.Limit, Offset: c.Offset}
	if c.URL != "" {
		filter.URL = &c.URL
	}

	articles, err := deps.Articles.FindArticles(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsgrab.ErrorMessage(err))
		return err
	}

	if len(articles) == 0 {
		fmt.Fprintln(deps.Stdout, "No articles found. Use 'newsgrab scrape' to collect some.")
		return nil
	}

	for _, a := range articles {
		date := "-"
		if a.PublicationDate != nil && *a.PublicationDate != "" {
			date = *a.PublicationDate
		}
		fmt.Fprintf(deps.Stdout, "%d  %s  %s  %s\n", a.ID, date, a.Title, a.URL)
	}

	return nil
}
