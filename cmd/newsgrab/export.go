package main

import (
	"fmt"
	"io"
	"os"

	"newsgrab"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	filter := newsgrab.ArticleFilter{}
	if c.URL != "" {
		filter.URL = &c.URL
	}

	articles, err := deps.Articles.FindArticles(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsgrab.ErrorMessage(err))
		return err
	}

	var w io.Writer = deps.Stdout
	if c.Output != "-" {
		f, err := os.Create(c.Output)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
			return err
		}
		defer f.Close()
		w = f
	}

	if err := deps.Exporter.Export(w, articles); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsgrab.ErrorMessage(err))
		return err
	}

	if c.Output != "-" {
		fmt.Fprintf(deps.Stdout, "Exported %d articles to %s\n", len(articles), c.Output)
	}
	return nil
}
