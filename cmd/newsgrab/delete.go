package main

import (
	"fmt"

	"newsgrab"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return newsgrab.Errorf(newsgrab.EINVALID, "use --force to confirm deletion")
	}

	removed, err := deps.Articles.DeleteArticlesByURL(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsgrab.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted %d articles for %s\n", removed, c.URL)
	return nil
}
