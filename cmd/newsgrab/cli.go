package main

import (
	"context"
	"io"
	"log/slog"

	"newsgrab"
	"newsgrab/pipeline"
	"newsgrab/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Config   *Config
	DB       *sqlite.DB
	Articles newsgrab.ArticleService
	Exporter newsgrab.Exporter
	Pipeline *pipeline.Pipeline
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config string `help:"Path to YAML config file" type:"path"`

	Scrape ScrapeCmd `cmd:"" help:"Scrape news articles from one or more URLs"`
	List   ListCmd   `cmd:"" help:"List stored articles"`
	Count  CountCmd  `cmd:"" help:"Count stored articles"`
	Export ExportCmd `cmd:"" help:"Export stored articles as CSV"`
	Delete DeleteCmd `cmd:"" help:"Delete articles for a source URL"`
	Clear  ClearCmd  `cmd:"" help:"Delete all stored articles"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URLs           []string `arg:"" help:"News page URLs to scrape"`
	Concurrency    int      `short:"c" help:"Concurrent scrape limit (overrides config)"`
	DiscoverModels bool     `help:"Query OpenRouter for available free models before extracting"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	URL    string `short:"u" help:"Filter by source URL"`
	Limit  int    `default:"20" help:"Maximum articles to show"`
	Offset int    `help:"Articles to skip"`
}

// CountCmd is the "count" subcommand.
type CountCmd struct {
	URL string `short:"u" help:"Filter by source URL"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	URL    string `short:"u" help:"Filter by source URL"`
	Output string `short:"o" default:"-" help:"Output file path, or - for stdout"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	URL   string `arg:"" help:"Source URL whose articles should be removed"`
	Force bool   `help:"Confirm deletion"`
}

// ClearCmd is the "clear" subcommand.
type ClearCmd struct {
	Force bool `help:"Confirm deletion"`
}
