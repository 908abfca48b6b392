// Package newsgrab scrapes a news website's rendered HTML, extracts
// structured article records with a hosted language model, persists them
// to SQLite keyed by source URL, and exports stored records to CSV.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, sqlite/, openrouter/).
package newsgrab
