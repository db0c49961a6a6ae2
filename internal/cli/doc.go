// Package cli implements the command-line interface for heroes-schedule.
//
// The cli package provides the Cobra-based CLI with commands for running a
// harvest cycle, purging retroactively invalid stored events, and listing
// the upcoming schedule, with text and JSON output formats. It wires the
// scraper, harvest, and storage packages together.
package cli
