package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pbroekroelofs/sports-heroes-schedule/internal/event"
	"github.com/pbroekroelofs/sports-heroes-schedule/internal/harvest"
)

// summaryDurationUnit rounds cycle durations for text output.
const summaryDurationUnit = 10 * time.Millisecond

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// WriteSummary writes a harvest cycle summary in the specified format.
func WriteSummary(w io.Writer, summary *harvest.Summary, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, summary)
	}

	for _, res := range summary.Results {
		switch {
		case res.Error != "":
			fmt.Fprintf(w, "%s: ERROR: %s\n", res.Source, res.Error)
		case res.Events == 0:
			fmt.Fprintf(w, "%s: no upcoming events found\n", res.Source)
		default:
			fmt.Fprintf(w, "%s: %d events\n", res.Source, res.Events)
		}
		for _, pe := range res.PersistErrors {
			fmt.Fprintf(w, "  persist error: %s\n", pe)
		}
	}
	fmt.Fprintf(w, "\nTotal: %d events in %s\n", summary.TotalEvents, summary.Duration.Round(summaryDurationUnit))
	return nil
}

// WritePurge writes a purge result in the specified format.
func WritePurge(w io.Writer, result *harvest.PurgeResult, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, result)
	}

	if result.Removed == 0 {
		fmt.Fprintf(w, "Scanned %d stored events, nothing to remove.\n", result.Scanned)
		return nil
	}

	fmt.Fprintf(w, "Scanned %d stored events, removed %d:\n", result.Scanned, result.Removed)
	for _, id := range result.RemovedIDs {
		fmt.Fprintf(w, "  %s\n", id)
	}
	return nil
}

// WriteEvents writes a stored-event listing in the specified format. The
// store returns events sorted by start time; order is preserved here.
func WriteEvents(w io.Writer, events []*event.Event, format OutputFormat, verbose bool) error {
	if format == FormatJSON {
		return writeJSON(w, events)
	}

	if len(events) == 0 {
		fmt.Fprintln(w, "No upcoming events found.")
		return nil
	}

	for _, evt := range events {
		fmt.Fprintf(w, "%s  %-12s %s\n",
			evt.StartTime.Format("2006-01-02"), evt.Sport, evt.Title)
		if verbose {
			fmt.Fprintf(w, "             ID: %s\n", evt.ID)
			if evt.SourceURL != "" {
				fmt.Fprintf(w, "             Source: %s\n", evt.SourceURL)
			}
		}
	}
	fmt.Fprintf(w, "\nTotal: %d events\n", len(events))
	return nil
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
