// Package scraper provides HTTP fetching and HTML extraction for tracked
// subjects' race calendars on the statistics site.
//
// The site's markup is not contractually stable, so extraction runs a
// primary strategy over the upcoming-races list and falls back to a generic
// tabular scan when the primary strategy finds nothing. Candidates that fail
// name or date validation are dropped before they ever become events.
package scraper
