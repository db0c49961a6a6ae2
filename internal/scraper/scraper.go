package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pbroekroelofs/sports-heroes-schedule/internal/event"
	"github.com/pbroekroelofs/sports-heroes-schedule/internal/logger"
	"github.com/pbroekroelofs/sports-heroes-schedule/internal/subject"
)

const (
	// BaseURL is the statistics site serving the rider calendars.
	BaseURL = "https://firstcycling.com"

	// Timeout bounds a single page fetch, direct or proxied.
	Timeout = 15 * time.Second
)

// Scraper fetches and normalizes one tracked subject's race calendar.
type Scraper struct {
	client   *http.Client
	baseURL  string
	proxyURL string
	proxyKey string
	now      func() time.Time
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithProxyKey routes fetches through the bypass proxy using the given
// credential. An empty key leaves the direct-fetch path in place.
func WithProxyKey(key string) Option {
	return func(s *Scraper) { s.proxyKey = key }
}

// WithBaseURL overrides the statistics site base URL.
func WithBaseURL(u string) Option {
	return func(s *Scraper) { s.baseURL = strings.TrimSuffix(u, "/") }
}

// WithProxyURL overrides the bypass-proxy endpoint.
func WithProxyURL(u string) Option {
	return func(s *Scraper) { s.proxyURL = u }
}

// WithTimeout overrides the per-fetch timeout, direct or proxied.
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) { s.client.Timeout = d }
}

// WithClock overrides the time source used for date inference and the
// past-event cutoff.
func WithClock(now func() time.Time) Option {
	return func(s *Scraper) { s.now = now }
}

// New creates a new Scraper instance.
func New(opts ...Option) *Scraper {
	s := &Scraper{
		client:   &http.Client{Timeout: Timeout},
		baseURL:  BaseURL,
		proxyURL: proxyAPIURL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// riderURL constructs the calendar page URL for a tracked subject.
func (s *Scraper) riderURL(sub subject.Subject) string {
	return fmt.Sprintf("%s/rider.php?r=%s", s.baseURL, sub.Slug)
}

// FetchEvents fetches a subject's calendar page and runs the full
// normalization pipeline: extract candidates, validate names, resolve dates,
// classify, and assign deterministic IDs. Candidates failing validation are
// dropped and counted, never surfaced individually.
func (s *Scraper) FetchEvents(ctx context.Context, sub subject.Subject) ([]*event.Event, error) {
	pageURL := s.riderURL(sub)

	markup, err := s.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	return s.parseEvents(markup, sub, pageURL)
}

// parseEvents turns raw markup into normalized events for one subject.
func (s *Scraper) parseEvents(markup string, sub subject.Subject, pageURL string) ([]*event.Event, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	now := s.now().UTC()
	candidates := extractCandidates(doc)

	events := make([]*event.Event, 0, len(candidates))
	rejected := 0
	for _, c := range candidates {
		evt, ok := s.normalize(c, sub, pageURL, now)
		if !ok {
			rejected++
			continue
		}
		events = append(events, evt)
	}

	if rejected > 0 {
		logger.IncrCounterBy("harvest.candidates.rejected", rejected)
		logger.Debug("Rejected candidates", logger.Fields{
			"subject":  sub.IDPrefix,
			"rejected": rejected,
		})
	}

	return events, nil
}

// normalize validates a candidate and produces the normalized event.
// This is a forward-looking schedule: races already underway or finished
// are discarded along with anything unparseable.
func (s *Scraper) normalize(c candidate, sub subject.Subject, pageURL string, now time.Time) (*event.Event, bool) {
	if !event.ValidCompetitionName(c.Name) {
		return nil, false
	}

	start, err := event.ParseRaceDate(c.DateText, now)
	if err != nil || start.Before(now) {
		return nil, false
	}

	return &event.Event{
		ID:          event.NewID(sub.IDPrefix, c.DateText, c.Name),
		Sport:       event.Classify(c.Name, sub.Categories),
		Title:       fmt.Sprintf("%s – %s", c.Name, sub.DisplayName),
		Competition: c.Name,
		StartTime:   start,
		SourceURL:   s.sourceURL(c.Href, pageURL),
		FetchedAt:   now,
	}, true
}

// sourceURL resolves a candidate's link against the site base, falling back
// to the subject's calendar page when the entry carried no link.
func (s *Scraper) sourceURL(href, pageURL string) string {
	switch {
	case href == "":
		return pageURL
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href
	default:
		return s.baseURL + "/" + strings.TrimPrefix(href, "/")
	}
}
