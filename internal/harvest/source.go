package harvest

import (
	"context"

	"github.com/pbroekroelofs/sports-heroes-schedule/internal/event"
	"github.com/pbroekroelofs/sports-heroes-schedule/internal/scraper"
	"github.com/pbroekroelofs/sports-heroes-schedule/internal/subject"
)

// SubjectSource adapts one tracked subject's scraper pipeline to the Source
// interface. Scraped sources are replace-flagged: stale or renamed entries
// on the statistics site should disappear from the store on refresh.
type SubjectSource struct {
	Subject subject.Subject
	Scraper *scraper.Scraper
}

// NewSubjectSources builds a source per tracked subject, all sharing one
// scraper.
func NewSubjectSources(sc *scraper.Scraper, subjects []subject.Subject) []Source {
	sources := make([]Source, 0, len(subjects))
	for _, sub := range subjects {
		sources = append(sources, &SubjectSource{Subject: sub, Scraper: sc})
	}
	return sources
}

func (s *SubjectSource) Name() string { return s.Subject.DisplayName }

func (s *SubjectSource) Categories() []event.SportCategory {
	return s.Subject.SportCategories()
}

func (s *SubjectSource) ReplaceOnSuccess() bool { return true }

func (s *SubjectSource) Fetch(ctx context.Context) ([]*event.Event, error) {
	return s.Scraper.FetchEvents(ctx, s.Subject)
}
