// Package harvest drives one scheduled harvest cycle across all tracked
// subjects and repairs previously stored data through the purge routine.
//
// Subjects are harvested concurrently and independently: a transport error,
// empty extraction, or parse failure in one subject never affects the
// others. The cycle result is always a best-effort aggregate, never an
// overall failure.
package harvest

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/pbroekroelofs/sports-heroes-schedule/internal/event"
	"github.com/pbroekroelofs/sports-heroes-schedule/internal/logger"
	"github.com/pbroekroelofs/sports-heroes-schedule/internal/storage"
)

// DefaultMaxRetries is how often a failed source fetch is retried within a
// cycle. Retry policy lives here; the transport itself fails fast.
const DefaultMaxRetries = 2

// Source produces one subject's normalized events for a cycle.
type Source interface {
	// Name identifies the source in logs and summaries.
	Name() string
	// Categories lists the sport categories this source can produce.
	Categories() []event.SportCategory
	// ReplaceOnSuccess reports whether a successful non-empty harvest
	// should first delete all stored events in the source's categories.
	// Set for low-confidence scraped sources whose historical entries may
	// silently go stale or be renamed upstream.
	ReplaceOnSuccess() bool
	// Fetch runs the source's harvest pipeline.
	Fetch(ctx context.Context) ([]*event.Event, error)
}

// Store is the persistence collaborator the orchestrator writes to.
type Store interface {
	Upsert(ctx context.Context, evt *event.Event) error
	DeleteAllForCategories(ctx context.Context, categories []event.SportCategory) error
	QueryByCategory(ctx context.Context, category event.SportCategory) ([]storage.StoredEvent, error)
	Delete(ctx context.Context, id string) error
}

// SourceResult captures one source's outcome within a cycle.
type SourceResult struct {
	Source        string   `json:"source"`
	Events        int      `json:"events"`
	Error         string   `json:"error,omitempty"`
	PersistErrors []string `json:"persist_errors,omitempty"`
}

// Summary aggregates a full harvest cycle.
type Summary struct {
	StartedAt   time.Time      `json:"started_at"`
	Duration    time.Duration  `json:"duration"`
	Results     []SourceResult `json:"results"`
	TotalEvents int            `json:"total_events"`
}

// Runner orchestrates harvest cycles over a fixed set of sources.
type Runner struct {
	sources    []Source
	store      Store
	maxRetries uint64
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithMaxRetries overrides how often a failed source fetch is retried.
func WithMaxRetries(n uint64) RunnerOption {
	return func(r *Runner) { r.maxRetries = n }
}

// NewRunner creates a Runner writing to the given store.
func NewRunner(store Store, sources []Source, opts ...RunnerOption) *Runner {
	r := &Runner{
		sources:    sources,
		store:      store,
		maxRetries: DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes one harvest cycle. All sources run concurrently; the summary
// reports success or an explicit per-source reason for each.
func (r *Runner) Run(ctx context.Context) *Summary {
	started := time.Now().UTC()
	results := make([]SourceResult, len(r.sources))

	var wg sync.WaitGroup
	for i, src := range r.sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			results[i] = r.runSource(ctx, src)
		}(i, src)
	}
	wg.Wait()

	summary := &Summary{
		StartedAt: started,
		Duration:  time.Since(started),
		Results:   results,
	}
	for _, res := range results {
		summary.TotalEvents += res.Events
	}

	logger.Info("Harvest cycle complete", logger.Fields{
		"total_events": summary.TotalEvents,
		"duration":     summary.Duration.String(),
	})
	logger.RecordTiming("harvest.cycle", summary.Duration)

	return summary
}

// runSource harvests a single source and persists its batch. Failures are
// contained here so sibling sources keep running.
func (r *Runner) runSource(ctx context.Context, src Source) SourceResult {
	result := SourceResult{Source: src.Name()}

	fetchStarted := time.Now()
	events, err := r.fetchWithRetry(ctx, src)
	logger.RecordTiming("harvest.fetch", time.Since(fetchStarted))
	if err != nil {
		logger.Error("Harvest failed", logger.Fields{"source": src.Name()}, err)
		logger.IncrCounter("harvest.sources.failed")
		result.Error = err.Error()
		return result
	}

	if len(events) == 0 {
		// A valid outcome, not an error: the page may legitimately list
		// nothing upcoming. No delete happens, so a transient empty result
		// cannot wipe stored data.
		logger.Warn("No candidates extracted", logger.Fields{"source": src.Name()})
		return result
	}

	if src.ReplaceOnSuccess() {
		if err := r.store.DeleteAllForCategories(ctx, src.Categories()); err != nil {
			logger.Error("Replace sweep failed", logger.Fields{"source": src.Name()}, err)
			result.Error = err.Error()
			return result
		}
	}

	for _, evt := range events {
		if err := r.store.Upsert(ctx, evt); err != nil {
			result.PersistErrors = append(result.PersistErrors, err.Error())
			continue
		}
		result.Events++
	}
	logger.IncrCounterBy("harvest.events.upserted", result.Events)

	logger.Info("Harvested source", logger.Fields{
		"source": src.Name(),
		"events": result.Events,
	})
	return result
}

// fetchWithRetry applies the orchestrator's retry policy around a source
// fetch.
func (r *Runner) fetchWithRetry(ctx context.Context, src Source) ([]*event.Event, error) {
	var events []*event.Event

	op := func() error {
		evts, err := src.Fetch(ctx)
		if err != nil {
			return err
		}
		events = evts
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), r.maxRetries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return events, nil
}
