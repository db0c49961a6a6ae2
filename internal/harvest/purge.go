package harvest

import (
	"context"
	"fmt"

	"github.com/pbroekroelofs/sports-heroes-schedule/internal/event"
	"github.com/pbroekroelofs/sports-heroes-schedule/internal/logger"
)

// PurgeResult reports one purge pass.
type PurgeResult struct {
	Scanned    int      `json:"scanned"`
	Removed    int      `json:"removed"`
	RemovedIDs []string `json:"removed_ids,omitempty"`
}

// Purge retroactively removes stored events whose competition no longer
// passes the current validity rule. Earlier pipeline generations persisted
// classification codes like "(1.UWT)" as competitions; sweeping the
// low-confidence categories repairs that data without a migration tool.
func (r *Runner) Purge(ctx context.Context, categories []event.SportCategory) (*PurgeResult, error) {
	result := &PurgeResult{}

	for _, cat := range categories {
		stored, err := r.store.QueryByCategory(ctx, cat)
		if err != nil {
			return nil, fmt.Errorf("scanning category %s: %w", cat, err)
		}

		for _, se := range stored {
			result.Scanned++
			if event.ValidCompetitionName(se.Competition) {
				continue
			}
			if err := r.store.Delete(ctx, se.ID); err != nil {
				return nil, fmt.Errorf("removing event %s: %w", se.ID, err)
			}
			result.Removed++
			result.RemovedIDs = append(result.RemovedIDs, se.ID)
			logger.Debug("Purged invalid event", logger.Fields{
				"id":          se.ID,
				"sport":       string(cat),
				"competition": se.Competition,
			})
		}
	}

	logger.Info("Purge complete", logger.Fields{
		"scanned": result.Scanned,
		"removed": result.Removed,
	})
	return result, nil
}
