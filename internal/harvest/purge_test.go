package harvest

import (
	"context"
	"testing"

	"github.com/pbroekroelofs/sports-heroes-schedule/internal/event"
)

func TestPurgeRemovesInvalidCompetitions(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()

	keep := testEvent("keep", event.SportMvdPRoad)
	keep.Competition = "Tour de France"
	remove := testEvent("remove", event.SportMvdPRoad)
	remove.Competition = "(1.UWT)"
	otherCat := testEvent("other", event.SportF1)
	otherCat.Competition = "(2.UWT)"

	for _, evt := range []*event.Event{keep, remove, otherCat} {
		if err := store.Upsert(ctx, evt); err != nil {
			t.Fatalf("seeding store: %v", err)
		}
	}

	runner := NewRunner(store, nil)
	result, err := runner.Purge(ctx, []event.SportCategory{event.SportMvdPRoad})
	if err != nil {
		t.Fatalf("purge failed: %v", err)
	}

	if result.Scanned != 2 {
		t.Errorf("scanned = %d, expected 2", result.Scanned)
	}
	if result.Removed != 1 {
		t.Errorf("removed = %d, expected 1", result.Removed)
	}
	if len(result.RemovedIDs) != 1 || result.RemovedIDs[0] != "remove" {
		t.Errorf("removed ids = %v, expected [remove]", result.RemovedIDs)
	}

	ids := store.storedIDs()
	if len(ids) != 2 {
		t.Fatalf("expected 2 surviving events, got %v", ids)
	}
	for _, id := range ids {
		if id == "remove" {
			t.Error("invalid event survived the purge")
		}
	}
}

func TestPurgeNothingToDo(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()

	keep := testEvent("keep", event.SportMvdPCX)
	keep.Competition = "Superprestige Diegem"
	if err := store.Upsert(ctx, keep); err != nil {
		t.Fatalf("seeding store: %v", err)
	}

	runner := NewRunner(store, nil)
	result, err := runner.Purge(ctx, []event.SportCategory{event.SportMvdPCX, event.SportMvdPMTB})
	if err != nil {
		t.Fatalf("purge failed: %v", err)
	}

	if result.Scanned != 1 || result.Removed != 0 {
		t.Errorf("result = %+v, expected 1 scanned and nothing removed", result)
	}
}
