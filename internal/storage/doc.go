// Package storage persists normalized events in a local SQLite database.
//
// The store is keyed by event ID: writes are idempotent upserts with merge
// semantics, so re-harvesting the same race updates the stored row instead
// of duplicating it. Range queries return events sorted by start time;
// callers upstream never sort.
package storage
