// Package event provides types and functions for normalized schedule events.
//
// The event package handles event representation, identification, date
// resolution, and sport classification. Each event is assigned a deterministic
// UUIDv5-based ID generated from its subject prefix, raw date text, and
// cleaned race name, so repeated harvests of the same logical race always
// resolve to the same record identity.
package event
