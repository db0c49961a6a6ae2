package event

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SportCategory identifies one followed sport or discipline. Stored values
// must stay stable: they are persisted and used as notification topics.
type SportCategory string

const (
	SportF1       SportCategory = "f1"
	SportAjax     SportCategory = "ajax"
	SportAZ       SportCategory = "az"
	SportMvdPRoad SportCategory = "mvdp_road"
	SportMvdPCX   SportCategory = "mvdp_cx"
	SportMvdPMTB  SportCategory = "mvdp_mtb"
	SportPPRoad   SportCategory = "pp_road"
	SportPPCX     SportCategory = "pp_cx"
)

// Labels maps each category to its display name.
var Labels = map[SportCategory]string{
	SportF1:       "Formula 1",
	SportAjax:     "Ajax",
	SportAZ:       "AZ",
	SportMvdPRoad: "MvdP – Road",
	SportMvdPCX:   "MvdP – CX",
	SportMvdPMTB:  "MvdP – MTB",
	SportPPRoad:   "PP – Road",
	SportPPCX:     "PP – CX",
}

// Event represents a normalized schedule entry eligible for persistence.
// Events are immutable after creation: a refresh produces a fresh value that
// replaces the stored one at the same ID via upsert.
type Event struct {
	ID          string        `json:"id"`
	Sport       SportCategory `json:"sport"`
	Title       string        `json:"title"`
	Competition string        `json:"competition"`
	StartTime   time.Time     `json:"start_time"`
	EndTime     *time.Time    `json:"end_time,omitempty"`
	Location    string        `json:"location,omitempty"`
	SourceURL   string        `json:"source_url,omitempty"`
	FetchedAt   time.Time     `json:"fetched_at"`
}

// NewID derives the deterministic identifier for a harvested race.
// It computes a UUIDv5 over the DNS namespace of the subject ID prefix, the
// raw date text, and the cleaned race name, so the same logical race yields
// the same ID on every harvest run regardless of process restarts.
func NewID(idPrefix, dateText, raceName string) string {
	key := fmt.Sprintf("%s_%s_%s", idPrefix, dateText, raceName)
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(key)).String()
}
