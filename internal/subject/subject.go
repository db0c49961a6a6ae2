// Package subject holds the static configuration of tracked subjects: the
// athletes whose race calendars are harvested from the statistics site.
// Adding a subject means adding one record here; nothing is discovered at
// runtime.
package subject

import "github.com/pbroekroelofs/sports-heroes-schedule/internal/event"

// Subject configures one tracked athlete. Immutable for the process
// lifetime; drives both page URL construction and classification.
type Subject struct {
	// Slug is the rider identifier in the statistics site's URLs.
	Slug string
	// DisplayName is appended to event titles.
	DisplayName string
	// IDPrefix namespaces this subject's deterministic event IDs.
	IDPrefix string
	// Categories maps disciplines onto this subject's sport categories.
	Categories event.CategoryMap
}

// Defaults returns the tracked subjects harvested each cycle.
func Defaults() []Subject {
	return []Subject{
		{
			Slug:        "16672",
			DisplayName: "Mathieu van der Poel",
			IDPrefix:    "mvdp",
			Categories: event.CategoryMap{
				Road:     event.SportMvdPRoad,
				Cross:    event.SportMvdPCX,
				Mountain: event.SportMvdPMTB,
			},
		},
		{
			Slug:        "58838",
			DisplayName: "Puck Pieterse",
			IDPrefix:    "pp",
			// No separate MTB category yet, so mountain races land in CX.
			Categories: event.CategoryMap{
				Road:     event.SportPPRoad,
				Cross:    event.SportPPCX,
				Mountain: event.SportPPCX,
			},
		},
	}
}

// SportCategories returns every category a subject's races can classify
// into, without duplicates.
func (s Subject) SportCategories() []event.SportCategory {
	cats := []event.SportCategory{s.Categories.Road, s.Categories.Cross}
	if s.Categories.Mountain != s.Categories.Cross && s.Categories.Mountain != s.Categories.Road {
		cats = append(cats, s.Categories.Mountain)
	}
	return cats
}

// AllCategories is the consolidated list of every known sport category,
// including those filled by the structured-API fetchers. It is declared
// exactly once; every consumer (persistence sweeps, the purge routine,
// default preference responses) receives it from here.
func AllCategories() []event.SportCategory {
	return []event.SportCategory{
		event.SportF1,
		event.SportAjax,
		event.SportAZ,
		event.SportMvdPRoad,
		event.SportMvdPCX,
		event.SportMvdPMTB,
		event.SportPPRoad,
		event.SportPPCX,
	}
}

// ScrapedCategories is the subset of categories produced by the page
// harvester. These are the low-confidence categories the purge routine
// sweeps.
func ScrapedCategories() []event.SportCategory {
	var cats []event.SportCategory
	seen := make(map[event.SportCategory]bool)
	for _, s := range Defaults() {
		for _, c := range s.SportCategories() {
			if !seen[c] {
				seen[c] = true
				cats = append(cats, c)
			}
		}
	}
	return cats
}
