package event

import "strings"

// CategoryMap maps the disciplines a tracked subject competes in onto that
// subject's sport categories. Subjects without a separate program for a
// discipline point it at another category (e.g. Mountain onto Cross).
type CategoryMap struct {
	Road     SportCategory
	Cross    SportCategory
	Mountain SportCategory
}

// discipline is an intermediate classification, resolved to a concrete
// SportCategory through a subject's CategoryMap.
type discipline int

const (
	disciplineRoad discipline = iota
	disciplineCross
	disciplineMountain
)

// keywordRule associates a discipline with the lower-case substrings that
// indicate it. Keywords with surrounding spaces match whole words only; the
// race name is padded before matching.
type keywordRule struct {
	discipline discipline
	keywords   []string
}

// classifierRules is checked in order: cyclocross indicators win over
// mountain indicators, and both win over the road default. New keywords are
// a data change, not a code change.
var classifierRules = []keywordRule{
	{disciplineCross, []string{
		"cyclocross", " cx ", "superprestige", "x2o", "dvv", "bpost", "soudal",
	}},
	{disciplineMountain, []string{
		"mtb", "mountain bike", "xco", "xcm", "cross country",
	}},
}

// Classify maps a cleaned race name to a sport category using keyword
// heuristics. Names matching no rule default to the subject's road category.
func Classify(raceName string, categories CategoryMap) SportCategory {
	// Pad so word-bounded keywords like " cx " also match at the edges.
	padded := " " + strings.ToLower(raceName) + " "

	for _, rule := range classifierRules {
		for _, kw := range rule.keywords {
			if !strings.Contains(padded, kw) {
				continue
			}
			switch rule.discipline {
			case disciplineCross:
				return categories.Cross
			case disciplineMountain:
				return categories.Mountain
			}
		}
	}

	return categories.Road
}
