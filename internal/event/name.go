package event

import (
	"strings"
	"unicode"
)

// MinCompetitionLength is the minimum length of a plausible race name.
const MinCompetitionLength = 6

// ValidCompetitionName reports whether a cleaned race name is plausible
// prose. It rejects short fragments, pure numbers (rankings and points
// columns), classification codes like "(1.UWT)", and "- " prefixes left
// behind by incomplete badge stripping.
//
// The predicate runs twice: once at extraction time to choose which table
// cell holds the race name, and again before persistence so a future
// extraction bug cannot push garbage into the store.
func ValidCompetitionName(name string) bool {
	if len(name) < MinCompetitionLength {
		return false
	}
	if strings.HasPrefix(name, "(") || strings.HasPrefix(name, "- ") {
		return false
	}
	for _, r := range name {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
