package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	// stageBadgePattern matches a leading stage short-form code: one
	// uppercase letter plus digits, optionally followed by a parenthesized
	// note, e.g. "S1" or "S1 (ITT)".
	stageBadgePattern = regexp.MustCompile(`^[A-Z]\d+(?:\s*\([^)]*\))?\s*`)

	// stageIntroPattern recognizes the words that introduce a stage name.
	// The badge is only stripped when one of these follows, so legitimate
	// race names that happen to start with a letter-digit code survive.
	stageIntroPattern = regexp.MustCompile(`^(?:Stage|Prologue|ITT|TTT)\b`)
)

// linkText extracts the readable text of a race link.
//
// A race name may carry an embedded stage-abbreviation badge immediately
// followed by the full description with no separating whitespace, so naive
// .Text() extraction mashes them together ("S1 (ITT)Stage 1 ..."). The
// text-bearing child nodes are therefore joined with a single space before
// the leading badge is stripped.
func linkText(sel *goquery.Selection) string {
	parts := childTexts(sel)
	return stripStageBadge(strings.TrimSpace(strings.Join(parts, " ")))
}

// childTexts returns the trimmed, non-empty text of each direct child node
// of the selection, in document order.
func childTexts(sel *goquery.Selection) []string {
	var parts []string
	sel.Contents().Each(func(_ int, child *goquery.Selection) {
		if text := strings.TrimSpace(child.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	return parts
}

// stripStageBadge removes a leading stage short-form code when it is
// immediately followed by a stage-introduction word.
func stripStageBadge(name string) string {
	loc := stageBadgePattern.FindStringIndex(name)
	if loc == nil {
		return name
	}
	rest := name[loc[1]:]
	if stageIntroPattern.MatchString(rest) {
		return rest
	}
	return name
}
