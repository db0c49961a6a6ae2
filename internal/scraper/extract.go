package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pbroekroelofs/sports-heroes-schedule/internal/event"
)

// maxNameCellOffset bounds how far past the date cell the fallback scan
// looks for the race-name link.
const maxNameCellOffset = 4

// candidate is an unvalidated race entry extracted from raw markup. Name has
// already been through linkText cleaning because the fallback strategy needs
// the cleaned text to pick the right cell.
type candidate struct {
	DateText string
	Name     string
	Href     string
}

// extractCandidates produces the deduplicated candidate list for one page.
//
// The primary strategy reads the semantically-marked upcoming-races list.
// The fallback scans every generic table on the page and is only attempted
// when the primary strategy yields nothing, trading a little latency for
// resilience against markup drift. Both strategies share one seen-set so a
// race mentioned twice on the same page (stage rows repeating the event
// header) is counted once.
func extractCandidates(doc *goquery.Document) []candidate {
	seen := make(map[string]bool)

	candidates := extractUpcomingList(doc, seen)
	if len(candidates) == 0 {
		candidates = extractTables(doc, seen)
	}
	return candidates
}

// extractUpcomingList reads entries from the upcoming-races list structure.
// Each entry carries the date in its leading text and the race name in its
// first link.
func extractUpcomingList(doc *goquery.Document, seen map[string]bool) []candidate {
	var out []candidate

	doc.Find("ul.upcoming li").Each(func(_ int, li *goquery.Selection) {
		link := li.Find("a").First()
		if link.Length() == 0 {
			return
		}

		name := linkText(link)
		dateText := leadingDateText(li)
		if dateText == "" || name == "" {
			return
		}

		if c, ok := addCandidate(seen, dateText, name, link); ok {
			out = append(out, c)
		}
	})

	return out
}

// extractTables is the fallback strategy: every table row with at least
// 3 cells is a potential race, with the date in cell 0 and the name in the
// first of the next few cells whose cleaned link text looks like a race
// name. Rows that don't parse are skipped.
func extractTables(doc *goquery.Document, seen map[string]bool) []candidate {
	var out []candidate

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}

		dateText := strings.TrimSpace(cells.First().Text())
		if dateText == "" || !startsWithDigit(dateText) {
			return
		}

		for i := 1; i <= maxNameCellOffset && i < cells.Length(); i++ {
			link := cells.Eq(i).Find("a").First()
			if link.Length() == 0 {
				continue
			}
			name := linkText(link)
			if !event.ValidCompetitionName(name) {
				continue
			}
			if c, ok := addCandidate(seen, dateText, name, link); ok {
				out = append(out, c)
			}
			break
		}
	})

	return out
}

// addCandidate records a (dateText, name) pair unless it was already seen in
// this extraction pass.
func addCandidate(seen map[string]bool, dateText, name string, link *goquery.Selection) (candidate, bool) {
	key := dateText + "\x00" + name
	if seen[key] {
		return candidate{}, false
	}
	seen[key] = true

	href, _ := link.Attr("href")
	return candidate{DateText: dateText, Name: name, Href: href}, true
}

// leadingDateText finds the date fragment of a list entry: the first
// text-bearing child that is not the race link and starts with a digit.
func leadingDateText(li *goquery.Selection) string {
	var dateText string
	li.Contents().Each(func(_ int, child *goquery.Selection) {
		if dateText != "" || goquery.NodeName(child) == "a" {
			return
		}
		if text := strings.TrimSpace(child.Text()); startsWithDigit(text) {
			dateText = text
		}
	})
	return dateText
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
