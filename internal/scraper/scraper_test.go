package scraper

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pbroekroelofs/sports-heroes-schedule/internal/event"
	"github.com/pbroekroelofs/sports-heroes-schedule/internal/subject"
)

// testNow anchors the date-inference rules for all fixture-based tests.
var testNow = time.Date(2026, time.February, 1, 12, 0, 0, 0, time.UTC)

func testSubject() subject.Subject {
	return subject.Subject{
		Slug:        "16672",
		DisplayName: "Mathieu van der Poel",
		IDPrefix:    "mvdp",
		Categories: event.CategoryMap{
			Road:     event.SportMvdPRoad,
			Cross:    event.SportMvdPCX,
			Mountain: event.SportMvdPMTB,
		},
	}
}

func testScraper() *Scraper {
	return New(WithClock(func() time.Time { return testNow }))
}

// upcomingMarkup exercises the primary strategy: a semantically-marked
// upcoming-races list, plus a table that must be ignored while the primary
// strategy succeeds.
const upcomingMarkup = `<html><body>
<h1>Rider calendar</h1>
<ul class="upcoming">
  <li><span class="date">05.03</span> <a href="race.php?r=9001">Strade Bianche</a></li>
  <li>10.03-16.03 <a href="race.php?r=9002">Tirreno-Adriatico</a></li>
  <li><span class="date">05.03</span> <a href="race.php?r=9001">Strade Bianche</a></li>
  <li>01.07 <a href="race.php?r=9003"><span class="stage-badge">S1 (ITT)</span>Stage 1 (ITT) - Setting Out</a></li>
  <li>30.11 <a href="race.php?r=9004">Superprestige Diegem</a></li>
  <li>20.05 <a href="race.php?r=9005">UCI MTB World Cup Nove Mesto</a></li>
  <li>15.02 <a href="race.php?r=9006">12345</a></li>
  <li>xx.yy <a href="race.php?r=9007">Garbage Date Race</a></li>
  <li>15.01.2026 <a href="race.php?r=9008">Clasica Pasada</a></li>
</ul>
<table>
  <tr><td>09.04</td><td>1</td><td><a href="race.php?r=9100">Paris-Roubaix</a></td></tr>
  <tr><td>16.04</td><td>2</td><td><a href="race.php?r=9101">Amstel Gold Race</a></td></tr>
  <tr><td>23.04</td><td>3</td><td><a href="race.php?r=9102">Liège-Bastogne-Liège</a></td></tr>
</table>
</body></html>`

// fallbackMarkup has no upcoming list; only the generic tabular scan can
// extract anything.
const fallbackMarkup = `<html><body>
<table><tr><td>two</td><td>cells</td></tr></table>
<table class="results">
  <tr><th>Date</th><th>Pos</th><th>Race</th><th>Cat</th></tr>
  <tr><td>22.02-25.02</td><td>12</td><td><a href="race.php?r=9004">UAE Tour</a></td><td>2.UWT</td></tr>
  <tr><td>01.03</td><td><a href="rank.php?id=1">5</a></td><td><a href="race.php?r=9005">Omloop Het Nieuwsblad</a></td><td>1.UWT</td></tr>
  <tr><td>08.03</td><td>(1.UWT)</td><td><a href="race.php?r=9006">(1.UWT)</a></td><td></td></tr>
  <tr><td></td><td>no</td><td>date</td></tr>
</table>
</body></html>`

func TestParseEventsPrimaryStrategy(t *testing.T) {
	events, err := testScraper().parseEvents(upcomingMarkup, testSubject(), "https://firstcycling.com/rider.php?r=16672")
	if err != nil {
		t.Fatalf("parseEvents failed: %v", err)
	}

	byCompetition := make(map[string]*event.Event)
	for _, evt := range events {
		byCompetition[evt.Competition] = evt
	}

	want := map[string]struct {
		sport event.SportCategory
		start time.Time
	}{
		"Strade Bianche":               {event.SportMvdPRoad, time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC)},
		"Tirreno-Adriatico":            {event.SportMvdPRoad, time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC)},
		"Stage 1 (ITT) - Setting Out":  {event.SportMvdPRoad, time.Date(2026, time.July, 1, 10, 0, 0, 0, time.UTC)},
		"Superprestige Diegem":         {event.SportMvdPCX, time.Date(2026, time.November, 30, 10, 0, 0, 0, time.UTC)},
		"UCI MTB World Cup Nove Mesto": {event.SportMvdPMTB, time.Date(2026, time.May, 20, 10, 0, 0, 0, time.UTC)},
	}

	if len(events) != len(want) {
		t.Fatalf("expected %d events, got %d: %v", len(want), len(events), competitions(events))
	}

	for comp, exp := range want {
		evt, ok := byCompetition[comp]
		if !ok {
			t.Errorf("expected event %q to be present", comp)
			continue
		}
		if evt.Sport != exp.sport {
			t.Errorf("%s: sport = %s, expected %s", comp, evt.Sport, exp.sport)
		}
		if !evt.StartTime.Equal(exp.start) {
			t.Errorf("%s: start = %v, expected %v", comp, evt.StartTime, exp.start)
		}
		if evt.ID == "" {
			t.Errorf("%s: event ID should not be empty", comp)
		}
		if !strings.HasSuffix(evt.Title, "– Mathieu van der Poel") {
			t.Errorf("%s: title %q missing subject suffix", comp, evt.Title)
		}
	}

	// The table on the same page must not leak in while the primary
	// strategy has candidates.
	if _, ok := byCompetition["Paris-Roubaix"]; ok {
		t.Error("fallback table row extracted despite primary candidates")
	}

	// The duplicated list entry must be counted once.
	if got := len(byCompetition); got != len(events) {
		t.Errorf("duplicate competition in output: %v", competitions(events))
	}
}

func TestParseEventsFallbackStrategy(t *testing.T) {
	events, err := testScraper().parseEvents(fallbackMarkup, testSubject(), "https://firstcycling.com/rider.php?r=16672")
	if err != nil {
		t.Fatalf("parseEvents failed: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 events from fallback, got %d: %v", len(events), competitions(events))
	}

	byCompetition := make(map[string]*event.Event)
	for _, evt := range events {
		byCompetition[evt.Competition] = evt
	}

	uae, ok := byCompetition["UAE Tour"]
	if !ok {
		t.Fatal("expected UAE Tour to be extracted")
	}
	wantStart := time.Date(2026, time.February, 22, 10, 0, 0, 0, time.UTC)
	if !uae.StartTime.Equal(wantStart) {
		t.Errorf("UAE Tour start = %v, expected range start %v", uae.StartTime, wantStart)
	}

	if _, ok := byCompetition["Omloop Het Nieuwsblad"]; !ok {
		t.Error("expected name scan to skip the ranking link and find the race link")
	}

	if _, ok := byCompetition["(1.UWT)"]; ok {
		t.Error("classification code must never survive into events")
	}
}

// The gated fallback must produce exactly what the fallback alone would.
func TestFallbackMatchesTableScanAlone(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fallbackMarkup))
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}

	gated := extractCandidates(doc)
	alone := extractTables(doc, make(map[string]bool))

	if len(gated) == 0 {
		t.Fatal("expected fallback to activate on a page without the upcoming list")
	}
	if len(gated) != len(alone) {
		t.Fatalf("gated extraction produced %d candidates, table scan alone %d", len(gated), len(alone))
	}
	for i := range gated {
		if gated[i] != alone[i] {
			t.Errorf("candidate %d differs: %+v vs %+v", i, gated[i], alone[i])
		}
	}
}

func TestParseEventsIdempotent(t *testing.T) {
	s := testScraper()
	sub := testSubject()

	first, err := s.parseEvents(upcomingMarkup, sub, "https://firstcycling.com/rider.php?r=16672")
	if err != nil {
		t.Fatalf("first parse failed: %v", err)
	}
	second, err := s.parseEvents(upcomingMarkup, sub, "https://firstcycling.com/rider.php?r=16672")
	if err != nil {
		t.Fatalf("second parse failed: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("event counts differ across runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		a, b := first[i], second[i]
		if a.ID != b.ID || a.Sport != b.Sport || a.Title != b.Title ||
			a.Competition != b.Competition || !a.StartTime.Equal(b.StartTime) ||
			a.SourceURL != b.SourceURL {
			t.Errorf("event %d differs across runs: %+v vs %+v", i, a, b)
		}
	}
}

func TestSourceURLResolution(t *testing.T) {
	s := testScraper()
	page := "https://firstcycling.com/rider.php?r=16672"

	tests := []struct {
		name string
		href string
		want string
	}{
		{"relative link", "race.php?r=9001", "https://firstcycling.com/race.php?r=9001"},
		{"rooted link", "/race.php?r=9001", "https://firstcycling.com/race.php?r=9001"},
		{"absolute link", "https://example.org/race", "https://example.org/race"},
		{"missing link falls back to the page", "", page},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.sourceURL(tt.href, page); got != tt.want {
				t.Errorf("sourceURL(%q) = %q, expected %q", tt.href, got, tt.want)
			}
		})
	}
}

func competitions(events []*event.Event) []string {
	out := make([]string, len(events))
	for i, evt := range events {
		out[i] = evt.Competition
	}
	return out
}
