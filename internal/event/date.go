package event

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// StartHourUTC is the nominal start hour assigned to harvested races.
// The source publishes dates without a start time; a fixed mid-morning hour
// keeps local-timezone displays close to typical race starts.
const StartHourUTC = 10

// partialDatePattern matches "DD.MM" and "DD.MM.YYYY".
var partialDatePattern = regexp.MustCompile(`^(\d{1,2})\.(\d{2})(?:\.(\d{4}))?$`)

// ParseRaceDate resolves a raw date fragment into an absolute UTC instant.
//
// Supported inputs are a single date "DD.MM" or "DD.MM.YYYY", or a range
// "DD.MM-DD.MM" for multi-day races, in which case only the start date is
// used. Yearless dates assume the current year; if that puts the date more
// than 7 days in the past relative to now, the date is rolled forward to the
// following year, since the source publishes next season's calendar before
// year-end without a year qualifier. A date exactly 7 days in the past stays
// in the current year.
func ParseRaceDate(dateText string, now time.Time) (time.Time, error) {
	// Ranges: keep the start, discard the end.
	start := strings.TrimSpace(strings.SplitN(dateText, "-", 2)[0])

	m := partialDatePattern.FindStringSubmatch(start)
	if m == nil {
		return time.Time{}, fmt.Errorf("unparseable date text %q", dateText)
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("date %q out of range", dateText)
	}

	year := now.Year()
	hasYear := m[3] != ""
	if hasYear {
		year, _ = strconv.Atoi(m[3])
	}

	t := time.Date(year, time.Month(month), day, StartHourUTC, 0, 0, 0, time.UTC)
	if !hasYear && t.Before(now.AddDate(0, 0, -7)) {
		t = t.AddDate(1, 0, 0)
	}

	return t, nil
}
