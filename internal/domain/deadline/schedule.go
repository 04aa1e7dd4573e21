// internal/domain/deadline/schedule.go
package deadline

import (
	"strings"
	"time"
)

// anchorLayouts are tried in order when parsing a stored anchor date.
var anchorLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseAnchor parses a stored anchor date and returns it as midnight in loc.
// Only the calendar date is kept. Empty or unparseable input reports false.
func ParseAnchor(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range anchorLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), true
	}
	return time.Time{}, false
}

// NextOccurrence advances anchor by the kind's cycle, keeping month and day.
// Feb 29 advanced onto a non-leap year rolls over to Mar 1.
func NextOccurrence(anchor time.Time, kind Kind) time.Time {
	return time.Date(anchor.Year()+kind.CycleYears(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, anchor.Location())
}

// ScheduleFromRaw combines ParseAnchor and NextOccurrence. It reports false
// when the anchor is missing or malformed, or the kind is unknown.
func ScheduleFromRaw(raw string, kind Kind, loc *time.Location) (time.Time, bool) {
	if !kind.Valid() {
		return time.Time{}, false
	}
	anchor, ok := ParseAnchor(raw, loc)
	if !ok {
		return time.Time{}, false
	}
	return NextOccurrence(anchor, kind), true
}
