// internal/domain/deadline/urgency.go
package deadline

import (
	"math"
	"time"
)

// SoonWindowDays is the inclusive upper bound of the "soon" bucket.
const SoonWindowDays = 90

const day = 24 * time.Hour

// Status is the urgency bucket of a deadline relative to now.
type Status int

const (
	StatusUnknown Status = iota // anchor missing or unparseable
	StatusOverdue
	StatusSoon
	StatusOK
)

func (s Status) String() string {
	switch s {
	case StatusOverdue:
		return "overdue"
	case StatusSoon:
		return "soon"
	case StatusOK:
		return "ok"
	default:
		return "unknown"
	}
}

// DaysUntil returns ceil((target - now) / 24h). Positive values lie in the
// future; a target later today yields 0, not -1.
func DaysUntil(target, now time.Time) int {
	d := float64(target.Sub(now)) / float64(day)
	return int(math.Ceil(d))
}

// ClassifyDays maps a signed day delta to its bucket.
func ClassifyDays(days int) Status {
	switch {
	case days < 0:
		return StatusOverdue
	case days <= SoonWindowDays:
		return StatusSoon
	default:
		return StatusOK
	}
}

// Classify returns the day delta and bucket of target at now.
func Classify(target, now time.Time) (int, Status) {
	days := DaysUntil(target, now)
	return days, ClassifyDays(days)
}
