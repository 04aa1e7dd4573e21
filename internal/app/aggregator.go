package app

import (
	"sort"
	"time"

	"deadline_notification_bot/internal/domain/deadline"
	"deadline_notification_bot/internal/domain/subject"
)

// Aggregation is the classified view of the roster at one instant.
type Aggregation struct {
	Soon     []deadline.Item // ascending by target date
	Overdue  []deadline.Item // ascending by target date
	OK       int             // items beyond the soon window, counted only
	Skipped  int             // subject/kind pairs without a usable anchor
	Subjects int
	Now      time.Time
}

// Aggregate classifies every (subject, kind) pair against now. Subjects with
// missing or malformed anchors yield fewer items; nothing here fails.
// Same snapshot and same now give the same result.
func Aggregate(subjects []*subject.Subject, now time.Time, loc *time.Location) Aggregation {
	agg := Aggregation{
		Soon:    make([]deadline.Item, 0),
		Overdue: make([]deadline.Item, 0),
		Now:     now,
	}

	for _, s := range subjects {
		if s == nil {
			continue
		}
		agg.Subjects++
		for _, kind := range deadline.Kinds {
			target, ok := deadline.ScheduleFromRaw(s.Anchor(kind), kind, loc)
			if !ok {
				agg.Skipped++
				continue
			}
			days, status := deadline.Classify(target, now)
			item := deadline.Item{
				SubjectID:          s.ID,
				SubjectName:        s.Name,
				RegistrationNumber: s.RegistrationNumber,
				Kind:               kind,
				Target:             target,
				DaysLeft:           days,
				Status:             status,
			}
			switch status {
			case deadline.StatusSoon:
				agg.Soon = append(agg.Soon, item)
			case deadline.StatusOverdue:
				agg.Overdue = append(agg.Overdue, item)
			case deadline.StatusOK:
				agg.OK++
			}
		}
	}

	sortByTarget(agg.Soon)
	sortByTarget(agg.Overdue)
	return agg
}

// sortByTarget orders items earliest first; ties keep input order.
func sortByTarget(items []deadline.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Target.Before(items[j].Target)
	})
}

// ofKind filters items to one kind, preserving order.
func ofKind(items []deadline.Item, kind deadline.Kind) []deadline.Item {
	out := make([]deadline.Item, 0, len(items))
	for _, it := range items {
		if it.Kind == kind {
			out = append(out, it)
		}
	}
	return out
}
