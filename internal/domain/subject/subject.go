package subject

import (
	"database/sql"
	"time"

	"deadline_notification_bot/internal/domain/deadline"
)

// Subject is one tracked person on the roster.
type Subject struct {
	ID                 int64
	Name               string
	RegistrationNumber string         // NIP
	Phone              sql.NullString // optional contact number
	ChatID             sql.NullString // optional Telegram chat for personal notices
	// Anchors holds the stored anchor date text per deadline kind, unparsed.
	// Malformed values are skipped by the aggregator, not rejected here.
	Anchors   map[deadline.Kind]string
	CreatedAt time.Time
}

// Anchor returns the raw anchor text for kind, or "" when none is stored.
func (s *Subject) Anchor(kind deadline.Kind) string {
	if s == nil || s.Anchors == nil {
		return ""
	}
	return s.Anchors[kind]
}
