package app

import (
	"fmt"
	"html"
	"strings"
	"time"

	"deadline_notification_bot/internal/domain/deadline"
)

const (
	digestTimestampLayout = "02/01/2006 15:04:05"
	digestDateLayout      = "02 Jan 2006"
	digestEmptyGroup      = "(none)"
)

// DigestFormatter renders an Aggregation as Telegram HTML. Only <b> and <u>
// are emitted, both accepted by the Bot API's HTML parse mode.
type DigestFormatter struct {
	location *time.Location
}

func NewDigestFormatter(loc *time.Location) *DigestFormatter {
	if loc == nil {
		loc = time.UTC
	}
	return &DigestFormatter{location: loc}
}

// Format builds the digest body. Every kind gets a subsection in both
// buckets, with "(none)" when it is empty.
func (f *DigestFormatter) Format(agg Aggregation, generatedAt time.Time) string {
	var b strings.Builder

	b.WriteString("<b>🔔 Deadline Digest</b>\n")
	b.WriteString(generatedAt.In(f.location).Format(digestTimestampLayout))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("<b>Due soon (≤ %d days)</b>\n", deadline.SoonWindowDays))
	f.writeBucket(&b, agg.Soon)

	b.WriteString("\n<b>Overdue</b>\n")
	f.writeBucket(&b, agg.Overdue)

	return strings.TrimRight(b.String(), "\n")
}

func (f *DigestFormatter) writeBucket(b *strings.Builder, items []deadline.Item) {
	for _, kind := range deadline.Kinds {
		b.WriteString(fmt.Sprintf("• <u>%s</u>\n", kind.Label()))
		group := ofKind(items, kind)
		if len(group) == 0 {
			b.WriteString(digestEmptyGroup)
			b.WriteString("\n")
			continue
		}
		for _, it := range group {
			b.WriteString(f.formatItem(it))
			b.WriteString("\n")
		}
	}
}

func (f *DigestFormatter) formatItem(it deadline.Item) string {
	return fmt.Sprintf("• <b>%s</b> (%s) — %s: <b>%s</b> (%s)",
		html.EscapeString(it.SubjectName),
		html.EscapeString(it.RegistrationNumber),
		it.Kind.Label(),
		it.Target.In(f.location).Format(digestDateLayout),
		relativeDays(it.DaysLeft),
	)
}

// relativeDays describes a signed day delta without plural forms.
func relativeDays(days int) string {
	if days < 0 {
		return fmt.Sprintf("%d days overdue", -days)
	}
	return fmt.Sprintf("%d days remaining", days)
}
