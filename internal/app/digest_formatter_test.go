package app

import (
	"strings"
	"testing"
	"time"

	"deadline_notification_bot/internal/domain/deadline"
	"deadline_notification_bot/internal/domain/subject"

	"github.com/stretchr/testify/assert"
)

func TestDigestFormatter_Format(t *testing.T) {
	now := time.Date(2022, 1, 15, 8, 30, 0, 0, time.UTC)
	agg := Aggregate([]*subject.Subject{
		newSubject(1, "Ayu", "2020-03-15", ""),
		newSubject(2, "Dewi", "", "2017-11-20"),
	}, now, time.UTC)

	got := NewDigestFormatter(time.UTC).Format(agg, now)

	want := strings.Join([]string{
		"<b>🔔 Deadline Digest</b>",
		"15/01/2022 08:30:00",
		"",
		"<b>Due soon (≤ 90 days)</b>",
		"• <u>Salary increment</u>",
		"• <b>Ayu</b> (NIP-Ayu) — Salary increment: <b>15 Mar 2022</b> (59 days remaining)",
		"• <u>Rank increment</u>",
		"(none)",
		"",
		"<b>Overdue</b>",
		"• <u>Salary increment</u>",
		"(none)",
		"• <u>Rank increment</u>",
		"• <b>Dewi</b> (NIP-Dewi) — Rank increment: <b>20 Nov 2021</b> (56 days overdue)",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestDigestFormatter_EmptyBucketsRenderPlaceholders(t *testing.T) {
	now := time.Date(2022, 1, 15, 0, 0, 0, 0, time.UTC)
	got := NewDigestFormatter(time.UTC).Format(Aggregate(nil, now, time.UTC), now)

	assert.Equal(t, 4, strings.Count(got, "(none)"))
	assert.Contains(t, got, "<b>Due soon (≤ 90 days)</b>\n• <u>Salary increment</u>\n(none)\n• <u>Rank increment</u>\n(none)")
	assert.Contains(t, got, "<b>Overdue</b>\n• <u>Salary increment</u>\n(none)\n• <u>Rank increment</u>\n(none)")
}

func TestDigestFormatter_EscapesSubjectText(t *testing.T) {
	now := time.Date(2022, 1, 15, 0, 0, 0, 0, time.UTC)
	s := newSubject(1, "A <script> & B", "2020-03-15", "")
	s.RegistrationNumber = "<1>"

	got := NewDigestFormatter(time.UTC).Format(Aggregate([]*subject.Subject{s}, now, time.UTC), now)

	assert.Contains(t, got, "<b>A &lt;script&gt; &amp; B</b> (&lt;1&gt;)")
	assert.NotContains(t, got, "<script>")
}

func TestDigestFormatter_UsesConfiguredZone(t *testing.T) {
	wib := time.FixedZone("WIB", 7*3600)
	generated := time.Date(2022, 1, 15, 20, 0, 0, 0, time.UTC)

	got := NewDigestFormatter(wib).Format(Aggregate(nil, generated, wib), generated)

	assert.Contains(t, got, "16/01/2022 03:00:00")
}

func TestRelativeDays(t *testing.T) {
	assert.Equal(t, "0 days remaining", relativeDays(0))
	assert.Equal(t, "12 days remaining", relativeDays(12))
	assert.Equal(t, "3 days overdue", relativeDays(-3))
}

func TestOfKind(t *testing.T) {
	items := []deadline.Item{
		{SubjectID: 1, Kind: deadline.KindRankIncrement},
		{SubjectID: 2, Kind: deadline.KindSalaryIncrement},
		{SubjectID: 3, Kind: deadline.KindRankIncrement},
	}
	got := ofKind(items, deadline.KindRankIncrement)
	assert.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].SubjectID)
	assert.Equal(t, int64(3), got[1].SubjectID)
}
