package app

import (
	"testing"
	"time"

	"deadline_notification_bot/internal/domain/deadline"
	"deadline_notification_bot/internal/domain/subject"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSubject(id int64, name, salary, rank string) *subject.Subject {
	anchors := map[deadline.Kind]string{}
	if salary != "" {
		anchors[deadline.KindSalaryIncrement] = salary
	}
	if rank != "" {
		anchors[deadline.KindRankIncrement] = rank
	}
	return &subject.Subject{
		ID:                 id,
		Name:               name,
		RegistrationNumber: "NIP-" + name,
		Anchors:            anchors,
	}
}

func TestAggregate_BucketsAndOrdering(t *testing.T) {
	now := time.Date(2022, 1, 15, 0, 0, 0, 0, time.UTC)
	subjects := []*subject.Subject{
		newSubject(1, "Ayu", "2020-03-15", ""),   // salary 2022-03-15: 59 days, soon
		newSubject(2, "Budi", "2020-02-01", ""),  // salary 2022-02-01: 17 days, soon
		newSubject(3, "Citra", "2019-12-01", ""), // salary 2021-12-01: overdue
		newSubject(4, "Dewi", "", "2017-11-20"),  // rank 2021-11-20: overdue, earlier
		newSubject(5, "Eko", "2021-06-01", ""),   // salary 2023-06-01: ok
	}

	agg := Aggregate(subjects, now, time.UTC)

	require.Len(t, agg.Soon, 2)
	assert.Equal(t, "Budi", agg.Soon[0].SubjectName)
	assert.Equal(t, 17, agg.Soon[0].DaysLeft)
	assert.Equal(t, "Ayu", agg.Soon[1].SubjectName)
	assert.Equal(t, 59, agg.Soon[1].DaysLeft)

	require.Len(t, agg.Overdue, 2)
	assert.Equal(t, "Dewi", agg.Overdue[0].SubjectName)
	assert.Equal(t, deadline.KindRankIncrement, agg.Overdue[0].Kind)
	assert.Equal(t, "Citra", agg.Overdue[1].SubjectName)

	assert.Equal(t, 1, agg.OK)
	assert.Equal(t, 5, agg.Subjects)
	// every subject is missing exactly one kind
	assert.Equal(t, 5, agg.Skipped)
	assert.Equal(t, now, agg.Now)

	for _, it := range agg.Soon {
		assert.Equal(t, deadline.StatusSoon, it.Status)
	}
	for _, it := range agg.Overdue {
		assert.Equal(t, deadline.StatusOverdue, it.Status)
	}
}

func TestAggregate_TiesKeepInputOrder(t *testing.T) {
	now := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	subjects := []*subject.Subject{
		newSubject(7, "Zaki", "2020-02-10", ""),
		newSubject(3, "Adi", "2020-02-10", ""),
		newSubject(5, "Maya", "2020-02-10", "2018-02-10"),
	}

	agg := Aggregate(subjects, now, time.UTC)

	require.Len(t, agg.Soon, 4)
	assert.Equal(t, []int64{7, 3, 5, 5}, []int64{agg.Soon[0].SubjectID, agg.Soon[1].SubjectID, agg.Soon[2].SubjectID, agg.Soon[3].SubjectID})
	assert.Equal(t, deadline.KindSalaryIncrement, agg.Soon[2].Kind)
	assert.Equal(t, deadline.KindRankIncrement, agg.Soon[3].Kind)
}

func TestAggregate_SkipsMissingAndMalformedAnchors(t *testing.T) {
	now := time.Date(2022, 1, 15, 0, 0, 0, 0, time.UTC)
	good := newSubject(1, "Ayu", "2020-03-15", "")
	subjects := []*subject.Subject{
		{ID: 2, Name: "NoAnchors"},
		newSubject(3, "Broken", "not a date", "2019-13-45"),
		nil,
		good,
	}

	agg := Aggregate(subjects, now, time.UTC)

	require.Len(t, agg.Soon, 1)
	assert.Equal(t, int64(1), agg.Soon[0].SubjectID)
	assert.Empty(t, agg.Overdue)
	assert.Equal(t, 3, agg.Subjects)
	assert.Equal(t, 5, agg.Skipped)

	alone := Aggregate([]*subject.Subject{good}, now, time.UTC)
	assert.Equal(t, alone.Soon, agg.Soon)
}

func TestAggregate_IsDeterministic(t *testing.T) {
	now := time.Date(2022, 1, 15, 9, 30, 0, 0, time.UTC)
	subjects := []*subject.Subject{
		newSubject(1, "Ayu", "2020-03-15", "2018-03-15"),
		newSubject(2, "Budi", "2019-11-01", "2018-01-20"),
	}

	first := Aggregate(subjects, now, time.UTC)
	second := Aggregate(subjects, now, time.UTC)
	assert.Equal(t, first, second)
}

func TestAggregate_Empty(t *testing.T) {
	agg := Aggregate(nil, time.Now(), time.UTC)
	assert.NotNil(t, agg.Soon)
	assert.NotNil(t, agg.Overdue)
	assert.Zero(t, agg.Subjects)
}
