package database

import (
	"context"
	"path/filepath"
	"testing"

	"deadline_notification_bot/internal/domain/deadline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrations_SQLiteRoundTrip(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "roster.db")

	require.NoError(t, RunMigrations("sqlite3", dsn))
	require.NoError(t, RunMigrations("sqlite3", dsn), "second run must be a no-op")

	db, err := Open("sqlite3", dsn)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`INSERT INTO subjects (name, registration_number, phone, telegram_chat_id, salary_anchor, rank_anchor)
		VALUES ($1, $2, $3, $4, $5, $6), ($7, $8, $9, $10, $11, $12)`,
		"Ayu", "198501012010012001", "0812", "555", "2020-03-15", "not a date",
		"Budi", "197901012005011002", nil, nil, nil, "2018-07-01")
	require.NoError(t, err)

	repo := NewSQLSubjectRepository(db)
	ctx := context.Background()

	subjects, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, subjects, 2)
	assert.Equal(t, "Ayu", subjects[0].Name)
	assert.Equal(t, "2020-03-15", subjects[0].Anchor(deadline.KindSalaryIncrement))
	assert.Equal(t, "not a date", subjects[0].Anchor(deadline.KindRankIncrement))
	assert.False(t, subjects[1].Phone.Valid)
	assert.Equal(t, "", subjects[1].Anchor(deadline.KindSalaryIncrement))
	assert.False(t, subjects[0].CreatedAt.IsZero())

	found, err := repo.GetByChatID(ctx, "555")
	require.NoError(t, err)
	assert.Equal(t, subjects[0].ID, found.ID)

	_, err = repo.GetByChatID(ctx, "nobody")
	assert.ErrorIs(t, err, ErrSubjectNotFound)
}

func TestRunMigrations_UnknownDriver(t *testing.T) {
	err := RunMigrations("mysql", "mysql://localhost/db")
	assert.ErrorContains(t, err, "failed to load migrations for mysql")
}
