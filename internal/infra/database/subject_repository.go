package database

import (
	"context"
	"database/sql"
	"fmt" // For error wrapping

	"deadline_notification_bot/internal/domain/deadline"
	"deadline_notification_bot/internal/domain/subject"
)

// Custom errors
var ErrSubjectNotFound = fmt.Errorf("subject not found")

const subjectColumns = `id, name, registration_number, phone, telegram_chat_id, salary_anchor, rank_anchor, created_at`

// SQLSubjectRepository reads subjects from PostgreSQL or SQLite. Both accept
// the $N placeholders used below.
type SQLSubjectRepository struct {
	db *sql.DB
}

var _ subject.Repository = (*SQLSubjectRepository)(nil)

func NewSQLSubjectRepository(db *sql.DB) *SQLSubjectRepository {
	return &SQLSubjectRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubject(row rowScanner) (*subject.Subject, error) {
	s := &subject.Subject{}
	var salary, rank sql.NullString
	if err := row.Scan(&s.ID, &s.Name, &s.RegistrationNumber, &s.Phone, &s.ChatID, &salary, &rank, &s.CreatedAt); err != nil {
		return nil, err
	}
	s.Anchors = make(map[deadline.Kind]string, len(deadline.Kinds))
	if salary.Valid {
		s.Anchors[deadline.KindSalaryIncrement] = salary.String
	}
	if rank.Valid {
		s.Anchors[deadline.KindRankIncrement] = rank.String
	}
	return s, nil
}

func (r *SQLSubjectRepository) ListAll(ctx context.Context) ([]*subject.Subject, error) {
	query := `SELECT ` + subjectColumns + ` FROM subjects ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing subjects: %w", err)
	}
	defer rows.Close()

	subjects := make([]*subject.Subject, 0)
	for rows.Next() {
		s, err := scanSubject(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning subject: %w", err)
		}
		subjects = append(subjects, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subjects: %w", err)
	}
	return subjects, nil
}

func (r *SQLSubjectRepository) GetByChatID(ctx context.Context, chatID string) (*subject.Subject, error) {
	query := `SELECT ` + subjectColumns + ` FROM subjects WHERE telegram_chat_id = $1 ORDER BY id LIMIT 1`

	s, err := scanSubject(r.db.QueryRowContext(ctx, query, chatID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("error getting subject by chat ID: %w", err)
	}
	return s, nil
}
