package subject

import (
	"context"
)

// Repository is read-only access to the subject store. Record entry and
// editing live outside this service.
type Repository interface {
	// ListAll returns every subject ordered by ID.
	ListAll(ctx context.Context) ([]*Subject, error)
	GetByChatID(ctx context.Context, chatID string) (*Subject, error)
}
