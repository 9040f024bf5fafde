package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/mnemolab/mnemo-api/internal/domain"
)

// SessionStore defines the interface for the append-only study session log.
// Entries are created once per review event and never mutated or deleted.
type SessionStore interface {
	// Append writes a new study session entry.
	// It handles domain validation internally.
	Append(ctx context.Context, session *domain.StudySession) error

	// CountForUserSince returns the number of session entries recorded for
	// the user at or after the given time.
	CountForUserSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)

	// WithTx returns a new SessionStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller
	// (typically a service).
	WithTx(tx *sql.Tx) SessionStore
}
