package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mnemolab/mnemo-api/internal/domain"
	"github.com/mnemolab/mnemo-api/internal/platform/logger"
	"github.com/mnemolab/mnemo-api/internal/store"
)

// PostgresSessionStore implements the store.SessionStore interface
// using a PostgreSQL database as the storage backend. The underlying table
// is append-only; there are no update or delete paths.
type PostgresSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSessionStore creates a new PostgreSQL implementation of the
// SessionStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresSessionStore(db store.DBTX, logger *slog.Logger) *PostgresSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Ensure PostgresSessionStore implements store.SessionStore interface
var _ store.SessionStore = (*PostgresSessionStore)(nil)

// Append implements store.SessionStore.Append
// Returns store.ErrInvalidEntity if the card no longer exists.
func (s *PostgresSessionStore) Append(ctx context.Context, session *domain.StudySession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("study session validation failed during append",
			slog.String("error", err.Error()),
			slog.String("user_id", session.UserID.String()),
			slog.String("card_id", session.CardID.String()))
		return err
	}

	query := `
		INSERT INTO study_sessions (
			id, user_id, card_id, difficulty, is_correct, time_spent, session_date
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		session.ID,
		session.UserID,
		session.CardID,
		string(session.Difficulty),
		session.IsCorrect,
		session.TimeSpent,
		session.SessionDate,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during session append",
				slog.String("user_id", session.UserID.String()),
				slog.String("card_id", session.CardID.String()))
			return fmt.Errorf("%w: card with ID %s not found",
				store.ErrInvalidEntity, session.CardID)
		}

		log.Error("failed to append study session",
			slog.String("error", err.Error()),
			slog.String("user_id", session.UserID.String()),
			slog.String("card_id", session.CardID.String()))
		return err
	}

	log.Debug("study session appended",
		slog.String("user_id", session.UserID.String()),
		slog.String("card_id", session.CardID.String()),
		slog.String("difficulty", string(session.Difficulty)))
	return nil
}

// CountForUserSince implements store.SessionStore.CountForUserSince
func (s *PostgresSessionStore) CountForUserSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM study_sessions
		WHERE user_id = $1 AND session_date >= $2
	`

	var count int
	if err := s.db.QueryRowContext(ctx, query, userID, since).Scan(&count); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count study sessions",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return 0, err
	}

	return count, nil
}

// WithTx implements store.SessionStore.WithTx
// It returns a new SessionStore instance bound to the provided transaction.
func (s *PostgresSessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return &PostgresSessionStore{
		db:     tx,
		logger: s.logger,
	}
}
