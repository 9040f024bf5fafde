package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mnemolab/mnemo-api/internal/domain"
	"github.com/mnemolab/mnemo-api/internal/platform/logger"
	"github.com/mnemolab/mnemo-api/internal/store"
)

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the
// CardStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// Create implements store.CardStore.Create
// It saves a new card to the database, handling domain validation.
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during create",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	query := `
		INSERT INTO cards (id, user_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		card.ID,
		card.UserID,
		card.Content,
		card.CreatedAt,
		card.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			log.Warn("duplicate card ID during creation",
				slog.String("card_id", card.ID.String()))
			return fmt.Errorf("%w: card with ID %s", store.ErrDuplicate, card.ID)
		}

		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()),
			slog.String("user_id", card.UserID.String()))
		return err
	}

	log.Debug("card created",
		slog.String("card_id", card.ID.String()),
		slog.String("user_id", card.UserID.String()))
	return nil
}

// GetByID implements store.CardStore.GetByID
// Returns store.ErrCardNotFound if the card does not exist.
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, content, created_at, updated_at
		FROM cards
		WHERE id = $1
	`

	card := &domain.Card{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&card.ID,
		&card.UserID,
		&card.Content,
		&card.CreatedAt,
		&card.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardNotFound
		}

		log.Error("failed to get card",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return nil, err
	}

	return card, nil
}

// ListByUser implements store.CardStore.ListByUser
// It retrieves all cards owned by the given user, newest first.
func (s *PostgresCardStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, content, created_at, updated_at
		FROM cards
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Warn("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var cards []*domain.Card
	for rows.Next() {
		card := &domain.Card{}
		if err := rows.Scan(
			&card.ID,
			&card.UserID,
			&card.Content,
			&card.CreatedAt,
			&card.UpdatedAt,
		); err != nil {
			log.Error("failed to scan card row",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
			return nil, err
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return cards, nil
}

// UpdateContent implements store.CardStore.UpdateContent
// Returns store.ErrCardNotFound if the card does not exist.
func (s *PostgresCardStore) UpdateContent(ctx context.Context, id uuid.UUID, content []byte) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(content) == 0 {
		return domain.ErrCardContentEmpty
	}
	var js json.RawMessage
	if err := json.Unmarshal(content, &js); err != nil {
		log.Warn("card content validation failed during update",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return domain.ErrCardContentInvalid
	}

	query := `
		UPDATE cards
		SET content = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := s.db.ExecContext(ctx, query, content, id)
	if err != nil {
		log.Error("failed to update card content",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrCardNotFound
	}

	log.Debug("card content updated", slog.String("card_id", id.String()))
	return nil
}

// Delete implements store.CardStore.Delete
// Learning records and study sessions referencing the card are removed by
// the schema's ON DELETE CASCADE constraints.
func (s *PostgresCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM cards WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete card",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrCardNotFound
	}

	log.Info("card deleted", slog.String("card_id", id.String()))
	return nil
}

// WithTx implements store.CardStore.WithTx
// It returns a new CardStore instance bound to the provided transaction.
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{
		db:     tx,
		logger: s.logger,
	}
}
