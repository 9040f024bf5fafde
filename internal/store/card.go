package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/mnemolab/mnemo-api/internal/domain"
)

// CardStore defines the interface for card data persistence.
type CardStore interface {
	// Create saves a new card to the store.
	// All cards must be valid according to domain validation rules.
	Create(ctx context.Context, card *domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	// The returned card will have its Content field properly populated from JSONB.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// ListByUser retrieves all cards owned by the given user, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error)

	// UpdateContent modifies an existing card's content field.
	// Returns ErrCardNotFound if the card does not exist.
	// Returns validation errors if the content is invalid JSON.
	UpdateContent(ctx context.Context, id uuid.UUID, content []byte) error

	// Delete removes a card from the store by its ID.
	// Returns ErrCardNotFound if the card does not exist.
	//
	// This method relies on database-level CASCADE DELETE behavior to
	// automatically remove associated learning records and study sessions,
	// configured through ON DELETE CASCADE foreign key constraints.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new CardStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller
	// (typically a service).
	WithTx(tx *sql.Tx) CardStore
}
