// Package card implements card management on top of the card store:
// creation, retrieval, content replacement and deletion, with per-user
// ownership enforced on every operation.
package card

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/mnemolab/mnemo-api/internal/domain"
)

// CardService provides card management operations.
type CardService interface {
	// CreateCard creates a card owned by the given user from raw JSON
	// content. The content must be valid, non-empty JSON.
	CreateCard(ctx context.Context, userID uuid.UUID, content []byte) (*domain.Card, error)

	// GetCard returns the card if it exists and is owned by the user.
	GetCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error)

	// ListCards returns all cards owned by the user.
	ListCards(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error)

	// UpdateCard replaces the card's content. The card must be owned by the
	// user.
	UpdateCard(ctx context.Context, userID, cardID uuid.UUID, content []byte) (*domain.Card, error)

	// DeleteCard removes the card along with its learning record and session
	// log entries. The card must be owned by the user.
	DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error
}

// Common error types for CardService
var (
	// ErrCardNotFound indicates that the card does not exist.
	ErrCardNotFound = errors.New("card not found")

	// ErrCardNotOwned indicates that the user does not own the card.
	ErrCardNotOwned = errors.New("unauthorized access: card not owned by user")

	// ErrInvalidContent indicates the card content is empty or not valid JSON.
	ErrInvalidContent = errors.New("invalid card content")
)
