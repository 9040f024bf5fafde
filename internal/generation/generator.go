// Package generation defines the boundary between the application core and
// external card generation services. Document parsing and the LLM calls that
// produce card content live behind this interface in a separate system; the
// API only stores and schedules whatever cards come back.
package generation

import (
	"context"

	"github.com/google/uuid"

	"github.com/mnemolab/mnemo-api/internal/domain"
)

// Generator defines the interface for generating flashcards from source text.
type Generator interface {
	// GenerateCards creates flashcards from the provided source text on
	// behalf of the given user. It returns the generated Card domain
	// objects or an error if generation fails.
	GenerateCards(ctx context.Context, sourceText string, userID uuid.UUID) ([]*domain.Card, error)
}
