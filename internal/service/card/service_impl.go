package card

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mnemolab/mnemo-api/internal/domain"
	"github.com/mnemolab/mnemo-api/internal/platform/logger"
	"github.com/mnemolab/mnemo-api/internal/store"
)

// Verify interface compliance at compile time
var _ CardService = (*cardServiceImpl)(nil)

// cardServiceImpl implements the CardService interface.
type cardServiceImpl struct {
	cardStore store.CardStore
	logger    *slog.Logger
}

// NewCardService creates a new CardService implementation.
func NewCardService(cardStore store.CardStore, logger *slog.Logger) CardService {
	if cardStore == nil {
		panic("cardStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &cardServiceImpl{
		cardStore: cardStore,
		logger:    logger.With(slog.String("component", "card_service")),
	}
}

// CreateCard implements CardService.CreateCard.
func (s *cardServiceImpl) CreateCard(
	ctx context.Context,
	userID uuid.UUID,
	content []byte,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := domain.NewCard(userID, content)
	if err != nil {
		if errors.Is(err, domain.ErrCardContentEmpty) || errors.Is(err, domain.ErrCardContentInvalid) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
		}
		return nil, fmt.Errorf("failed to build card: %w", err)
	}

	if err := s.cardStore.Create(ctx, card); err != nil {
		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to create card: %w", err)
	}

	log.Debug("card created",
		slog.String("user_id", userID.String()),
		slog.String("card_id", card.ID.String()))
	return card, nil
}

// GetCard implements CardService.GetCard.
func (s *cardServiceImpl) GetCard(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (*domain.Card, error) {
	return s.getOwned(ctx, userID, cardID)
}

// ListCards implements CardService.ListCards.
func (s *cardServiceImpl) ListCards(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error) {
	cards, err := s.cardStore.ListByUser(ctx, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	return cards, nil
}

// UpdateCard implements CardService.UpdateCard.
func (s *cardServiceImpl) UpdateCard(
	ctx context.Context,
	userID, cardID uuid.UUID,
	content []byte,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.getOwned(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}

	if err := card.UpdateContent(content); err != nil {
		if errors.Is(err, domain.ErrCardContentEmpty) || errors.Is(err, domain.ErrCardContentInvalid) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
		}
		return nil, fmt.Errorf("failed to update card content: %w", err)
	}

	if err := s.cardStore.UpdateContent(ctx, cardID, content); err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			return nil, ErrCardNotFound
		}
		log.Error("failed to persist card content",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, fmt.Errorf("failed to update card: %w", err)
	}

	log.Debug("card updated", slog.String("card_id", cardID.String()))
	return card, nil
}

// DeleteCard implements CardService.DeleteCard.
func (s *cardServiceImpl) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.getOwned(ctx, userID, cardID); err != nil {
		return err
	}

	if err := s.cardStore.Delete(ctx, cardID); err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			return ErrCardNotFound
		}
		log.Error("failed to delete card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return fmt.Errorf("failed to delete card: %w", err)
	}

	log.Debug("card deleted",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()))
	return nil
}

// getOwned loads a card and verifies ownership.
func (s *cardServiceImpl) getOwned(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (*domain.Card, error) {
	card, err := s.cardStore.GetByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	if card.UserID != userID {
		logger.FromContextOrDefault(ctx, s.logger).Warn("user does not own card",
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()),
			slog.String("owner_id", card.UserID.String()))
		return nil, ErrCardNotOwned
	}
	return card, nil
}
