package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mnemolab/mnemo-api/internal/api/shared"
	"github.com/mnemolab/mnemo-api/internal/platform/logger"
	"github.com/mnemolab/mnemo-api/internal/redact"
	"github.com/mnemolab/mnemo-api/internal/service/card"
)

// CardHandler handles card management HTTP requests.
type CardHandler struct {
	cardService card.CardService
	logger      *slog.Logger
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cardService card.CardService, logger *slog.Logger) *CardHandler {
	if cardService == nil {
		panic("cardService cannot be nil for CardHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CardHandler{
		cardService: cardService,
		logger:      logger.With(slog.String("component", "card_handler")),
	}
}

// CreateCard handles POST /cards requests.
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := userIDFromRequest(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	created, err := h.cardService.CreateCard(r.Context(), userID, req.Content)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("card created",
		slog.String("user_id", userID.String()),
		slog.String("card_id", created.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, cardToResponse(created))
}

// ListCards handles GET /cards requests.
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := userIDFromRequest(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	cards, err := h.cardService.ListCards(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	response := make([]CardResponse, 0, len(cards))
	for _, c := range cards {
		response = append(response, cardToResponse(c))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// GetCard handles GET /cards/{id} requests.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	h.withOwnedCard(w, r, func(w http.ResponseWriter, r *http.Request, userID, cardID uuid.UUID) {
		found, err := h.cardService.GetCard(r.Context(), userID, cardID)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
			return
		}
		shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(found))
	})
}

// UpdateCard handles PUT /cards/{id} requests.
func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	h.withOwnedCard(w, r, func(w http.ResponseWriter, r *http.Request, userID, cardID uuid.UUID) {
		log := logger.FromContextOrDefault(r.Context(), h.logger)

		var req UpdateCardRequest
		if err := shared.DecodeJSON(r, &req); err != nil {
			log.Warn("invalid request format",
				slog.String("error", redact.Error(err)),
				slog.String("card_id", cardID.String()))
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
			return
		}
		if err := shared.ValidateRequest(req); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
			return
		}

		updated, err := h.cardService.UpdateCard(r.Context(), userID, cardID, req.Content)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
			return
		}

		shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(updated))
	})
}

// DeleteCard handles DELETE /cards/{id} requests.
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	h.withOwnedCard(w, r, func(w http.ResponseWriter, r *http.Request, userID, cardID uuid.UUID) {
		if err := h.cardService.DeleteCard(r.Context(), userID, cardID); err != nil {
			shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

// withOwnedCard parses the card ID from the URL and the user ID from the
// request context before invoking fn.
func (h *CardHandler) withOwnedCard(
	w http.ResponseWriter,
	r *http.Request,
	fn func(w http.ResponseWriter, r *http.Request, userID, cardID uuid.UUID),
) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	pathCardID := chi.URLParam(r, "id")
	cardID, err := uuid.Parse(pathCardID)
	if err != nil {
		log.Warn("invalid card ID format", slog.String("card_id", pathCardID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID format")
		return
	}

	userID, ok := userIDFromRequest(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	fn(w, r, userID, cardID)
}
