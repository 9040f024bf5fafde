package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mnemolab/mnemo-api/internal/api/shared"
	"github.com/mnemolab/mnemo-api/internal/domain"
	"github.com/mnemolab/mnemo-api/internal/platform/logger"
	"github.com/mnemolab/mnemo-api/internal/redact"
	"github.com/mnemolab/mnemo-api/internal/service/study"
)

// StudyHandler handles review, queue and statistics HTTP requests.
type StudyHandler struct {
	studyService    study.StudyService
	defaultDueLimit int
	logger          *slog.Logger
}

// NewStudyHandler creates a new StudyHandler. defaultDueLimit is the queue
// page size used when the client does not pass one.
func NewStudyHandler(
	studyService study.StudyService,
	defaultDueLimit int,
	logger *slog.Logger,
) *StudyHandler {
	if studyService == nil {
		panic("studyService cannot be nil for StudyHandler")
	}
	if defaultDueLimit <= 0 {
		panic("defaultDueLimit must be positive for StudyHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &StudyHandler{
		studyService:    studyService,
		defaultDueLimit: defaultDueLimit,
		logger:          logger.With(slog.String("component", "study_handler")),
	}
}

// userIDFromRequest extracts the authenticated user ID placed in the request
// context by the auth middleware.
func userIDFromRequest(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	return userID, ok && userID != uuid.Nil
}

// SubmitReview handles POST /cards/{id}/review requests.
// It records a single review event and returns the updated scheduling state.
func (h *StudyHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
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

	var req SubmitReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	record, err := h.studyService.RecordReview(r.Context(), userID, study.ReviewRequest{
		CardID:     cardID,
		Difficulty: domain.Difficulty(req.Difficulty),
		IsCorrect:  req.IsCorrect,
		TimeSpent:  req.TimeSpent,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("review recorded",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.Int("mastery_level", record.MasteryLevel))
	shared.RespondWithJSON(w, r, http.StatusOK, recordToResponse(record))
}

// GetDueCards handles GET /study/due requests.
// An optional limit query parameter caps the queue size; it defaults to the
// configured page size and is itself capped by it.
func (h *StudyHandler) GetDueCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := userIDFromRequest(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	limit := h.defaultDueLimit
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed <= 0 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit")
			return
		}
		if parsed < limit {
			limit = parsed
		}
	}

	due, err := h.studyService.DueCards(r.Context(), userID, limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	response := make([]DueCardResponse, 0, len(due))
	for _, d := range due {
		response = append(response, dueCardToResponse(d))
	}

	log.Debug("due cards returned",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(response)))
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// GetStats handles GET /study/stats requests.
func (h *StudyHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := userIDFromRequest(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	stats, err := h.studyService.UserStats(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, statsToResponse(stats))
}
