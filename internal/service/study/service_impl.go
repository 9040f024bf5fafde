package study

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mnemolab/mnemo-api/internal/domain"
	"github.com/mnemolab/mnemo-api/internal/domain/ebbinghaus"
	"github.com/mnemolab/mnemo-api/internal/platform/logger"
	"github.com/mnemolab/mnemo-api/internal/store"
)

// Verify interface compliance at compile time
var _ StudyService = (*studyServiceImpl)(nil)

// studyServiceImpl implements the StudyService interface.
type studyServiceImpl struct {
	db          *sql.DB
	cardStore   store.CardStore
	recordStore store.LearningRecordStore
	sessions    store.SessionStore
	scheduler   ebbinghaus.Service
	logger      *slog.Logger
	// now is the clock source; replaceable in tests.
	now func() time.Time
	// runTx executes a function within a database transaction; replaceable
	// in tests so the stores can be mocked without a live database.
	runTx func(ctx context.Context, db *sql.DB, fn store.TxFn) error
}

// NewStudyService creates a new StudyService implementation.
func NewStudyService(
	db *sql.DB,
	cardStore store.CardStore,
	recordStore store.LearningRecordStore,
	sessions store.SessionStore,
	scheduler ebbinghaus.Service,
	logger *slog.Logger,
) StudyService {
	if db == nil {
		panic("db cannot be nil")
	}
	if cardStore == nil {
		panic("cardStore cannot be nil")
	}
	if recordStore == nil {
		panic("recordStore cannot be nil")
	}
	if sessions == nil {
		panic("sessions cannot be nil")
	}
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &studyServiceImpl{
		db:          db,
		cardStore:   cardStore,
		recordStore: recordStore,
		sessions:    sessions,
		scheduler:   scheduler,
		logger:      logger.With(slog.String("component", "study_service")),
		now:         func() time.Time { return time.Now().UTC() },
		runTx:       store.RunInTransaction,
	}
}

// RecordReview implements StudyService.RecordReview.
func (s *studyServiceImpl) RecordReview(
	ctx context.Context,
	userID uuid.UUID,
	review ReviewRequest,
) (*domain.LearningRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Reject malformed input before any state is read.
	if !review.Difficulty.IsValid() {
		log.Warn("invalid review difficulty",
			slog.String("user_id", userID.String()),
			slog.String("difficulty", string(review.Difficulty)))
		return nil, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidReview, review.Difficulty)
	}
	if review.TimeSpent < 0 {
		return nil, fmt.Errorf("%w: negative time spent", ErrInvalidReview)
	}
	if userID == uuid.Nil || review.CardID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing identity", ErrInvalidReview)
	}

	log.Debug("recording review",
		slog.String("user_id", userID.String()),
		slog.String("card_id", review.CardID.String()),
		slog.String("difficulty", string(review.Difficulty)),
		slog.Bool("is_correct", review.IsCorrect))

	var updated *domain.LearningRecord
	err := s.runTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		cards := s.cardStore.WithTx(tx)
		records := s.recordStore.WithTx(tx)
		sessions := s.sessions.WithTx(tx)

		// The card must exist and belong to the reviewer.
		card, err := cards.GetByID(ctx, review.CardID)
		if err != nil {
			if errors.Is(err, store.ErrCardNotFound) {
				return ErrCardNotFound
			}
			return fmt.Errorf("failed to get card: %w", err)
		}
		if card.UserID != userID {
			log.Warn("user does not own card",
				slog.String("user_id", userID.String()),
				slog.String("card_id", review.CardID.String()),
				slog.String("owner_id", card.UserID.String()))
			return ErrCardNotOwned
		}

		now := s.now()

		// Load the record with a row lock, creating it lazily on first
		// review. Creation and the subsequent update share this transaction.
		created := false
		record, err := records.GetForUpdate(ctx, userID, review.CardID)
		if err != nil {
			if !errors.Is(err, store.ErrLearningRecordNotFound) {
				return fmt.Errorf("failed to get learning record: %w", err)
			}
			record, err = domain.NewLearningRecord(userID, review.CardID, s.scheduler.InitialInterval())
			if err != nil {
				return fmt.Errorf("failed to initialize learning record: %w", err)
			}
			created = true
		}

		// Tally the outcome and recompute mastery as the running accuracy
		// percentage; the interval follows from the recomputed mastery.
		record.ViewCount++
		if review.IsCorrect {
			record.CorrectCount++
		} else {
			record.WrongCount++
		}
		record.MasteryLevel = ebbinghaus.MasteryFromCounts(record.CorrectCount, record.ViewCount)
		record.LastViewedAt = now
		record.NextReviewAt = now.Add(s.scheduler.IntervalForMastery(record.MasteryLevel))
		record.UpdatedAt = now

		if created {
			if err := records.Create(ctx, record); err != nil {
				return fmt.Errorf("failed to create learning record: %w", err)
			}
		} else {
			if err := records.Update(ctx, record); err != nil {
				return fmt.Errorf("failed to update learning record: %w", err)
			}
		}

		// The session log entry rides the same transaction: a record update
		// without its log entry (or vice versa) must never be persisted.
		session, err := domain.NewStudySession(
			userID,
			review.CardID,
			review.Difficulty,
			review.IsCorrect,
			review.TimeSpent,
		)
		if err != nil {
			return fmt.Errorf("failed to build study session: %w", err)
		}
		if err := sessions.Append(ctx, session); err != nil {
			return fmt.Errorf("failed to append study session: %w", err)
		}

		updated = record
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrCardNotFound) ||
			errors.Is(err, ErrCardNotOwned) ||
			errors.Is(err, ErrInvalidReview) {
			return nil, err
		}

		log.Error("failed to record review",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("card_id", review.CardID.String()))
		return nil, NewRecordReviewError("transaction failed", err)
	}

	log.Debug("review recorded",
		slog.String("user_id", userID.String()),
		slog.String("card_id", review.CardID.String()),
		slog.Int("view_count", updated.ViewCount),
		slog.Int("mastery_level", updated.MasteryLevel),
		slog.Time("next_review_at", updated.NextReviewAt))

	return updated, nil
}

// DueCards implements StudyService.DueCards.
func (s *studyServiceImpl) DueCards(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*store.DueCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	due, err := s.recordStore.FindDue(ctx, userID, s.now(), limit)
	if err != nil {
		log.Error("failed to find due cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewDueCardsError("query failed", err)
	}

	log.Debug("due cards selected",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(due)))
	return due, nil
}

// UserStats implements StudyService.UserStats.
func (s *studyServiceImpl) UserStats(ctx context.Context, userID uuid.UUID) (*UserStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := s.now()
	startOfDay := startOfLocalDay(now)

	buckets, err := s.recordStore.BucketCounts(ctx, userID)
	if err != nil {
		return nil, NewUserStatsError("bucket aggregation failed", err)
	}

	dueCount, err := s.recordStore.CountDue(ctx, userID, now)
	if err != nil {
		return nil, NewUserStatsError("due count failed", err)
	}

	todayReviewed, err := s.recordStore.CountReviewedSince(ctx, userID, startOfDay)
	if err != nil {
		return nil, NewUserStatsError("today count failed", err)
	}

	todaySessions, err := s.sessions.CountForUserSince(ctx, userID, startOfDay)
	if err != nil {
		return nil, NewUserStatsError("session count failed", err)
	}

	stats := &UserStats{
		TotalCards:    buckets.Total,
		NewCards:      buckets.New,
		LearningCards: buckets.Learning,
		ReviewCards:   buckets.Review,
		MasteredCards: buckets.Mastered,
		DueCards:      dueCount,
		TodayReviewed: todayReviewed,
		TodaySessions: todaySessions,
	}

	log.Debug("user stats aggregated",
		slog.String("user_id", userID.String()),
		slog.Int("total_cards", stats.TotalCards),
		slog.Int("due_cards", stats.DueCards))
	return stats, nil
}

// startOfLocalDay returns midnight of the given instant in the server's
// local time zone.
func startOfLocalDay(now time.Time) time.Time {
	local := now.Local()
	year, month, day := local.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, local.Location())
}
