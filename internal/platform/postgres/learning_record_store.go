package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mnemolab/mnemo-api/internal/domain"
	"github.com/mnemolab/mnemo-api/internal/platform/logger"
	"github.com/mnemolab/mnemo-api/internal/store"
)

// learningRecordColumns is the canonical select list for learning_records.
const learningRecordColumns = `
	id, user_id, card_id, view_count, correct_count, wrong_count,
	mastery_level, last_viewed_at, next_review_at, created_at, updated_at`

// PostgresLearningRecordStore implements the store.LearningRecordStore
// interface using a PostgreSQL database as the storage backend.
type PostgresLearningRecordStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresLearningRecordStore creates a new PostgreSQL implementation of
// the LearningRecordStore interface. It accepts a database connection or
// transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresLearningRecordStore(db store.DBTX, logger *slog.Logger) *PostgresLearningRecordStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresLearningRecordStore{
		db:     db,
		logger: logger.With(slog.String("component", "learning_record_store")),
	}
}

// Ensure PostgresLearningRecordStore implements store.LearningRecordStore interface
var _ store.LearningRecordStore = (*PostgresLearningRecordStore)(nil)

// rowScanner abstracts *sql.Row and *sql.Rows for the shared scan helper.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanLearningRecord reads one learning_records row. last_viewed_at is NULL
// until the first review and maps to the zero time.
func scanLearningRecord(row rowScanner) (*domain.LearningRecord, error) {
	record := &domain.LearningRecord{}
	var lastViewedAt sql.NullTime

	err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.CardID,
		&record.ViewCount,
		&record.CorrectCount,
		&record.WrongCount,
		&record.MasteryLevel,
		&lastViewedAt,
		&record.NextReviewAt,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastViewedAt.Valid {
		record.LastViewedAt = lastViewedAt.Time
	}

	return record, nil
}

// nullableTime maps the zero time to NULL for storage.
func nullableTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

// Create implements store.LearningRecordStore.Create
// Returns store.ErrLearningRecordExists if a record already exists for the
// (user, card) pair, and store.ErrInvalidEntity if the card does not exist.
func (s *PostgresLearningRecordStore) Create(ctx context.Context, record *domain.LearningRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := record.Validate(); err != nil {
		log.Warn("learning record validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", record.UserID.String()),
			slog.String("card_id", record.CardID.String()))
		return err
	}

	query := `
		INSERT INTO learning_records (
			id, user_id, card_id, view_count, correct_count, wrong_count,
			mastery_level, last_viewed_at, next_review_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		record.ID,
		record.UserID,
		record.CardID,
		record.ViewCount,
		record.CorrectCount,
		record.WrongCount,
		record.MasteryLevel,
		nullableTime(record.LastViewedAt),
		record.NextReviewAt,
		record.CreatedAt,
		record.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			log.Warn("learning record already exists",
				slog.String("user_id", record.UserID.String()),
				slog.String("card_id", record.CardID.String()))
			return store.ErrLearningRecordExists
		}
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during learning record creation",
				slog.String("user_id", record.UserID.String()),
				slog.String("card_id", record.CardID.String()))
			return fmt.Errorf("%w: card with ID %s not found",
				store.ErrInvalidEntity, record.CardID)
		}

		log.Error("failed to create learning record",
			slog.String("error", err.Error()),
			slog.String("user_id", record.UserID.String()),
			slog.String("card_id", record.CardID.String()))
		return err
	}

	log.Debug("learning record created",
		slog.String("user_id", record.UserID.String()),
		slog.String("card_id", record.CardID.String()))
	return nil
}

// Get implements store.LearningRecordStore.Get
// Returns store.ErrLearningRecordNotFound if the record does not exist.
func (s *PostgresLearningRecordStore) Get(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (*domain.LearningRecord, error) {
	return s.get(ctx, userID, cardID, false)
}

// GetForUpdate implements store.LearningRecordStore.GetForUpdate
// It locks the row with SELECT ... FOR UPDATE; callers must hold a transaction.
func (s *PostgresLearningRecordStore) GetForUpdate(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (*domain.LearningRecord, error) {
	return s.get(ctx, userID, cardID, true)
}

func (s *PostgresLearningRecordStore) get(
	ctx context.Context,
	userID, cardID uuid.UUID,
	forUpdate bool,
) (*domain.LearningRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT` + learningRecordColumns + `
		FROM learning_records
		WHERE user_id = $1 AND card_id = $2`
	if forUpdate {
		query += `
		FOR UPDATE`
	}

	record, err := scanLearningRecord(s.db.QueryRowContext(ctx, query, userID, cardID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrLearningRecordNotFound
		}

		log.Error("failed to get learning record",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()))
		return nil, err
	}

	return record, nil
}

// Update implements store.LearningRecordStore.Update
// The record is identified by its (user, card) pair.
// Returns store.ErrLearningRecordNotFound if the record does not exist.
func (s *PostgresLearningRecordStore) Update(ctx context.Context, record *domain.LearningRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := record.Validate(); err != nil {
		log.Warn("learning record validation failed during update",
			slog.String("error", err.Error()),
			slog.String("user_id", record.UserID.String()),
			slog.String("card_id", record.CardID.String()))
		return err
	}

	query := `
		UPDATE learning_records
		SET view_count = $1, correct_count = $2, wrong_count = $3,
			mastery_level = $4, last_viewed_at = $5, next_review_at = $6,
			updated_at = $7
		WHERE user_id = $8 AND card_id = $9
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		record.ViewCount,
		record.CorrectCount,
		record.WrongCount,
		record.MasteryLevel,
		nullableTime(record.LastViewedAt),
		record.NextReviewAt,
		time.Now().UTC(),
		record.UserID,
		record.CardID,
	)
	if err != nil {
		log.Error("failed to update learning record",
			slog.String("error", err.Error()),
			slog.String("user_id", record.UserID.String()),
			slog.String("card_id", record.CardID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrLearningRecordNotFound
	}

	log.Debug("learning record updated",
		slog.String("user_id", record.UserID.String()),
		slog.String("card_id", record.CardID.String()),
		slog.Int("mastery_level", record.MasteryLevel))
	return nil
}

// FindDue implements store.LearningRecordStore.FindDue
// Records are ordered longest-overdue first; ties are broken by ascending
// correct count so weaker cards surface first.
func (s *PostgresLearningRecordStore) FindDue(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	limit int,
) ([]*store.DueCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT
			lr.id, lr.user_id, lr.card_id, lr.view_count, lr.correct_count,
			lr.wrong_count, lr.mastery_level, lr.last_viewed_at,
			lr.next_review_at, lr.created_at, lr.updated_at,
			c.id, c.user_id, c.content, c.created_at, c.updated_at
		FROM learning_records lr
		JOIN cards c ON c.id = lr.card_id
		WHERE lr.user_id = $1
			AND lr.next_review_at <= $2
			AND lr.mastery_level < 100
		ORDER BY lr.next_review_at ASC, lr.correct_count ASC
		LIMIT $3
	`

	rows, err := s.db.QueryContext(ctx, query, userID, now, limit)
	if err != nil {
		log.Error("failed to query due records",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Warn("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var due []*store.DueCard
	for rows.Next() {
		record := &domain.LearningRecord{}
		card := &domain.Card{}
		var lastViewedAt sql.NullTime

		if err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.CardID,
			&record.ViewCount,
			&record.CorrectCount,
			&record.WrongCount,
			&record.MasteryLevel,
			&lastViewedAt,
			&record.NextReviewAt,
			&record.CreatedAt,
			&record.UpdatedAt,
			&card.ID,
			&card.UserID,
			&card.Content,
			&card.CreatedAt,
			&card.UpdatedAt,
		); err != nil {
			log.Error("failed to scan due record row",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
			return nil, err
		}

		if lastViewedAt.Valid {
			record.LastViewedAt = lastViewedAt.Time
		}

		due = append(due, &store.DueCard{Record: record, Card: card})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return due, nil
}

// CountDue implements store.LearningRecordStore.CountDue
func (s *PostgresLearningRecordStore) CountDue(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM learning_records
		WHERE user_id = $1
			AND next_review_at <= $2
			AND mastery_level < 100
	`

	var count int
	if err := s.db.QueryRowContext(ctx, query, userID, now).Scan(&count); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count due records",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return 0, err
	}

	return count, nil
}

// BucketCounts implements store.LearningRecordStore.BucketCounts
// All buckets are computed in a single aggregate query so the counts are
// internally consistent and always sum to the total.
func (s *PostgresLearningRecordStore) BucketCounts(
	ctx context.Context,
	userID uuid.UUID,
) (store.BucketCounts, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE mastery_level = 0),
			COUNT(*) FILTER (WHERE mastery_level BETWEEN 1 AND 39),
			COUNT(*) FILTER (WHERE mastery_level BETWEEN 40 AND 79),
			COUNT(*) FILTER (WHERE mastery_level >= 80)
		FROM learning_records
		WHERE user_id = $1
	`

	var counts store.BucketCounts
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&counts.Total,
		&counts.New,
		&counts.Learning,
		&counts.Review,
		&counts.Mastered,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to aggregate mastery buckets",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return store.BucketCounts{}, err
	}

	return counts, nil
}

// CountReviewedSince implements store.LearningRecordStore.CountReviewedSince
func (s *PostgresLearningRecordStore) CountReviewedSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM learning_records
		WHERE user_id = $1 AND last_viewed_at >= $2
	`

	var count int
	if err := s.db.QueryRowContext(ctx, query, userID, since).Scan(&count); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count reviewed records",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return 0, err
	}

	return count, nil
}

// WithTx implements store.LearningRecordStore.WithTx
// It returns a new LearningRecordStore instance bound to the provided transaction.
func (s *PostgresLearningRecordStore) WithTx(tx *sql.Tx) store.LearningRecordStore {
	return &PostgresLearningRecordStore{
		db:     tx,
		logger: s.logger,
	}
}
