package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/mnemolab/mnemo-api/internal/domain"
)

// DueCard pairs a due learning record with the card it schedules, as
// returned by the due-card query.
type DueCard struct {
	Record *domain.LearningRecord
	Card   *domain.Card
}

// BucketCounts holds per-user learning record counts grouped by mastery
// bucket. The four buckets always sum to Total: a record is new at mastery 0,
// learning in [1,40), in review in [40,80), and mastered in [80,100].
type BucketCounts struct {
	Total    int
	New      int
	Learning int
	Review   int
	Mastered int
}

// LearningRecordStore defines the interface for learning record persistence.
type LearningRecordStore interface {
	// Create saves a new learning record.
	// It handles domain validation internally.
	// Returns ErrLearningRecordExists if a record already exists for the
	// (user, card) pair.
	Create(ctx context.Context, record *domain.LearningRecord) error

	// Get retrieves a learning record by the combination of user ID and card ID.
	// Returns ErrLearningRecordNotFound if the record does not exist.
	// NOTE: This method does NOT provide any row locking, so it should not be
	// used when you plan to update the row and need concurrency protection.
	Get(ctx context.Context, userID, cardID uuid.UUID) (*domain.LearningRecord, error)

	// GetForUpdate retrieves a learning record with a row-level lock using
	// SELECT FOR UPDATE. This must be used within a transaction when you plan
	// to update the row, so two concurrent reviews of the same (user, card)
	// pair cannot both read the same pre-update counters.
	// Returns ErrLearningRecordNotFound if the record does not exist.
	GetForUpdate(ctx context.Context, userID, cardID uuid.UUID) (*domain.LearningRecord, error)

	// Update modifies an existing learning record, identified by its
	// (user, card) pair. It handles domain validation internally.
	// Returns ErrLearningRecordNotFound if the record does not exist.
	Update(ctx context.Context, record *domain.LearningRecord) error

	// FindDue returns up to limit records that are due at the given time
	// (next_review_at <= now, mastery below the ceiling), joined with their
	// cards, ordered longest-overdue first with ties broken by ascending
	// correct count so weaker cards surface first.
	FindDue(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]*DueCard, error)

	// CountDue returns the number of records matching the FindDue filter,
	// without a limit.
	CountDue(ctx context.Context, userID uuid.UUID, now time.Time) (int, error)

	// BucketCounts aggregates the user's records by mastery bucket in a
	// single query, so the counts are internally consistent.
	BucketCounts(ctx context.Context, userID uuid.UUID) (BucketCounts, error)

	// CountReviewedSince returns the number of records last viewed at or
	// after the given time.
	CountReviewedSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)

	// WithTx returns a new LearningRecordStore instance that uses the
	// provided transaction. The transaction is created and managed by the
	// caller (typically a service).
	WithTx(tx *sql.Tx) LearningRecordStore
}
