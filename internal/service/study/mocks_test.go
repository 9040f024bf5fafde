package study

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mnemolab/mnemo-api/internal/domain"
	"github.com/mnemolab/mnemo-api/internal/store"
)

// In-memory fakes for the store interfaces. WithTx returns the fake itself;
// the tests stub the service's transaction runner so no database is needed.

type fakeCardStore struct {
	cards map[uuid.UUID]*domain.Card
	err   error
}

func newFakeCardStore() *fakeCardStore {
	return &fakeCardStore{cards: make(map[uuid.UUID]*domain.Card)}
}

func (f *fakeCardStore) Create(ctx context.Context, card *domain.Card) error {
	if f.err != nil {
		return f.err
	}
	if err := card.Validate(); err != nil {
		return err
	}
	f.cards[card.ID] = card
	return nil
}

func (f *fakeCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	if f.err != nil {
		return nil, f.err
	}
	card, ok := f.cards[id]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	return card, nil
}

func (f *fakeCardStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error) {
	var out []*domain.Card
	for _, c := range f.cards {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCardStore) UpdateContent(ctx context.Context, id uuid.UUID, content []byte) error {
	card, ok := f.cards[id]
	if !ok {
		return store.ErrCardNotFound
	}
	return card.UpdateContent(content)
}

func (f *fakeCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.cards[id]; !ok {
		return store.ErrCardNotFound
	}
	delete(f.cards, id)
	return nil
}

func (f *fakeCardStore) WithTx(tx *sql.Tx) store.CardStore { return f }

type recordKey struct {
	userID uuid.UUID
	cardID uuid.UUID
}

type fakeRecordStore struct {
	records map[recordKey]*domain.LearningRecord
	err     error
}

func newFakeRecordStore() *fakeRecordStore {
	return &fakeRecordStore{records: make(map[recordKey]*domain.LearningRecord)}
}

func (f *fakeRecordStore) Create(ctx context.Context, record *domain.LearningRecord) error {
	if f.err != nil {
		return f.err
	}
	if err := record.Validate(); err != nil {
		return err
	}
	key := recordKey{record.UserID, record.CardID}
	if _, ok := f.records[key]; ok {
		return store.ErrLearningRecordExists
	}
	clone := *record
	f.records[key] = &clone
	return nil
}

func (f *fakeRecordStore) Get(ctx context.Context, userID, cardID uuid.UUID) (*domain.LearningRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	record, ok := f.records[recordKey{userID, cardID}]
	if !ok {
		return nil, store.ErrLearningRecordNotFound
	}
	clone := *record
	return &clone, nil
}

func (f *fakeRecordStore) GetForUpdate(ctx context.Context, userID, cardID uuid.UUID) (*domain.LearningRecord, error) {
	return f.Get(ctx, userID, cardID)
}

func (f *fakeRecordStore) Update(ctx context.Context, record *domain.LearningRecord) error {
	if f.err != nil {
		return f.err
	}
	if err := record.Validate(); err != nil {
		return err
	}
	key := recordKey{record.UserID, record.CardID}
	if _, ok := f.records[key]; !ok {
		return store.ErrLearningRecordNotFound
	}
	clone := *record
	f.records[key] = &clone
	return nil
}

func (f *fakeRecordStore) FindDue(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	limit int,
) ([]*store.DueCard, error) {
	if f.err != nil {
		return nil, f.err
	}
	var due []*store.DueCard
	for _, r := range f.records {
		if r.UserID == userID && r.IsDue(now) {
			clone := *r
			due = append(due, &store.DueCard{Record: &clone})
		}
	}
	sort.Slice(due, func(i, j int) bool {
		a, b := due[i].Record, due[j].Record
		if !a.NextReviewAt.Equal(b.NextReviewAt) {
			return a.NextReviewAt.Before(b.NextReviewAt)
		}
		return a.CorrectCount < b.CorrectCount
	})
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (f *fakeRecordStore) CountDue(ctx context.Context, userID uuid.UUID, now time.Time) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	count := 0
	for _, r := range f.records {
		if r.UserID == userID && r.IsDue(now) {
			count++
		}
	}
	return count, nil
}

func (f *fakeRecordStore) BucketCounts(ctx context.Context, userID uuid.UUID) (store.BucketCounts, error) {
	if f.err != nil {
		return store.BucketCounts{}, f.err
	}
	var counts store.BucketCounts
	for _, r := range f.records {
		if r.UserID != userID {
			continue
		}
		counts.Total++
		switch {
		case r.MasteryLevel == 0:
			counts.New++
		case r.MasteryLevel < 40:
			counts.Learning++
		case r.MasteryLevel < 80:
			counts.Review++
		default:
			counts.Mastered++
		}
	}
	return counts, nil
}

func (f *fakeRecordStore) CountReviewedSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	count := 0
	for _, r := range f.records {
		if r.UserID == userID && !r.LastViewedAt.IsZero() && !r.LastViewedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakeRecordStore) WithTx(tx *sql.Tx) store.LearningRecordStore { return f }

type fakeSessionStore struct {
	entries []*domain.StudySession
	err     error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{}
}

func (f *fakeSessionStore) Append(ctx context.Context, session *domain.StudySession) error {
	if f.err != nil {
		return f.err
	}
	if err := session.Validate(); err != nil {
		return err
	}
	f.entries = append(f.entries, session)
	return nil
}

func (f *fakeSessionStore) CountForUserSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	count := 0
	for _, e := range f.entries {
		if e.UserID == userID && !e.SessionDate.Before(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakeSessionStore) WithTx(tx *sql.Tx) store.SessionStore { return f }

// passthroughTx runs the transaction function directly; the fakes have no
// transactional state to roll back.
func passthroughTx(ctx context.Context, db *sql.DB, fn store.TxFn) error {
	return fn(ctx, nil)
}

var errStoreDown = errors.New("store unavailable")
