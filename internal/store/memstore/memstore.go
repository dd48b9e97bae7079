// Package memstore is the mock Record Store: an in-memory, insertion-ordered
// list of clients behind a mutex, with synthetic network latency.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Makepad-fr/clientdash/internal/errors"
	"github.com/Makepad-fr/clientdash/internal/model"
)

// Default synthetic latencies, matching the dashboard's mock data service.
const (
	DefaultQueryDelay  = 300 * time.Millisecond
	DefaultUpdateDelay = 200 * time.Millisecond
)

// Store is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	records []model.Record
	index   map[string]int // id -> position in records

	queryDelay  time.Duration
	updateDelay time.Duration
	now         func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithDelay sets the synthetic latency of Query and Mutate. Zero disables it.
func WithDelay(query, update time.Duration) Option {
	return func(s *Store) {
		s.queryDelay = query
		s.updateDelay = update
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithRecords seeds the store. Later duplicates of an id are dropped.
func WithRecords(rs []model.Record) Option {
	return func(s *Store) {
		for _, r := range rs {
			if _, dup := s.index[r.ID]; dup {
				continue
			}
			s.index[r.ID] = len(s.records)
			s.records = append(s.records, r)
		}
	}
}

// New creates a Store. Without options it is empty and uses the default delays.
func New(opts ...Option) *Store {
	s := &Store{
		index:       make(map[string]int),
		queryDelay:  DefaultQueryDelay,
		updateDelay: DefaultUpdateDelay,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Query returns copies of the records matching f, in insertion order.
func (s *Store) Query(ctx context.Context, f model.Filter) ([]model.Record, error) {
	if err := sleep(ctx, s.queryDelay); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return f.Apply(s.records), nil
}

// Mutate patches the record with the given id and stamps UpdatedAt, which is
// always strictly later than the previous value.
func (s *Store) Mutate(ctx context.Context, id string, p model.Patch) (model.Record, error) {
	if err := sleep(ctx, s.updateDelay); err != nil {
		return model.Record{}, err
	}
	if p.Status != nil && !p.Status.Valid() {
		return model.Record{}, errors.NewValidationError("must be pending or confirmed").
			WithField("status").WithValue(string(*p.Status))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return model.Record{}, errors.NewNotFoundError("client", id)
	}
	r := p.Apply(s.records[i])
	r.UpdatedAt = s.stamp(r.UpdatedAt)
	s.records[i] = r
	return r, nil
}

// Create appends r. An empty id is replaced with "client-<uuid>"; missing
// timestamps and status are filled in. Creating an existing id fails.
func (s *Store) Create(ctx context.Context, r model.Record) (model.Record, error) {
	if err := sleep(ctx, s.updateDelay); err != nil {
		return model.Record{}, err
	}
	if r.PhoneNumber == "" {
		return model.Record{}, errors.NewValidationError("required").WithField("phoneNumber")
	}
	if r.Status == "" {
		r.Status = model.StatusPending
	}
	if !r.Status.Valid() {
		return model.Record{}, errors.NewValidationError("must be pending or confirmed").
			WithField("status").WithValue(string(r.Status))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = "client-" + uuid.NewString()
	}
	if _, dup := s.index[r.ID]; dup {
		return model.Record{}, errors.NewValidationError("already exists").WithField("id").WithValue(r.ID)
	}
	now := s.now()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	s.index[r.ID] = len(s.records)
	s.records = append(s.records, r)
	return r, nil
}

// UpsertResult says what Upsert did.
type UpsertResult int

const (
	Unchanged UpsertResult = iota
	Created
	Updated
)

// Upsert inserts r or replaces the stored record with the same id, keeping
// its position. A replacement that changes nothing but timestamps is
// reported as Unchanged and not applied. No latency is simulated.
func (s *Store) Upsert(r model.Record) (model.Record, UpsertResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[r.ID]
	if !ok {
		now := s.now()
		if r.CreatedAt.IsZero() {
			r.CreatedAt = now
		}
		if r.UpdatedAt.IsZero() {
			r.UpdatedAt = now
		}
		s.index[r.ID] = len(s.records)
		s.records = append(s.records, r)
		return r, Created
	}

	old := s.records[i]
	if old.PhoneNumber == r.PhoneNumber && old.Name == r.Name && old.Status == r.Status {
		return old, Unchanged
	}
	r.CreatedAt = old.CreatedAt
	r.UpdatedAt = s.stamp(old.UpdatedAt)
	s.records[i] = r
	return r, Updated
}

// Snapshot returns a copy of every record in insertion order.
func (s *Store) Snapshot() []model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// stamp returns the current time, nudged past prev when the clock has not
// moved on. Caller holds mu.
func (s *Store) stamp(prev time.Time) time.Time {
	now := s.now()
	if !now.After(prev) {
		now = prev.Add(time.Millisecond)
	}
	return now
}
