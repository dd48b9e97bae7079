// Package store defines the Record Store boundary: the authoritative list of
// clients that the dashboard queries and mutates.
package store

import (
	"context"

	"github.com/Makepad-fr/clientdash/internal/model"
)

// Store is the authoritative source of client records.
//
// Query returns the records matching f in store order. An empty result is
// not an error. Mutate applies p to the record with the given id, stamps a
// new UpdatedAt and returns the full updated record; it fails with an error
// matching errors.ErrNotFound when id is absent, leaving the store unchanged.
type Store interface {
	Query(ctx context.Context, f model.Filter) ([]model.Record, error)
	Mutate(ctx context.Context, id string, p model.Patch) (model.Record, error)
}

// Creator is implemented by stores that accept new records. Only the mock
// server needs it.
type Creator interface {
	Create(ctx context.Context, r model.Record) (model.Record, error)
}
