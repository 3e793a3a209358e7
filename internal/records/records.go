// Package records turns the untyped collection store into typed tables.
//
// A Table[T] owns one storage.Kind. Reads decode the whole JSON array;
// writes re-encode it and hand it back to the store with the version it
// was read at. A collection that has never been written (or that no
// longer decodes) is replaced by the table's fixture set the first time
// it is read.
package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aanand-mishra/hostel-api/internal/storage"
	"github.com/aanand-mishra/hostel-api/internal/types"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("record not found")

// ConflictRetries bounds how many times a read-modify-write is redone
// after losing a race with another writer.
const ConflictRetries = 5

// Snapshot is a decoded collection together with the version it was
// read at.
type Snapshot[T types.Record] struct {
	Items   []T
	Version int64
}

// Index returns the position of id in the snapshot, or -1.
func (s Snapshot[T]) Index(id string) int {
	for i, item := range s.Items {
		if item.GetID() == id {
			return i
		}
	}
	return -1
}

// Table is a typed view over one collection.
type Table[T types.Record] struct {
	store storage.Storage
	kind  storage.Kind
	seed  []T
	log   *slog.Logger
}

// NewTable returns a table for kind. seed is written the first time the
// collection is read and found empty; it may be nil.
func NewTable[T types.Record](store storage.Storage, kind storage.Kind, seed []T, log *slog.Logger) *Table[T] {
	if log == nil {
		log = slog.Default()
	}
	return &Table[T]{store: store, kind: kind, seed: seed, log: log}
}

// Kind returns the collection the table is bound to.
func (t *Table[T]) Kind() storage.Kind { return t.kind }

// Load reads and decodes the collection, seeding it when necessary.
func (t *Table[T]) Load(ctx context.Context) (Snapshot[T], error) {
	for attempt := 0; ; attempt++ {
		col, err := t.store.Get(ctx, t.kind)
		if err != nil {
			return Snapshot[T]{}, fmt.Errorf("records.Load %s: %w", t.kind, err)
		}

		if col.Version > 0 || len(col.Data) > 0 {
			var items []T
			decErr := json.Unmarshal(col.Data, &items)
			if decErr == nil {
				return Snapshot[T]{Items: items, Version: col.Version}, nil
			}
			t.log.Warn("collection does not decode, reseeding",
				slog.String("kind", string(t.kind)),
				slog.String("error", decErr.Error()))
		}

		snap, err := t.reseed(ctx, col.Version)
		if errors.Is(err, storage.ErrVersionConflict) && attempt < ConflictRetries {
			// Somebody else seeded or wrote in between; read theirs.
			continue
		}
		return snap, err
	}
}

func (t *Table[T]) reseed(ctx context.Context, version int64) (Snapshot[T], error) {
	data, err := json.Marshal(t.seedItems())
	if err != nil {
		return Snapshot[T]{}, fmt.Errorf("records.seed %s: encode: %w", t.kind, err)
	}
	if err := t.store.Put(ctx, storage.Collection{Kind: t.kind, Data: data, Version: version}); err != nil {
		return Snapshot[T]{}, fmt.Errorf("records.seed %s: %w", t.kind, err)
	}

	// Decode what we wrote so the caller never aliases t.seed.
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return Snapshot[T]{}, fmt.Errorf("records.seed %s: decode: %w", t.kind, err)
	}
	t.log.Info("collection seeded", slog.String("kind", string(t.kind)), slog.Int("records", len(items)))
	return Snapshot[T]{Items: items, Version: version + 1}, nil
}

func (t *Table[T]) seedItems() []T {
	if t.seed == nil {
		return []T{}
	}
	return t.seed
}

// Encode prepares items for a versioned Put. Used directly by callers
// that write several tables atomically.
func (t *Table[T]) Encode(items []T, version int64) (storage.Collection, error) {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return storage.Collection{}, fmt.Errorf("records.Encode %s: %w", t.kind, err)
	}
	return storage.Collection{Kind: t.kind, Data: data, Version: version}, nil
}

// List returns every record.
func (t *Table[T]) List(ctx context.Context) ([]T, error) {
	snap, err := t.Load(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Items, nil
}

// Find returns the record with the given id or ErrNotFound.
func (t *Table[T]) Find(ctx context.Context, id string) (T, error) {
	var zero T
	snap, err := t.Load(ctx)
	if err != nil {
		return zero, err
	}
	i := snap.Index(id)
	if i < 0 {
		return zero, fmt.Errorf("%s %q: %w", t.kind, id, ErrNotFound)
	}
	return snap.Items[i], nil
}

// Mutate runs a read-modify-write cycle. fn receives the current items
// and returns the new ones; returning an error aborts without writing.
// Lost races are retried from a fresh read.
func (t *Table[T]) Mutate(ctx context.Context, fn func(items []T) ([]T, error)) error {
	return OnConflict(ctx, func() error {
		snap, err := t.Load(ctx)
		if err != nil {
			return err
		}
		items, err := fn(snap.Items)
		if err != nil {
			return err
		}
		col, err := t.Encode(items, snap.Version)
		if err != nil {
			return err
		}
		return t.store.Put(ctx, col)
	})
}

// Create appends rec.
func (t *Table[T]) Create(ctx context.Context, rec T) (T, error) {
	err := t.Mutate(ctx, func(items []T) ([]T, error) {
		return append(items, rec), nil
	})
	return rec, err
}

// Update applies fn to the record with the given id. fn may return an
// error to abort; the record is not written in that case.
func (t *Table[T]) Update(ctx context.Context, id string, fn func(rec *T) error) (T, error) {
	var out T
	err := t.Mutate(ctx, func(items []T) ([]T, error) {
		i := Snapshot[T]{Items: items}.Index(id)
		if i < 0 {
			return nil, fmt.Errorf("%s %q: %w", t.kind, id, ErrNotFound)
		}
		if err := fn(&items[i]); err != nil {
			return nil, err
		}
		out = items[i]
		return items, nil
	})
	return out, err
}

// UpdateAll applies fn to every record and returns how many it changed.
// fn reports whether it modified the record; nothing is written when no
// record changed.
func (t *Table[T]) UpdateAll(ctx context.Context, fn func(rec *T) bool) (int, error) {
	var changed int
	errUnchanged := errors.New("unchanged")
	err := t.Mutate(ctx, func(items []T) ([]T, error) {
		changed = 0
		for i := range items {
			if fn(&items[i]) {
				changed++
			}
		}
		if changed == 0 {
			return nil, errUnchanged
		}
		return items, nil
	})
	if errors.Is(err, errUnchanged) {
		return 0, nil
	}
	return changed, err
}

// Delete removes the record with the given id.
func (t *Table[T]) Delete(ctx context.Context, id string) error {
	return t.Mutate(ctx, func(items []T) ([]T, error) {
		i := Snapshot[T]{Items: items}.Index(id)
		if i < 0 {
			return nil, fmt.Errorf("%s %q: %w", t.kind, id, ErrNotFound)
		}
		return append(items[:i], items[i+1:]...), nil
	})
}

// OnConflict runs fn, re-running it while it fails with
// storage.ErrVersionConflict, at most ConflictRetries extra times.
func OnConflict(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt <= ConflictRetries; attempt++ {
		if err = fn(); !errors.Is(err, storage.ErrVersionConflict) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
	return err
}
