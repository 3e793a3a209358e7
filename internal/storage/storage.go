// Package storage defines the Storage interface, the contract every
// record-store backend (memory, SQLite, Redis) must satisfy.
//
// The store is deliberately dumb: it keeps one opaque JSON document per
// entity kind ("collection") and a version counter next to it. Reading
// a collection returns the whole document; writing replaces it. All of
// the domain logic (seeding, lookups, assignment rules) lives above
// this layer, in package records and the services built on it.
//
// VERSIONED WRITES:
// ─────────────────
// Put is a compare-and-swap. Each Collection passed to Put carries the
// version the caller READ. If the stored version moved on in the
// meantime, Put fails with ErrVersionConflict and nothing is written.
// Multiple collections passed to one Put are written atomically: either
// all of them land or none does.
package storage

import (
	"context"
	"errors"
)

// Kind names an entity collection.
type Kind string

const (
	KindStudents   Kind = "students"
	KindRooms      Kind = "rooms"
	KindComplaints Kind = "complaints"
	KindFees       Kind = "fees"
	KindLeaves     Kind = "leaves"
	KindHostels    Kind = "hostels"
	KindStaff      Kind = "staff"
)

// Kinds lists every collection the application knows about.
var Kinds = []Kind{
	KindStudents,
	KindRooms,
	KindComplaints,
	KindFees,
	KindLeaves,
	KindHostels,
	KindStaff,
}

var (
	// ErrVersionConflict is returned by Put when a collection was
	// modified after the caller read it.
	ErrVersionConflict = errors.New("storage: version conflict")

	// ErrUnavailable marks a transient backend failure (busy database,
	// dropped connection). Operations failing with it may be retried.
	ErrUnavailable = errors.New("storage: backend unavailable")
)

// Collection is the stored form of one entity kind.
//
// Version 0 with nil Data means "never written". Backends bump the
// version by one on every successful Put.
type Collection struct {
	Kind    Kind
	Data    []byte
	Version int64
}

// Storage is the record-store contract.
type Storage interface {
	// Get returns the current document and version for kind.
	// A missing collection is not an error: it comes back as
	// Collection{Kind: kind} with Version 0.
	Get(ctx context.Context, kind Kind) (Collection, error)

	// Put overwrites every given collection atomically, provided each
	// one's Version still matches the stored version.
	Put(ctx context.Context, cols ...Collection) error

	// Close releases the backend's resources.
	Close() error
}

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
