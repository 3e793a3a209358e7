// Package storagetest holds the behaviour every storage.Storage backend
// must show. Backend packages call Run from their own tests.
package storagetest

import (
	"context"
	"sync"
	"testing"

	"github.com/aanand-mishra/hostel-api/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises s. s must start out empty.
func Run(t *testing.T, s storage.Storage) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing collection is empty", func(t *testing.T) {
		col, err := s.Get(ctx, storage.KindHostels)
		require.NoError(t, err)
		assert.Equal(t, storage.KindHostels, col.Kind)
		assert.Zero(t, col.Version)
		assert.Empty(t, col.Data)
	})

	t.Run("put bumps version", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, storage.Collection{Kind: storage.KindFees, Data: []byte(`[1]`)}))

		col, err := s.Get(ctx, storage.KindFees)
		require.NoError(t, err)
		assert.Equal(t, int64(1), col.Version)
		assert.JSONEq(t, `[1]`, string(col.Data))

		col.Data = []byte(`[1,2]`)
		require.NoError(t, s.Put(ctx, col))

		col, err = s.Get(ctx, storage.KindFees)
		require.NoError(t, err)
		assert.Equal(t, int64(2), col.Version)
		assert.JSONEq(t, `[1,2]`, string(col.Data))
	})

	t.Run("stale version is rejected", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, storage.Collection{Kind: storage.KindLeaves, Data: []byte(`["a"]`)}))

		err := s.Put(ctx, storage.Collection{Kind: storage.KindLeaves, Data: []byte(`["b"]`), Version: 0})
		require.ErrorIs(t, err, storage.ErrVersionConflict)

		col, err := s.Get(ctx, storage.KindLeaves)
		require.NoError(t, err)
		assert.JSONEq(t, `["a"]`, string(col.Data))
	})

	t.Run("multi put is all or nothing", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, storage.Collection{Kind: storage.KindRooms, Data: []byte(`["r1"]`)}))

		// rooms is at v1, students at v0; claiming v0 for rooms must
		// leave students unwritten too.
		err := s.Put(ctx,
			storage.Collection{Kind: storage.KindStudents, Data: []byte(`["s1"]`), Version: 0},
			storage.Collection{Kind: storage.KindRooms, Data: []byte(`["r2"]`), Version: 0},
		)
		require.ErrorIs(t, err, storage.ErrVersionConflict)

		students, err := s.Get(ctx, storage.KindStudents)
		require.NoError(t, err)
		assert.Zero(t, students.Version)

		rooms, err := s.Get(ctx, storage.KindRooms)
		require.NoError(t, err)
		require.NoError(t, s.Put(ctx,
			storage.Collection{Kind: storage.KindStudents, Data: []byte(`["s1"]`), Version: students.Version},
			storage.Collection{Kind: storage.KindRooms, Data: []byte(`["r2"]`), Version: rooms.Version},
		))

		rooms, err = s.Get(ctx, storage.KindRooms)
		require.NoError(t, err)
		assert.Equal(t, int64(2), rooms.Version)
		assert.JSONEq(t, `["r2"]`, string(rooms.Data))
	})

	t.Run("concurrent writers at the same version", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, storage.Collection{Kind: storage.KindStaff, Data: []byte(`[]`)}))

		const writers = 8
		var wg sync.WaitGroup
		errs := make([]error, writers)
		for i := range writers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs[i] = s.Put(ctx, storage.Collection{Kind: storage.KindStaff, Data: []byte(`[0]`), Version: 1})
			}()
		}
		wg.Wait()

		var ok int
		for _, err := range errs {
			if err == nil {
				ok++
				continue
			}
			assert.ErrorIs(t, err, storage.ErrVersionConflict)
		}
		assert.Equal(t, 1, ok, "exactly one writer wins")

		col, err := s.Get(ctx, storage.KindStaff)
		require.NoError(t, err)
		assert.Equal(t, int64(2), col.Version)
	})
}
