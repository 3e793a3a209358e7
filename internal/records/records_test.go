package records_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aanand-mishra/hostel-api/internal/records"
	"github.com/aanand-mishra/hostel-api/internal/storage"
	"github.com/aanand-mishra/hostel-api/internal/storage/memory"
	"github.com/aanand-mishra/hostel-api/internal/types"
	"github.com/aanand-mishra/hostel-api/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staffTable(store storage.Storage) *records.Table[types.Staff] {
	return records.NewTable(store, storage.KindStaff, records.SeedStaff(), nil)
}

func TestLoad_SeedsMissingCollection(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	items, err := staffTable(store).List(ctx)
	require.NoError(t, err)
	assert.Equal(t, records.SeedStaff(), items)

	col, err := store.Get(ctx, storage.KindStaff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), col.Version, "seed is written back")
}

func TestLoad_ReseedsCorruptCollection(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Put(ctx, storage.Collection{Kind: storage.KindStaff, Data: []byte(`{not json`)}))

	snap, err := staffTable(store).Load(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Items, len(records.SeedStaff()))
	assert.Equal(t, int64(2), snap.Version)
}

func TestLoad_KeepsEmptyCollection(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Put(ctx, storage.Collection{Kind: storage.KindStaff, Data: []byte(`[]`)}))

	items, err := staffTable(store).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items, "an emptied collection is not reseeded")
}

func TestLoad_NilSeedWritesEmptyArray(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	table := records.NewTable[types.Staff](store, storage.KindStaff, nil, nil)

	items, err := table.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	col, err := store.Get(ctx, storage.KindStaff)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(col.Data))
}

func TestTable_CRUD(t *testing.T) {
	ctx := context.Background()
	table := staffTable(memory.New())

	created, err := table.Create(ctx, types.Staff{ID: "st9", Name: "Night Guard", Email: "guard@medhavi.edu", Role: types.StaffOther})
	require.NoError(t, err)
	assert.Equal(t, "st9", created.ID)

	found, err := table.Find(ctx, "st9")
	require.NoError(t, err)
	assert.Equal(t, "Night Guard", found.Name)

	updated, err := table.Update(ctx, "st9", func(s *types.Staff) error {
		s.Position = "Security"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Security", updated.Position)

	require.NoError(t, table.Delete(ctx, "st9"))
	_, err = table.Find(ctx, "st9")
	assert.ErrorIs(t, err, records.ErrNotFound)
}

func TestTable_MissingIDs(t *testing.T) {
	ctx := context.Background()
	table := staffTable(memory.New())

	_, err := table.Find(ctx, "nope")
	assert.ErrorIs(t, err, records.ErrNotFound)

	_, err = table.Update(ctx, "nope", func(*types.Staff) error { return nil })
	assert.ErrorIs(t, err, records.ErrNotFound)

	assert.ErrorIs(t, table.Delete(ctx, "nope"), records.ErrNotFound)
}

func TestTable_UpdateAbortLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	table := staffTable(store)
	_, err := table.List(ctx)
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = table.Update(ctx, "st1", func(s *types.Staff) error {
		s.Name = "changed"
		return boom
	})
	require.ErrorIs(t, err, boom)

	found, err := table.Find(ctx, "st1")
	require.NoError(t, err)
	assert.Equal(t, "Warden Singh", found.Name)

	col, err := store.Get(ctx, storage.KindStaff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), col.Version)
}

func TestTable_UpdateAll(t *testing.T) {
	ctx := context.Background()
	table := staffTable(memory.New())

	n, err := table.UpdateAll(ctx, func(s *types.Staff) bool {
		if s.Role != types.StaffWarden {
			return false
		}
		s.Hostel = "Block C"
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = table.UpdateAll(ctx, func(*types.Staff) bool { return false })
	require.NoError(t, err)
	assert.Zero(t, n)
}

// racyStore lets another writer sneak in before the first Put.
type racyStore struct {
	storage.Storage
	raced bool
}

func (r *racyStore) Put(ctx context.Context, cols ...storage.Collection) error {
	if !r.raced && cols[0].Version > 0 {
		r.raced = true
		bumped := cols[0]
		bumped.Data = []byte(`[{"id":"other","name":"Other Writer","email":"o@x.io","role":"other"}]`)
		if err := r.Storage.Put(ctx, bumped); err != nil {
			return err
		}
	}
	return r.Storage.Put(ctx, cols...)
}

func TestMutate_RetriesAfterConflict(t *testing.T) {
	ctx := context.Background()
	store := &racyStore{Storage: memory.New()}
	table := staffTable(store)
	_, err := table.List(ctx)
	require.NoError(t, err)

	_, err = table.Create(ctx, types.Staff{ID: "mine", Name: "Mine", Email: "m@x.io", Role: types.StaffOther})
	require.NoError(t, err)

	items, err := table.List(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(items))
	for _, s := range items {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"other", "mine"}, ids, "second attempt builds on the racing write")
}

func TestOnConflict_GivesUp(t *testing.T) {
	calls := 0
	err := records.OnConflict(context.Background(), func() error {
		calls++
		return storage.ErrVersionConflict
	})
	assert.ErrorIs(t, err, storage.ErrVersionConflict)
	assert.Equal(t, records.ConflictRetries+1, calls)
}

func TestNewTables_FixturesAreConsistent(t *testing.T) {
	ctx := context.Background()
	tables := records.NewTables(memory.New(), nil)

	rooms, err := tables.Rooms.List(ctx)
	require.NoError(t, err)
	students, err := tables.Students.List(ctx)
	require.NoError(t, err)

	byNumber := map[string]types.Room{}
	for _, r := range rooms {
		assert.Equal(t, len(r.Students), r.Occupied, r.Number)
		assert.LessOrEqual(t, r.Occupied, r.Capacity, r.Number)
		byNumber[r.Number] = r
	}
	for _, s := range students {
		if s.RoomNumber == "" {
			continue
		}
		r, ok := byNumber[s.RoomNumber]
		require.True(t, ok, s.ID)
		assert.True(t, r.HasStudent(s.ID), s.ID)
	}

	complaints, err := tables.Complaints.List(ctx)
	require.NoError(t, err)
	for _, c := range complaints {
		assert.NoError(t, workflow.CheckCheckpoints(c), c.ID)
	}
}
