package fees_test

import (
	"context"
	"testing"
	"time"

	"github.com/aanand-mishra/hostel-api/internal/fees"
	"github.com/aanand-mishra/hostel-api/internal/records"
	"github.com/aanand-mishra/hostel-api/internal/storage"
	"github.com/aanand-mishra/hostel-api/internal/storage/memory"
	"github.com/aanand-mishra/hostel-api/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newService() (*fees.Service, *records.Table[types.Fee]) {
	table := records.NewTable(memory.New(), storage.KindFees, records.SeedFees(), nil)
	return fees.NewService(table, nil, nil).WithClock(func() time.Time { return now }), table
}

func TestCreate_DefaultsToPending(t *testing.T) {
	svc, _ := newService()
	stray := now

	f, err := svc.Create(context.Background(), types.Fee{
		StudentID: "4", StudentName: "Sneha Reddy", Amount: 3000,
		DueDate: now.AddDate(0, 1, 0), Type: types.FeeMess, PaidDate: &stray,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, f.ID)
	assert.Equal(t, types.FeePending, f.Status)
	assert.Nil(t, f.PaidDate, "only paid fees carry a paid date")
}

func TestCreate_AlreadyPaid(t *testing.T) {
	svc, _ := newService()

	f, err := svc.Create(context.Background(), types.Fee{
		StudentID: "4", StudentName: "Sneha Reddy", Amount: 5000,
		DueDate: now, Type: types.FeeSecurity, Status: types.FeePaid,
	})
	require.NoError(t, err)
	require.NotNil(t, f.PaidDate)
	assert.Equal(t, now, *f.PaidDate)
}

func TestMarkPaid(t *testing.T) {
	ctx := context.Background()
	svc, table := newService()

	f, err := svc.MarkPaid(ctx, "2", nil)
	require.NoError(t, err)
	assert.Equal(t, types.FeePaid, f.Status)
	require.NotNil(t, f.PaidDate)
	assert.Equal(t, now, *f.PaidDate)

	_, err = svc.MarkPaid(ctx, "2", nil)
	assert.ErrorIs(t, err, fees.ErrAlreadyPaid)

	when := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	f, err = svc.MarkPaid(ctx, "3", &when)
	require.NoError(t, err, "overdue fees can still be paid")
	assert.True(t, when.Equal(*f.PaidDate))

	stored, err := table.Find(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, types.FeePaid, stored.Status)

	_, err = svc.MarkPaid(ctx, "missing", nil)
	assert.ErrorIs(t, err, records.ErrNotFound)
}

func TestSweepOverdue(t *testing.T) {
	ctx := context.Background()
	svc, table := newService()

	_, err := table.Create(ctx, types.Fee{ID: "future", StudentID: "4", StudentName: "Sneha Reddy",
		Amount: 100, DueDate: now.Add(24 * time.Hour), Status: types.FeePending, Type: types.FeeOther})
	require.NoError(t, err)

	n, err := svc.SweepOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	f, err := table.Find(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, types.FeeOverdue, f.Status)

	f, err = table.Find(ctx, "future")
	require.NoError(t, err)
	assert.Equal(t, types.FeePending, f.Status)

	f, err = table.Find(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, types.FeePaid, f.Status, "paid fees are never swept")

	n, err = svc.SweepOverdue(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
