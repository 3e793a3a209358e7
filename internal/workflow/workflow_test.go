package workflow

import (
	"testing"
	"time"

	"github.com/aanand-mishra/hostel-api/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func openComplaint() types.Complaint {
	return types.Complaint{ID: "c1", Status: types.ComplaintOpen, CreatedAt: t0, UpdatedAt: t0}
}

func TestAdvance_FillsCheckpointsInOrder(t *testing.T) {
	c := openComplaint()

	r, err := Advance(&c, "Mr. Singh", t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, ReviewerWarden, r)
	require.NotNil(t, c.WardenReviewedAt)
	assert.Nil(t, c.AdminReviewedAt)
	assert.Nil(t, c.HigherManagementReviewedAt)
	assert.Equal(t, StageWardenReview, StageOf(c))

	warden := *c.WardenReviewedAt

	r, err = Advance(&c, "Admin Office", t0.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, ReviewerAdmin, r)
	require.NotNil(t, c.AdminReviewedAt)
	assert.Nil(t, c.HigherManagementReviewedAt)
	assert.Equal(t, warden, *c.WardenReviewedAt, "earlier checkpoint untouched")
	assert.Equal(t, StageAdminReview, StageOf(c))

	r, err = Advance(&c, "Dean", t0.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, ReviewerHigherManagement, r)
	require.NotNil(t, c.HigherManagementReviewedAt)
	assert.Equal(t, "Dean", c.HigherManagementReviewedBy)
	assert.Equal(t, StageHigherManagementReview, StageOf(c))

	before := c
	_, err = Advance(&c, "Anyone", t0.Add(4*time.Hour))
	assert.ErrorIs(t, err, ErrAlreadyFullyReviewed)
	assert.Equal(t, before, c)

	assert.Equal(t, types.ComplaintOpen, c.Status, "advance never touches status")
	assert.NoError(t, CheckCheckpoints(c))
}

func TestAdvance_RefusesTerminalComplaints(t *testing.T) {
	for _, s := range []types.ComplaintStatus{types.ComplaintResolved, types.ComplaintClosed} {
		c := openComplaint()
		c.Status = s
		_, err := Advance(&c, "Warden", t0)
		assert.ErrorIs(t, err, ErrInvalidTransition, s)
		assert.Nil(t, c.WardenReviewedAt)
	}
}

func TestMarkResolved_ShortCircuitsReview(t *testing.T) {
	c := openComplaint()
	_, err := Advance(&c, "Warden", t0)
	require.NoError(t, err)

	require.NoError(t, MarkResolved(&c, t0.Add(time.Hour)))
	assert.Equal(t, types.ComplaintResolved, c.Status)
	assert.Nil(t, c.AdminReviewedAt)
	assert.Equal(t, StageResolved, StageOf(c))
	assert.Equal(t, t0.Add(time.Hour), c.UpdatedAt)
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		name  string
		from  types.ComplaintStatus
		apply func(c *types.Complaint) error
		want  types.ComplaintStatus
		ok    bool
	}{
		{"start open", types.ComplaintOpen, func(c *types.Complaint) error { return StartProgress(c, "Plumber", t0) }, types.ComplaintInProgress, true},
		{"start in-progress", types.ComplaintInProgress, func(c *types.Complaint) error { return StartProgress(c, "", t0) }, types.ComplaintInProgress, false},
		{"resolve open", types.ComplaintOpen, func(c *types.Complaint) error { return MarkResolved(c, t0) }, types.ComplaintResolved, true},
		{"resolve in-progress", types.ComplaintInProgress, func(c *types.Complaint) error { return MarkResolved(c, t0) }, types.ComplaintResolved, true},
		{"resolve resolved", types.ComplaintResolved, func(c *types.Complaint) error { return MarkResolved(c, t0) }, types.ComplaintResolved, false},
		{"resolve closed", types.ComplaintClosed, func(c *types.Complaint) error { return MarkResolved(c, t0) }, types.ComplaintClosed, false},
		{"close resolved", types.ComplaintResolved, func(c *types.Complaint) error { return Close(c, t0) }, types.ComplaintClosed, true},
		{"close open", types.ComplaintOpen, func(c *types.Complaint) error { return Close(c, t0) }, types.ComplaintOpen, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := openComplaint()
			c.Status = tt.from

			err := tt.apply(&c)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			}
			assert.Equal(t, tt.want, c.Status)
		})
	}
}

func TestStartProgress_RecordsAssignee(t *testing.T) {
	c := openComplaint()
	require.NoError(t, StartProgress(&c, "Maintenance team", t0))
	assert.Equal(t, "Maintenance team", c.AssignedTo)
}

func TestStageOf(t *testing.T) {
	at := t0
	tests := []struct {
		name string
		c    types.Complaint
		want Stage
	}{
		{"fresh", openComplaint(), StageOpen},
		{"in progress unreviewed", types.Complaint{Status: types.ComplaintInProgress}, StageOpen},
		{"admin reviewed", types.Complaint{Status: types.ComplaintInProgress, WardenReviewedAt: &at, AdminReviewedAt: &at}, StageAdminReview},
		{"resolved wins over checkpoints", types.Complaint{Status: types.ComplaintResolved, WardenReviewedAt: &at}, StageResolved},
		{"closed", types.Complaint{Status: types.ComplaintClosed}, StageClosed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StageOf(tt.c))
		})
	}
	assert.True(t, Terminal(StageResolved))
	assert.True(t, Terminal(StageClosed))
	assert.False(t, Terminal(StageHigherManagementReview))
}

func TestNextReviewer(t *testing.T) {
	at := t0
	c := openComplaint()
	r, ok := NextReviewer(c)
	assert.True(t, ok)
	assert.Equal(t, ReviewerWarden, r)

	c.WardenReviewedAt, c.AdminReviewedAt, c.HigherManagementReviewedAt = &at, &at, &at
	_, ok = NextReviewer(c)
	assert.False(t, ok)
}

func TestTransitions_RefuseOutOfOrderCheckpoints(t *testing.T) {
	at := t0
	c := openComplaint()
	c.AdminReviewedAt, c.AdminReviewedBy = &at, "Admin Office"
	before := c

	_, err := Advance(&c, "Warden", t0.Add(time.Hour))
	assert.ErrorIs(t, err, ErrCheckpointOrder)
	assert.ErrorIs(t, MarkResolved(&c, t0.Add(time.Hour)), ErrCheckpointOrder)
	assert.Equal(t, before, c)
}

func TestCheckCheckpoints(t *testing.T) {
	at := t0
	assert.NoError(t, CheckCheckpoints(openComplaint()))
	assert.ErrorIs(t, CheckCheckpoints(types.Complaint{AdminReviewedAt: &at}), ErrCheckpointOrder)
	assert.ErrorIs(t, CheckCheckpoints(types.Complaint{WardenReviewedAt: &at, HigherManagementReviewedAt: &at}), ErrCheckpointOrder)
}
