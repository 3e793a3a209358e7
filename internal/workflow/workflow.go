// Package workflow implements the complaint review chain.
//
// A complaint's stage is never stored. It is derived from its status
// and from which of the three review checkpoints are filled in:
//
//	Open → WardenReview → AdminReview → HigherManagementReview → Resolved → Closed
//
// Checkpoints are filled strictly in order by Advance. Status moves
// forward only: open → in-progress → resolved → closed. Resolution may
// short-circuit the review chain at any stage.
package workflow

import (
	"errors"
	"fmt"
	"time"

	"github.com/aanand-mishra/hostel-api/internal/types"
)

var (
	// ErrAlreadyFullyReviewed is returned by Advance when all three
	// checkpoints are set.
	ErrAlreadyFullyReviewed = errors.New("complaint already fully reviewed")

	// ErrInvalidTransition is returned for a status change the current
	// status does not allow.
	ErrInvalidTransition = errors.New("invalid complaint transition")

	// ErrCheckpointOrder means a later checkpoint is set while an
	// earlier one is not.
	ErrCheckpointOrder = errors.New("review checkpoints out of order")
)

// Stage is the derived position of a complaint in the workflow.
type Stage string

const (
	StageOpen                   Stage = "open"
	StageWardenReview           Stage = "warden-review"
	StageAdminReview            Stage = "admin-review"
	StageHigherManagementReview Stage = "higher-management-review"
	StageResolved               Stage = "resolved"
	StageClosed                 Stage = "closed"
)

// Reviewer names a checkpoint of the review chain.
type Reviewer string

const (
	ReviewerWarden           Reviewer = "Warden"
	ReviewerAdmin            Reviewer = "Admin"
	ReviewerHigherManagement Reviewer = "Higher Management"
)

// StageOf derives the stage of c. First match wins.
func StageOf(c types.Complaint) Stage {
	switch {
	case c.Status == types.ComplaintClosed:
		return StageClosed
	case c.Status == types.ComplaintResolved:
		return StageResolved
	case c.HigherManagementReviewedAt != nil:
		return StageHigherManagementReview
	case c.AdminReviewedAt != nil:
		return StageAdminReview
	case c.WardenReviewedAt != nil:
		return StageWardenReview
	default:
		return StageOpen
	}
}

// Terminal reports whether no further status change is possible from
// the complaint's point of view (resolved may still be closed).
func Terminal(s Stage) bool {
	return s == StageResolved || s == StageClosed
}

// NextReviewer returns the checkpoint Advance would fill next. ok is
// false when every checkpoint is already set.
func NextReviewer(c types.Complaint) (r Reviewer, ok bool) {
	switch {
	case c.WardenReviewedAt == nil:
		return ReviewerWarden, true
	case c.AdminReviewedAt == nil:
		return ReviewerAdmin, true
	case c.HigherManagementReviewedAt == nil:
		return ReviewerHigherManagement, true
	}
	return "", false
}

// Advance fills the next unset checkpoint with (at, reviewer). It never
// clears a checkpoint and does not touch Status. A complaint whose
// checkpoints are already out of order is refused.
func Advance(c *types.Complaint, reviewer string, at time.Time) (Reviewer, error) {
	if err := CheckCheckpoints(*c); err != nil {
		return "", err
	}
	if Terminal(StageOf(*c)) {
		return "", fmt.Errorf("advance %s complaint: %w", c.Status, ErrInvalidTransition)
	}

	next, ok := NextReviewer(*c)
	if !ok {
		return "", ErrAlreadyFullyReviewed
	}

	t := at
	switch next {
	case ReviewerWarden:
		c.WardenReviewedAt, c.WardenReviewedBy = &t, reviewer
	case ReviewerAdmin:
		c.AdminReviewedAt, c.AdminReviewedBy = &t, reviewer
	case ReviewerHigherManagement:
		c.HigherManagementReviewedAt, c.HigherManagementReviewedBy = &t, reviewer
	}
	c.UpdatedAt = at
	return next, nil
}

// StartProgress moves an open complaint to in-progress and records who
// it is assigned to.
func StartProgress(c *types.Complaint, assignee string, now time.Time) error {
	if c.Status != types.ComplaintOpen {
		return fmt.Errorf("start %s complaint: %w", c.Status, ErrInvalidTransition)
	}
	c.Status = types.ComplaintInProgress
	if assignee != "" {
		c.AssignedTo = assignee
	}
	c.UpdatedAt = now
	return nil
}

// MarkResolved resolves an open or in-progress complaint. The review
// chain does not have to be complete.
func MarkResolved(c *types.Complaint, now time.Time) error {
	if c.Status != types.ComplaintOpen && c.Status != types.ComplaintInProgress {
		return fmt.Errorf("resolve %s complaint: %w", c.Status, ErrInvalidTransition)
	}
	if err := CheckCheckpoints(*c); err != nil {
		return err
	}
	c.Status = types.ComplaintResolved
	c.UpdatedAt = now
	return nil
}

// Close closes a resolved complaint.
func Close(c *types.Complaint, now time.Time) error {
	if c.Status != types.ComplaintResolved {
		return fmt.Errorf("close %s complaint: %w", c.Status, ErrInvalidTransition)
	}
	c.Status = types.ComplaintClosed
	c.UpdatedAt = now
	return nil
}

// CheckCheckpoints verifies that no checkpoint is set ahead of an
// earlier one.
func CheckCheckpoints(c types.Complaint) error {
	if c.AdminReviewedAt != nil && c.WardenReviewedAt == nil {
		return fmt.Errorf("admin review without warden review: %w", ErrCheckpointOrder)
	}
	if c.HigherManagementReviewedAt != nil && c.AdminReviewedAt == nil {
		return fmt.Errorf("higher management review without admin review: %w", ErrCheckpointOrder)
	}
	return nil
}
