package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aanand-mishra/hostel-api/internal/metrics"
	"github.com/aanand-mishra/hostel-api/internal/records"
	"github.com/aanand-mishra/hostel-api/internal/types"
	"github.com/google/uuid"
)

// Service runs workflow operations against the complaints table.
type Service struct {
	complaints *records.Table[types.Complaint]
	now        func() time.Time
	log        *slog.Logger
	metrics    *metrics.Metrics
}

func NewService(complaints *records.Table[types.Complaint], log *slog.Logger, m *metrics.Metrics) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{complaints: complaints, now: time.Now, log: log, metrics: m}
}

// WithClock replaces the time source; used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create files a new complaint. Workflow-owned fields are reset: the
// complaint starts open with no checkpoints and no assignee.
func (s *Service) Create(ctx context.Context, c types.Complaint) (types.Complaint, error) {
	now := s.now().UTC()
	c.ID = uuid.NewString()
	c.Status = types.ComplaintOpen
	c.CreatedAt, c.UpdatedAt = now, now
	c.AssignedTo = ""
	c.WardenReviewedAt, c.WardenReviewedBy = nil, ""
	c.AdminReviewedAt, c.AdminReviewedBy = nil, ""
	c.HigherManagementReviewedAt, c.HigherManagementReviewedBy = nil, ""

	created, err := s.complaints.Create(ctx, c)
	if err != nil {
		return types.Complaint{}, fmt.Errorf("workflow.Create: %w", err)
	}
	s.log.Info("complaint filed",
		slog.String("id", created.ID),
		slog.String("category", string(created.Category)))
	return created, nil
}

// Edit replaces the free-text and classification fields of a complaint.
// Status, checkpoints and assignment only change through the workflow
// operations.
func (s *Service) Edit(ctx context.Context, id string, edit types.Complaint) (types.Complaint, error) {
	updated, err := s.complaints.Update(ctx, id, func(c *types.Complaint) error {
		c.Title = edit.Title
		c.Description = edit.Description
		c.Category = edit.Category
		c.Priority = edit.Priority
		c.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return types.Complaint{}, fmt.Errorf("workflow.Edit: %w", err)
	}
	return updated, nil
}

func (s *Service) transition(ctx context.Context, action, id string, fn func(c *types.Complaint, now time.Time) error) (types.Complaint, error) {
	updated, err := s.complaints.Update(ctx, id, func(c *types.Complaint) error {
		return fn(c, s.now().UTC())
	})
	s.metrics.Transition("complaint_"+action, err)
	if err != nil {
		return types.Complaint{}, fmt.Errorf("workflow.%s %s: %w", action, id, err)
	}
	s.log.Info("complaint transition",
		slog.String("id", id),
		slog.String("action", action),
		slog.String("stage", string(StageOf(updated))))
	return updated, nil
}

// Advance forwards the complaint to the next reviewer and returns which
// checkpoint was filled.
func (s *Service) Advance(ctx context.Context, id, reviewer string) (types.Complaint, Reviewer, error) {
	var filled Reviewer
	c, err := s.transition(ctx, "advance", id, func(c *types.Complaint, now time.Time) error {
		var err error
		filled, err = Advance(c, reviewer, now)
		return err
	})
	return c, filled, err
}

func (s *Service) StartProgress(ctx context.Context, id, assignee string) (types.Complaint, error) {
	return s.transition(ctx, "start", id, func(c *types.Complaint, now time.Time) error {
		return StartProgress(c, assignee, now)
	})
}

func (s *Service) Resolve(ctx context.Context, id string) (types.Complaint, error) {
	return s.transition(ctx, "resolve", id, MarkResolved)
}

func (s *Service) Close(ctx context.Context, id string) (types.Complaint, error) {
	return s.transition(ctx, "close", id, Close)
}
