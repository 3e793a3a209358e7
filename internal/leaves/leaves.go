// Package leaves implements approval of student leave requests.
//
// A request starts pending and is decided exactly once.
package leaves

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aanand-mishra/hostel-api/internal/metrics"
	"github.com/aanand-mishra/hostel-api/internal/records"
	"github.com/aanand-mishra/hostel-api/internal/types"
	"github.com/google/uuid"
)

var ErrAlreadyDecided = errors.New("leave request already decided")

type Service struct {
	leaves  *records.Table[types.LeaveRequest]
	now     func() time.Time
	log     *slog.Logger
	metrics *metrics.Metrics
}

func NewService(leaves *records.Table[types.LeaveRequest], log *slog.Logger, m *metrics.Metrics) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{leaves: leaves, now: time.Now, log: log, metrics: m}
}

// WithClock replaces the time source; used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create files a pending leave request.
func (s *Service) Create(ctx context.Context, l types.LeaveRequest) (types.LeaveRequest, error) {
	l.ID = uuid.NewString()
	l.Status = types.LeavePending
	l.CreatedAt = s.now().UTC()
	l.ApprovedBy, l.ApprovedAt = "", nil

	created, err := s.leaves.Create(ctx, l)
	if err != nil {
		return types.LeaveRequest{}, fmt.Errorf("leaves.Create: %w", err)
	}
	return created, nil
}

func (s *Service) Approve(ctx context.Context, id, approver string) (types.LeaveRequest, error) {
	return s.decide(ctx, id, approver, types.LeaveApproved)
}

func (s *Service) Reject(ctx context.Context, id, approver string) (types.LeaveRequest, error) {
	return s.decide(ctx, id, approver, types.LeaveRejected)
}

func (s *Service) decide(ctx context.Context, id, approver string, to types.LeaveStatus) (types.LeaveRequest, error) {
	now := s.now().UTC()
	updated, err := s.leaves.Update(ctx, id, func(l *types.LeaveRequest) error {
		if l.Status != types.LeavePending {
			return fmt.Errorf("%s request: %w", l.Status, ErrAlreadyDecided)
		}
		l.Status = to
		l.ApprovedBy = approver
		l.ApprovedAt = &now
		return nil
	})
	s.metrics.Transition("leave_"+string(to), err)
	if err != nil {
		return types.LeaveRequest{}, fmt.Errorf("leaves.decide %s: %w", id, err)
	}
	s.log.Info("leave request decided",
		slog.String("id", id),
		slog.String("status", string(to)),
		slog.String("by", approver))
	return updated, nil
}
