// Package fees handles payment state of student fees.
package fees

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

var ErrAlreadyPaid = errors.New("fee already paid")

type Service struct {
	fees    *records.Table[types.Fee]
	now     func() time.Time
	log     *slog.Logger
	metrics *metrics.Metrics
}

func NewService(fees *records.Table[types.Fee], log *slog.Logger, m *metrics.Metrics) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{fees: fees, now: time.Now, log: log, metrics: m}
}

// WithClock replaces the time source; used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create stores a new fee. A fee is pending unless the caller created
// it already paid, in which case a missing paid date defaults to now.
func (s *Service) Create(ctx context.Context, f types.Fee) (types.Fee, error) {
	f.ID = uuid.NewString()
	switch f.Status {
	case "":
		f.Status = types.FeePending
	case types.FeePaid:
		if f.PaidDate == nil {
			now := s.now().UTC()
			f.PaidDate = &now
		}
	}
	if f.Status != types.FeePaid {
		f.PaidDate = nil
	}
	created, err := s.fees.Create(ctx, f)
	if err != nil {
		return types.Fee{}, fmt.Errorf("fees.Create: %w", err)
	}
	return created, nil
}

// MarkPaid records payment. paidDate defaults to now.
func (s *Service) MarkPaid(ctx context.Context, id string, paidDate *time.Time) (types.Fee, error) {
	at := s.now().UTC()
	if paidDate != nil {
		at = *paidDate
	}
	updated, err := s.fees.Update(ctx, id, func(f *types.Fee) error {
		if f.Status == types.FeePaid {
			return ErrAlreadyPaid
		}
		f.Status = types.FeePaid
		f.PaidDate = &at
		return nil
	})
	s.metrics.Transition("fee_pay", err)
	if err != nil {
		return types.Fee{}, fmt.Errorf("fees.MarkPaid %s: %w", id, err)
	}
	s.log.Info("fee paid", slog.String("id", id), slog.Float64("amount", updated.Amount))
	return updated, nil
}

// SweepOverdue marks every pending fee due before now as overdue and
// returns how many changed.
func (s *Service) SweepOverdue(ctx context.Context) (int, error) {
	now := s.now()
	n, err := s.fees.UpdateAll(ctx, func(f *types.Fee) bool {
		if f.Status != types.FeePending || !f.DueDate.Before(now) {
			return false
		}
		f.Status = types.FeeOverdue
		return true
	})
	if err != nil {
		return 0, fmt.Errorf("fees.SweepOverdue: %w", err)
	}
	s.metrics.FeesOverdue(n)
	if n > 0 {
		s.log.Info("fees marked overdue", slog.Int("count", n))
	}
	return n, nil
}
