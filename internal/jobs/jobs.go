// Package jobs runs periodic maintenance on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper is a job that reports how many records it touched.
type Sweeper func(ctx context.Context) (int, error)

// Scheduler wraps a cron runner.
type Scheduler struct {
	cron    *cron.Cron
	log     *slog.Logger
	timeout time.Duration
}

func NewScheduler(log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{
		cron:    cron.New(),
		log:     log,
		timeout: time.Minute,
	}
}

// Add registers job under name to run on spec (standard 5-field cron
// or a descriptor like "@hourly"). An empty spec disables the job.
func (s *Scheduler) Add(name, spec string, job Sweeper) error {
	if spec == "" {
		s.log.Info("job disabled", slog.String("job", name))
		return nil
	}
	_, err := s.cron.AddFunc(spec, func() { s.run(name, job) })
	if err != nil {
		return fmt.Errorf("jobs.Add %s %q: %w", name, spec, err)
	}
	s.log.Info("job scheduled", slog.String("job", name), slog.String("spec", spec))
	return nil
}

func (s *Scheduler) run(name string, job Sweeper) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	n, err := job(ctx)
	if err != nil {
		s.log.Error("job failed",
			slog.String("job", name),
			slog.String("error", err.Error()))
		return
	}
	s.log.Debug("job finished",
		slog.String("job", name),
		slog.Int("touched", n),
		slog.Duration("took", time.Since(start)))
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts the scheduler and waits for running jobs to finish or
// ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}
