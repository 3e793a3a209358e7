package storage

import (
	"context"
	"log/slog"
	"time"
)

// RetryPolicy controls how Retrying backs off.
type RetryPolicy struct {
	// Attempts is the total number of tries, including the first.
	Attempts int
	// BaseDelay is the wait before the second try; it doubles each time.
	BaseDelay time.Duration
}

// Retrying wraps a Storage and retries calls that fail with a transient
// error. Version conflicts are NOT retried here: the caller has to
// re-read before it can write again.
type Retrying struct {
	next    Storage
	policy  RetryPolicy
	log     *slog.Logger
	onRetry func(op string)
}

// NewRetrying wraps next. onRetry may be nil; it is called once per
// retry and is how the metrics package counts them.
func NewRetrying(next Storage, policy RetryPolicy, log *slog.Logger, onRetry func(op string)) *Retrying {
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Retrying{next: next, policy: policy, log: log, onRetry: onRetry}
}

func (r *Retrying) Get(ctx context.Context, kind Kind) (Collection, error) {
	var col Collection
	err := r.do(ctx, "get", func() error {
		var err error
		col, err = r.next.Get(ctx, kind)
		return err
	})
	return col, err
}

func (r *Retrying) Put(ctx context.Context, cols ...Collection) error {
	return r.do(ctx, "put", func() error {
		return r.next.Put(ctx, cols...)
	})
}

func (r *Retrying) Close() error {
	return r.next.Close()
}

func (r *Retrying) do(ctx context.Context, op string, fn func() error) error {
	delay := r.policy.BaseDelay
	var err error
	for attempt := 1; ; attempt++ {
		err = fn()
		if err == nil || !IsTransient(err) || attempt >= r.policy.Attempts {
			return err
		}

		r.log.Warn("store call failed, retrying",
			slog.String("op", op),
			slog.Int("attempt", attempt),
			slog.Duration("backoff", delay),
			slog.String("error", err.Error()))
		if r.onRetry != nil {
			r.onRetry(op)
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
}
