package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy is a capped exponential backoff with jitter.
type Policy struct {
	Base       time.Duration
	Max        time.Duration
	MaxRetries uint
}

func DefaultPolicy() *Policy {
	return &Policy{
		Base:       100 * time.Millisecond,
		Max:        10 * time.Second,
		MaxRetries: 5,
	}
}

// BackOff returns a fresh backoff bound to ctx. A nil policy never retries.
func (p *Policy) BackOff(ctx context.Context) backoff.BackOff {
	if p == nil || p.MaxRetries == 0 {
		return backoff.WithContext(&backoff.StopBackOff{}, ctx)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.Base
	b.MaxInterval = p.Max
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(p.MaxRetries)), ctx)
}

// Do runs operation until it succeeds, returns a permanent error or the policy gives up.
func Do[T any](ctx context.Context, p *Policy, operation func() (T, error)) (T, error) {
	return backoff.RetryWithData(operation, p.BackOff(ctx))
}

// Permanent marks err as not worth retrying inside Do.
func Permanent(err error) error {
	return backoff.Permanent(err)
}
