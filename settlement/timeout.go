package settlement

import (
	"context"
	"time"

	"github.com/xraph/tuition/types"
)

// WithTimeout wraps a Settler so every transfer must confirm within d.
// A transfer that misses the deadline fails with ErrTransferTimeout and the
// calling ledger operation aborts without committing.
func WithTimeout(s Settler, d time.Duration) Settler {
	if d <= 0 {
		return s
	}
	return &timeoutSettler{inner: s, d: d}
}

type timeoutSettler struct {
	inner Settler
	d     time.Duration
}

func (t *timeoutSettler) Settle(ctx context.Context, wallet string, amount types.Money) error {
	return t.guard(ctx, func(ctx context.Context) error {
		return t.inner.Settle(ctx, wallet, amount)
	})
}

func (t *timeoutSettler) Refund(ctx context.Context, wallet string, amount types.Money) error {
	return t.guard(ctx, func(ctx context.Context) error {
		return t.inner.Refund(ctx, wallet, amount)
	})
}

func (t *timeoutSettler) Available() types.Money {
	return t.inner.Available()
}

func (t *timeoutSettler) guard(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- fn(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return ErrTransferTimeout
		}
		return ctx.Err()
	}
}
