package settlement

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/xraph/tuition/types"
)

func TestHoldSettleAndRefund(t *testing.T) {
	ctx := context.Background()
	h := NewHold("USD")

	if !h.Available().IsZero() {
		t.Fatalf("new pool should be empty, got %s", h.Available())
	}

	if err := h.Settle(ctx, "0xabc", types.USD(100_000)); err != nil {
		t.Fatalf("Settle() error = %v", err)
	}
	if got := h.Available().Amount; got != 100_000 {
		t.Errorf("Available() = %d, want 100000", got)
	}

	if err := h.Refund(ctx, "0xabc", types.USD(30_000)); err != nil {
		t.Fatalf("Refund() error = %v", err)
	}
	if got := h.Available().Amount; got != 70_000 {
		t.Errorf("Available() = %d, want 70000", got)
	}
}

func TestHoldRefundInsufficientFunds(t *testing.T) {
	ctx := context.Background()
	h := NewHold("USD")

	if err := h.Settle(ctx, "0xabc", types.USD(100)); err != nil {
		t.Fatalf("Settle() error = %v", err)
	}

	err := h.Refund(ctx, "0xabc", types.USD(101))
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("Refund() error = %v, want ErrInsufficientFunds", err)
	}

	// Failed refund must not change the pool.
	if got := h.Available().Amount; got != 100 {
		t.Errorf("Available() = %d after failed refund, want 100", got)
	}
}

func TestHoldConcurrentSettle(t *testing.T) {
	ctx := context.Background()
	h := NewHold("USD")

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = h.Settle(ctx, "0xabc", types.USD(10))
		}()
	}
	wg.Wait()

	if got := h.Available().Amount; got != workers*10 {
		t.Errorf("Available() = %d, want %d", got, workers*10)
	}
}

func TestPassThrough(t *testing.T) {
	ctx := context.Background()
	p := NewPassThrough("USD")

	if err := p.Settle(ctx, "0xabc", types.USD(100_000)); err != nil {
		t.Fatalf("Settle() error = %v", err)
	}
	if !p.Available().IsZero() {
		t.Errorf("pass-through Available() = %s, want zero", p.Available())
	}

	// Refunds are funded out of band and never fail on balance.
	if err := p.Refund(ctx, "0xabc", types.USD(1_000_000)); err != nil {
		t.Errorf("Refund() error = %v, want nil", err)
	}
}

type slowSettler struct {
	delay time.Duration
}

func (s *slowSettler) Settle(ctx context.Context, _ string, _ types.Money) error {
	select {
	case <-time.After(s.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *slowSettler) Refund(ctx context.Context, _ string, _ types.Money) error {
	select {
	case <-time.After(s.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *slowSettler) Available() types.Money { return types.Zero("USD") }

func TestWithTimeout(t *testing.T) {
	ctx := context.Background()

	fast := WithTimeout(&slowSettler{delay: time.Millisecond}, time.Second)
	if err := fast.Settle(ctx, "0xabc", types.USD(100)); err != nil {
		t.Errorf("fast Settle() error = %v", err)
	}

	slow := WithTimeout(&slowSettler{delay: time.Second}, 10*time.Millisecond)
	err := slow.Refund(ctx, "0xabc", types.USD(100))
	if !errors.Is(err, ErrTransferTimeout) {
		t.Errorf("slow Refund() error = %v, want ErrTransferTimeout", err)
	}
}

func TestWithTimeoutZeroDisables(t *testing.T) {
	h := NewHold("USD")
	if got := WithTimeout(h, 0); got != Settler(h) {
		t.Error("WithTimeout(s, 0) should return s unchanged")
	}
}
