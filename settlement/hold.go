package settlement

import (
	"context"
	"sync"

	"github.com/xraph/tuition/types"
)

// Hold is a Settler that retains accepted payments in an internal pool and
// pays refunds out of that pool. A refund larger than the pool balance fails
// with ErrInsufficientFunds.
//
// This is the default settlement mode: because every payment is held until
// refunded, the pool can always cover refunds for money it actually
// received, and a shortfall indicates external drain or misconfiguration.
type Hold struct {
	mu       sync.Mutex
	balance  types.Money
	currency string
}

// NewHold creates a hold-mode settler with a zero pool in the given currency.
func NewHold(currency string) *Hold {
	return &Hold{
		balance:  types.Zero(currency),
		currency: currency,
	}
}

// Settle adds the payment amount to the pool.
func (h *Hold) Settle(_ context.Context, _ string, amount types.Money) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.balance = h.balance.Add(amount)
	return nil
}

// Refund removes the amount from the pool, failing if the pool is short.
func (h *Hold) Refund(_ context.Context, _ string, amount types.Money) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.balance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	h.balance = h.balance.Subtract(amount)
	return nil
}

// Available returns the current pool balance.
func (h *Hold) Available() types.Money {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.balance
}
