// Package settlement defines how accepted tuition money moves between the
// paying student and the institution. The ledger core never touches funds
// directly; it stages a state change, asks the Settler to move money, and
// commits only after the transfer succeeds.
package settlement

import (
	"context"
	"errors"

	"github.com/xraph/tuition/types"
)

// Sentinel errors returned by settlers.
var (
	// ErrInsufficientFunds means the settlement pool cannot cover a refund.
	ErrInsufficientFunds = errors.New("settlement: insufficient funds")

	// ErrTransferTimeout means a transfer did not confirm within the
	// configured deadline.
	ErrTransferTimeout = errors.New("settlement: transfer timeout")
)

// Settler moves money in and out of the institution's settlement pool.
//
// Settle is called when a tuition payment is accepted: the gross amount
// enters the pool. Refund is called for both retroactive scholarship
// refunds and full refunds: the amount leaves the pool back to the wallet.
// Available reports the current pool balance.
//
// Implementations must be safe for concurrent use. An error from Settle or
// Refund aborts the ledger operation that triggered it; no state is
// committed until the transfer confirms.
type Settler interface {
	Settle(ctx context.Context, wallet string, amount types.Money) error
	Refund(ctx context.Context, wallet string, amount types.Money) error
	Available() types.Money
}
