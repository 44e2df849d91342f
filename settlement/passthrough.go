package settlement

import (
	"context"

	"github.com/xraph/tuition/types"
)

// PassThrough is a Settler that forwards accepted payments straight to the
// institution instead of pooling them. Nothing is retained, so Available is
// always zero and refunds are assumed to be funded out of band; they never
// fail for lack of balance.
//
// Use this mode when an external treasury guarantees refund liquidity and
// the ledger should not act as custodian.
type PassThrough struct {
	currency string
}

// NewPassThrough creates a pass-through settler in the given currency.
func NewPassThrough(currency string) *PassThrough {
	return &PassThrough{currency: currency}
}

// Settle forwards the amount; nothing is retained.
func (p *PassThrough) Settle(_ context.Context, _ string, _ types.Money) error {
	return nil
}

// Refund is funded externally and always succeeds.
func (p *PassThrough) Refund(_ context.Context, _ string, _ types.Money) error {
	return nil
}

// Available is always zero in pass-through mode.
func (p *PassThrough) Available() types.Money {
	return types.Zero(p.currency)
}
