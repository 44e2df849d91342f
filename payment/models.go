package payment

import (
	"time"

	"github.com/xraph/tuition/types"
)

// Payment is one tuition payment. Ids are sequential, 1-based, allocated by
// the ledger and never reused. Exactly one Payment exists per
// (wallet, semester) pair.
//
// Gross is the amount the student paid; Remaining is the portion not yet
// returned. Scholarship increases decrement Remaining through partial
// refunds; a full refund zeroes it and sets Refunded. The invariants
// 0 <= Remaining <= Gross and Refunded => Remaining == 0 hold at all times.
// Remaining reaching zero through partial refunds alone does not set
// Refunded.
type Payment struct {
	ID        int64       `json:"id"`
	Wallet    string      `json:"wallet"`
	Semester  string      `json:"semester"`
	Gross     types.Money `json:"gross"`
	Remaining types.Money `json:"remaining"`
	Paid      bool        `json:"paid"`
	Refunded  bool        `json:"refunded"`
	Timestamp time.Time   `json:"timestamp"`
}

// Refundable reports whether scholarship logic may still touch this payment.
// Fully refunded payments are terminal.
func (p *Payment) Refundable() bool {
	return p.Paid && !p.Refunded && p.Remaining.IsPositive()
}

// RefundedTotal returns the portion of the gross already returned.
func (p *Payment) RefundedTotal() types.Money {
	return p.Gross.Subtract(p.Remaining)
}
