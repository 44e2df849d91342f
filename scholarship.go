package tuition

import (
	"context"

	"github.com/xraph/tuition/types"
)

// ──────────────────────────────────────────────────
// Scholarships
// ──────────────────────────────────────────────────

// ScholarshipRefund is one partial refund triggered by a scholarship
// increase.
type ScholarshipRefund struct {
	PaymentID int64       `json:"payment_id"`
	Amount    types.Money `json:"amount"`
}

// ScholarshipResult describes the outcome of a scholarship change.
type ScholarshipResult struct {
	Wallet      string              `json:"wallet"`
	Percent     int                 `json:"percent"`
	RefundTotal types.Money         `json:"refund_total"`
	Refunds     []ScholarshipRefund `json:"refunds,omitempty"`
}

// ApplyScholarship sets a wallet's scholarship percent. Increasing the
// percent retroactively refunds part of every live payment: for each one the
// refund is the fee difference under the old and new percent, clamped to the
// payment's remaining balance. Decreasing the percent never claws money
// back; it only affects future fees.
//
// All partial refunds settle as one transfer. If the transfer fails nothing
// commits: the percent and every payment stay as they were.
func (l *Ledger) ApplyScholarship(ctx context.Context, wallet string, percent int) (*ScholarshipResult, error) {
	if percent < 0 || percent > 100 {
		return nil, ErrInvalidPercentage
	}

	// Stage: compute the per-payment refund deltas under the lock.
	l.mu.Lock()
	st, ok := l.students[wallet]
	if !ok {
		l.mu.Unlock()
		return nil, ErrNotRegistered
	}
	current := st.ScholarshipPercent

	type staged struct {
		paymentID int64
		amount    types.Money
	}
	var stagedRefunds []staged
	total := types.Zero(l.currency)

	if percent > current {
		for _, p := range l.payments {
			if p.Wallet != wallet || !p.Refundable() {
				continue
			}
			if _, inflight := l.refunding[p.ID]; inflight {
				continue
			}
			sched, ok := l.schedules[p.Semester]
			if !ok {
				continue
			}
			delta := sched.Discounted(current).Subtract(sched.Discounted(percent))
			if !delta.IsPositive() {
				continue
			}
			refund := delta.Min(p.Remaining)
			// Reserve the payment so a full refund cannot consume its
			// remaining balance between stage and commit.
			l.refunding[p.ID] = struct{}{}
			stagedRefunds = append(stagedRefunds, staged{paymentID: p.ID, amount: refund})
			total = total.Add(refund)
		}
	}
	l.mu.Unlock()

	// Transfer: one settlement movement covers every staged refund. Nothing
	// has committed yet, so a failure only releases the reservations.
	if total.IsPositive() {
		if err := l.settler.Refund(ctx, wallet, total); err != nil {
			l.mu.Lock()
			for _, sr := range stagedRefunds {
				delete(l.refunding, sr.paymentID)
			}
			l.mu.Unlock()
			return nil, err
		}
	}

	// Commit. Staged payments are reserved, so remaining has not moved since
	// staging and each staged amount still fits.
	l.mu.Lock()
	st.ScholarshipPercent = percent
	st.UpdatedAt = l.clock()
	result := &ScholarshipResult{
		Wallet:      wallet,
		Percent:     percent,
		RefundTotal: total,
	}
	for _, sr := range stagedRefunds {
		p := l.payments[sr.paymentID]
		delete(l.refunding, sr.paymentID)
		p.Remaining = p.Remaining.Subtract(sr.amount)
		result.Refunds = append(result.Refunds, ScholarshipRefund{
			PaymentID: sr.paymentID,
			Amount:    sr.amount,
		})
	}
	if total.IsPositive() {
		l.totalRefunded = l.totalRefunded.Add(total)
	}
	l.mu.Unlock()

	l.markDirty()
	for _, r := range result.Refunds {
		l.plugins.EmitScholarshipRefund(ctx, wallet, r.PaymentID, r.Amount.Amount)
	}
	l.plugins.EmitScholarshipApplied(ctx, wallet, percent, total.Amount)

	l.logger.Info("scholarship applied",
		"wallet", wallet,
		"percent", percent,
		"previous_percent", current,
		"refund_total", total.String(),
		"payments_touched", len(result.Refunds),
	)

	return result, nil
}

// GetScholarship returns a wallet's current scholarship percent.
func (l *Ledger) GetScholarship(_ context.Context, wallet string) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	st, ok := l.students[wallet]
	if !ok {
		return 0, ErrNotRegistered
	}
	return st.ScholarshipPercent, nil
}
