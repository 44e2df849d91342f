package tuition

import (
	"context"
	"sort"

	"github.com/xraph/tuition/payment"
	"github.com/xraph/tuition/types"
)

// ──────────────────────────────────────────────────
// Tuition Payments
// ──────────────────────────────────────────────────

// PayTuition accepts a tuition payment for a semester. The amount must cover
// the wallet's discounted fee; the gross recorded is the full amount paid.
// Exactly one payment can exist per (wallet, semester) pair.
//
// The payment commits only after the settlement transfer confirms: the pair
// is reserved, money moves, then state is written. A failed transfer releases
// the reservation and leaves the ledger untouched.
func (l *Ledger) PayTuition(ctx context.Context, wallet, semester string, amount types.Money) (*payment.Payment, error) {
	if amount.Currency != l.currency {
		return nil, ValidationError{Field: "amount", Message: "currency mismatch"}
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	key := paymentKey{wallet: wallet, semester: semester}

	// Stage: validate and reserve the payment slot.
	l.mu.Lock()
	if _, ok := l.students[wallet]; !ok {
		l.mu.Unlock()
		return nil, ErrNotRegistered
	}
	sched, ok := l.schedules[semester]
	if !ok {
		l.mu.Unlock()
		return nil, ErrUnknownSemester
	}
	if !sched.Active {
		l.mu.Unlock()
		return nil, ErrInactiveSemester
	}
	if _, ok := l.paymentIdx[key]; ok {
		l.mu.Unlock()
		return nil, ErrAlreadyPaid
	}
	if _, ok := l.pending[key]; ok {
		l.mu.Unlock()
		return nil, ErrAlreadyPaid
	}

	due := sched.Discounted(l.students[wallet].ScholarshipPercent)
	if amount.LessThan(due) {
		l.mu.Unlock()
		return nil, ErrInsufficientAmount
	}

	l.pending[key] = struct{}{}
	l.mu.Unlock()

	// Transfer: nothing has committed yet, so a failure needs no rollback
	// beyond releasing the reservation.
	if err := l.settler.Settle(ctx, wallet, amount); err != nil {
		l.mu.Lock()
		delete(l.pending, key)
		l.mu.Unlock()
		return nil, err
	}

	// Commit.
	l.mu.Lock()
	delete(l.pending, key)
	p := &payment.Payment{
		ID:        l.nextPaymentID,
		Wallet:    wallet,
		Semester:  semester,
		Gross:     amount,
		Remaining: amount,
		Paid:      true,
		Timestamp: l.clock(),
	}
	l.nextPaymentID++
	l.payments[p.ID] = p
	l.paymentIdx[key] = p.ID
	l.totalCollected = l.totalCollected.Add(amount)
	l.mu.Unlock()

	l.markDirty()
	l.plugins.EmitPaymentReceived(ctx, p)

	l.logger.Info("tuition payment accepted",
		"payment_id", p.ID,
		"wallet", wallet,
		"semester", semester,
		"gross", amount.String(),
	)

	cp := *p
	return &cp, nil
}

// ProcessRefund returns the remaining balance of a payment to the student
// and marks the payment refunded. Refunded payments are terminal; a payment
// whose remaining balance was already consumed by scholarship refunds cannot
// be refunded again. A payment with a refund transfer already in flight
// (its own or a scholarship's) returns ErrRefundInFlight, which is
// retryable.
func (l *Ledger) ProcessRefund(ctx context.Context, paymentID int64) (*payment.Payment, error) {
	l.mu.Lock()
	p, ok := l.payments[paymentID]
	if !ok {
		l.mu.Unlock()
		return nil, ErrPaymentNotFound
	}
	if p.Refunded {
		l.mu.Unlock()
		return nil, ErrAlreadyRefunded
	}
	if !p.Remaining.IsPositive() {
		l.mu.Unlock()
		return nil, ErrNothingToRefund
	}
	if _, ok := l.refunding[paymentID]; ok {
		l.mu.Unlock()
		return nil, ErrRefundInFlight
	}
	l.refunding[paymentID] = struct{}{}
	wallet := p.Wallet
	refund := p.Remaining
	l.mu.Unlock()

	if err := l.settler.Refund(ctx, wallet, refund); err != nil {
		l.mu.Lock()
		delete(l.refunding, paymentID)
		l.mu.Unlock()
		return nil, err
	}

	l.mu.Lock()
	delete(l.refunding, paymentID)
	p.Remaining = types.Zero(l.currency)
	p.Refunded = true
	l.totalRefunded = l.totalRefunded.Add(refund)
	l.mu.Unlock()

	l.markDirty()
	l.plugins.EmitRefundProcessed(ctx, p)

	l.logger.Info("payment refunded",
		"payment_id", p.ID,
		"wallet", wallet,
		"semester", p.Semester,
		"refund", refund.String(),
	)

	cp := *p
	return &cp, nil
}

// RestorePayment reinserts a payment during restart reconciliation. No
// settlement transfer happens; the money already moved before the restart.
// Totals and the id high-water mark are recomputed from the record.
func (l *Ledger) RestorePayment(_ context.Context, p *payment.Payment) error {
	if p.ID < 1 {
		return ValidationError{Field: "id", Message: "must be positive"}
	}
	if p.Remaining.IsNegative() || p.Gross.LessThan(p.Remaining) {
		return ValidationError{Field: "remaining", Message: "must satisfy 0 <= remaining <= gross"}
	}
	if p.Refunded && p.Remaining.IsPositive() {
		return ValidationError{Field: "remaining", Message: "refunded payment must have zero remaining"}
	}

	key := paymentKey{wallet: p.Wallet, semester: p.Semester}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.students[p.Wallet]; !ok {
		return ErrNotRegistered
	}
	if _, ok := l.paymentIdx[key]; ok {
		return ErrAlreadyPaid
	}
	if _, ok := l.payments[p.ID]; ok {
		return ValidationError{Field: "id", Message: "payment id already in use"}
	}

	cp := *p
	l.payments[cp.ID] = &cp
	l.paymentIdx[key] = cp.ID
	if cp.ID >= l.nextPaymentID {
		l.nextPaymentID = cp.ID + 1
	}
	l.totalCollected = l.totalCollected.Add(cp.Gross)
	l.totalRefunded = l.totalRefunded.Add(cp.Gross.Subtract(cp.Remaining))
	return nil
}

// GetPayment returns a payment by its sequential id.
func (l *Ledger) GetPayment(_ context.Context, paymentID int64) (*payment.Payment, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	p, ok := l.payments[paymentID]
	if !ok {
		return nil, ErrPaymentNotFound
	}
	cp := *p
	return &cp, nil
}

// GetPaymentFor returns the payment a wallet made for a semester.
func (l *Ledger) GetPaymentFor(_ context.Context, wallet, semester string) (*payment.Payment, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	pid, ok := l.paymentIdx[paymentKey{wallet: wallet, semester: semester}]
	if !ok {
		return nil, ErrPaymentNotFound
	}
	cp := *l.payments[pid]
	return &cp, nil
}

// ListPaymentsByWallet returns all payments a wallet has made, ordered by id.
func (l *Ledger) ListPaymentsByWallet(_ context.Context, wallet string) []*payment.Payment {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]*payment.Payment, 0)
	for _, p := range l.payments {
		if p.Wallet == wallet {
			cp := *p
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// GetPaymentHistory returns count payments starting at id from. Payment ids
// are sequential and dense, so the range maps directly onto ids. The start
// must identify an existing payment and count must be positive; the range is
// clamped at the newest payment.
func (l *Ledger) GetPaymentHistory(_ context.Context, from, count int64) ([]*payment.Payment, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	last := l.nextPaymentID - 1
	if from < 1 || from > last || count < 1 {
		return nil, ErrInvalidRange
	}

	end := from + count - 1
	if end > last {
		end = last
	}

	result := make([]*payment.Payment, 0, end-from+1)
	for pid := from; pid <= end; pid++ {
		cp := *l.payments[pid]
		result = append(result, &cp)
	}
	return result, nil
}

// Summary aggregates ledger-wide financial state.
type Summary struct {
	TotalCollected types.Money `json:"total_collected"`
	TotalRefunded  types.Money `json:"total_refunded"`
	Net            types.Money `json:"net"`
	PaymentCount   int         `json:"payment_count"`
	StudentCount   int         `json:"student_count"`
	PoolBalance    types.Money `json:"pool_balance"`
}

// GetFinancialSummary returns collected and refunded totals along with the
// settlement pool balance.
func (l *Ledger) GetFinancialSummary(_ context.Context) *Summary {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return &Summary{
		TotalCollected: l.totalCollected,
		TotalRefunded:  l.totalRefunded,
		Net:            l.totalCollected.Subtract(l.totalRefunded),
		PaymentCount:   len(l.payments),
		StudentCount:   len(l.students),
		PoolBalance:    l.settler.Available(),
	}
}
