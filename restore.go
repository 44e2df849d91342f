package tuition

import (
	"context"
	"fmt"

	"github.com/xraph/tuition/fee"
	"github.com/xraph/tuition/id"
	"github.com/xraph/tuition/payment"
	"github.com/xraph/tuition/snapshot"
	"github.com/xraph/tuition/student"
	"github.com/xraph/tuition/types"
)

// ReplayResult records the outcome of replaying one snapshot record.
type ReplayResult struct {
	Collection string `json:"collection"`
	Key        string `json:"key"`
	Err        error  `json:"-"`
}

// OK reports whether the record replayed cleanly.
func (r ReplayResult) OK() bool { return r.Err == nil }

// RestoreReport summarizes a restart reconciliation.
type RestoreReport struct {
	Restored int            `json:"restored"`
	Failed   int            `json:"failed"`
	Results  []ReplayResult `json:"results"`
}

func (r *RestoreReport) add(collection, key string, err error) {
	r.Results = append(r.Results, ReplayResult{Collection: collection, Key: key, Err: err})
	if err == nil {
		r.Restored++
	} else {
		r.Failed++
	}
}

// restore rebuilds ledger state from the latest snapshot. Replay order
// matters: fee schedules first, then students, then scholarship percents,
// then payments, so a restored payment finds its schedule and its wallet's
// discount already in place and never triggers a spurious refund. Requests
// replay last; they reference nothing else.
//
// Replay continues past individual bad records. Returns nil when no snapshot
// exists.
func (l *Ledger) restore(ctx context.Context) (*RestoreReport, error) {
	doc, err := l.snapshots.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("tuition: load snapshot: %w", err)
	}
	if doc == nil {
		l.logger.Info("no snapshot found, starting empty")
		return nil, nil
	}

	report := &RestoreReport{}

	for _, rec := range doc.FeeSchedules {
		report.add("fee_schedules", rec.Semester, l.restoreFeeSchedule(rec))
	}
	for _, rec := range doc.Students {
		report.add("students", rec.Wallet, l.restoreStudent(rec))
	}
	for _, rec := range doc.Scholarships {
		report.add("scholarships", rec.Wallet, l.restoreScholarship(rec))
	}
	for _, rec := range doc.Payments {
		report.add("payments", fmt.Sprintf("%d", rec.ID), l.restorePaymentRecord(ctx, rec))
	}
	for _, rec := range doc.Requests {
		report.add("requests", rec.ID, l.restoreRequest(rec))
	}

	for _, res := range report.Results {
		if res.Err != nil {
			l.logger.Warn("snapshot record skipped",
				"collection", res.Collection,
				"key", res.Key,
				"error", res.Err,
			)
		}
	}

	l.logger.Info("snapshot restored",
		"restored", report.Restored,
		"failed", report.Failed,
		"snapshot_time", doc.LastUpdated,
	)

	return report, nil
}

// restoreFeeSchedule inserts a schedule directly. Restored deadlines may
// legitimately be in the past, so the live deadline validation does not
// apply.
func (l *Ledger) restoreFeeSchedule(rec snapshot.FeeScheduleRecord) error {
	if rec.Semester == "" {
		return ValidationError{Field: "semester", Message: "must not be empty"}
	}
	base, err := rec.BaseMoney()
	if err != nil {
		return err
	}
	if !base.IsPositive() {
		return ErrInvalidAmount
	}

	sched := &fee.Schedule{
		Entity:   types.EntityAt(rec.Deadline),
		Semester: rec.Semester,
		Base:     base,
		Deadline: rec.Deadline,
		Active:   rec.Active,
	}

	l.mu.Lock()
	l.schedules[rec.Semester] = sched
	l.mu.Unlock()
	return nil
}

func (l *Ledger) restoreStudent(rec snapshot.StudentRecord) error {
	if rec.Wallet == "" || rec.StudentID == "" {
		return ValidationError{Field: "wallet", Message: "wallet and student id required"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.students[rec.Wallet]; ok {
		return ErrAlreadyRegistered
	}
	if _, ok := l.byStudentID[rec.StudentID]; ok {
		return ErrDuplicateID
	}

	l.students[rec.Wallet] = &student.Student{
		Entity:     types.EntityAt(rec.RegisteredAt),
		Wallet:     rec.Wallet,
		StudentID:  rec.StudentID,
		Registered: true,
	}
	l.byStudentID[rec.StudentID] = rec.Wallet
	return nil
}

// restoreScholarship sets the percent directly. The partial refunds the
// scholarship triggered are already reflected in the restored payment
// balances, so replaying through ApplyScholarship would refund twice.
func (l *Ledger) restoreScholarship(rec snapshot.ScholarshipRecord) error {
	if rec.Percent < 0 || rec.Percent > 100 {
		return ErrInvalidPercentage
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	st, ok := l.students[rec.Wallet]
	if !ok {
		return ErrNotRegistered
	}
	st.ScholarshipPercent = rec.Percent
	return nil
}

func (l *Ledger) restorePaymentRecord(ctx context.Context, rec snapshot.PaymentRecord) error {
	gross, err := rec.GrossMoney()
	if err != nil {
		return err
	}
	remaining, err := rec.RemainingMoney()
	if err != nil {
		return err
	}

	return l.RestorePayment(ctx, &payment.Payment{
		ID:        rec.ID,
		Wallet:    rec.Wallet,
		Semester:  rec.Semester,
		Gross:     gross,
		Remaining: remaining,
		Paid:      rec.Paid,
		Refunded:  rec.Refunded,
		Timestamp: rec.Timestamp,
	})
}

func (l *Ledger) restoreRequest(rec snapshot.RequestRecord) error {
	reqID, err := id.ParseRequestID(rec.ID)
	if err != nil {
		return err
	}

	status := student.RequestStatus(rec.Status)
	switch status {
	case student.RequestPending, student.RequestApproved, student.RequestRejected:
	default:
		return ValidationError{Field: "status", Message: "unknown request status"}
	}

	req := &student.RegistrationRequest{
		Entity:    types.EntityAt(rec.SubmittedAt),
		ID:        reqID,
		Wallet:    rec.Wallet,
		StudentID: rec.StudentID,
		Status:    status,
		DecidedAt: rec.DecidedAt,
	}

	l.mu.Lock()
	l.requests[rec.ID] = req
	l.mu.Unlock()
	return nil
}
