package tuition

import (
	"context"
	"sort"
	"time"

	"github.com/xraph/tuition/fee"
	"github.com/xraph/tuition/types"
)

// ──────────────────────────────────────────────────
// Fee Schedules
// ──────────────────────────────────────────────────

// SetFeeSchedule creates or overwrites the fee configuration for a semester.
// Only the latest value is retained; payments already made against the old
// schedule are not touched.
func (l *Ledger) SetFeeSchedule(ctx context.Context, semester string, base types.Money, deadline time.Time) (*fee.Schedule, error) {
	if semester == "" {
		return nil, ValidationError{Field: "semester", Message: "must not be empty"}
	}
	if !base.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if base.Currency != l.currency {
		return nil, ValidationError{Field: "base", Message: "currency mismatch"}
	}
	if !deadline.After(l.clock()) {
		return nil, ErrInvalidDeadline
	}

	sched := &fee.Schedule{
		Entity:   types.EntityAt(l.clock()),
		Semester: semester,
		Base:     base,
		Deadline: deadline,
		Active:   true,
	}

	l.mu.Lock()
	l.schedules[semester] = sched
	l.mu.Unlock()

	l.markDirty()
	l.plugins.EmitFeeScheduleCreated(ctx, sched)

	l.logger.Info("fee schedule set",
		"semester", semester,
		"base", base.String(),
		"deadline", deadline,
	)

	cp := *sched
	return &cp, nil
}

// SetSemesterActive toggles whether a semester accepts payments.
func (l *Ledger) SetSemesterActive(_ context.Context, semester string, active bool) error {
	l.mu.Lock()
	sched, ok := l.schedules[semester]
	if !ok {
		l.mu.Unlock()
		return ErrUnknownSemester
	}
	sched.Active = active
	sched.UpdatedAt = l.clock()
	l.mu.Unlock()

	l.markDirty()

	l.logger.Info("semester active flag changed",
		"semester", semester,
		"active", active,
	)
	return nil
}

// GetFeeSchedule returns the fee schedule for a semester.
func (l *Ledger) GetFeeSchedule(_ context.Context, semester string) (*fee.Schedule, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	sched, ok := l.schedules[semester]
	if !ok {
		return nil, ErrUnknownSemester
	}
	cp := *sched
	return &cp, nil
}

// ListFeeSchedules returns all fee schedules ordered by semester.
func (l *Ledger) ListFeeSchedules(_ context.Context) []*fee.Schedule {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]*fee.Schedule, 0, len(l.schedules))
	for _, sched := range l.schedules {
		cp := *sched
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Semester < result[j].Semester
	})
	return result
}

// ActiveSemesters returns the semesters currently accepting payments, sorted.
func (l *Ledger) ActiveSemesters(_ context.Context) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]string, 0, len(l.schedules))
	for semester, sched := range l.schedules {
		if sched.Active {
			result = append(result, semester)
		}
	}
	sort.Strings(result)
	return result
}

// CalculateFee returns the net fee a wallet owes for a semester after its
// scholarship discount. The semester must have a schedule; the wallet does
// not need to be registered, an unknown wallet simply gets no discount.
func (l *Ledger) CalculateFee(_ context.Context, wallet, semester string) (types.Money, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	sched, ok := l.schedules[semester]
	if !ok {
		return types.Money{}, ErrUnknownSemester
	}

	percent := 0
	if st, ok := l.students[wallet]; ok {
		percent = st.ScholarshipPercent
	}
	return sched.Discounted(percent), nil
}
