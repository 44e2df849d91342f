package tuition_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	tuition "github.com/xraph/tuition"
	"github.com/xraph/tuition/snapshot"
	"github.com/xraph/tuition/snapshot/memory"
	"github.com/xraph/tuition/types"
)

func TestRestoreSkipsBadRecords(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	doc := snapshot.NewDocument("usd")
	doc.LastUpdated = testTime
	doc.FeeSchedules = []snapshot.FeeScheduleRecord{
		{Semester: "2026-spring", Base: "100000", Currency: "usd", Deadline: testTime.Add(-time.Hour), Active: true},
		{Semester: "", Base: "5", Currency: "usd"}, // invalid, skipped
	}
	doc.Students = []snapshot.StudentRecord{
		{Wallet: "0xaaa", StudentID: "S-1001", RegisteredAt: testTime},
		{Wallet: "", StudentID: "S-9999"}, // invalid, skipped
	}
	doc.Payments = []snapshot.PaymentRecord{
		{ID: 1, Wallet: "0xaaa", Semester: "2026-spring", Gross: "100000", Remaining: "70000", Currency: "usd", Paid: true, Timestamp: testTime},
		{ID: 2, Wallet: "0xghost", Semester: "2026-spring", Gross: "100000", Remaining: "100000", Currency: "usd", Paid: true, Timestamp: testTime}, // unregistered wallet, skipped
	}
	if err := store.Write(ctx, doc); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	l := tuition.New(store,
		tuition.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		tuition.WithClock(func() time.Time { return testTime }),
		tuition.WithSnapshotInterval(time.Hour),
	)
	if err := l.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer func() {
		if err := l.Stop(); err != nil {
			t.Errorf("Stop failed: %v", err)
		}
	}()

	// The good records are live.
	if !l.IsRegistered(ctx, "0xaaa") {
		t.Error("good student not restored")
	}
	if _, err := l.GetFeeSchedule(ctx, "2026-spring"); err != nil {
		t.Errorf("good schedule not restored: %v", err)
	}
	p, err := l.GetPayment(ctx, 1)
	if err != nil {
		t.Fatalf("good payment not restored: %v", err)
	}
	if !p.Remaining.Equal(types.USD(70000)) {
		t.Errorf("restored remaining = %s, want %s", p.Remaining, types.USD(70000))
	}

	// The bad records are not.
	if l.IsRegistered(ctx, "0xghost") {
		t.Error("student from invalid record exists")
	}
	if _, err := l.GetPayment(ctx, 2); !errors.Is(err, tuition.ErrPaymentNotFound) {
		t.Errorf("payment for unregistered wallet restored, err = %v", err)
	}

	// New payments pick up after the restored high-water mark.
	mustRegister(t, l, "0xbbb", "S-1002")
	got, err := l.PayTuition(ctx, "0xbbb", "2026-spring", types.USD(100000))
	if err != nil {
		t.Fatalf("PayTuition after restore failed: %v", err)
	}
	if got.ID != 2 {
		t.Errorf("next payment id = %d, want 2", got.ID)
	}
}

func TestRestoreRejectsInconsistentPayment(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)
	mustRegister(t, l, "0xaaa", "S-1001")

	tests := []struct {
		name string
		p    tuition.Payment
	}{
		{"zero id", tuition.Payment{ID: 0, Wallet: "0xaaa", Semester: "s1", Gross: types.USD(100), Remaining: types.USD(100), Paid: true}},
		{"remaining above gross", tuition.Payment{ID: 1, Wallet: "0xaaa", Semester: "s1", Gross: types.USD(100), Remaining: types.USD(200), Paid: true}},
		{"negative remaining", tuition.Payment{ID: 1, Wallet: "0xaaa", Semester: "s1", Gross: types.USD(100), Remaining: types.USD(-1), Paid: true}},
		{"refunded with remaining", tuition.Payment{ID: 1, Wallet: "0xaaa", Semester: "s1", Gross: types.USD(100), Remaining: types.USD(50), Paid: true, Refunded: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.p
			if err := l.RestorePayment(ctx, &p); !tuition.IsValidation(err) {
				t.Errorf("RestorePayment error = %v, want validation error", err)
			}
		})
	}

	t.Run("unregistered wallet", func(t *testing.T) {
		p := tuition.Payment{ID: 1, Wallet: "0xzzz", Semester: "s1", Gross: types.USD(100), Remaining: types.USD(100), Paid: true}
		if err := l.RestorePayment(ctx, &p); !errors.Is(err, tuition.ErrNotRegistered) {
			t.Errorf("RestorePayment error = %v, want ErrNotRegistered", err)
		}
	})
}
