package tuition_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	tuition "github.com/xraph/tuition"
	"github.com/xraph/tuition/snapshot/file"
	"github.com/xraph/tuition/snapshot/memory"
	"github.com/xraph/tuition/types"
)

var testTime = time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)

// newTestLedger starts a ledger on an in-memory snapshot store with a fixed
// clock and a silent logger. The ledger is stopped when the test finishes.
func newTestLedger(t *testing.T, opts ...tuition.Option) *tuition.Ledger {
	t.Helper()

	all := append([]tuition.Option{
		tuition.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		tuition.WithClock(func() time.Time { return testTime }),
		tuition.WithSnapshotInterval(10 * time.Millisecond),
	}, opts...)

	l := tuition.New(memory.New(), all...)
	if err := l.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() {
		if err := l.Stop(); err != nil {
			t.Errorf("Stop failed: %v", err)
		}
	})
	return l
}

// mustRegister registers a student or fails the test.
func mustRegister(t *testing.T, l *tuition.Ledger, wallet, studentID string) {
	t.Helper()
	if _, err := l.RegisterStudent(context.Background(), wallet, studentID); err != nil {
		t.Fatalf("RegisterStudent(%s, %s) failed: %v", wallet, studentID, err)
	}
}

// mustSchedule creates a fee schedule or fails the test.
func mustSchedule(t *testing.T, l *tuition.Ledger, semester string, base types.Money) {
	t.Helper()
	deadline := testTime.Add(90 * 24 * time.Hour)
	if _, err := l.SetFeeSchedule(context.Background(), semester, base, deadline); err != nil {
		t.Fatalf("SetFeeSchedule(%s) failed: %v", semester, err)
	}
}

// mustPay makes a tuition payment or fails the test.
func mustPay(t *testing.T, l *tuition.Ledger, wallet, semester string, amount types.Money) *tuition.Payment {
	t.Helper()
	p, err := l.PayTuition(context.Background(), wallet, semester, amount)
	if err != nil {
		t.Fatalf("PayTuition(%s, %s, %s) failed: %v", wallet, semester, amount, err)
	}
	return p
}

func TestLedgerLifecycle(t *testing.T) {
	store := memory.New()
	l := tuition.New(store,
		tuition.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		tuition.WithClock(func() time.Time { return testTime }),
	)

	ctx := context.Background()
	if err := l.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if got := l.Currency(); got != "usd" {
		t.Errorf("Currency() = %q, want usd", got)
	}
	if got := l.Available(); !got.IsZero() {
		t.Errorf("Available() = %s, want zero", got)
	}

	if err := l.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
}

func TestStopFlushesFinalSnapshot(t *testing.T) {
	dir := t.TempDir()
	store := file.New(filepath.Join(dir, "tuition.json"))

	l := tuition.New(store,
		tuition.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		tuition.WithClock(func() time.Time { return testTime }),
		tuition.WithSnapshotInterval(time.Hour), // never ticks during the test
	)
	ctx := context.Background()
	if err := l.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	mustRegister(t, l, "0xaaa", "S-1001")
	mustSchedule(t, l, "2026-spring", types.USD(50000))

	if err := l.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	doc, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if doc == nil {
		t.Fatal("expected a snapshot after Stop, got none")
	}
	if len(doc.Students) != 1 || len(doc.FeeSchedules) != 1 {
		t.Errorf("snapshot has %d students, %d schedules; want 1 and 1",
			len(doc.Students), len(doc.FeeSchedules))
	}
}

func TestRestoreRoundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuition.json")
	ctx := context.Background()

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))

	// First run: build up state, then shut down cleanly.
	l1 := tuition.New(file.New(path),
		tuition.WithLogger(quiet),
		tuition.WithClock(func() time.Time { return testTime }),
		tuition.WithSnapshotInterval(time.Hour),
	)
	if err := l1.Start(ctx); err != nil {
		t.Fatalf("first Start failed: %v", err)
	}

	mustRegister(t, l1, "0xaaa", "S-1001")
	mustRegister(t, l1, "0xbbb", "S-1002")
	mustSchedule(t, l1, "2026-spring", types.USD(100000))
	mustPay(t, l1, "0xaaa", "2026-spring", types.USD(100000))
	paid := mustPay(t, l1, "0xbbb", "2026-spring", types.USD(100000))

	if _, err := l1.ApplyScholarship(ctx, "0xaaa", 30); err != nil {
		t.Fatalf("ApplyScholarship failed: %v", err)
	}
	if _, err := l1.ProcessRefund(ctx, paid.ID); err != nil {
		t.Fatalf("ProcessRefund failed: %v", err)
	}
	req, err := l1.SubmitRegistrationRequest(ctx, "0xccc", "S-1003")
	if err != nil {
		t.Fatalf("SubmitRegistrationRequest failed: %v", err)
	}

	before := l1.GetFinancialSummary(ctx)

	if err := l1.Stop(); err != nil {
		t.Fatalf("first Stop failed: %v", err)
	}

	// Second run: restore from the snapshot mirror.
	l2 := tuition.New(file.New(path),
		tuition.WithLogger(quiet),
		tuition.WithClock(func() time.Time { return testTime }),
		tuition.WithSnapshotInterval(time.Hour),
	)
	if err := l2.Start(ctx); err != nil {
		t.Fatalf("second Start failed: %v", err)
	}
	defer func() {
		if err := l2.Stop(); err != nil {
			t.Errorf("second Stop failed: %v", err)
		}
	}()

	// Students and scholarship survive.
	st, err := l2.GetStudent(ctx, "0xaaa")
	if err != nil {
		t.Fatalf("GetStudent after restore failed: %v", err)
	}
	if st.StudentID != "S-1001" {
		t.Errorf("restored StudentID = %q, want S-1001", st.StudentID)
	}
	if st.ScholarshipPercent != 30 {
		t.Errorf("restored scholarship percent = %d, want 30", st.ScholarshipPercent)
	}

	// Payment balances survive, including the scholarship partial refund and
	// the full refund.
	pa, err := l2.GetPaymentFor(ctx, "0xaaa", "2026-spring")
	if err != nil {
		t.Fatalf("GetPaymentFor(0xaaa) after restore failed: %v", err)
	}
	if want := types.USD(70000); !pa.Remaining.Equal(want) {
		t.Errorf("restored remaining = %s, want %s", pa.Remaining, want)
	}
	pb, err := l2.GetPaymentFor(ctx, "0xbbb", "2026-spring")
	if err != nil {
		t.Fatalf("GetPaymentFor(0xbbb) after restore failed: %v", err)
	}
	if !pb.Refunded || !pb.Remaining.IsZero() {
		t.Errorf("restored refunded payment: refunded=%v remaining=%s; want true and zero",
			pb.Refunded, pb.Remaining)
	}

	// Pending request survives.
	if _, err := l2.GetRequest(ctx, req.ID); err != nil {
		t.Errorf("GetRequest after restore failed: %v", err)
	}
	if got := len(l2.ListPendingRequests(ctx)); got != 1 {
		t.Errorf("pending requests after restore = %d, want 1", got)
	}

	// Financial totals are recomputed from the restored records.
	after := l2.GetFinancialSummary(ctx)
	if !after.TotalCollected.Equal(before.TotalCollected) {
		t.Errorf("restored TotalCollected = %s, want %s", after.TotalCollected, before.TotalCollected)
	}
	if !after.TotalRefunded.Equal(before.TotalRefunded) {
		t.Errorf("restored TotalRefunded = %s, want %s", after.TotalRefunded, before.TotalRefunded)
	}
	if after.PaymentCount != before.PaymentCount {
		t.Errorf("restored PaymentCount = %d, want %d", after.PaymentCount, before.PaymentCount)
	}

	// New payments continue the sequential id space.
	mustRegister(t, l2, "0xddd", "S-1004")
	p, err := l2.PayTuition(ctx, "0xddd", "2026-spring", types.USD(100000))
	if err != nil {
		t.Fatalf("PayTuition after restore failed: %v", err)
	}
	if p.ID != 3 {
		t.Errorf("payment id after restore = %d, want 3", p.ID)
	}
}

func TestRestoreEmptyStore(t *testing.T) {
	l := tuition.New(memory.New(),
		tuition.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err := l.Start(context.Background()); err != nil {
		t.Fatalf("Start on empty store failed: %v", err)
	}
	if got := len(l.ListStudents(context.Background())); got != 0 {
		t.Errorf("students after empty restore = %d, want 0", got)
	}
	if err := l.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
}
