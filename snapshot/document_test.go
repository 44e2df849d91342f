package snapshot

import (
	"testing"
	"time"
)

func TestAddPaymentIdempotent(t *testing.T) {
	doc := NewDocument("usd")

	added := doc.AddPayment(PaymentRecord{
		ID: 1, Wallet: "0xabc", Semester: "2026S1",
		Gross: "100000", Remaining: "100000", Currency: "usd", Paid: true,
	})
	if !added {
		t.Error("first AddPayment should report added")
	}

	// Same (wallet, semester) replaces instead of duplicating.
	added = doc.AddPayment(PaymentRecord{
		ID: 1, Wallet: "0xabc", Semester: "2026S1",
		Gross: "100000", Remaining: "70000", Currency: "usd", Paid: true,
	})
	if added {
		t.Error("second AddPayment for same pair should report replaced")
	}
	if len(doc.Payments) != 1 {
		t.Fatalf("payments = %d, want 1", len(doc.Payments))
	}
	if doc.Payments[0].Remaining != "70000" {
		t.Errorf("Remaining = %q, want replaced value 70000", doc.Payments[0].Remaining)
	}

	// Different semester for the same wallet is a new record.
	if added := doc.AddPayment(PaymentRecord{
		ID: 2, Wallet: "0xabc", Semester: "2026S2",
		Gross: "100000", Remaining: "100000", Currency: "usd", Paid: true,
	}); !added {
		t.Error("different semester should append")
	}
	if len(doc.Payments) != 2 {
		t.Errorf("payments = %d, want 2", len(doc.Payments))
	}
}

func TestFindPayment(t *testing.T) {
	doc := NewDocument("usd")
	doc.AddPayment(PaymentRecord{ID: 1, Wallet: "0xabc", Semester: "2026S1", Gross: "5", Remaining: "5", Currency: "usd"})

	if _, ok := doc.FindPayment("0xabc", "2026S1"); !ok {
		t.Error("FindPayment should locate existing record")
	}
	if _, ok := doc.FindPayment("0xabc", "2026S2"); ok {
		t.Error("FindPayment should miss unknown semester")
	}
}

func TestSortDeterministic(t *testing.T) {
	doc := NewDocument("usd")
	doc.Students = []StudentRecord{{Wallet: "0xb"}, {Wallet: "0xa"}}
	doc.Payments = []PaymentRecord{{ID: 3}, {ID: 1}, {ID: 2}}

	doc.Sort()

	if doc.Students[0].Wallet != "0xa" {
		t.Errorf("students not sorted: %+v", doc.Students)
	}
	for i, p := range doc.Payments {
		if p.ID != int64(i+1) {
			t.Errorf("payments not sorted by id: %+v", doc.Payments)
			break
		}
	}
}

func TestRecordMoneyDecoding(t *testing.T) {
	rec := PaymentRecord{Gross: "150000", Remaining: "105000", Currency: "usd"}

	gross, err := rec.GrossMoney()
	if err != nil {
		t.Fatalf("GrossMoney() error = %v", err)
	}
	if gross.Amount != 150000 || gross.Currency != "usd" {
		t.Errorf("GrossMoney() = %+v", gross)
	}

	remaining, err := rec.RemainingMoney()
	if err != nil {
		t.Fatalf("RemainingMoney() error = %v", err)
	}
	if remaining.Amount != 105000 {
		t.Errorf("RemainingMoney() = %+v", remaining)
	}

	bad := PaymentRecord{Gross: "abc", Currency: "usd"}
	if _, err := bad.GrossMoney(); err == nil {
		t.Error("GrossMoney() should fail on non-numeric amount")
	}
}

func TestRecordsCount(t *testing.T) {
	doc := NewDocument("usd")
	doc.Students = make([]StudentRecord, 2)
	doc.FeeSchedules = make([]FeeScheduleRecord, 1)
	doc.Scholarships = make([]ScholarshipRecord, 1)
	doc.Payments = make([]PaymentRecord, 3)
	doc.Requests = make([]RequestRecord, 1)
	doc.LastUpdated = time.Now()

	if got := doc.Records(); got != 8 {
		t.Errorf("Records() = %d, want 8", got)
	}
}
