// Package snapshot defines the persistent mirror of the ledger state. The
// mirror is written asynchronously after mutations and read back once on
// startup; the in-memory ledger remains the source of truth while running.
package snapshot

import (
	"sort"
	"time"

	"github.com/xraph/tuition/types"
)

// Version is the current snapshot document schema version.
const Version = 1

// StudentRecord mirrors one registered student.
type StudentRecord struct {
	Wallet       string    `json:"wallet" bson:"wallet"`
	StudentID    string    `json:"student_id" bson:"student_id"`
	RegisteredAt time.Time `json:"registered_at" bson:"registered_at"`
}

// FeeScheduleRecord mirrors the fee configuration for one semester. The base
// amount is stored as a decimal string in the smallest currency unit.
type FeeScheduleRecord struct {
	Semester string    `json:"semester" bson:"semester"`
	Base     string    `json:"base" bson:"base"`
	Currency string    `json:"currency" bson:"currency"`
	Deadline time.Time `json:"deadline" bson:"deadline"`
	Active   bool      `json:"active" bson:"active"`
}

// ScholarshipRecord mirrors one wallet's scholarship percent. Wallets at
// zero percent are omitted from the snapshot.
type ScholarshipRecord struct {
	Wallet  string `json:"wallet" bson:"wallet"`
	Percent int    `json:"percent" bson:"percent"`
}

// PaymentRecord mirrors one tuition payment. Amounts are decimal strings in
// the smallest currency unit.
type PaymentRecord struct {
	ID        int64     `json:"id" bson:"id"`
	Wallet    string    `json:"wallet" bson:"wallet"`
	Semester  string    `json:"semester" bson:"semester"`
	Gross     string    `json:"gross" bson:"gross"`
	Remaining string    `json:"remaining" bson:"remaining"`
	Currency  string    `json:"currency" bson:"currency"`
	Paid      bool      `json:"paid" bson:"paid"`
	Refunded  bool      `json:"refunded" bson:"refunded"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// RequestRecord mirrors one self-service registration request.
type RequestRecord struct {
	ID          string     `json:"id" bson:"request_id"`
	Wallet      string     `json:"wallet" bson:"wallet"`
	StudentID   string     `json:"student_id" bson:"student_id"`
	Status      string     `json:"status" bson:"status"`
	SubmittedAt time.Time  `json:"submitted_at" bson:"submitted_at"`
	DecidedAt   *time.Time `json:"decided_at,omitempty" bson:"decided_at,omitempty"`
}

// Document is a full point-in-time mirror of the ledger state.
type Document struct {
	Version      int                 `json:"version" bson:"version"`
	Currency     string              `json:"currency" bson:"currency"`
	LastUpdated  time.Time           `json:"last_updated" bson:"last_updated"`
	Students     []StudentRecord     `json:"students" bson:"students"`
	FeeSchedules []FeeScheduleRecord `json:"fee_schedules" bson:"fee_schedules"`
	Scholarships []ScholarshipRecord `json:"scholarships" bson:"scholarships"`
	Payments     []PaymentRecord     `json:"payments" bson:"payments"`
	Requests     []RequestRecord     `json:"registration_requests" bson:"registration_requests"`
}

// NewDocument creates an empty snapshot document.
func NewDocument(currency string) *Document {
	return &Document{
		Version:  Version,
		Currency: currency,
	}
}

// AddPayment inserts a payment record. Exactly one record exists per
// (wallet, semester) pair: a record for an already-present pair replaces the
// existing one instead of appending a duplicate. Returns true if the record
// was newly added.
func (d *Document) AddPayment(rec PaymentRecord) bool {
	for i := range d.Payments {
		if d.Payments[i].Wallet == rec.Wallet && d.Payments[i].Semester == rec.Semester {
			d.Payments[i] = rec
			return false
		}
	}
	d.Payments = append(d.Payments, rec)
	return true
}

// FindPayment returns the payment record for a (wallet, semester) pair.
func (d *Document) FindPayment(wallet, semester string) (PaymentRecord, bool) {
	for i := range d.Payments {
		if d.Payments[i].Wallet == wallet && d.Payments[i].Semester == semester {
			return d.Payments[i], true
		}
	}
	return PaymentRecord{}, false
}

// Records returns the total number of records across all collections.
func (d *Document) Records() int {
	return len(d.Students) + len(d.FeeSchedules) + len(d.Scholarships) +
		len(d.Payments) + len(d.Requests)
}

// Sort orders every collection deterministically so repeated flushes of the
// same state produce identical documents.
func (d *Document) Sort() {
	sort.Slice(d.Students, func(i, j int) bool {
		return d.Students[i].Wallet < d.Students[j].Wallet
	})
	sort.Slice(d.FeeSchedules, func(i, j int) bool {
		return d.FeeSchedules[i].Semester < d.FeeSchedules[j].Semester
	})
	sort.Slice(d.Scholarships, func(i, j int) bool {
		return d.Scholarships[i].Wallet < d.Scholarships[j].Wallet
	})
	sort.Slice(d.Payments, func(i, j int) bool {
		return d.Payments[i].ID < d.Payments[j].ID
	})
	sort.Slice(d.Requests, func(i, j int) bool {
		return d.Requests[i].ID < d.Requests[j].ID
	})
}

// GrossMoney decodes the gross amount of a payment record.
func (r PaymentRecord) GrossMoney() (types.Money, error) {
	return types.ParseDecimal(r.Gross, r.Currency)
}

// RemainingMoney decodes the remaining amount of a payment record.
func (r PaymentRecord) RemainingMoney() (types.Money, error) {
	return types.ParseDecimal(r.Remaining, r.Currency)
}

// BaseMoney decodes the base fee of a schedule record.
func (r FeeScheduleRecord) BaseMoney() (types.Money, error) {
	return types.ParseDecimal(r.Base, r.Currency)
}
