package mongo

import (
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/tuition/snapshot"
)

type studentModel struct {
	grove.BaseModel `grove:"table:tuition_students"`

	Wallet       string    `grove:"wallet,pk"       bson:"_id"`
	StudentID    string    `grove:"student_id"      bson:"student_id"`
	RegisteredAt time.Time `grove:"registered_at"   bson:"registered_at"`
}

type feeScheduleModel struct {
	grove.BaseModel `grove:"table:tuition_fee_schedules"`

	Semester string    `grove:"semester,pk" bson:"_id"`
	Base     string    `grove:"base"        bson:"base"`
	Currency string    `grove:"currency"    bson:"currency"`
	Deadline time.Time `grove:"deadline"    bson:"deadline"`
	Active   bool      `grove:"active"      bson:"active"`
}

type scholarshipModel struct {
	grove.BaseModel `grove:"table:tuition_scholarships"`

	Wallet  string `grove:"wallet,pk" bson:"_id"`
	Percent int    `grove:"percent"   bson:"percent"`
}

type paymentModel struct {
	grove.BaseModel `grove:"table:tuition_payments"`

	ID        int64     `grove:"id,pk"     bson:"_id"`
	Wallet    string    `grove:"wallet"    bson:"wallet"`
	Semester  string    `grove:"semester"  bson:"semester"`
	Gross     string    `grove:"gross"     bson:"gross"`
	Remaining string    `grove:"remaining" bson:"remaining"`
	Currency  string    `grove:"currency"  bson:"currency"`
	Paid      bool      `grove:"paid"      bson:"paid"`
	Refunded  bool      `grove:"refunded"  bson:"refunded"`
	Timestamp time.Time `grove:"timestamp" bson:"timestamp"`
}

type requestModel struct {
	grove.BaseModel `grove:"table:tuition_requests"`

	ID          string     `grove:"id,pk"        bson:"_id"`
	Wallet      string     `grove:"wallet"       bson:"wallet"`
	StudentID   string     `grove:"student_id"   bson:"student_id"`
	Status      string     `grove:"status"       bson:"status"`
	SubmittedAt time.Time  `grove:"submitted_at" bson:"submitted_at"`
	DecidedAt   *time.Time `grove:"decided_at"   bson:"decided_at,omitempty"`
}

type metaModel struct {
	grove.BaseModel `grove:"table:tuition_snapshot_meta"`

	ID          int       `grove:"id,pk"        bson:"_id"`
	Version     int       `grove:"version"      bson:"version"`
	Currency    string    `grove:"currency"     bson:"currency"`
	LastUpdated time.Time `grove:"last_updated" bson:"last_updated"`
}

func toStudentModel(r snapshot.StudentRecord) *studentModel {
	return &studentModel{Wallet: r.Wallet, StudentID: r.StudentID, RegisteredAt: r.RegisteredAt}
}

func fromStudentModel(m *studentModel) snapshot.StudentRecord {
	return snapshot.StudentRecord{Wallet: m.Wallet, StudentID: m.StudentID, RegisteredAt: m.RegisteredAt}
}

func toFeeScheduleModel(r snapshot.FeeScheduleRecord) *feeScheduleModel {
	return &feeScheduleModel{
		Semester: r.Semester,
		Base:     r.Base,
		Currency: r.Currency,
		Deadline: r.Deadline,
		Active:   r.Active,
	}
}

func fromFeeScheduleModel(m *feeScheduleModel) snapshot.FeeScheduleRecord {
	return snapshot.FeeScheduleRecord{
		Semester: m.Semester,
		Base:     m.Base,
		Currency: m.Currency,
		Deadline: m.Deadline,
		Active:   m.Active,
	}
}

func toScholarshipModel(r snapshot.ScholarshipRecord) *scholarshipModel {
	return &scholarshipModel{Wallet: r.Wallet, Percent: r.Percent}
}

func fromScholarshipModel(m *scholarshipModel) snapshot.ScholarshipRecord {
	return snapshot.ScholarshipRecord{Wallet: m.Wallet, Percent: m.Percent}
}

func toPaymentModel(r snapshot.PaymentRecord) *paymentModel {
	return &paymentModel{
		ID:        r.ID,
		Wallet:    r.Wallet,
		Semester:  r.Semester,
		Gross:     r.Gross,
		Remaining: r.Remaining,
		Currency:  r.Currency,
		Paid:      r.Paid,
		Refunded:  r.Refunded,
		Timestamp: r.Timestamp,
	}
}

func fromPaymentModel(m *paymentModel) snapshot.PaymentRecord {
	return snapshot.PaymentRecord{
		ID:        m.ID,
		Wallet:    m.Wallet,
		Semester:  m.Semester,
		Gross:     m.Gross,
		Remaining: m.Remaining,
		Currency:  m.Currency,
		Paid:      m.Paid,
		Refunded:  m.Refunded,
		Timestamp: m.Timestamp,
	}
}

func toRequestModel(r snapshot.RequestRecord) *requestModel {
	return &requestModel{
		ID:          r.ID,
		Wallet:      r.Wallet,
		StudentID:   r.StudentID,
		Status:      r.Status,
		SubmittedAt: r.SubmittedAt,
		DecidedAt:   r.DecidedAt,
	}
}

func fromRequestModel(m *requestModel) snapshot.RequestRecord {
	return snapshot.RequestRecord{
		ID:          m.ID,
		Wallet:      m.Wallet,
		StudentID:   m.StudentID,
		Status:      m.Status,
		SubmittedAt: m.SubmittedAt,
		DecidedAt:   m.DecidedAt,
	}
}
