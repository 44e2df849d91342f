package postgres

import (
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/tuition/snapshot"
)

type studentModel struct {
	grove.BaseModel `grove:"table:tuition_students"`

	Wallet       string    `grove:"wallet,pk"`
	StudentID    string    `grove:"student_id"`
	RegisteredAt time.Time `grove:"registered_at"`
}

type feeScheduleModel struct {
	grove.BaseModel `grove:"table:tuition_fee_schedules"`

	Semester string    `grove:"semester,pk"`
	Base     string    `grove:"base"`
	Currency string    `grove:"currency"`
	Deadline time.Time `grove:"deadline"`
	Active   bool      `grove:"active"`
}

type scholarshipModel struct {
	grove.BaseModel `grove:"table:tuition_scholarships"`

	Wallet  string `grove:"wallet,pk"`
	Percent int    `grove:"percent"`
}

type paymentModel struct {
	grove.BaseModel `grove:"table:tuition_payments"`

	ID        int64     `grove:"id,pk"`
	Wallet    string    `grove:"wallet"`
	Semester  string    `grove:"semester"`
	Gross     string    `grove:"gross"`
	Remaining string    `grove:"remaining"`
	Currency  string    `grove:"currency"`
	Paid      bool      `grove:"paid"`
	Refunded  bool      `grove:"refunded"`
	Timestamp time.Time `grove:"timestamp"`
}

type requestModel struct {
	grove.BaseModel `grove:"table:tuition_requests"`

	ID          string     `grove:"id,pk"`
	Wallet      string     `grove:"wallet"`
	StudentID   string     `grove:"student_id"`
	Status      string     `grove:"status"`
	SubmittedAt time.Time  `grove:"submitted_at"`
	DecidedAt   *time.Time `grove:"decided_at"`
}

type metaModel struct {
	grove.BaseModel `grove:"table:tuition_snapshot_meta"`

	ID          int       `grove:"id,pk"`
	Version     int       `grove:"version"`
	Currency    string    `grove:"currency"`
	LastUpdated time.Time `grove:"last_updated"`
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
