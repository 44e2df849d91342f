// Package sqlite provides a SQLite snapshot store backed by Grove ORM.
// Suitable for single-node deployments that want a durable mirror without
// running a database server.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"
	"github.com/xraph/grove/migrate"

	"github.com/xraph/tuition/snapshot"
)

// compile-time interface check
var _ snapshot.Store = (*Store)(nil)

// metaRowID is the fixed primary key of the single snapshot metadata row.
const metaRowID = 1

// Store implements snapshot.Store using SQLite via Grove ORM.
type Store struct {
	db  *grove.DB
	sdb *sqlitedriver.SqliteDB
}

// New creates a new SQLite snapshot store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		sdb: sqlitedriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.sdb)
	if err != nil {
		return fmt.Errorf("tuition/sqlite: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("tuition/sqlite: migration failed: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Models ====================

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

// ==================== Store ====================

// Write replaces the stored snapshot wholesale. Each collection table is
// cleared and rewritten; the metadata row goes last.
func (s *Store) Write(ctx context.Context, doc *snapshot.Document) error {
	if _, err := s.sdb.NewDelete((*studentModel)(nil)).Where("1 = 1").Exec(ctx); err != nil {
		return fmt.Errorf("tuition/sqlite: clear students: %w", err)
	}
	for _, r := range doc.Students {
		m := &studentModel{Wallet: r.Wallet, StudentID: r.StudentID, RegisteredAt: r.RegisteredAt}
		if _, err := s.sdb.NewInsert(m).Exec(ctx); err != nil {
			return fmt.Errorf("tuition/sqlite: write student %s: %w", r.Wallet, err)
		}
	}

	if _, err := s.sdb.NewDelete((*feeScheduleModel)(nil)).Where("1 = 1").Exec(ctx); err != nil {
		return fmt.Errorf("tuition/sqlite: clear fee schedules: %w", err)
	}
	for _, r := range doc.FeeSchedules {
		m := &feeScheduleModel{
			Semester: r.Semester,
			Base:     r.Base,
			Currency: r.Currency,
			Deadline: r.Deadline,
			Active:   r.Active,
		}
		if _, err := s.sdb.NewInsert(m).Exec(ctx); err != nil {
			return fmt.Errorf("tuition/sqlite: write fee schedule %s: %w", r.Semester, err)
		}
	}

	if _, err := s.sdb.NewDelete((*scholarshipModel)(nil)).Where("1 = 1").Exec(ctx); err != nil {
		return fmt.Errorf("tuition/sqlite: clear scholarships: %w", err)
	}
	for _, r := range doc.Scholarships {
		m := &scholarshipModel{Wallet: r.Wallet, Percent: r.Percent}
		if _, err := s.sdb.NewInsert(m).Exec(ctx); err != nil {
			return fmt.Errorf("tuition/sqlite: write scholarship %s: %w", r.Wallet, err)
		}
	}

	if _, err := s.sdb.NewDelete((*paymentModel)(nil)).Where("1 = 1").Exec(ctx); err != nil {
		return fmt.Errorf("tuition/sqlite: clear payments: %w", err)
	}
	for _, r := range doc.Payments {
		m := &paymentModel{
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
		if _, err := s.sdb.NewInsert(m).Exec(ctx); err != nil {
			return fmt.Errorf("tuition/sqlite: write payment %d: %w", r.ID, err)
		}
	}

	if _, err := s.sdb.NewDelete((*requestModel)(nil)).Where("1 = 1").Exec(ctx); err != nil {
		return fmt.Errorf("tuition/sqlite: clear requests: %w", err)
	}
	for _, r := range doc.Requests {
		m := &requestModel{
			ID:          r.ID,
			Wallet:      r.Wallet,
			StudentID:   r.StudentID,
			Status:      r.Status,
			SubmittedAt: r.SubmittedAt,
			DecidedAt:   r.DecidedAt,
		}
		if _, err := s.sdb.NewInsert(m).Exec(ctx); err != nil {
			return fmt.Errorf("tuition/sqlite: write request %s: %w", r.ID, err)
		}
	}

	if _, err := s.sdb.NewDelete((*metaModel)(nil)).Where("id = ?", metaRowID).Exec(ctx); err != nil {
		return fmt.Errorf("tuition/sqlite: clear snapshot meta: %w", err)
	}
	meta := &metaModel{
		ID:          metaRowID,
		Version:     doc.Version,
		Currency:    doc.Currency,
		LastUpdated: doc.LastUpdated,
	}
	if _, err := s.sdb.NewInsert(meta).Exec(ctx); err != nil {
		return fmt.Errorf("tuition/sqlite: write snapshot meta: %w", err)
	}
	return nil
}

// Load reads the latest snapshot. Returns (nil, nil) when no snapshot has
// been written yet.
func (s *Store) Load(ctx context.Context) (*snapshot.Document, error) {
	meta := new(metaModel)
	err := s.sdb.NewSelect(meta).
		Where("id = ?", metaRowID).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("tuition/sqlite: load snapshot meta: %w", err)
	}

	doc := &snapshot.Document{
		Version:     meta.Version,
		Currency:    meta.Currency,
		LastUpdated: meta.LastUpdated,
	}

	var students []studentModel
	if err := s.sdb.NewSelect(&students).OrderExpr("wallet ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("tuition/sqlite: load students: %w", err)
	}
	for i := range students {
		doc.Students = append(doc.Students, snapshot.StudentRecord{
			Wallet:       students[i].Wallet,
			StudentID:    students[i].StudentID,
			RegisteredAt: students[i].RegisteredAt,
		})
	}

	var schedules []feeScheduleModel
	if err := s.sdb.NewSelect(&schedules).OrderExpr("semester ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("tuition/sqlite: load fee schedules: %w", err)
	}
	for i := range schedules {
		doc.FeeSchedules = append(doc.FeeSchedules, snapshot.FeeScheduleRecord{
			Semester: schedules[i].Semester,
			Base:     schedules[i].Base,
			Currency: schedules[i].Currency,
			Deadline: schedules[i].Deadline,
			Active:   schedules[i].Active,
		})
	}

	var scholarships []scholarshipModel
	if err := s.sdb.NewSelect(&scholarships).OrderExpr("wallet ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("tuition/sqlite: load scholarships: %w", err)
	}
	for i := range scholarships {
		doc.Scholarships = append(doc.Scholarships, snapshot.ScholarshipRecord{
			Wallet:  scholarships[i].Wallet,
			Percent: scholarships[i].Percent,
		})
	}

	var payments []paymentModel
	if err := s.sdb.NewSelect(&payments).OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("tuition/sqlite: load payments: %w", err)
	}
	for i := range payments {
		doc.Payments = append(doc.Payments, snapshot.PaymentRecord{
			ID:        payments[i].ID,
			Wallet:    payments[i].Wallet,
			Semester:  payments[i].Semester,
			Gross:     payments[i].Gross,
			Remaining: payments[i].Remaining,
			Currency:  payments[i].Currency,
			Paid:      payments[i].Paid,
			Refunded:  payments[i].Refunded,
			Timestamp: payments[i].Timestamp,
		})
	}

	var requests []requestModel
	if err := s.sdb.NewSelect(&requests).OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("tuition/sqlite: load requests: %w", err)
	}
	for i := range requests {
		doc.Requests = append(doc.Requests, snapshot.RequestRecord{
			ID:          requests[i].ID,
			Wallet:      requests[i].Wallet,
			StudentID:   requests[i].StudentID,
			Status:      requests[i].Status,
			SubmittedAt: requests[i].SubmittedAt,
			DecidedAt:   requests[i].DecidedAt,
		})
	}

	return doc, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
