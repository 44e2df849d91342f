// Package postgres provides a PostgreSQL snapshot store backed by Grove ORM.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
	"github.com/xraph/grove/migrate"

	"github.com/xraph/tuition/snapshot"
)

// compile-time interface check
var _ snapshot.Store = (*Store)(nil)

// metaRowID is the fixed primary key of the single snapshot metadata row.
const metaRowID = 1

// Store implements snapshot.Store using PostgreSQL via Grove ORM.
type Store struct {
	db *grove.DB
	pg *pgdriver.PgDB
}

// New creates a new PostgreSQL snapshot store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db: db,
		pg: pgdriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pg)
	if err != nil {
		return fmt.Errorf("tuition/postgres: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("tuition/postgres: migration failed: %w", err)
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

// Write replaces the stored snapshot wholesale. Each collection table is
// cleared and rewritten from the document; the metadata row is written last
// so a partially applied write is detectable by its stale timestamp.
func (s *Store) Write(ctx context.Context, doc *snapshot.Document) error {
	if _, err := s.pg.NewDelete((*studentModel)(nil)).Where("TRUE").Exec(ctx); err != nil {
		return fmt.Errorf("tuition/postgres: clear students: %w", err)
	}
	for _, r := range doc.Students {
		if _, err := s.pg.NewInsert(toStudentModel(r)).Exec(ctx); err != nil {
			return fmt.Errorf("tuition/postgres: write student %s: %w", r.Wallet, err)
		}
	}

	if _, err := s.pg.NewDelete((*feeScheduleModel)(nil)).Where("TRUE").Exec(ctx); err != nil {
		return fmt.Errorf("tuition/postgres: clear fee schedules: %w", err)
	}
	for _, r := range doc.FeeSchedules {
		if _, err := s.pg.NewInsert(toFeeScheduleModel(r)).Exec(ctx); err != nil {
			return fmt.Errorf("tuition/postgres: write fee schedule %s: %w", r.Semester, err)
		}
	}

	if _, err := s.pg.NewDelete((*scholarshipModel)(nil)).Where("TRUE").Exec(ctx); err != nil {
		return fmt.Errorf("tuition/postgres: clear scholarships: %w", err)
	}
	for _, r := range doc.Scholarships {
		if _, err := s.pg.NewInsert(toScholarshipModel(r)).Exec(ctx); err != nil {
			return fmt.Errorf("tuition/postgres: write scholarship %s: %w", r.Wallet, err)
		}
	}

	if _, err := s.pg.NewDelete((*paymentModel)(nil)).Where("TRUE").Exec(ctx); err != nil {
		return fmt.Errorf("tuition/postgres: clear payments: %w", err)
	}
	for _, r := range doc.Payments {
		if _, err := s.pg.NewInsert(toPaymentModel(r)).Exec(ctx); err != nil {
			return fmt.Errorf("tuition/postgres: write payment %d: %w", r.ID, err)
		}
	}

	if _, err := s.pg.NewDelete((*requestModel)(nil)).Where("TRUE").Exec(ctx); err != nil {
		return fmt.Errorf("tuition/postgres: clear requests: %w", err)
	}
	for _, r := range doc.Requests {
		if _, err := s.pg.NewInsert(toRequestModel(r)).Exec(ctx); err != nil {
			return fmt.Errorf("tuition/postgres: write request %s: %w", r.ID, err)
		}
	}

	if _, err := s.pg.NewDelete((*metaModel)(nil)).Where("id = $1", metaRowID).Exec(ctx); err != nil {
		return fmt.Errorf("tuition/postgres: clear snapshot meta: %w", err)
	}
	meta := &metaModel{
		ID:          metaRowID,
		Version:     doc.Version,
		Currency:    doc.Currency,
		LastUpdated: doc.LastUpdated,
	}
	if _, err := s.pg.NewInsert(meta).Exec(ctx); err != nil {
		return fmt.Errorf("tuition/postgres: write snapshot meta: %w", err)
	}
	return nil
}

// Load reads the latest snapshot. Returns (nil, nil) when no snapshot has
// been written yet.
func (s *Store) Load(ctx context.Context) (*snapshot.Document, error) {
	meta := new(metaModel)
	err := s.pg.NewSelect(meta).
		Where("id = $1", metaRowID).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("tuition/postgres: load snapshot meta: %w", err)
	}

	doc := &snapshot.Document{
		Version:     meta.Version,
		Currency:    meta.Currency,
		LastUpdated: meta.LastUpdated,
	}

	var students []studentModel
	if err := s.pg.NewSelect(&students).OrderExpr("wallet ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("tuition/postgres: load students: %w", err)
	}
	for i := range students {
		doc.Students = append(doc.Students, fromStudentModel(&students[i]))
	}

	var schedules []feeScheduleModel
	if err := s.pg.NewSelect(&schedules).OrderExpr("semester ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("tuition/postgres: load fee schedules: %w", err)
	}
	for i := range schedules {
		doc.FeeSchedules = append(doc.FeeSchedules, fromFeeScheduleModel(&schedules[i]))
	}

	var scholarships []scholarshipModel
	if err := s.pg.NewSelect(&scholarships).OrderExpr("wallet ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("tuition/postgres: load scholarships: %w", err)
	}
	for i := range scholarships {
		doc.Scholarships = append(doc.Scholarships, fromScholarshipModel(&scholarships[i]))
	}

	var payments []paymentModel
	if err := s.pg.NewSelect(&payments).OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("tuition/postgres: load payments: %w", err)
	}
	for i := range payments {
		doc.Payments = append(doc.Payments, fromPaymentModel(&payments[i]))
	}

	var requests []requestModel
	if err := s.pg.NewSelect(&requests).OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("tuition/postgres: load requests: %w", err)
	}
	for i := range requests {
		doc.Requests = append(doc.Requests, fromRequestModel(&requests[i]))
	}

	return doc, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
