// Package mongo provides a MongoDB snapshot store backed by Grove ORM.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	"github.com/xraph/tuition/snapshot"
)

// Collection name constants.
const (
	colStudents     = "tuition_students"
	colFeeSchedules = "tuition_fee_schedules"
	colScholarships = "tuition_scholarships"
	colPayments     = "tuition_payments"
	colRequests     = "tuition_requests"
	colMeta         = "tuition_snapshot_meta"
)

// metaRowID is the fixed _id of the single snapshot metadata document.
const metaRowID = 1

// compile-time interface check
var _ snapshot.Store = (*Store)(nil)

// Store implements snapshot.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB snapshot store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for all snapshot collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("tuition/mongo: migrate %s indexes: %w", col, err)
		}
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

// Write replaces the stored snapshot wholesale. Each collection is cleared
// and rewritten from the document; the metadata document goes last.
func (s *Store) Write(ctx context.Context, doc *snapshot.Document) error {
	if _, err := s.mdb.NewDelete((*studentModel)(nil)).Filter(bson.M{}).Exec(ctx); err != nil {
		return fmt.Errorf("tuition/mongo: clear students: %w", err)
	}
	for _, r := range doc.Students {
		if _, err := s.mdb.NewInsert(toStudentModel(r)).Exec(ctx); err != nil {
			return fmt.Errorf("tuition/mongo: write student %s: %w", r.Wallet, err)
		}
	}

	if _, err := s.mdb.NewDelete((*feeScheduleModel)(nil)).Filter(bson.M{}).Exec(ctx); err != nil {
		return fmt.Errorf("tuition/mongo: clear fee schedules: %w", err)
	}
	for _, r := range doc.FeeSchedules {
		if _, err := s.mdb.NewInsert(toFeeScheduleModel(r)).Exec(ctx); err != nil {
			return fmt.Errorf("tuition/mongo: write fee schedule %s: %w", r.Semester, err)
		}
	}

	if _, err := s.mdb.NewDelete((*scholarshipModel)(nil)).Filter(bson.M{}).Exec(ctx); err != nil {
		return fmt.Errorf("tuition/mongo: clear scholarships: %w", err)
	}
	for _, r := range doc.Scholarships {
		if _, err := s.mdb.NewInsert(toScholarshipModel(r)).Exec(ctx); err != nil {
			return fmt.Errorf("tuition/mongo: write scholarship %s: %w", r.Wallet, err)
		}
	}

	if _, err := s.mdb.NewDelete((*paymentModel)(nil)).Filter(bson.M{}).Exec(ctx); err != nil {
		return fmt.Errorf("tuition/mongo: clear payments: %w", err)
	}
	for _, r := range doc.Payments {
		if _, err := s.mdb.NewInsert(toPaymentModel(r)).Exec(ctx); err != nil {
			return fmt.Errorf("tuition/mongo: write payment %d: %w", r.ID, err)
		}
	}

	if _, err := s.mdb.NewDelete((*requestModel)(nil)).Filter(bson.M{}).Exec(ctx); err != nil {
		return fmt.Errorf("tuition/mongo: clear requests: %w", err)
	}
	for _, r := range doc.Requests {
		if _, err := s.mdb.NewInsert(toRequestModel(r)).Exec(ctx); err != nil {
			return fmt.Errorf("tuition/mongo: write request %s: %w", r.ID, err)
		}
	}

	meta := &metaModel{
		ID:          metaRowID,
		Version:     doc.Version,
		Currency:    doc.Currency,
		LastUpdated: doc.LastUpdated,
	}
	_, err := s.mdb.NewUpdate(meta).
		Filter(bson.M{"_id": metaRowID}).
		Set("version", meta.Version).
		Set("currency", meta.Currency).
		Set("last_updated", meta.LastUpdated).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("tuition/mongo: write snapshot meta: %w", err)
	}
	return nil
}

// Load reads the latest snapshot. Returns (nil, nil) when no snapshot has
// been written yet.
func (s *Store) Load(ctx context.Context) (*snapshot.Document, error) {
	var meta metaModel
	err := s.mdb.NewFind(&meta).
		Filter(bson.M{"_id": metaRowID}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("tuition/mongo: load snapshot meta: %w", err)
	}

	doc := &snapshot.Document{
		Version:     meta.Version,
		Currency:    meta.Currency,
		LastUpdated: meta.LastUpdated,
	}

	var students []studentModel
	if err := s.mdb.NewFind(&students).
		Filter(bson.M{}).
		Sort(bson.D{{Key: "_id", Value: 1}}).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("tuition/mongo: load students: %w", err)
	}
	for i := range students {
		doc.Students = append(doc.Students, fromStudentModel(&students[i]))
	}

	var schedules []feeScheduleModel
	if err := s.mdb.NewFind(&schedules).
		Filter(bson.M{}).
		Sort(bson.D{{Key: "_id", Value: 1}}).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("tuition/mongo: load fee schedules: %w", err)
	}
	for i := range schedules {
		doc.FeeSchedules = append(doc.FeeSchedules, fromFeeScheduleModel(&schedules[i]))
	}

	var scholarships []scholarshipModel
	if err := s.mdb.NewFind(&scholarships).
		Filter(bson.M{}).
		Sort(bson.D{{Key: "_id", Value: 1}}).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("tuition/mongo: load scholarships: %w", err)
	}
	for i := range scholarships {
		doc.Scholarships = append(doc.Scholarships, fromScholarshipModel(&scholarships[i]))
	}

	var payments []paymentModel
	if err := s.mdb.NewFind(&payments).
		Filter(bson.M{}).
		Sort(bson.D{{Key: "_id", Value: 1}}).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("tuition/mongo: load payments: %w", err)
	}
	for i := range payments {
		doc.Payments = append(doc.Payments, fromPaymentModel(&payments[i]))
	}

	var requests []requestModel
	if err := s.mdb.NewFind(&requests).
		Filter(bson.M{}).
		Sort(bson.D{{Key: "_id", Value: 1}}).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("tuition/mongo: load requests: %w", err)
	}
	for i := range requests {
		doc.Requests = append(doc.Requests, fromRequestModel(&requests[i]))
	}

	return doc, nil
}

// ==================== Helpers ====================

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all snapshot collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colStudents: {
			{
				Keys:    bson.D{{Key: "student_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		colFeeSchedules: {},
		colScholarships: {},
		colPayments: {
			{
				Keys:    bson.D{{Key: "wallet", Value: 1}, {Key: "semester", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "wallet", Value: 1}}},
		},
		colRequests: {
			{Keys: bson.D{{Key: "wallet", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		colMeta: {},
	}
}
