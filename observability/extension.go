// Package observability provides a metrics extension for the tuition ledger
// that records lifecycle event counts via a MetricFactory.
package observability

import (
	"context"
	"time"

	"github.com/xraph/tuition/plugin"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin               = (*MetricsExtension)(nil)
	_ plugin.OnInit               = (*MetricsExtension)(nil)
	_ plugin.OnStudentRegistered  = (*MetricsExtension)(nil)
	_ plugin.OnRequestSubmitted   = (*MetricsExtension)(nil)
	_ plugin.OnRequestApproved    = (*MetricsExtension)(nil)
	_ plugin.OnRequestRejected    = (*MetricsExtension)(nil)
	_ plugin.OnFeeScheduleCreated = (*MetricsExtension)(nil)
	_ plugin.OnPaymentReceived    = (*MetricsExtension)(nil)
	_ plugin.OnRefundProcessed    = (*MetricsExtension)(nil)
	_ plugin.OnScholarshipApplied = (*MetricsExtension)(nil)
	_ plugin.OnScholarshipRefund  = (*MetricsExtension)(nil)
	_ plugin.OnSnapshotFlushed    = (*MetricsExtension)(nil)
	_ plugin.OnRestoreCompleted   = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as a ledger plugin to automatically track tuition metrics.
type MetricsExtension struct {
	factory MetricFactory

	// Registration metrics
	StudentsRegistered Counter
	RequestsSubmitted  Counter
	RequestsApproved   Counter
	RequestsRejected   Counter

	// Fee metrics
	FeeSchedulesCreated Counter

	// Payment metrics
	PaymentsReceived Counter
	RefundsProcessed Counter

	// Scholarship metrics
	ScholarshipsApplied    Counter
	ScholarshipRefunds     Counter
	ScholarshipRefundTotal Histogram

	// Snapshot metrics
	SnapshotRecords      Histogram
	SnapshotFlushLatency Histogram
	RestoreCompleted     Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Registration metrics
		StudentsRegistered: factory.Counter("tuition.student.registered"),
		RequestsSubmitted:  factory.Counter("tuition.request.submitted"),
		RequestsApproved:   factory.Counter("tuition.request.approved"),
		RequestsRejected:   factory.Counter("tuition.request.rejected"),

		// Fee metrics
		FeeSchedulesCreated: factory.Counter("tuition.fee_schedule.created"),

		// Payment metrics
		PaymentsReceived: factory.Counter("tuition.payment.received"),
		RefundsProcessed: factory.Counter("tuition.refund.processed"),

		// Scholarship metrics
		ScholarshipsApplied:    factory.Counter("tuition.scholarship.applied"),
		ScholarshipRefunds:     factory.Counter("tuition.scholarship.refunds"),
		ScholarshipRefundTotal: factory.Histogram("tuition.scholarship.refund_total"),

		// Snapshot metrics
		SnapshotRecords:      factory.Histogram("tuition.snapshot.records"),
		SnapshotFlushLatency: factory.Histogram("tuition.snapshot.flush.latency_ms"),
		RestoreCompleted:     factory.Counter("tuition.restore.completed"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// ──────────────────────────────────────────────────
// Registration lifecycle hooks
// ──────────────────────────────────────────────────

// OnStudentRegistered implements plugin.OnStudentRegistered.
func (m *MetricsExtension) OnStudentRegistered(_ context.Context, _ interface{}) error {
	m.StudentsRegistered.Inc()
	return nil
}

// OnRequestSubmitted implements plugin.OnRequestSubmitted.
func (m *MetricsExtension) OnRequestSubmitted(_ context.Context, _ interface{}) error {
	m.RequestsSubmitted.Inc()
	return nil
}

// OnRequestApproved implements plugin.OnRequestApproved.
func (m *MetricsExtension) OnRequestApproved(_ context.Context, _ interface{}) error {
	m.RequestsApproved.Inc()
	return nil
}

// OnRequestRejected implements plugin.OnRequestRejected.
func (m *MetricsExtension) OnRequestRejected(_ context.Context, _ interface{}) error {
	m.RequestsRejected.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Fee schedule hooks
// ──────────────────────────────────────────────────

// OnFeeScheduleCreated implements plugin.OnFeeScheduleCreated.
func (m *MetricsExtension) OnFeeScheduleCreated(_ context.Context, _ interface{}) error {
	m.FeeSchedulesCreated.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Payment lifecycle hooks
// ──────────────────────────────────────────────────

// OnPaymentReceived implements plugin.OnPaymentReceived.
func (m *MetricsExtension) OnPaymentReceived(_ context.Context, _ interface{}) error {
	m.PaymentsReceived.Inc()
	return nil
}

// OnRefundProcessed implements plugin.OnRefundProcessed.
func (m *MetricsExtension) OnRefundProcessed(_ context.Context, _ interface{}) error {
	m.RefundsProcessed.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Scholarship lifecycle hooks
// ──────────────────────────────────────────────────

// OnScholarshipApplied implements plugin.OnScholarshipApplied.
func (m *MetricsExtension) OnScholarshipApplied(_ context.Context, _ string, _ int, refundTotal int64) error {
	m.ScholarshipsApplied.Inc()
	m.ScholarshipRefundTotal.Observe(float64(refundTotal))
	return nil
}

// OnScholarshipRefund implements plugin.OnScholarshipRefund.
func (m *MetricsExtension) OnScholarshipRefund(_ context.Context, _ string, _ int64, _ int64) error {
	m.ScholarshipRefunds.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Persistence lifecycle hooks
// ──────────────────────────────────────────────────

// OnSnapshotFlushed implements plugin.OnSnapshotFlushed.
func (m *MetricsExtension) OnSnapshotFlushed(_ context.Context, records int, elapsed time.Duration) error {
	m.SnapshotRecords.Observe(float64(records))
	m.SnapshotFlushLatency.Observe(float64(elapsed.Milliseconds()))
	return nil
}

// OnRestoreCompleted implements plugin.OnRestoreCompleted.
func (m *MetricsExtension) OnRestoreCompleted(_ context.Context, _ interface{}) error {
	m.RestoreCompleted.Inc()
	return nil
}
