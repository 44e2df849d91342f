// Package audithook bridges tuition ledger lifecycle events to an audit
// trail backend.
//
// It defines a local Recorder interface so the package does not import
// Chronicle directly. Callers inject a RecorderFunc adapter that bridges
// to Chronicle at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/xraph/tuition/plugin"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin               = (*Extension)(nil)
	_ plugin.OnStudentRegistered  = (*Extension)(nil)
	_ plugin.OnRequestSubmitted   = (*Extension)(nil)
	_ plugin.OnRequestApproved    = (*Extension)(nil)
	_ plugin.OnRequestRejected    = (*Extension)(nil)
	_ plugin.OnFeeScheduleCreated = (*Extension)(nil)
	_ plugin.OnPaymentReceived    = (*Extension)(nil)
	_ plugin.OnRefundProcessed    = (*Extension)(nil)
	_ plugin.OnScholarshipApplied = (*Extension)(nil)
	_ plugin.OnScholarshipRefund  = (*Extension)(nil)
	_ plugin.OnSnapshotFlushed    = (*Extension)(nil)
	_ plugin.OnRestoreCompleted   = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// This matches chronicle.Emitter but is defined locally so that the
// audit_hook package does not import Chronicle directly — callers inject
// the concrete *chronicle.Chronicle at wiring time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
// It mirrors chronicle/audit.Event but avoids a module dependency.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges ledger lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Registration lifecycle hooks
// ──────────────────────────────────────────────────

// OnStudentRegistered implements plugin.OnStudentRegistered.
func (e *Extension) OnStudentRegistered(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionStudentRegistered, SeverityInfo, OutcomeSuccess,
		ResourceStudent, "", CategoryRegistration, nil,
		"event", "student_registered",
	)
}

// OnRequestSubmitted implements plugin.OnRequestSubmitted.
func (e *Extension) OnRequestSubmitted(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionRequestSubmitted, SeverityInfo, OutcomeSuccess,
		ResourceRequest, "", CategoryRegistration, nil,
		"event", "request_submitted",
	)
}

// OnRequestApproved implements plugin.OnRequestApproved.
func (e *Extension) OnRequestApproved(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionRequestApproved, SeverityInfo, OutcomeSuccess,
		ResourceRequest, "", CategoryRegistration, nil,
		"event", "request_approved",
	)
}

// OnRequestRejected implements plugin.OnRequestRejected.
func (e *Extension) OnRequestRejected(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionRequestRejected, SeverityWarning, OutcomeSuccess,
		ResourceRequest, "", CategoryRegistration, nil,
		"event", "request_rejected",
	)
}

// ──────────────────────────────────────────────────
// Fee schedule hooks
// ──────────────────────────────────────────────────

// OnFeeScheduleCreated implements plugin.OnFeeScheduleCreated.
func (e *Extension) OnFeeScheduleCreated(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionFeeScheduleCreated, SeverityInfo, OutcomeSuccess,
		ResourceFeeSchedule, "", CategoryBilling, nil,
		"event", "fee_schedule_created",
	)
}

// ──────────────────────────────────────────────────
// Payment lifecycle hooks
// ──────────────────────────────────────────────────

// OnPaymentReceived implements plugin.OnPaymentReceived.
func (e *Extension) OnPaymentReceived(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionPaymentReceived, SeverityInfo, OutcomeSuccess,
		ResourcePayment, "", CategoryPayment, nil,
		"event", "payment_received",
	)
}

// OnRefundProcessed implements plugin.OnRefundProcessed.
func (e *Extension) OnRefundProcessed(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionRefundProcessed, SeverityWarning, OutcomeSuccess,
		ResourcePayment, "", CategoryPayment, nil,
		"event", "refund_processed",
	)
}

// ──────────────────────────────────────────────────
// Scholarship lifecycle hooks
// ──────────────────────────────────────────────────

// OnScholarshipApplied implements plugin.OnScholarshipApplied.
func (e *Extension) OnScholarshipApplied(ctx context.Context, wallet string, percent int, refundTotal int64) error {
	return e.record(ctx, ActionScholarshipApplied, SeverityInfo, OutcomeSuccess,
		ResourceScholarship, wallet, CategoryBilling, nil,
		"wallet", wallet,
		"percent", percent,
		"refund_total", refundTotal,
	)
}

// OnScholarshipRefund implements plugin.OnScholarshipRefund.
func (e *Extension) OnScholarshipRefund(ctx context.Context, wallet string, paymentID int64, amount int64) error {
	return e.record(ctx, ActionScholarshipRefund, SeverityInfo, OutcomeSuccess,
		ResourcePayment, strconv.FormatInt(paymentID, 10), CategoryPayment, nil,
		"wallet", wallet,
		"payment_id", paymentID,
		"amount", amount,
	)
}

// ──────────────────────────────────────────────────
// Persistence lifecycle hooks
// ──────────────────────────────────────────────────

// OnSnapshotFlushed implements plugin.OnSnapshotFlushed.
func (e *Extension) OnSnapshotFlushed(ctx context.Context, records int, elapsed time.Duration) error {
	return e.record(ctx, ActionSnapshotFlushed, SeverityInfo, OutcomeSuccess,
		ResourceSnapshot, "", CategoryPersistence, nil,
		"records", records,
		"elapsed_ms", elapsed.Milliseconds(),
	)
}

// OnRestoreCompleted implements plugin.OnRestoreCompleted.
func (e *Extension) OnRestoreCompleted(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionRestoreCompleted, SeverityInfo, OutcomeSuccess,
		ResourceSnapshot, "", CategoryPersistence, nil,
		"event", "restore_completed",
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
