// Package plugin provides an extensible plugin system for the tuition ledger.
// Plugins can hook into domain events to extend functionality. Delivery is
// fire-and-forget with at-least-once semantics; hooks must never block the
// mutation path.
package plugin

import (
	"context"
	"time"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the plugin is initialized.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, l interface{}) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Registration hooks
// ──────────────────────────────────────────────────

// OnStudentRegistered is called when a student is registered.
type OnStudentRegistered interface {
	Plugin
	OnStudentRegistered(ctx context.Context, st interface{}) error
}

// OnRequestSubmitted is called when a self-service registration request is submitted.
type OnRequestSubmitted interface {
	Plugin
	OnRequestSubmitted(ctx context.Context, req interface{}) error
}

// OnRequestApproved is called when a registration request is approved.
type OnRequestApproved interface {
	Plugin
	OnRequestApproved(ctx context.Context, req interface{}) error
}

// OnRequestRejected is called when a registration request is rejected.
type OnRequestRejected interface {
	Plugin
	OnRequestRejected(ctx context.Context, req interface{}) error
}

// ──────────────────────────────────────────────────
// Fee schedule hooks
// ──────────────────────────────────────────────────

// OnFeeScheduleCreated is called when a fee schedule is created or overwritten.
type OnFeeScheduleCreated interface {
	Plugin
	OnFeeScheduleCreated(ctx context.Context, sched interface{}) error
}

// ──────────────────────────────────────────────────
// Payment hooks
// ──────────────────────────────────────────────────

// OnPaymentReceived is called when a tuition payment is accepted.
type OnPaymentReceived interface {
	Plugin
	OnPaymentReceived(ctx context.Context, p interface{}) error
}

// OnRefundProcessed is called when a full refund completes.
type OnRefundProcessed interface {
	Plugin
	OnRefundProcessed(ctx context.Context, p interface{}) error
}

// ──────────────────────────────────────────────────
// Scholarship hooks
// ──────────────────────────────────────────────────

// OnScholarshipApplied is called once per scholarship change, after any
// retroactive refunds have settled. refundTotal is in the smallest currency unit.
type OnScholarshipApplied interface {
	Plugin
	OnScholarshipApplied(ctx context.Context, wallet string, percent int, refundTotal int64) error
}

// OnScholarshipRefund is called once per payment touched by a retroactive
// scholarship refund. amount is in the smallest currency unit.
type OnScholarshipRefund interface {
	Plugin
	OnScholarshipRefund(ctx context.Context, wallet string, paymentID int64, amount int64) error
}

// ──────────────────────────────────────────────────
// Persistence hooks
// ──────────────────────────────────────────────────

// OnSnapshotFlushed is called when the snapshot mirror has been rewritten.
type OnSnapshotFlushed interface {
	Plugin
	OnSnapshotFlushed(ctx context.Context, records int, elapsed time.Duration) error
}

// OnRestoreCompleted is called when a restart reconciliation finishes.
type OnRestoreCompleted interface {
	Plugin
	OnRestoreCompleted(ctx context.Context, report interface{}) error
}
