package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"
)

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit               []OnInit
	onShutdown           []OnShutdown
	onStudentRegistered  []OnStudentRegistered
	onRequestSubmitted   []OnRequestSubmitted
	onRequestApproved    []OnRequestApproved
	onRequestRejected    []OnRequestRejected
	onFeeScheduleCreated []OnFeeScheduleCreated
	onPaymentReceived    []OnPaymentReceived
	onRefundProcessed    []OnRefundProcessed
	onScholarshipApplied []OnScholarshipApplied
	onScholarshipRefund  []OnScholarshipRefund
	onSnapshotFlushed    []OnSnapshotFlushed
	onRestoreCompleted   []OnRestoreCompleted
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate
	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	// Type-switch to cache interfaces
	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnStudentRegistered); ok {
		r.onStudentRegistered = append(r.onStudentRegistered, v)
	}
	if v, ok := p.(OnRequestSubmitted); ok {
		r.onRequestSubmitted = append(r.onRequestSubmitted, v)
	}
	if v, ok := p.(OnRequestApproved); ok {
		r.onRequestApproved = append(r.onRequestApproved, v)
	}
	if v, ok := p.(OnRequestRejected); ok {
		r.onRequestRejected = append(r.onRequestRejected, v)
	}
	if v, ok := p.(OnFeeScheduleCreated); ok {
		r.onFeeScheduleCreated = append(r.onFeeScheduleCreated, v)
	}
	if v, ok := p.(OnPaymentReceived); ok {
		r.onPaymentReceived = append(r.onPaymentReceived, v)
	}
	if v, ok := p.(OnRefundProcessed); ok {
		r.onRefundProcessed = append(r.onRefundProcessed, v)
	}
	if v, ok := p.(OnScholarshipApplied); ok {
		r.onScholarshipApplied = append(r.onScholarshipApplied, v)
	}
	if v, ok := p.(OnScholarshipRefund); ok {
		r.onScholarshipRefund = append(r.onScholarshipRefund, v)
	}
	if v, ok := p.(OnSnapshotFlushed); ok {
		r.onSnapshotFlushed = append(r.onSnapshotFlushed, v)
	}
	if v, ok := p.(OnRestoreCompleted); ok {
		r.onRestoreCompleted = append(r.onRestoreCompleted, v)
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", r.getImplementedInterfaces(p),
	)

	return nil
}

// getImplementedInterfaces returns a list of interfaces implemented by the plugin.
func (r *Registry) getImplementedInterfaces(p Plugin) []string {
	var interfaces []string
	v := reflect.TypeOf(p)

	checkInterface := func(iface reflect.Type, name string) {
		if v.Implements(iface) {
			interfaces = append(interfaces, name)
		}
	}

	checkInterface(reflect.TypeOf((*OnInit)(nil)).Elem(), "OnInit")
	checkInterface(reflect.TypeOf((*OnShutdown)(nil)).Elem(), "OnShutdown")
	checkInterface(reflect.TypeOf((*OnStudentRegistered)(nil)).Elem(), "OnStudentRegistered")
	checkInterface(reflect.TypeOf((*OnFeeScheduleCreated)(nil)).Elem(), "OnFeeScheduleCreated")
	checkInterface(reflect.TypeOf((*OnPaymentReceived)(nil)).Elem(), "OnPaymentReceived")
	checkInterface(reflect.TypeOf((*OnRefundProcessed)(nil)).Elem(), "OnRefundProcessed")
	checkInterface(reflect.TypeOf((*OnScholarshipApplied)(nil)).Elem(), "OnScholarshipApplied")
	checkInterface(reflect.TypeOf((*OnScholarshipRefund)(nil)).Elem(), "OnScholarshipRefund")
	checkInterface(reflect.TypeOf((*OnSnapshotFlushed)(nil)).Elem(), "OnSnapshotFlushed")
	checkInterface(reflect.TypeOf((*OnRestoreCompleted)(nil)).Elem(), "OnRestoreCompleted")

	return interfaces
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, ledger interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInit(ctx, ledger)
		}); err != nil {
			r.logger.Warn("plugin OnInit failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnShutdown(ctx)
		}); err != nil {
			r.logger.Warn("plugin OnShutdown failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitStudentRegistered emits a student registered event.
func (r *Registry) EmitStudentRegistered(ctx context.Context, st interface{}) {
	r.mu.RLock()
	plugins := r.onStudentRegistered
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnStudentRegistered(ctx, st)
		}); err != nil {
			r.logger.Warn("plugin OnStudentRegistered failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitRequestSubmitted emits a registration request submitted event.
func (r *Registry) EmitRequestSubmitted(ctx context.Context, req interface{}) {
	r.mu.RLock()
	plugins := r.onRequestSubmitted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnRequestSubmitted(ctx, req)
		}); err != nil {
			r.logger.Warn("plugin OnRequestSubmitted failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitRequestApproved emits a registration request approved event.
func (r *Registry) EmitRequestApproved(ctx context.Context, req interface{}) {
	r.mu.RLock()
	plugins := r.onRequestApproved
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnRequestApproved(ctx, req)
		}); err != nil {
			r.logger.Warn("plugin OnRequestApproved failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitRequestRejected emits a registration request rejected event.
func (r *Registry) EmitRequestRejected(ctx context.Context, req interface{}) {
	r.mu.RLock()
	plugins := r.onRequestRejected
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnRequestRejected(ctx, req)
		}); err != nil {
			r.logger.Warn("plugin OnRequestRejected failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitFeeScheduleCreated emits a fee schedule created event.
func (r *Registry) EmitFeeScheduleCreated(ctx context.Context, sched interface{}) {
	r.mu.RLock()
	plugins := r.onFeeScheduleCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnFeeScheduleCreated(ctx, sched)
		}); err != nil {
			r.logger.Warn("plugin OnFeeScheduleCreated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitPaymentReceived emits a payment received event.
func (r *Registry) EmitPaymentReceived(ctx context.Context, pay interface{}) {
	r.mu.RLock()
	plugins := r.onPaymentReceived
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnPaymentReceived(ctx, pay)
		}); err != nil {
			r.logger.Warn("plugin OnPaymentReceived failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitRefundProcessed emits a refund processed event.
func (r *Registry) EmitRefundProcessed(ctx context.Context, pay interface{}) {
	r.mu.RLock()
	plugins := r.onRefundProcessed
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnRefundProcessed(ctx, pay)
		}); err != nil {
			r.logger.Warn("plugin OnRefundProcessed failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitScholarshipApplied emits a scholarship applied event.
func (r *Registry) EmitScholarshipApplied(ctx context.Context, wallet string, percent int, refundTotal int64) {
	r.mu.RLock()
	plugins := r.onScholarshipApplied
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnScholarshipApplied(ctx, wallet, percent, refundTotal)
		}); err != nil {
			r.logger.Warn("plugin OnScholarshipApplied failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitScholarshipRefund emits a per-payment scholarship refund event.
func (r *Registry) EmitScholarshipRefund(ctx context.Context, wallet string, paymentID int64, amount int64) {
	r.mu.RLock()
	plugins := r.onScholarshipRefund
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnScholarshipRefund(ctx, wallet, paymentID, amount)
		}); err != nil {
			r.logger.Warn("plugin OnScholarshipRefund failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitSnapshotFlushed emits a snapshot flushed event.
func (r *Registry) EmitSnapshotFlushed(ctx context.Context, records int, elapsed time.Duration) {
	r.mu.RLock()
	plugins := r.onSnapshotFlushed
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnSnapshotFlushed(ctx, records, elapsed)
		}); err != nil {
			r.logger.Warn("plugin OnSnapshotFlushed failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitRestoreCompleted emits a restore completed event.
func (r *Registry) EmitRestoreCompleted(ctx context.Context, report interface{}) {
	r.mu.RLock()
	plugins := r.onRestoreCompleted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnRestoreCompleted(ctx, report)
		}); err != nil {
			r.logger.Warn("plugin OnRestoreCompleted failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block the ledger pipeline.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
