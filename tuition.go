// Package tuition implements a tuition payment ledger: student registration,
// per-semester fee schedules, scholarship discounts with retroactive refunds,
// and a persistent snapshot mirror used for restart reconciliation.
//
// The in-memory ledger is the source of truth while running. Every mutation
// marks the state dirty and a background worker rewrites the snapshot mirror;
// on startup the mirror is replayed through the regular operations so the
// restored state satisfies the same invariants as live state.
package tuition

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/tuition/fee"
	"github.com/xraph/tuition/payment"
	"github.com/xraph/tuition/plugin"
	"github.com/xraph/tuition/settlement"
	"github.com/xraph/tuition/snapshot"
	"github.com/xraph/tuition/student"
	"github.com/xraph/tuition/types"
)

// paymentKey identifies the unique payment slot for a wallet in a semester.
type paymentKey struct {
	wallet   string
	semester string
}

// Ledger is the main tuition engine.
type Ledger struct {
	mu sync.RWMutex

	students    map[string]*student.Student             // wallet -> student
	byStudentID map[string]string                       // student id -> wallet
	schedules   map[string]*fee.Schedule                // semester -> schedule
	payments    map[int64]*payment.Payment              // payment id -> payment
	paymentIdx  map[paymentKey]int64                    // (wallet, semester) -> payment id
	pending     map[paymentKey]struct{}                 // payments staged but not yet settled
	refunding   map[int64]struct{}                      // refunds staged but not yet settled
	requests    map[string]*student.RegistrationRequest // request id -> request

	nextPaymentID  int64
	totalCollected types.Money
	totalRefunded  types.Money

	snapshots snapshot.Store
	settler   settlement.Settler
	plugins   *plugin.Registry
	logger    *slog.Logger
	clock     func() time.Time

	// Background worker
	dirty    chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup

	// Configuration
	currency         string
	snapshotInterval time.Duration
	transferTimeout  time.Duration
	disableMigrate   bool
}

// New creates a new Ledger backed by the given snapshot store.
func New(s snapshot.Store, opts ...Option) *Ledger {
	l := &Ledger{
		students:         make(map[string]*student.Student),
		byStudentID:      make(map[string]string),
		schedules:        make(map[string]*fee.Schedule),
		payments:         make(map[int64]*payment.Payment),
		paymentIdx:       make(map[paymentKey]int64),
		pending:          make(map[paymentKey]struct{}),
		refunding:        make(map[int64]struct{}),
		requests:         make(map[string]*student.RegistrationRequest),
		nextPaymentID:    1,
		snapshots:        s,
		plugins:          plugin.NewRegistry(),
		logger:           slog.Default(),
		clock:            time.Now,
		dirty:            make(chan struct{}, 1),
		stopChan:         make(chan struct{}),
		currency:         "usd",
		snapshotInterval: 2 * time.Second,
		transferTimeout:  30 * time.Second,
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.settler == nil {
		l.settler = settlement.NewHold(l.currency)
	}
	l.settler = settlement.WithTimeout(l.settler, l.transferTimeout)

	l.totalCollected = types.Zero(l.currency)
	l.totalRefunded = types.Zero(l.currency)

	return l
}

// Option configures a Ledger instance.
type Option func(*Ledger)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
		l.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(l *Ledger) {
		_ = l.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithSettler sets the settlement strategy. Defaults to hold mode: payments
// are pooled and refunds draw from the pool.
func WithSettler(s settlement.Settler) Option {
	return func(l *Ledger) {
		l.settler = s
	}
}

// WithTransferTimeout bounds every settlement transfer. Zero disables the
// guard.
func WithTransferTimeout(d time.Duration) Option {
	return func(l *Ledger) {
		l.transferTimeout = d
	}
}

// WithSnapshotInterval sets how often the dirty state is mirrored to the
// snapshot store.
func WithSnapshotInterval(d time.Duration) Option {
	return func(l *Ledger) {
		l.snapshotInterval = d
	}
}

// WithCurrency sets the ledger currency. All amounts must use it.
func WithCurrency(currency string) Option {
	return func(l *Ledger) {
		l.currency = currency
	}
}

// WithClock overrides the time source, mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(l *Ledger) {
		l.clock = clock
	}
}

// WithDisableMigrate skips snapshot store migration and state restore on
// Start. The flush worker still runs.
func WithDisableMigrate() Option {
	return func(l *Ledger) {
		l.disableMigrate = true
	}
}

// Start migrates the snapshot store, reconciles state from the latest
// snapshot, and begins the background flush worker.
func (l *Ledger) Start(ctx context.Context) error {
	if !l.disableMigrate {
		if err := l.snapshots.Migrate(ctx); err != nil {
			return err
		}

		report, err := l.restore(ctx)
		if err != nil {
			return err
		}
		if report != nil {
			l.plugins.EmitRestoreCompleted(ctx, report)
		}
	}

	l.plugins.EmitInit(ctx, l)

	l.wg.Add(1)
	go l.snapshotFlushWorker(ctx)

	l.logger.Info("tuition ledger started",
		"currency", l.currency,
		"snapshot_interval", l.snapshotInterval,
		"settler_available", l.settler.Available().String(),
	)

	return nil
}

// Stop shuts down the Ledger, flushing a final snapshot.
func (l *Ledger) Stop() error {
	close(l.stopChan)
	l.wg.Wait()

	ctx := context.Background()
	l.flushSnapshot(ctx)
	l.plugins.EmitShutdown(ctx)

	return l.snapshots.Close()
}

// Plugins returns the plugin registry.
func (l *Ledger) Plugins() *plugin.Registry { return l.plugins }

// Currency returns the ledger currency.
func (l *Ledger) Currency() string { return l.currency }

// Available returns the settlement pool balance. Always zero in pass-through
// mode.
func (l *Ledger) Available() types.Money {
	return l.settler.Available()
}

// markDirty schedules a snapshot flush. Non-blocking; multiple marks before
// the next flush coalesce.
func (l *Ledger) markDirty() {
	select {
	case l.dirty <- struct{}{}:
	default:
	}
}

// snapshotFlushWorker mirrors dirty state to the snapshot store.
func (l *Ledger) snapshotFlushWorker(ctx context.Context) {
	defer l.wg.Done()

	ticker := time.NewTicker(l.snapshotInterval)
	defer ticker.Stop()

	pending := false
	for {
		select {
		case <-l.stopChan:
			// The final flush happens in Stop after the worker exits.
			return

		case <-l.dirty:
			pending = true

		case <-ticker.C:
			if pending {
				l.flushSnapshot(ctx)
				pending = false
			}
		}
	}
}

func (l *Ledger) flushSnapshot(ctx context.Context) {
	start := l.clock()
	doc := l.buildDocument()

	if err := l.snapshots.Write(ctx, doc); err != nil {
		l.logger.Error("failed to flush snapshot",
			"error", err,
			"records", doc.Records(),
		)
		return
	}

	elapsed := time.Since(start)
	l.plugins.EmitSnapshotFlushed(ctx, doc.Records(), elapsed)

	l.logger.Debug("flushed snapshot",
		"records", doc.Records(),
		"elapsed_ms", elapsed.Milliseconds(),
	)
}

// buildDocument captures the full ledger state as a snapshot document.
func (l *Ledger) buildDocument() *snapshot.Document {
	l.mu.RLock()
	defer l.mu.RUnlock()

	doc := snapshot.NewDocument(l.currency)
	doc.LastUpdated = l.clock()

	for _, st := range l.students {
		doc.Students = append(doc.Students, snapshot.StudentRecord{
			Wallet:       st.Wallet,
			StudentID:    st.StudentID,
			RegisteredAt: st.CreatedAt,
		})
		if st.ScholarshipPercent > 0 {
			doc.Scholarships = append(doc.Scholarships, snapshot.ScholarshipRecord{
				Wallet:  st.Wallet,
				Percent: st.ScholarshipPercent,
			})
		}
	}

	for _, sched := range l.schedules {
		doc.FeeSchedules = append(doc.FeeSchedules, snapshot.FeeScheduleRecord{
			Semester: sched.Semester,
			Base:     sched.Base.DecimalString(),
			Currency: sched.Base.Currency,
			Deadline: sched.Deadline,
			Active:   sched.Active,
		})
	}

	for _, p := range l.payments {
		doc.AddPayment(snapshot.PaymentRecord{
			ID:        p.ID,
			Wallet:    p.Wallet,
			Semester:  p.Semester,
			Gross:     p.Gross.DecimalString(),
			Remaining: p.Remaining.DecimalString(),
			Currency:  p.Gross.Currency,
			Paid:      p.Paid,
			Refunded:  p.Refunded,
			Timestamp: p.Timestamp,
		})
	}

	for _, req := range l.requests {
		doc.Requests = append(doc.Requests, snapshot.RequestRecord{
			ID:          req.ID.String(),
			Wallet:      req.Wallet,
			StudentID:   req.StudentID,
			Status:      string(req.Status),
			SubmittedAt: req.CreatedAt,
			DecidedAt:   req.DecidedAt,
		})
	}

	doc.Sort()
	return doc
}
