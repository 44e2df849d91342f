package plugin_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/xraph/tuition/plugin"
)

// basePlugin implements only Plugin.
type basePlugin struct {
	name string
}

func (p *basePlugin) Name() string { return p.name }

// countingPlugin records how many events of each kind it saw.
type countingPlugin struct {
	name string

	registered  atomic.Int64
	payments    atomic.Int64
	refunds     atomic.Int64
	scholarship atomic.Int64

	lastWallet  string
	lastPercent int
}

func (p *countingPlugin) Name() string { return p.name }

func (p *countingPlugin) OnStudentRegistered(_ context.Context, _ interface{}) error {
	p.registered.Add(1)
	return nil
}

func (p *countingPlugin) OnPaymentReceived(_ context.Context, _ interface{}) error {
	p.payments.Add(1)
	return nil
}

func (p *countingPlugin) OnRefundProcessed(_ context.Context, _ interface{}) error {
	p.refunds.Add(1)
	return nil
}

func (p *countingPlugin) OnScholarshipApplied(_ context.Context, wallet string, percent int, _ int64) error {
	p.scholarship.Add(1)
	p.lastWallet = wallet
	p.lastPercent = percent
	return nil
}

// failingPlugin always errors from its hook.
type failingPlugin struct {
	name  string
	calls atomic.Int64
}

func (p *failingPlugin) Name() string { return p.name }

func (p *failingPlugin) OnPaymentReceived(_ context.Context, _ interface{}) error {
	p.calls.Add(1)
	return errors.New("boom")
}

func quietRegistry() *plugin.Registry {
	return plugin.NewRegistry().WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRegistryRegister(t *testing.T) {
	r := quietRegistry()

	if err := r.Register(&basePlugin{name: "one"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register(&basePlugin{name: "two"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if got := r.Count(); got != 2 {
		t.Errorf("Count() = %d, want 2", got)
	}
	if got := r.Get("one"); got == nil || got.Name() != "one" {
		t.Errorf("Get(one) = %v", got)
	}
	if got := r.Get("missing"); got != nil {
		t.Errorf("Get(missing) = %v, want nil", got)
	}
	if got := len(r.List()); got != 2 {
		t.Errorf("List() length = %d, want 2", got)
	}
}

func TestRegistryDuplicateName(t *testing.T) {
	r := quietRegistry()

	if err := r.Register(&basePlugin{name: "dup"}); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if err := r.Register(&countingPlugin{name: "dup"}); err == nil {
		t.Fatal("duplicate registration succeeded, want error")
	}
	if got := r.Count(); got != 1 {
		t.Errorf("Count() after duplicate = %d, want 1", got)
	}
}

func TestRegistryDispatch(t *testing.T) {
	r := quietRegistry()
	ctx := context.Background()

	counting := &countingPlugin{name: "counting"}
	base := &basePlugin{name: "base"} // implements no hooks
	if err := r.Register(counting); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register(base); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	r.EmitStudentRegistered(ctx, nil)
	r.EmitPaymentReceived(ctx, nil)
	r.EmitPaymentReceived(ctx, nil)
	r.EmitRefundProcessed(ctx, nil)
	r.EmitScholarshipApplied(ctx, "0xaaa", 30, 42)

	// Events the plugin does not implement must not reach it.
	r.EmitFeeScheduleCreated(ctx, nil)
	r.EmitShutdown(ctx)

	if got := counting.registered.Load(); got != 1 {
		t.Errorf("registered events = %d, want 1", got)
	}
	if got := counting.payments.Load(); got != 2 {
		t.Errorf("payment events = %d, want 2", got)
	}
	if got := counting.refunds.Load(); got != 1 {
		t.Errorf("refund events = %d, want 1", got)
	}
	if got := counting.scholarship.Load(); got != 1 {
		t.Errorf("scholarship events = %d, want 1", got)
	}
	if counting.lastWallet != "0xaaa" || counting.lastPercent != 30 {
		t.Errorf("scholarship args = (%s, %d), want (0xaaa, 30)",
			counting.lastWallet, counting.lastPercent)
	}
}

func TestRegistryFailingPluginDoesNotBlockOthers(t *testing.T) {
	r := quietRegistry()
	ctx := context.Background()

	failing := &failingPlugin{name: "failing"}
	counting := &countingPlugin{name: "counting"}
	if err := r.Register(failing); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register(counting); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	r.EmitPaymentReceived(ctx, nil)

	if got := failing.calls.Load(); got != 1 {
		t.Errorf("failing plugin calls = %d, want 1", got)
	}
	if got := counting.payments.Load(); got != 1 {
		t.Errorf("counting plugin calls = %d, want 1", got)
	}
}
