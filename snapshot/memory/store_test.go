package memory

import (
	"context"
	"testing"

	"github.com/xraph/tuition/snapshot"
)

func TestWriteLoadIsolation(t *testing.T) {
	ctx := context.Background()
	s := New()

	doc, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc != nil {
		t.Errorf("Load() on empty store = %+v, want nil", doc)
	}

	orig := snapshot.NewDocument("usd")
	orig.Students = []snapshot.StudentRecord{{Wallet: "0xabc", StudentID: "S-1"}}
	if err := s.Write(ctx, orig); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	// Mutating the original after Write must not affect the stored copy.
	orig.Students[0].Wallet = "0xmutated"

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Students[0].Wallet != "0xabc" {
		t.Errorf("stored wallet = %q, want 0xabc (deep copy)", got.Students[0].Wallet)
	}

	// Mutating a loaded copy must not affect the store either.
	got.Students[0].StudentID = "S-mutated"
	again, _ := s.Load(ctx)
	if again.Students[0].StudentID != "S-1" {
		t.Errorf("stored student id = %q, want S-1", again.Students[0].StudentID)
	}
}

func TestClose(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.Write(ctx, snapshot.NewDocument("usd"))

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	doc, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc != nil {
		t.Error("Load() after Close should return nil")
	}
}
