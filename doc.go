// Package tuition provides a composable tuition payment ledger for Go
// applications.
//
// Tuition is designed as a library, not a service. Import it directly into
// your Go application. It provides:
//
//   - Student registration with two-way unique wallet/student-id mapping
//   - Per-semester fee schedules with payment deadlines
//   - Scholarship discounts with retroactive partial refunds
//   - Exactly-once tuition payments and full refunds
//   - Pluggable settlement strategies (hold pool or pass-through)
//   - A persistent snapshot mirror with restart reconciliation
//   - Extensible plugin hooks for every domain event
//
// # Quick Start
//
// Create a ledger instance with your preferred snapshot store:
//
//	import (
//	    "github.com/xraph/tuition"
//	    "github.com/xraph/tuition/snapshot/file"
//	)
//
//	store := file.New("/var/lib/tuition/snapshot.json")
//	l := tuition.New(store)
//
//	// Start the ledger (restores state, begins the flush worker)
//	if err := l.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Stop()
//
// # Core Concepts
//
// Students are registered under a wallet address and an external student id:
//
//	st, err := l.RegisterStudent(ctx, "0xabc", "S-1001")
//
// Fee schedules set the base fee for a semester:
//
//	sched, err := l.SetFeeSchedule(ctx, "2026S1", tuition.USD(150_000), deadline)
//
// Payments settle and commit exactly once per (wallet, semester):
//
//	p, err := l.PayTuition(ctx, "0xabc", "2026S1", tuition.USD(150_000))
//
// Scholarships discount future fees and partially refund past payments:
//
//	res, err := l.ApplyScholarship(ctx, "0xabc", 30)
//
// The snapshot mirror is rewritten in the background after each mutation and
// replayed on the next Start, so a restart reconciles to the same state.
package tuition
