package snapshot

import "context"

// Store persists snapshot documents. Write replaces the previous snapshot
// wholesale; Load returns the latest snapshot, or nil when none exists yet.
//
// Implementations must tolerate concurrent Write calls from the flush worker
// and must leave the previous snapshot intact if a Write fails part-way.
type Store interface {
	Write(ctx context.Context, doc *Document) error
	Load(ctx context.Context) (*Document, error)

	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
