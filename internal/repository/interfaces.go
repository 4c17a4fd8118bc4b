package repository

import (
	"context"
	"io"
	"time"

	"impactlog/internal/domain"
)

// RecordStore defines the interface to the remote activity collection.
// All operations are single network round trips with no retry policy;
// a failed attempt surfaces to the caller as a remote error.
type RecordStore interface {
	// List retrieves every activity ordered by created_at descending
	List(ctx context.Context) ([]domain.Activity, error)

	// Upsert inserts the activity or fully replaces the record sharing its id.
	// There are no field-level update semantics.
	Upsert(ctx context.Context, activity domain.Activity) error

	// Delete removes the record; an unknown id is an error the caller handles
	Delete(ctx context.Context, id string) error
}

// AssetStore defines the interface to the write-once photo store
type AssetStore interface {
	// Upload stores the asset under a generated unique name (extension
	// preserved) and returns a publicly resolvable URL. A missing or
	// misconfigured bucket is an operational precondition failure, not
	// something the store can self-heal.
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

// SnapshotStore defines the interface to the locally persisted fallback copy
// of the activity list. It is a convenience, never a source of truth.
type SnapshotStore interface {
	// Read returns the last mirrored list. Missing, corrupt, or unreachable
	// snapshots degrade to an empty list rather than an error.
	Read(ctx context.Context) []domain.Activity

	// Write mirrors the given list wholesale
	Write(ctx context.Context, activities []domain.Activity) error

	// WrittenAt returns when the snapshot was last written, if known
	WrittenAt(ctx context.Context) *time.Time
}
