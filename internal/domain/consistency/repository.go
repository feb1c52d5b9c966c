package consistency

import "context"

// Repository stores inconsistency records. Each entity's record is written
// atomically; merging is last-merge-wins per extra key.
type Repository interface {
	// Reset clears every record. Called at the start of a reconciliation
	// run.
	Reset(ctx context.Context) error

	// Upsert merges the record's info into the stored record for the same
	// entity key, creating it if absent.
	Upsert(ctx context.Context, record *Record) error

	// List returns all current records, optionally filtered by kind
	// (empty kind = all).
	List(ctx context.Context, kind Kind) ([]*Record, error)

	// GetByEntity returns the record for one entity key, or nil.
	GetByEntity(ctx context.Context, kind Kind, entityKey string) (*Record, error)

	// DeleteByEntity removes the record once a suggested fix is confirmed
	// applied.
	DeleteByEntity(ctx context.Context, kind Kind, entityKey string) error
}
