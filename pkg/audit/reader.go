package audit

import "context"

// Reader queries stored audit events.
type Reader struct {
	storage Storage
}

// NewReader creates a reader over storage. It panics when storage is nil.
func NewReader(storage Storage) *Reader {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}
	return &Reader{storage: storage}
}

// Find returns events matching criteria, newest first.
func (r *Reader) Find(ctx context.Context, criteria Criteria) ([]Event, error) {
	return r.storage.Query(ctx, criteria)
}

// Count uses StorageCounter when the storage implements it and falls back to
// loading the matching events otherwise.
func (r *Reader) Count(ctx context.Context, criteria Criteria) (int64, error) {
	if counter, ok := r.storage.(StorageCounter); ok {
		return counter.Count(ctx, criteria)
	}

	criteria.Limit, criteria.Offset = 0, 0
	events, err := r.storage.Query(ctx, criteria)
	if err != nil {
		return 0, err
	}
	return int64(len(events)), nil
}
