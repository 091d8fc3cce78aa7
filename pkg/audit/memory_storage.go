package audit

import (
	"context"
	"slices"
	"sync"
)

// MemoryStorage keeps events in process memory. It is safe for concurrent use.
type MemoryStorage struct {
	mu     sync.RWMutex
	events []Event
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (s *MemoryStorage) Store(ctx context.Context, events ...Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, events...)
	return nil
}

// Query returns matching events newest first, then applies Offset and Limit.
func (s *MemoryStorage) Query(ctx context.Context, criteria Criteria) ([]Event, error) {
	s.mu.RLock()
	var out []Event
	for i := len(s.events) - 1; i >= 0; i-- {
		if criteria.Matches(s.events[i]) {
			out = append(out, s.events[i])
		}
	}
	s.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b Event) int { return b.CreatedAt.Compare(a.CreatedAt) })

	if criteria.Offset > 0 {
		if criteria.Offset >= len(out) {
			return nil, nil
		}
		out = out[criteria.Offset:]
	}
	if criteria.Limit > 0 && len(out) > criteria.Limit {
		out = out[:criteria.Limit]
	}
	return out, nil
}

func (s *MemoryStorage) Count(ctx context.Context, criteria Criteria) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, e := range s.events {
		if criteria.Matches(e) {
			n++
		}
	}
	return n, nil
}
