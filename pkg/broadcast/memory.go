package broadcast

import (
	"context"
	"sync"
)

const defaultBufferSize = 64

type options struct {
	bufferSize int
	onDrop     func()
}

// Option configures a MemoryBroadcaster.
type Option func(*options)

// WithBufferSize sets the per-subscriber channel capacity. Values below 1 are raised to 1.
func WithBufferSize(n int) Option {
	return func(o *options) { o.bufferSize = max(n, 1) }
}

// WithOnDrop registers a hook called each time a full subscriber misses a message.
func WithOnDrop(fn func()) Option {
	return func(o *options) { o.onDrop = fn }
}

// MemoryBroadcaster is an in-process Broadcaster. It is safe for concurrent use.
type MemoryBroadcaster[T any] struct {
	opts   options
	mu     sync.RWMutex
	subs   map[*subscription[T]]struct{}
	closed bool
}

// NewMemoryBroadcaster returns a broadcaster ready for use.
func NewMemoryBroadcaster[T any](opts ...Option) *MemoryBroadcaster[T] {
	o := options{bufferSize: defaultBufferSize}
	for _, opt := range opts {
		opt(&o)
	}
	return &MemoryBroadcaster[T]{
		opts: o,
		subs: make(map[*subscription[T]]struct{}),
	}
}

func (b *MemoryBroadcaster[T]) Subscribe(ctx context.Context) Subscriber[T] {
	sub := &subscription[T]{ch: make(chan Message[T], b.opts.bufferSize)}
	sub.detach = func() { b.remove(sub) }

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		sub.end()
		return sub
	}
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	sub.stop = context.AfterFunc(ctx, func() { _ = sub.Close() })
	return sub
}

func (b *MemoryBroadcaster[T]) Broadcast(ctx context.Context, msg Message[T]) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrClosed
	}
	for sub := range b.subs {
		if !sub.deliver(msg) && b.opts.onDrop != nil {
			b.opts.onDrop()
		}
	}
	return nil
}

// Len returns the number of active subscribers.
func (b *MemoryBroadcaster[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *MemoryBroadcaster[T]) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	subs := b.subs
	b.subs = make(map[*subscription[T]]struct{})
	b.mu.Unlock()

	for sub := range subs {
		sub.end()
	}
	return nil
}

func (b *MemoryBroadcaster[T]) remove(sub *subscription[T]) {
	b.mu.Lock()
	delete(b.subs, sub)
	b.mu.Unlock()
}

type subscription[T any] struct {
	ch     chan Message[T]
	mu     sync.RWMutex
	done   bool
	detach func()
	stop   func() bool
}

func (s *subscription[T]) Receive(context.Context) <-chan Message[T] {
	return s.ch
}

func (s *subscription[T]) Close() error {
	if s.stop != nil {
		s.stop()
	}
	s.detach()
	s.end()
	return nil
}

// end closes the channel once. Holding the write lock waits for in-flight deliveries.
func (s *subscription[T]) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.done {
		s.done = true
		close(s.ch)
	}
}

func (s *subscription[T]) deliver(msg Message[T]) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.done {
		return false
	}
	select {
	case s.ch <- msg:
		return true
	default:
		return false
	}
}
