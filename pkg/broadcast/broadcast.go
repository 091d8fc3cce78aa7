package broadcast

import "context"

// Message wraps data of type T.
type Message[T any] struct {
	Data T
}

// Subscriber receives messages from a Broadcaster.
type Subscriber[T any] interface {
	// Receive returns the delivery channel. It is closed when the
	// subscription ends.
	Receive(ctx context.Context) <-chan Message[T]
	// Close ends the subscription. It is idempotent.
	Close() error
}

// Broadcaster sends messages to every active subscriber.
type Broadcaster[T any] interface {
	// Subscribe registers a subscriber that lives until ctx is done or it is closed.
	Subscribe(ctx context.Context) Subscriber[T]
	// Broadcast delivers msg without blocking on slow subscribers.
	Broadcast(ctx context.Context, msg Message[T]) error
	// Close ends every subscription. Later subscriptions are born closed.
	Close() error
}
