// Package broadcast fans typed messages out to in-process subscribers.
//
// Broadcast never blocks: a subscriber whose buffer is full misses the
// message and the drop is reported to the OnDrop hook. Subscriptions end
// when their context is cancelled, when Close is called on them or when the
// broadcaster is closed.
//
//	b := broadcast.NewMemoryBroadcaster[rbac.Event](broadcast.WithBufferSize(256))
//	sub := b.Subscribe(ctx)
//	for msg := range sub.Receive(ctx) {
//	    handle(msg.Data)
//	}
package broadcast
