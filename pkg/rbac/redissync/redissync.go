// Package redissync keeps rbac snapshots coherent across processes.
//
// Every process publishes the version produced by its commits on a Redis
// channel. Listeners drop cached snapshots older than an announced version so
// the next read reloads from the store.
package redissync

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/assokit/assokit/pkg/logger"
	"github.com/assokit/assokit/pkg/rbac"
)

// DefaultChannel carries version announcements.
const DefaultChannel = "assokit:rbac:versions"

// ErrPublishFailed is returned when an announcement cannot be sent.
var ErrPublishFailed = errors.New("redissync.publish_failed")

type announcement struct {
	AssociationID string `json:"association_id"`
	Version       int64  `json:"version"`
}

// Invalidator is implemented by *rbac.Engine.
type Invalidator interface {
	InvalidateIfOlder(associationID string, version int64) bool
}

// Notifier announces committed versions. It implements rbac.EventPublisher.
type Notifier struct {
	client  redis.Cmdable
	channel string
}

func NewNotifier(client redis.Cmdable, channel string) *Notifier {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Notifier{client: client, channel: channel}
}

func (n *Notifier) Publish(ctx context.Context, ev rbac.Event) error {
	payload, err := json.Marshal(announcement{AssociationID: ev.AssociationID, Version: ev.Version})
	if err != nil {
		return errors.Join(ErrPublishFailed, err)
	}
	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		return errors.Join(ErrPublishFailed, err)
	}
	return nil
}

// Listener applies announcements to an Invalidator.
type Listener struct {
	client  *redis.Client
	channel string
	target  Invalidator
	logger  *slog.Logger
}

func NewListener(client *redis.Client, channel string, target Invalidator, log *slog.Logger) *Listener {
	if channel == "" {
		channel = DefaultChannel
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Listener{
		client:  client,
		channel: channel,
		target:  target,
		logger:  log.With(logger.Component("rbac.redissync")),
	}
}

// Run subscribes and blocks until ctx is done. The subscription is confirmed
// before ready is closed; ready may be nil.
func (l *Listener) Run(ctx context.Context, ready chan<- struct{}) error {
	pubsub := l.client.Subscribe(ctx, l.channel)
	defer func() {
		if err := pubsub.Close(); err != nil {
			l.logger.WarnContext(ctx, "Failed to close subscription", logger.Error(err))
		}
	}()

	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}
	if ready != nil {
		close(ready)
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			l.apply(ctx, msg.Payload)
		}
	}
}

func (l *Listener) apply(ctx context.Context, payload string) {
	var a announcement
	if err := json.Unmarshal([]byte(payload), &a); err != nil || a.AssociationID == "" {
		l.logger.WarnContext(ctx, "Ignoring malformed version announcement", slog.String("payload", payload))
		return
	}
	if l.target.InvalidateIfOlder(a.AssociationID, a.Version) {
		l.logger.DebugContext(ctx, "Snapshot invalidated",
			logger.AssociationID(a.AssociationID),
			logger.Version(a.Version),
		)
	}
}
