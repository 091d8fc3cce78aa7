package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ContextExtractor extracts a string value from context.
type ContextExtractor func(context.Context) (string, bool)

// Logger writes audit events to a Storage.
type Logger struct {
	storage      Storage
	associations ContextExtractor
	actors       ContextExtractor
	hasher       Hasher
	now          func() time.Time
}

// Option configures a Logger.
type Option func(*Logger)

func WithAssociationIDExtractor(fn ContextExtractor) Option {
	return func(l *Logger) { l.associations = fn }
}

func WithActorIDExtractor(fn ContextExtractor) Option {
	return func(l *Logger) { l.actors = fn }
}

// WithHasher stores a checksum computed by h on every event.
func WithHasher(h Hasher) Option {
	return func(l *Logger) { l.hasher = h }
}

func WithClock(now func() time.Time) Option {
	return func(l *Logger) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLogger creates an audit logger. It panics when storage is nil.
func NewLogger(storage Storage, opts ...Option) *Logger {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}

	l := &Logger{
		storage: storage,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Log records a successful action.
func (l *Logger) Log(ctx context.Context, action string, opts ...EventOption) error {
	return l.write(ctx, l.newEvent(ctx, action, ResultSuccess, "", opts))
}

// LogError records a failed action.
func (l *Logger) LogError(ctx context.Context, action string, err error, opts ...EventOption) error {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return l.write(ctx, l.newEvent(ctx, action, ResultError, msg, opts))
}

func (l *Logger) newEvent(ctx context.Context, action string, result Result, errMsg string, opts []EventOption) Event {
	event := Event{
		ID:        uuid.NewString(),
		Action:    action,
		Result:    result,
		Error:     errMsg,
		CreatedAt: l.now(),
	}
	if l.associations != nil {
		if id, ok := l.associations(ctx); ok {
			event.AssociationID = id
		}
	}
	if l.actors != nil {
		if id, ok := l.actors(ctx); ok {
			event.ActorID = id
		}
	}
	for _, opt := range opts {
		opt(&event)
	}
	return event
}

func (l *Logger) write(ctx context.Context, event Event) error {
	if err := event.Validate(); err != nil {
		return err
	}
	if l.hasher != nil {
		event.Checksum = l.hasher.Hash(event)
	}
	if err := l.storage.Store(ctx, event); err != nil {
		return errors.Join(ErrStorageFailure, err)
	}
	return nil
}
