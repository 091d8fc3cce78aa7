// Package redislock serializes rbac mutations across processes with a Redis lock.
//
// A lock is a key set with SET NX PX holding a random token. It is released
// by a script that deletes the key only if it still holds that token, so an
// expired holder can never release a lock acquired by someone else.
package redislock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/assokit/assokit/pkg/rbac"
)

var (
	// ErrNotAcquired is returned when the lock stays busy until ctx is done.
	ErrNotAcquired = errors.New("redislock.not_acquired")
	// ErrLockLost is returned by unlock when the key expired or changed owner.
	ErrLockLost = errors.New("redislock.lock_lost")
)

var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker implements rbac.Locker on Redis.
type Locker struct {
	client redis.Cmdable
	ttl    time.Duration
	retry  time.Duration
	prefix string
}

// Option configures a Locker.
type Option func(*Locker)

// WithTTL bounds how long a crashed holder can keep the lock. Defaults to 10s.
func WithTTL(ttl time.Duration) Option {
	return func(l *Locker) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

// WithRetryInterval sets the polling interval while the lock is busy. Defaults to 25ms.
func WithRetryInterval(d time.Duration) Option {
	return func(l *Locker) {
		if d > 0 {
			l.retry = d
		}
	}
}

// WithPrefix namespaces lock keys.
func WithPrefix(prefix string) Option {
	return func(l *Locker) { l.prefix = prefix }
}

func New(client redis.Cmdable, opts ...Option) *Locker {
	l := &Locker{
		client: client,
		ttl:    10 * time.Second,
		retry:  25 * time.Millisecond,
		prefix: "assokit:lock:",
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Lock blocks until the key is acquired or ctx is done.
func (l *Locker) Lock(ctx context.Context, key string) (rbac.UnlockFunc, error) {
	key = l.prefix + key
	token := uuid.NewString()

	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return nil, errors.Join(ErrNotAcquired, err)
		}
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, errors.Join(ErrNotAcquired, ctx.Err())
			}
			return nil, err
		}
		if ok {
			return l.unlocker(key, token), nil
		}

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrNotAcquired, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (l *Locker) unlocker(key, token string) rbac.UnlockFunc {
	return func(ctx context.Context) error {
		n, err := unlockScript.Run(ctx, l.client, []string{key}, token).Int64()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrLockLost
		}
		return nil
	}
}
