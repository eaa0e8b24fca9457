package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// =============================================================================
// Interface
// =============================================================================

// SnapshotLocker guards the read-modify-write cycle over the person and survey tables.
// Lock blocks until the lock is held or ctx is done; the returned func releases it.
type SnapshotLocker interface {
	Lock(ctx context.Context) (unlock func(), err error)
}

// =============================================================================
// Constants
// =============================================================================

const (
	// Key shared by every replica writing the same register
	DefaultSnapshotLockKey = "shelter:snapshot:lock"

	defaultLockTTL     = 10 * time.Second
	lockRetryInterval  = 50 * time.Millisecond
	lockReleaseTimeout = 2 * time.Second
)

// releaseLockScript deletes the lock only while it still carries our token,
// so a holder whose TTL expired cannot release someone else's lock.
var releaseLockScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// renewLockScript extends the TTL only while the lock still carries our token
var renewLockScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('PEXPIRE', KEYS[1], ARGV[2])
	end
	return 0
`)

// =============================================================================
// Local lock
// =============================================================================

// LocalLocker is an in-process mutex whose waiters give up when their context ends
type LocalLocker struct {
	sem chan struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{sem: make(chan struct{}, 1)}
}

func (l *LocalLocker) Lock(ctx context.Context) (func(), error) {
	select {
	case l.sem <- struct{}{}:
		return func() { <-l.sem }, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("failed to acquire snapshot lock: %w", ctx.Err())
	}
}

// =============================================================================
// Redis lock
// =============================================================================

// RedisLocker extends the local lock across processes with SET NX PX.
// The local lock is taken first so one process polls Redis with at most one waiter.
// While held, the TTL is renewed every third of its length, so the TTL only
// bounds how long a crashed holder blocks the others.
type RedisLocker struct {
	local  *LocalLocker
	client *redis.Client
	key    string
	ttl    time.Duration
	log    *logrus.Logger
}

func NewRedisLocker(client *redis.Client, key string, ttl time.Duration, log *logrus.Logger) *RedisLocker {
	if key == "" {
		key = DefaultSnapshotLockKey
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &RedisLocker{
		local:  NewLocalLocker(),
		client: client,
		key:    key,
		ttl:    ttl,
		log:    log,
	}
}

func (l *RedisLocker) Lock(ctx context.Context) (func(), error) {
	unlockLocal, err := l.local.Lock(ctx)
	if err != nil {
		return nil, err
	}

	token := uuid.NewString()
	ticker := time.NewTicker(lockRetryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
		if err != nil {
			unlockLocal()
			l.log.Warnf("Failed to acquire redis snapshot lock %s: %+v", l.key, err)
			return nil, fmt.Errorf("failed to acquire snapshot lock: %w", err)
		}
		if ok {
			l.log.Debugf("Acquired redis snapshot lock %s", l.key)
			stop := make(chan struct{})
			stopped := make(chan struct{})
			go l.keepAlive(token, stop, stopped)

			return func() {
				close(stop)
				<-stopped
				l.release(token)
				unlockLocal()
			}, nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			unlockLocal()
			return nil, fmt.Errorf("failed to acquire snapshot lock: %w", ctx.Err())
		}
	}
}

// keepAlive renews the lock until stop is closed or the token is no longer ours
func (l *RedisLocker) keepAlive(token string, stop <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)

	ticker := time.NewTicker(l.ttl / 3)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), lockReleaseTimeout)
		renewed, err := renewLockScript.Run(ctx, l.client, []string{l.key}, token, l.ttl.Milliseconds()).Int()
		cancel()
		if err != nil {
			l.log.Warnf("Failed to renew redis snapshot lock %s: %+v", l.key, err)
			continue
		}
		if renewed == 0 {
			l.log.Warnf("Lost redis snapshot lock %s before release", l.key)
			return
		}
	}
}

func (l *RedisLocker) release(token string) {
	ctx, cancel := context.WithTimeout(context.Background(), lockReleaseTimeout)
	defer cancel()

	if err := releaseLockScript.Run(ctx, l.client, []string{l.key}, token).Err(); err != nil {
		l.log.Warnf("Failed to release redis snapshot lock %s: %+v", l.key, err)
	}
}
