package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker_SerializesHolders(t *testing.T) {
	locker := NewLocalLocker()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(context.Background())
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
}

func TestLocalLocker_HonoursContext(t *testing.T) {
	locker := NewLocalLocker()
	unlock, err := locker.Lock(context.Background())
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = locker.Lock(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, func() *redis.Client) {
	mr := miniredis.RunT(t)
	return mr, func() *redis.Client {
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { client.Close() })
		return client
	}
}

func TestRedisLocker_ExcludesOtherProcesses(t *testing.T) {
	mr, newClient := newTestRedis(t)
	first := NewRedisLocker(newClient(), "", time.Second, quietLogger())
	second := NewRedisLocker(newClient(), "", time.Second, quietLogger())

	unlock, err := first.Lock(context.Background())
	require.NoError(t, err)
	assert.True(t, mr.Exists(DefaultSnapshotLockKey))

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()
	_, err = second.Lock(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	assert.False(t, mr.Exists(DefaultSnapshotLockKey))

	unlockSecond, err := second.Lock(context.Background())
	require.NoError(t, err)
	unlockSecond()
}

func TestRedisLocker_WaitsForRelease(t *testing.T) {
	_, newClient := newTestRedis(t)
	first := NewRedisLocker(newClient(), "register", time.Second, quietLogger())
	second := NewRedisLocker(newClient(), "register", time.Second, quietLogger())

	unlock, err := first.Lock(context.Background())
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		unlockSecond, err := second.Lock(context.Background())
		if err == nil {
			unlockSecond()
		}
		close(acquired)
	}()

	time.Sleep(80 * time.Millisecond)
	unlock()

	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("second locker never acquired the lock")
	}
}

func TestRedisLocker_ReleaseKeepsForeignToken(t *testing.T) {
	mr, newClient := newTestRedis(t)
	locker := NewRedisLocker(newClient(), "register", time.Second, quietLogger())

	unlock, err := locker.Lock(context.Background())
	require.NoError(t, err)

	// Our TTL lapsed and another replica took the lock
	mr.FastForward(2 * time.Second)
	require.NoError(t, mr.Set("register", "other-token"))

	unlock()

	got, err := mr.Get("register")
	require.NoError(t, err)
	assert.Equal(t, "other-token", got)
}

func TestRedisLocker_RenewsWhileHeld(t *testing.T) {
	mr, newClient := newTestRedis(t)
	locker := NewRedisLocker(newClient(), "register", 300*time.Millisecond, quietLogger())

	unlock, err := locker.Lock(context.Background())
	require.NoError(t, err)

	// Two thirds of the TTL pass twice; without renewals the key would be gone
	mr.FastForward(200 * time.Millisecond)
	time.Sleep(250 * time.Millisecond)
	mr.FastForward(200 * time.Millisecond)
	assert.True(t, mr.Exists("register"), "lock expired while still held")

	unlock()
	assert.False(t, mr.Exists("register"))
}

func TestRedisLocker_RedisDown(t *testing.T) {
	mr, newClient := newTestRedis(t)
	locker := NewRedisLocker(newClient(), "register", time.Second, quietLogger())
	mr.Close()

	_, err := locker.Lock(context.Background())
	require.Error(t, err)

	// The local half must have been released
	unlock, err := locker.local.Lock(context.Background())
	require.NoError(t, err)
	unlock()
}
