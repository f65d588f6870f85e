package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRedisLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()

	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisLocker(client, zap.NewNop()), s
}

func exerciseMutualExclusion(t *testing.T, l Locker) {
	t.Helper()

	var (
		wg      sync.WaitGroup
		inside  int32
		maxSeen int32
	)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			release, err := l.Acquire(context.Background(), "booking:1:2024-01-15")
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxSeen)
				if n <= m || atomic.CompareAndSwapInt32(&maxSeen, m, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			atomic.AddInt32(&inside, -1)
			release()
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, maxSeen)
}

func TestLocalLocker_MutualExclusion(t *testing.T) {
	exerciseMutualExclusion(t, NewLocalLocker())
}

func TestRedisLocker_MutualExclusion(t *testing.T) {
	l, _ := newRedisLocker(t)
	exerciseMutualExclusion(t, l)
}

func TestLocalLocker_ContextTimeout(t *testing.T) {
	l := NewLocalLocker()

	release, err := l.Acquire(context.Background(), "k")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = l.Acquire(ctx, "k")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	other, err := l.Acquire(context.Background(), "other")
	require.NoError(t, err)
	other()
}

func TestLocalLocker_EvictsIdleKeys(t *testing.T) {
	l := NewLocalLocker()

	for i := 0; i < 50; i++ {
		release, err := l.Acquire(context.Background(), BookingKey(1, time.Date(2030, 1, 1+i, 0, 0, 0, 0, time.UTC)))
		require.NoError(t, err)
		release()
		release()
	}
	assert.Equal(t, 0, l.size())

	held, err := l.Acquire(context.Background(), "k")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(ctx, "k")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, l.size())

	done := make(chan struct{})
	go func() {
		defer close(done)
		release, err := l.Acquire(context.Background(), "k")
		if err == nil {
			release()
		}
	}()

	held()
	<-done
	assert.Equal(t, 0, l.size())
}

func TestRedisLocker_ReleaseKeepsForeignToken(t *testing.T) {
	l, s := newRedisLocker(t)

	release, err := l.Acquire(context.Background(), "k")
	require.NoError(t, err)

	// Simulate expiry and takeover by another holder.
	s.FastForward(11 * time.Second)
	require.NoError(t, s.Set("k", "someone-else"))

	release()

	got, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestRedisLocker_Timeout(t *testing.T) {
	l, _ := newRedisLocker(t)

	release, err := l.Acquire(context.Background(), "k")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	_, err = l.Acquire(ctx, "k")
	assert.ErrorIs(t, err, ErrNotAcquired)
}

func TestBookingKey(t *testing.T) {
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "booking:7:2024-01-15", BookingKey(7, day))
}
