package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "cache:AllForNavAndAP", Key("AllForNavAndAP"))
	assert.Equal(t, "cache:GetOneByLink:boer-goats", Key("GetOneByLink", "boer-goats"))
}

func TestRememberLoadsOnce(t *testing.T) {
	c := New(time.Hour, time.Minute)
	var calls int32

	load := func(context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		return map[string]int{"id": 5}, nil
	}
	for i := 0; i < 3; i++ {
		body, err := c.Remember(context.Background(), Key("GetOneById", "5"), load)
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":5}`, string(body))
	}
	assert.Equal(t, int32(1), calls)
}

func TestRememberDoesNotCacheErrors(t *testing.T) {
	c := New(time.Hour, time.Minute)
	boom := errors.New("boom")

	_, err := c.Remember(context.Background(), "k", func(context.Context) (any, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, c.Len())
}

func TestSharedLoadOutlivesCancelledCaller(t *testing.T) {
	c := New(time.Hour, time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	var once sync.Once

	load := func(ctx context.Context) (any, error) {
		calls.Add(1)
		once.Do(func() { close(started) })
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return []int{5, 9}, nil
	}

	ownerCtx, cancel := context.WithCancel(context.Background())
	ownerErr := make(chan error, 1)
	go func() {
		_, err := c.Remember(ownerCtx, "ids", load)
		ownerErr <- err
	}()
	<-started

	type result struct {
		body []byte
		err  error
	}
	waiter := make(chan result, 1)
	go func() {
		body, err := c.Remember(context.Background(), "ids", load)
		waiter <- result{body, err}
	}()

	cancel()
	assert.ErrorIs(t, <-ownerErr, context.Canceled, "the cancelled caller stops waiting")

	time.Sleep(20 * time.Millisecond)
	close(release)
	got := <-waiter
	require.NoError(t, got.err)
	assert.JSONEq(t, `[5,9]`, string(got.body))
	assert.Equal(t, int32(1), calls.Load())

	cached, ok := c.Get("ids")
	require.True(t, ok, "the shared load still fills the cache")
	assert.JSONEq(t, `[5,9]`, string(cached))
}

func TestFlushDropsEntries(t *testing.T) {
	c := New(time.Hour, time.Minute)
	_, err := c.Remember(context.Background(), "a", func(context.Context) (any, error) { return 1, nil })
	require.NoError(t, err)
	_, err = c.Remember(context.Background(), "b", func(context.Context) (any, error) { return 2, nil })
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	c.Flush()

	assert.Zero(t, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestLoadSpanningFlushIsNotStored(t *testing.T) {
	c := New(time.Hour, time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		body, err := c.Remember(context.Background(), "stale", func(context.Context) (any, error) {
			close(started)
			<-release
			return "old", nil
		})
		assert.NoError(t, err)
		assert.Equal(t, `"old"`, string(body))
	}()

	<-started
	c.Flush()
	close(release)
	wg.Wait()

	_, ok := c.Get("stale")
	assert.False(t, ok, "a read that began before the flush must not repopulate the cache")
}

func TestEntriesExpire(t *testing.T) {
	c := New(20*time.Millisecond, time.Millisecond)
	_, err := c.Remember(context.Background(), "short", func(context.Context) (any, error) { return true, nil })
	require.NoError(t, err)

	time.Sleep(40 * time.Millisecond)
	_, ok := c.Get("short")
	assert.False(t, ok)
}
