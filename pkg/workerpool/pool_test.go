package workerpool

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

func TestPoolSubmitAsync(t *testing.T) {
	p := New(nil, nil)
	defer p.Shutdown(time.Second)

	var count atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		err := p.SubmitAsync(context.Background(), func(ctx context.Context) error {
			defer wg.Done()
			count.Add(1)
			return nil
		})
		require.NoError(t, err)
	}

	wg.Wait()
	assert.Equal(t, int64(20), count.Load())
}

func TestPoolQueueFull(t *testing.T) {
	p := New(&Config{MaxWorkers: 1, QueueSize: 1}, nil)
	defer p.Shutdown(time.Second)

	block := make(chan struct{})
	started := make(chan struct{})

	// 占住唯一的 worker
	err := p.SubmitAsync(context.Background(), func(ctx context.Context) error {
		close(started)
		<-block
		return nil
	})
	require.NoError(t, err)
	<-started

	// 填满队列
	_ = p.SubmitAsync(context.Background(), func(ctx context.Context) error { return nil })

	// 再提交应该返回队列已满
	err = p.SubmitAsync(context.Background(), func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrWorkerPoolFull)

	close(block)
}

func TestPoolClosed(t *testing.T) {
	p := New(nil, nil)
	require.NoError(t, p.Shutdown(time.Second))

	err := p.SubmitAsync(context.Background(), func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrWorkerPoolClosed)
}

func TestPoolPanicRecovered(t *testing.T) {
	p := New(nil, nil)
	defer p.Shutdown(time.Second)

	done := make(chan struct{})
	err := p.SubmitAsync(context.Background(), func(ctx context.Context) error {
		defer close(done)
		panic("boom")
	})
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task did not run")
	}

	// 池在 panic 之后仍可用
	ok := make(chan struct{})
	err = p.SubmitAsync(context.Background(), func(ctx context.Context) error {
		close(ok)
		return nil
	})
	require.NoError(t, err)
	<-ok
}

func TestPoolTaskError(t *testing.T) {
	p := New(nil, nil)
	defer p.Shutdown(time.Second)

	done := make(chan struct{})
	err := p.SubmitAsync(context.Background(), func(ctx context.Context) error {
		defer close(done)
		return errors.New("task failed")
	})
	require.NoError(t, err)
	<-done
}

func TestPoolCancelledContextSkipped(t *testing.T) {
	p := New(&Config{MaxWorkers: 1, QueueSize: 4}, nil)
	defer p.Shutdown(time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Bool
	err := p.SubmitAsync(ctx, func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	assert.False(t, ran.Load())
}
