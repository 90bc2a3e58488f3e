package linklock

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTryAcquireRelease(t *testing.T) {
	r := NewRegistry()

	assert.True(t, r.TryAcquire(1))
	assert.False(t, r.TryAcquire(1))
	assert.True(t, r.Held(1))

	// 不同 key 互不影响
	assert.True(t, r.TryAcquire(2))

	r.Release(1)
	assert.False(t, r.Held(1))
	assert.True(t, r.TryAcquire(1))

	assert.Equal(t, 2, r.ActiveCount())
}

func TestReleaseUnheldNoop(t *testing.T) {
	r := NewRegistry()
	r.Release(99)
	assert.Equal(t, 0, r.ActiveCount())
}

func TestHeldSince(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, time.Duration(0), r.HeldSince(1))

	r.TryAcquire(1)
	time.Sleep(10 * time.Millisecond)
	assert.Greater(t, r.HeldSince(1), time.Duration(0))
}

func TestConcurrentSingleHolder(t *testing.T) {
	r := NewRegistry()

	var acquired atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r.TryAcquire(7) {
				acquired.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), acquired.Load())
	assert.True(t, r.Held(7))
}
