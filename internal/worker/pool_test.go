package worker

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Submitting more jobs than the buffer holds must block until a worker frees
// a slot; every job runs, none is dropped.
func TestWorkerPoolRunsEverySubmittedJob(t *testing.T) {
	pool := NewWorkerPool(1)
	pool.Start(context.Background())

	var executed int32
	for i := 0; i < 20; i++ {
		pool.Submit(func(ctx context.Context) error {
			atomic.AddInt32(&executed, 1)
			return nil
		})
	}

	pool.Stop()
	assert.Equal(t, int32(20), atomic.LoadInt32(&executed))
}

func TestWorkerPoolDrainsBufferOnStop(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Start(context.Background())

	var executed int32
	for i := 0; i < 4; i++ {
		pool.Submit(func(ctx context.Context) error {
			atomic.AddInt32(&executed, 1)
			return nil
		})
	}

	// Stop closes the channel and waits for the workers, so buffered jobs
	// finish before it returns.
	pool.Stop()
	assert.Equal(t, int32(4), atomic.LoadInt32(&executed))
}
