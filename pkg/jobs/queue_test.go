package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueueDropsFailedJob(t *testing.T) {
	var calls int32
	q := NewQueue("notify", func(ctx context.Context, job Job) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("smtp down")
	}, QueueConfig{Workers: 1})
	q.Start(context.Background())

	require.NoError(t, q.TryEnqueue(Job{ID: "1", Type: "email"}))
	q.Stop()

	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
	require.Equal(t, Stats{Failed: 1}, q.Stats())
}

func TestStopDrainsBufferedJobs(t *testing.T) {
	var calls int32
	q := NewQueue("notify", func(ctx context.Context, job Job) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}, QueueConfig{Workers: 2, BufferSize: 8})
	q.Start(context.Background())

	for i := 0; i < 5; i++ {
		require.NoError(t, q.TryEnqueue(Job{ID: "job"}))
	}
	q.Stop()

	require.Equal(t, int32(5), atomic.LoadInt32(&calls))
	require.EqualValues(t, 5, q.Stats().Succeeded)
}

func TestTryEnqueueWhenClosed(t *testing.T) {
	q := NewQueue("notify", func(context.Context, Job) error { return nil }, QueueConfig{})
	require.True(t, errors.Is(q.TryEnqueue(Job{ID: "1"}), ErrQueueClosed))

	q.Start(context.Background())
	q.Stop()
	require.True(t, errors.Is(q.TryEnqueue(Job{ID: "2"}), ErrQueueClosed))
	require.EqualValues(t, 2, q.Stats().Rejected)

	q.Start(context.Background())
	require.True(t, errors.Is(q.TryEnqueue(Job{ID: "3"}), ErrQueueClosed))
}

func TestTryEnqueueFullBuffer(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{}, 1)
	q := NewQueue("notify", func(ctx context.Context, job Job) error {
		started <- struct{}{}
		<-block
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 1})
	q.Start(context.Background())
	defer func() {
		close(block)
		q.Stop()
	}()

	require.NoError(t, q.TryEnqueue(Job{ID: "1"}))
	<-started
	require.NoError(t, q.TryEnqueue(Job{ID: "2"}))
	err := q.TryEnqueue(Job{ID: "3"})
	require.True(t, errors.Is(err, ErrQueueFull))
}
