package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueDispatchesByType(t *testing.T) {
	q := NewQueue("maintenance", QueueConfig{Workers: 2})
	done := make(chan Job, 1)
	q.Register(TypeWorkspaceSweep, func(_ context.Context, job Job) error {
		done <- job
		return nil
	})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(TypeWorkspaceSweep))
	select {
	case job := <-done:
		assert.Equal(t, TypeWorkspaceSweep, job.Type)
		assert.NotEmpty(t, job.ID)
		assert.Zero(t, job.Attempt)
	case <-time.After(2 * time.Second):
		t.Fatal("job was not processed")
	}
}

func TestQueueRejectsUnknownTypeAndUnstarted(t *testing.T) {
	q := NewQueue("maintenance", QueueConfig{})
	assert.ErrorContains(t, q.Enqueue(TypeWorkspaceSweep), "not started")

	q.Start(context.Background())
	defer q.Stop()
	assert.ErrorContains(t, q.Enqueue("unknown"), "no handler")
}

func TestQueueRetriesFailedJobs(t *testing.T) {
	q := NewQueue("maintenance", QueueConfig{MaxRetries: 2, RetryDelay: 10 * time.Millisecond})
	var attempts int32
	succeeded := make(chan struct{})
	q.Register(TypePublishedWarm, func(_ context.Context, job Job) error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return errors.New("cache unavailable")
		}
		close(succeeded)
		return nil
	})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(TypePublishedWarm))
	select {
	case <-succeeded:
		assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
	case <-time.After(2 * time.Second):
		t.Fatal("job was not retried")
	}
}

func TestQueueEverySchedulesRepeatedly(t *testing.T) {
	q := NewQueue("maintenance", QueueConfig{})
	var runs int32
	q.Register(TypeWorkspaceSweep, func(context.Context, Job) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})
	q.Start(context.Background())

	require.NoError(t, q.Every(10*time.Millisecond, TypeWorkspaceSweep))
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 3 }, 2*time.Second, 5*time.Millisecond)
	q.Stop()

	assert.Error(t, q.Every(0, TypeWorkspaceSweep))
}
