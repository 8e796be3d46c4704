package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubExecutor struct {
	mu       sync.Mutex
	executed []*Job
	failN    int
	done     chan struct{}
}

func (e *stubExecutor) Execute(ctx context.Context, job *Job) error {
	e.mu.Lock()
	e.executed = append(e.executed, job)
	n := len(e.executed)
	e.mu.Unlock()

	if e.done != nil {
		e.done <- struct{}{}
	}
	if n <= e.failN {
		return errors.New("settlement failed")
	}
	return nil
}

func (e *stubExecutor) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.executed)
}

func testConfig() Config {
	return Config{
		Enabled:           true,
		MaxConcurrentJobs: 2,
		JobTimeout:        time.Second,
		RetryAttempts:     2,
		RetryDelay:        0,
	}
}

func TestSchedulerExecutesJob(t *testing.T) {
	executor := &stubExecutor{done: make(chan struct{}, 1)}
	s := NewScheduler(testConfig(), executor, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop(context.Background())

	job := NewJob(uuid.New(), time.Now().Add(-24*time.Hour), time.Now(), 2)
	require.NoError(t, s.SubmitJob(job))

	select {
	case <-executor.done:
	case <-time.After(2 * time.Second):
		t.Fatal("job was not executed")
	}

	assert.Eventually(t, func() bool {
		return job.Status == JobStatusSuccess
	}, time.Second, 10*time.Millisecond)
	assert.NotNil(t, job.CompletedAt)
}

func TestSchedulerRetriesFailedJob(t *testing.T) {
	executor := &stubExecutor{failN: 1, done: make(chan struct{}, 4)}
	s := NewScheduler(testConfig(), executor, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop(context.Background())

	job := NewJob(uuid.New(), time.Now().Add(-24*time.Hour), time.Now(), 2)
	require.NoError(t, s.SubmitJob(job))

	// first attempt fails, retry succeeds
	assert.Eventually(t, func() bool {
		return job.Status == JobStatusSuccess
	}, 3*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, job.RetryCount)
	assert.GreaterOrEqual(t, executor.count(), 2)
}

func TestSchedulerRejectsWhenStopped(t *testing.T) {
	s := NewScheduler(testConfig(), &stubExecutor{}, zap.NewNop())

	job := NewJob(uuid.New(), time.Now(), time.Now(), 0)
	assert.ErrorIs(t, s.SubmitJob(job), ErrSchedulerNotRunning)
}

func TestJobLifecycle(t *testing.T) {
	job := NewJob(uuid.New(), time.Now(), time.Now(), 2)
	assert.Equal(t, JobStatusPending, job.Status)

	job.Start()
	assert.Equal(t, JobStatusRunning, job.Status)
	assert.NotNil(t, job.StartedAt)

	job.Fail("boom")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "boom", job.Error)
	assert.True(t, job.ShouldRetry())

	job.ScheduleRetry(time.Minute)
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, 1, job.RetryCount)
	assert.NotNil(t, job.NextRetryAt)

	job.Fail("boom again")
	job.ScheduleRetry(time.Minute)
	job.Fail("still failing")
	assert.False(t, job.ShouldRetry())
}
