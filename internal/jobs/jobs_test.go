package jobs_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"pagehistory/internal/jobs"
	"pagehistory/mocks"
)

type blockingJob struct {
	started chan struct{}
	release chan struct{}
	runs    atomic.Int32
}

func (b *blockingJob) ID() string       { return "blocking" }
func (b *blockingJob) Schedule() string { return "@every 1h" }
func (b *blockingJob) Run() {
	b.runs.Add(1)
	b.started <- struct{}{}
	<-b.release
}

func TestTaskExecutor_TriggerSkipsOverlappingRun(t *testing.T) {
	job := &blockingJob{started: make(chan struct{}), release: make(chan struct{})}
	exec := jobs.NewTaskExecutor([]jobs.CronJob{job})

	done := make(chan bool)
	go func() { done <- exec.Trigger(job) }()
	<-job.started

	assert.False(t, exec.Trigger(job))

	close(job.release)
	assert.True(t, <-done)

	go func() { <-job.started }()
	assert.True(t, exec.Trigger(job))
	assert.Equal(t, int32(2), job.runs.Load())
}

func TestTaskExecutor_StartRejectsBadSchedule(t *testing.T) {
	versions := new(mocks.MockVersionService)
	exec := jobs.NewTaskExecutor([]jobs.CronJob{jobs.NewPurgeTask(context.Background(), versions, "not a schedule", "P30D")})

	assert.Error(t, exec.Start())
}

func TestTaskExecutor_StartAndStop(t *testing.T) {
	versions := new(mocks.MockVersionService)
	exec := jobs.NewTaskExecutor([]jobs.CronJob{jobs.NewPurgeTask(context.Background(), versions, "@daily", "P30D")})

	assert.NoError(t, exec.Start())
	exec.Stop()
	versions.AssertNotCalled(t, "Purge", mock.Anything, mock.Anything)
}

func TestPurgeTask_Run(t *testing.T) {
	versions := new(mocks.MockVersionService)
	task := jobs.NewPurgeTask(context.Background(), versions, "@daily", "P180D")

	versions.On("Purge", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), "P180D").Return(int64(12), nil).Once()

	task.Run()

	assert.Equal(t, "retention_purge", task.ID())
	assert.Equal(t, "@daily", task.Schedule())
	versions.AssertExpectations(t)
}

func TestPurgeTask_RunLogsFailure(t *testing.T) {
	versions := new(mocks.MockVersionService)
	task := jobs.NewPurgeTask(context.Background(), versions, "@daily", "bogus")

	versions.On("Purge", mock.Anything, "bogus").Return(int64(0), errors.New("malformed")).Once()

	assert.NotPanics(t, task.Run)
	versions.AssertExpectations(t)
}

func TestTaskExecutor_StopWaitsForRunningJob(t *testing.T) {
	job := &blockingJob{started: make(chan struct{}), release: make(chan struct{})}
	exec := jobs.NewTaskExecutor([]jobs.CronJob{job})

	go exec.Trigger(job)
	<-job.started

	stopped := make(chan struct{})
	go func() {
		exec.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a job was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(job.release)
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after the job finished")
	}
}

func TestPurgeTask_RunCancelledWithParent(t *testing.T) {
	versions := new(mocks.MockVersionService)
	ctx, cancel := context.WithCancel(context.Background())
	task := jobs.NewPurgeTask(ctx, versions, "@daily", "P30D")
	cancel()

	versions.On("Purge", mock.MatchedBy(func(ctx context.Context) bool {
		return errors.Is(ctx.Err(), context.Canceled)
	}), "P30D").Return(int64(0), context.Canceled).Once()

	task.Run()
	versions.AssertExpectations(t)
}
