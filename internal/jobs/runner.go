package jobs

import (
	"fmt"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	cron "github.com/robfig/cron"
	"github.com/sirupsen/logrus"
)

type Job interface {
	ID() string
	Run()
}

type CronJob interface {
	Schedule() string
	Job
}

// TaskExecutor runs cron jobs, never more than one instance of a job at a time.
type TaskExecutor struct {
	cron     *cron.Cron
	cronJobs []CronJob
	running  mapset.Set[string]
	mu       sync.Mutex
	wg       sync.WaitGroup
}

func NewTaskExecutor(cronJobs []CronJob) *TaskExecutor {
	return &TaskExecutor{
		cron:     cron.New(),
		cronJobs: cronJobs,
		running:  mapset.NewThreadUnsafeSet[string](),
	}
}

// Start registers every job with the cron scheduler and starts it. Each job
// runs in its own goroutine inside the cron.
func (t *TaskExecutor) Start() error {
	for _, job := range t.cronJobs {
		job := job
		err := t.cron.AddFunc(job.Schedule(), func() {
			t.Trigger(job)
		})
		if err != nil {
			return fmt.Errorf("scheduling task %s: %w", job.ID(), err)
		}
		logrus.WithFields(logrus.Fields{
			"task":     job.ID(),
			"schedule": job.Schedule(),
		}).Info("taskExecutor.Start: task scheduled")
	}

	t.cron.Start()
	return nil
}

// Trigger runs job unless a previous run of it is still in progress.
// It reports whether the job ran.
func (t *TaskExecutor) Trigger(job Job) bool {
	t.mu.Lock()
	if t.running.Contains(job.ID()) {
		t.mu.Unlock()
		logrus.WithField("task", job.ID()).Warn("taskExecutor.Trigger: task is already running")
		return false
	}
	t.running.Add(job.ID())
	t.wg.Add(1)
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.running.Remove(job.ID())
		t.wg.Done()
	}()

	job.Run()
	return true
}

// Stop stops scheduling new runs and waits for running jobs to return.
func (t *TaskExecutor) Stop() {
	logrus.Infof("stopping all tasks")
	t.cron.Stop()
	t.wg.Wait()
}
