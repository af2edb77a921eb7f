package jobs

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"pagehistory/internal/service"
)

// PurgeTask applies the retention policy to the version log on a schedule.
type PurgeTask struct {
	ctx       context.Context
	versions  service.VersionService
	schedule  string
	retention string
	timeout   time.Duration
}

// NewPurgeTask creates a PurgeTask. Runs are cancelled when ctx is done.
func NewPurgeTask(ctx context.Context, versions service.VersionService, schedule, retention string) *PurgeTask {
	return &PurgeTask{
		ctx:       ctx,
		versions:  versions,
		schedule:  schedule,
		retention: retention,
		timeout:   10 * time.Minute,
	}
}

func (p *PurgeTask) ID() string {
	return "retention_purge"
}

func (p *PurgeTask) Schedule() string {
	return p.schedule
}

func (p *PurgeTask) Run() {
	ctx, cancel := context.WithTimeout(p.ctx, p.timeout)
	defer cancel()

	deleted, err := p.versions.Purge(ctx, p.retention)
	if err != nil {
		logrus.WithError(err).WithField("retention", p.retention).Error("purgeTask.Run: purge failed")
		return
	}
	logrus.WithFields(logrus.Fields{
		"retention": p.retention,
		"deleted":   deleted,
	}).Info("purgeTask.Run: purge finished")
}
