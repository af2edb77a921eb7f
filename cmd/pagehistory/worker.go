package main

import (
	"errors"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"pagehistory/internal/jobs"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "run scheduled maintenance tasks until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.Retention.Enabled {
			return errors.New("no tasks enabled; set PAGEHISTORY_RETENTION_ENABLED=true")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		executor := jobs.NewTaskExecutor([]jobs.CronJob{
			jobs.NewPurgeTask(ctx, a.versions, cfg.Retention.Schedule, cfg.Retention.OlderThan),
		})
		if err := executor.Start(); err != nil {
			return err
		}

		logrus.Info("worker: started")
		<-ctx.Done()
		executor.Stop()
		logrus.Info("worker: shutdown complete")
		return nil
	},
}
