package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var migrationsSource string

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|steps N|version]",
	Short:     "apply or inspect database migrations",
	Args:      cobra.RangeArgs(1, 2),
	ValidArgs: []string{"up", "down", "steps", "version"},
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := migrate.New(migrationsSource, cfg.DB.DSN())
		if err != nil {
			return fmt.Errorf("failed to create migrate instance: %w", err)
		}
		defer m.Close()

		switch args[0] {
		case "up":
			if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("migration up failed: %w", err)
			}
			logrus.Info("migrations applied successfully")

		case "down":
			if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("migration down failed: %w", err)
			}
			logrus.Info("migrations reverted successfully")

		case "steps":
			if len(args) < 2 {
				return errors.New("steps requires a number argument")
			}
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid steps argument: %w", err)
			}
			if err := m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("migration steps failed: %w", err)
			}
			logrus.Infof("applied %d migration steps", n)

		case "version":
			version, dirty, err := m.Version()
			if err != nil {
				return fmt.Errorf("failed to get version: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version: %d, dirty: %v\n", version, dirty)

		default:
			return fmt.Errorf("unknown command: %s", args[0])
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrationsSource, "source", "file://db/migrations", "migration source URL")
}
