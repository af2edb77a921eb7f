package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var purgeOlderThan string

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "delete versions older than a retention duration",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		retention := purgeOlderThan
		if retention == "" {
			retention = cfg.Retention.OlderThan
		}

		deleted, err := a.versions.Purge(cmd.Context(), retention)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %d versions older than %s\n", deleted, retention)
		return nil
	},
}

func init() {
	purgeCmd.Flags().StringVar(&purgeOlderThan, "older-than", "", "ISO-8601 retention duration, e.g. P180D (defaults to retention.older_than)")
}
