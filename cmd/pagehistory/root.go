package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"pagehistory/internal/config"
	"pagehistory/internal/logging"
)

var cfg *config.Config

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pagehistory",
	Short: "page version history operator tool",
	Example: `pagehistory migrate up
pagehistory approve --version-id 12 --user-id 1
pagehistory trail --page-id 7 --page 0 --size 100
pagehistory search --locale en "install guide"
pagehistory purge --older-than P180D
pagehistory worker`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		if err := logging.Setup(&loaded.Log, os.Stderr); err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(approveCmd)
	rootCmd.AddCommand(trailCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(workerCmd)

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	cobra.EnableCommandSorting = false
}
