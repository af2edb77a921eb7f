package main

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var searchLocale string

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "list ids of approved pages matching every term of query",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		query := strings.Join(args, " ")
		ids, err := a.index.Search(cmd.Context(), searchLocale, query)
		if err != nil {
			return err
		}

		logrus.WithFields(logrus.Fields{
			"locale":  searchLocale,
			"query":   query,
			"matches": len(ids),
		}).Debug("search: completed")

		for _, id := range ids {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchLocale, "locale", "en", "locale of the pages to search")
}
