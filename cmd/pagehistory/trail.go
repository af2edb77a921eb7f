package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"pagehistory/internal/csvexport"
	"pagehistory/internal/domain"
	"pagehistory/internal/service"
)

var (
	trailPageID int64
	trailPage   int
	trailSize   int
	trailFormat string
	trailOutDir string
)

var trailCmd = &cobra.Command{
	Use:   "trail",
	Short: "print the classified change history of a page",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		trail, err := a.trails.Build(cmd.Context(), trailPageID, trailPage, trailSize)
		if err != nil {
			return err
		}

		switch trailFormat {
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(trail)
		case "csv":
			if trailOutDir == "" {
				return writeTrailCSV(cmd.OutOrStdout(), trail)
			}
			return exportTrailCSV(trail)
		default:
			return fmt.Errorf("unknown format %q", trailFormat)
		}
	},
}

func writeTrailCSV(out io.Writer, trail *domain.Trail) error {
	w := csvexport.NewWriter(out)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteEntries(trail.Entries); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// exportTrailCSV writes the trail to a BOM-prefixed file in trailOutDir.
func exportTrailCSV(trail *domain.Trail) error {
	name := csvexport.BuildFilename(fmt.Sprintf("page-%d", trailPageID), time.Now())
	path := filepath.Join(trailOutDir, name)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(csvexport.BOM); err != nil {
		return err
	}
	if err := writeTrailCSV(f, trail); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"file": path, "entries": len(trail.Entries)}).Info("trail: exported")
	return nil
}

func init() {
	trailCmd.Flags().Int64Var(&trailPageID, "page-id", 0, "page id")
	trailCmd.Flags().IntVar(&trailPage, "page", 0, "zero-based window index")
	trailCmd.Flags().IntVar(&trailSize, "size", service.DefaultTrailSize, "window size")
	trailCmd.Flags().StringVar(&trailFormat, "format", "json", "output format: json or csv")
	trailCmd.Flags().StringVar(&trailOutDir, "out-dir", "", "write csv output to a file in this directory instead of stdout")
	_ = trailCmd.MarkFlagRequired("page-id")
}
