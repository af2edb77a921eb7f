package main

import (
	"encoding/json"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"pagehistory/internal/domain"
	"pagehistory/internal/service"
)

var approveInput service.ApproveInput

var approveCmd = &cobra.Command{
	Use:   "approve",
	Short: "promote a pending draft into a live page",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		input := approveInput
		if !cfg.Mirror.Enabled {
			input.SkipStorage = true
		}

		page, err := a.approver.Approve(cmd.Context(), &input)
		if err != nil {
			var stepErr *domain.StepError
			if errors.As(err, &stepErr) {
				logrus.WithFields(logrus.Fields{
					"approval_id": stepErr.RunID,
					"step":        stepErr.Step,
					"completed":   stepErr.Completed,
				}).Error("approval stopped partway; reconcile the completed steps by hand")
			}
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(page)
	},
}

func init() {
	approveCmd.Flags().Int64Var(&approveInput.VersionID, "version-id", 0, "pending version id")
	approveCmd.Flags().Int64Var(&approveInput.UserID, "user-id", 0, "approving administrator id")
	approveCmd.Flags().BoolVar(&approveInput.SkipStorage, "skip-storage", false, "do not mirror the page to object storage")
	_ = approveCmd.MarkFlagRequired("version-id")
}
