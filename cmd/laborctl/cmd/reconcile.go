package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var reconcileModuleID string

// reconcileCmd groups the actions that write estimates or requests
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile the saved estimate and staffing requests of a module",
}

var promoteCmd = &cobra.Command{
	Use:   "promote",
	Short: "Replace the saved estimate with the expected one",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		moduleID, err := parseID("module", reconcileModuleID)
		if err != nil {
			return err
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx := context.Background()
		changed, err := a.moduleService.SetExpectedLaborEstimateAsSaved(ctx, moduleID)
		if err != nil {
			return err
		}
		if !changed {
			fmt.Fprintln(cmd.OutOrStdout(), "Saved estimate already matches the expected one")
			return nil
		}

		saved, err := a.moduleService.GetSavedLaborEstimate(ctx, moduleID)
		if err != nil {
			return err
		}
		return writeEstimate(cmd.OutOrStdout(), saved)
	},
}

var requestCmd = &cobra.Command{
	Use:   "request",
	Short: "Request the saved workers that are not requested yet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		moduleID, err := parseID("module", reconcileModuleID)
		if err != nil {
			return err
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		request, err := a.moduleService.CreateRequestForSavedLaborEstimate(context.Background(), moduleID)
		if err != nil {
			return err
		}
		if request == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Saved estimate is already requested")
			return nil
		}
		return writeRequest(cmd.OutOrStdout(), request)
	},
}

func init() {
	reconcileCmd.PersistentFlags().StringVarP(&reconcileModuleID, "module", "m", "", "module ID")
	_ = reconcileCmd.MarkPersistentFlagRequired("module")

	reconcileCmd.AddCommand(promoteCmd)
	reconcileCmd.AddCommand(requestCmd)
}
