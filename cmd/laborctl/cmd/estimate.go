package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var estimateModuleID string

// estimateCmd prints one estimate view of a module
var estimateCmd = &cobra.Command{
	Use:   "estimate <kind>",
	Short: "Print a labor estimate of a module",
	Long: `Print one labor estimate view of a module.

Kinds: expected, saved, requested, expected-minus-saved, saved-minus-requested`,
	Args: cobra.ExactArgs(1),
	RunE: runEstimate,
}

func init() {
	estimateCmd.Flags().StringVarP(&estimateModuleID, "module", "m", "", "module ID")
	_ = estimateCmd.MarkFlagRequired("module")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}
	moduleID, err := parseID("module", estimateModuleID)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	estimate, err := a.moduleService.GetLaborEstimate(context.Background(), moduleID, kind)
	if err != nil {
		return err
	}
	return writeEstimate(cmd.OutOrStdout(), estimate)
}
