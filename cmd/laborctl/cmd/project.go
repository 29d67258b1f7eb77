package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var projectID string

// projectCmd prints project wide estimates
var projectCmd = &cobra.Command{
	Use:   "project <kind>",
	Short: "Print a labor estimate summed over every module of a project",
	Long: `Print a labor estimate summed over every module of a project.
Only the saved view is available for projects.`,
	Args: cobra.ExactArgs(1),
	RunE: runProject,
}

func init() {
	projectCmd.Flags().StringVarP(&projectID, "project", "p", "", "project ID")
	_ = projectCmd.MarkFlagRequired("project")
}

func runProject(cmd *cobra.Command, args []string) error {
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}
	id, err := parseID("project", projectID)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	estimate, err := a.projectService.GetLaborEstimate(context.Background(), id, kind)
	if err != nil {
		return err
	}
	return writeEstimate(cmd.OutOrStdout(), estimate)
}
