package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/tfslot/cmd/tfslot/handlers"
)

// Status returns the status command.
func Status() *cobra.Command {
	var configPath string
	var output string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which cluster occupies the workspace",
		Long: `Status shows the cluster declared in the workspace, the cluster whose
state is active, the archived state sets and the current kubeconfig context.

Examples:
  tfslot status
  tfslot status -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Status(cmd.Context(), configPath, output)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file, relative to the current directory (default: configs/tfslot.cfg in the repository)")
	cmd.Flags().StringVarP(&output, "output", "o", handlers.OutputText, "Output format: text, json or yaml")

	return cmd
}
