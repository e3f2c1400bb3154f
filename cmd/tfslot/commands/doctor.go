package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/tfslot/cmd/tfslot/handlers"
)

// Doctor returns the command for checking the local setup.
func Doctor() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and required tools",
		Long: `Doctor checks that:
  - the repository configuration loads and the workspace exists
  - the terraform and aws binaries are installed
  - the archive mirror bucket is reachable, when one is configured`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Doctor(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file, relative to the current directory (default: configs/tfslot.cfg in the repository)")

	return cmd
}
