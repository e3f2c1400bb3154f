// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the tfslot CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tfslot",
		Short:         "Share one Terraform workspace between EKS clusters",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Lifecycle commands
	cmd.AddCommand(BringUp())
	cmd.AddCommand(BringDown())

	// Inspection/utility commands
	cmd.AddCommand(Status())
	cmd.AddCommand(Doctor())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
