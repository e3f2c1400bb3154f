package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/tfslot/cmd/tfslot/handlers"
)

// BringUp returns the bringup command.
func BringUp() *cobra.Command {
	var opts handlers.LifecycleOptions

	cmd := &cobra.Command{
		Use:   "bringup",
		Short: "Provision a cluster from the shared workspace",
		Long: `Bringup provisions or updates a cluster from the shared Terraform workspace.

The command:
  1. Switches the cluster declared in the workspace to the target (asks first)
  2. Archives the state of the cluster currently in the workspace
  3. Restores the target's archived state, if any
  4. Runs terraform init and terraform apply
  5. Writes a kubeconfig entry and lists the clusters in the region

Afterwards the declaration is reverted and, by default, the previous
cluster's state is put back. This also happens when a step fails.

Example:
  tfslot bringup -t staging
  tfslot bringup -t staging --yes --final-occupant target`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.BringUp(cmd.Context(), opts)
		},
	}

	addLifecycleFlags(cmd, &opts)
	cmd.Flags().StringVar(&opts.FinalOccupant, "final-occupant", "", "State left in the workspace afterwards: prior or target (default: policy.final_occupant)")

	return cmd
}

func addLifecycleFlags(cmd *cobra.Command, opts *handlers.LifecycleOptions) {
	cmd.Flags().StringVarP(&opts.Target, "target", "t", "", "Target cluster (default: target_cluster from the configuration)")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file, relative to the current directory (default: configs/tfslot.cfg in the repository)")
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Switch the declared cluster without asking")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write Prometheus metrics for this run to a textfile")
}
