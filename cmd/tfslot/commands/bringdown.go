package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/tfslot/cmd/tfslot/handlers"
)

// BringDown returns the bringdown command.
func BringDown() *cobra.Command {
	var opts handlers.LifecycleOptions

	cmd := &cobra.Command{
		Use:   "bringdown",
		Short: "Destroy a cluster using its archived state",
		Long: `Bringdown destroys a cluster using the state archived for it.

If the cloud does not list the cluster, nothing is changed. Otherwise the
target's state is swapped into the workspace and terraform destroy runs.
When destroy succeeds the cluster's state and archive are deleted; when it
fails the state is archived again. The previous cluster's state is put back
in both cases.

Example:
  tfslot bringdown -t staging

WARNING: This operation is irreversible. All cluster resources will be lost.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.BringDown(cmd.Context(), opts)
		},
	}

	addLifecycleFlags(cmd, &opts)

	return cmd
}
