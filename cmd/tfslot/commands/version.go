package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Filled in by SetVersionInfo.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersionInfo records build metadata passed in from main.
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

// Version prints build metadata and the toolchain and platform it targets.
func Version() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print tfslot build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "tfslot %s (%s, built %s) %s %s/%s\n",
				version, commit, date, runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return err
		},
	}
}
