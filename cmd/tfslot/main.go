// Package main is the entry point for the tfslot CLI.
//
// tfslot shares one Terraform workspace between several EKS clusters. It
// switches the declared cluster, swaps the matching state into place, runs
// terraform and the aws CLI, and puts the workspace back afterwards.
//
// Commands: bringup, bringdown, status, doctor.
//
// For detailed usage information, run:
//
//	tfslot --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/tfslot/cmd/tfslot/commands"
)

// Overridden with -ldflags "-X main.version=..." in release builds.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	commands.SetVersionInfo(version, commit, date)
	err := commands.Root().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
