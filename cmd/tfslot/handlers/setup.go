// Package handlers implements the CLI command handlers.
//
// Handlers resolve the workspace, wire the lifecycle orchestrator to real
// processes and render the outcome. Collaborators are created through
// package-level factory variables so tests can replace them.
package handlers

import (
	"context"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/mattn/go-isatty"

	"github.com/imamik/tfslot/internal/command"
	"github.com/imamik/tfslot/internal/config"
	"github.com/imamik/tfslot/internal/lifecycle"
	"github.com/imamik/tfslot/internal/logging"
	"github.com/imamik/tfslot/internal/platform/s3"
	"github.com/imamik/tfslot/internal/ui/prompt"
	"github.com/imamik/tfslot/internal/workspace"
)

// Factory function variables - can be replaced in tests.
var (
	// getwd returns the directory the workspace search starts from.
	getwd = os.Getwd

	// resolveWorkspace locates the repository and loads its configuration.
	resolveWorkspace = workspace.Resolve

	// newLogger creates the logger handed to every component.
	newLogger = func() logr.Logger {
		return logging.New(os.Stderr, logging.LevelFromEnv())
	}

	// newRunner creates the process runner.
	newRunner = func(log logr.Logger) command.Runner {
		return command.NewExecRunner(log)
	}

	// newConfirmer creates the prompt shown before switching the declaration.
	newConfirmer = func(autoConfirm bool) prompt.Confirmer {
		return prompt.New(autoConfirm, os.Stdin, os.Stderr)
	}

	// newMirror creates the S3 archive mirror when one is configured.
	newMirror = func(ctx context.Context, cfg config.ArchiveConfig, profile string, log logr.Logger) (lifecycle.Mirror, error) {
		client, err := s3.NewClient(ctx, s3.Options{
			Region:    cfg.MirrorRegion,
			Endpoint:  cfg.MirrorEndpoint,
			AccessKey: cfg.MirrorAccessKey,
			SecretKey: cfg.MirrorSecretKey,
			Profile:   profile,
		})
		if err != nil {
			return nil, err
		}
		return &s3.Mirror{Store: client, Bucket: cfg.MirrorBucket, Prefix: cfg.MirrorPrefix, Log: log}, nil
	}

	// stdout receives rendered reports.
	stdout io.Writer = os.Stdout

	// isInteractive reports whether stdout is a terminal.
	isInteractive = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
)

// loadWorkspace resolves the workspace from the current directory.
func loadWorkspace(configPath string) (*workspace.Location, error) {
	wd, err := getwd()
	if err != nil {
		return nil, err
	}
	return resolveWorkspace(wd, configPath)
}
