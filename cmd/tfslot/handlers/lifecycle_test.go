package handlers

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/tfslot/internal/command"
	"github.com/imamik/tfslot/internal/config"
	"github.com/imamik/tfslot/internal/lifecycle"
	tstest "github.com/imamik/tfslot/internal/testing"
	"github.com/imamik/tfslot/internal/workspace"
)

func TestBringUp(t *testing.T) {
	f := newFixture(t, tstest.NewConfigBuilder().WithDefaultTarget("beta").Build())
	f.runner.Handle = func(line string, cmd command.Command) (*command.Result, error) {
		if strings.HasPrefix(line, "terraform apply") {
			tstest.WriteStateSet(t, cmd.Dir, tstest.EKSState("beta"), "")
		}
		if strings.HasPrefix(line, "aws eks list-clusters") {
			return &command.Result{Stdout: `["beta"]`}, nil
		}
		return nil, nil
	}

	err := BringUp(context.Background(), LifecycleOptions{ConfigPath: "custom.cfg"})
	require.NoError(t, err)

	assert.Equal(t, "custom.cfg", f.configPath)
	assert.False(t, f.autoConfirm)
	assert.Len(t, f.runner.Calls(), 4)
	assert.Contains(t, f.out.String(), "tfslot bringup: beta")
	assert.Equal(t, tstest.Declaration("alpha"), tstest.ReadFile(t, f.loc.DeclarationPath()))
}

func TestBringUp_FlagOverridesTarget(t *testing.T) {
	f := newFixture(t, tstest.NewConfigBuilder().WithDefaultTarget("beta").Build())

	err := BringUp(context.Background(), LifecycleOptions{Target: " gamma ", Yes: true})
	require.NoError(t, err)

	assert.True(t, f.autoConfirm)
	assert.Contains(t, f.runner.Calls(), "aws eks update-kubeconfig --name gamma --region us-east-1")
}

func TestBringUp_AutoConfirmFromConfig(t *testing.T) {
	f := newFixture(t, tstest.NewConfigBuilder().WithDefaultTarget("beta").WithAutoConfirm(true).Build())

	require.NoError(t, BringUp(context.Background(), LifecycleOptions{}))
	assert.True(t, f.autoConfirm)
}

func TestBringUp_NoTarget(t *testing.T) {
	f := newFixture(t, tstest.MinimalConfig())

	err := BringUp(context.Background(), LifecycleOptions{})
	require.ErrorIs(t, err, config.ErrNoTarget)
	assert.Empty(t, f.runner.Calls())
}

func TestBringUp_InvalidFinalOccupant(t *testing.T) {
	newFixture(t, tstest.NewConfigBuilder().WithDefaultTarget("beta").Build())

	err := BringUp(context.Background(), LifecycleOptions{FinalOccupant: "sometimes"})
	require.ErrorIs(t, err, config.ErrInvalidValue)
	assert.True(t, config.IsConfigurationError(err))
}

func TestBringUp_FinalOccupantFlag(t *testing.T) {
	f := newFixture(t, tstest.NewConfigBuilder().WithDefaultTarget("beta").Build())
	tstest.WriteStateSet(t, f.loc.Dir, tstest.EKSState("alpha"), "")
	f.runner.Handle = func(line string, cmd command.Command) (*command.Result, error) {
		if strings.HasPrefix(line, "terraform apply") {
			tstest.WriteStateSet(t, cmd.Dir, tstest.EKSState("beta"), "")
		}
		return nil, nil
	}

	require.NoError(t, BringUp(context.Background(), LifecycleOptions{FinalOccupant: "target"}))
	assert.Equal(t, tstest.EKSState("beta"), tstest.ReadFile(t, filepath.Join(f.loc.Dir, tstest.StateFile)))
}

func TestBringUp_StepFailure(t *testing.T) {
	f := newFixture(t, tstest.NewConfigBuilder().WithDefaultTarget("beta").Build())
	f.runner.Handle = func(line string, _ command.Command) (*command.Result, error) {
		if strings.HasPrefix(line, "terraform init") {
			return &command.Result{ExitCode: 1, Stderr: "Error: backend"}, nil
		}
		return nil, nil
	}

	err := BringUp(context.Background(), LifecycleOptions{})
	require.Error(t, err)

	var cmdErr *command.CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Contains(t, err.Error(), "bringup beta failed")
	assert.Contains(t, f.out.String(), "[!!] init")
}

func TestBringUp_WritesMetrics(t *testing.T) {
	newFixture(t, tstest.NewConfigBuilder().WithDefaultTarget("beta").Build())
	path := filepath.Join(t.TempDir(), "tfslot.prom")

	require.NoError(t, BringUp(context.Background(), LifecycleOptions{MetricsFile: path}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `tfslot_lifecycle_operations_total{operation="bringup",result="success"} 1`)
	assert.Contains(t, string(data), `tfslot_command_runs_total{result="success",step="apply"} 1`)
}

func TestBringUp_MirrorSetupFailure(t *testing.T) {
	f := newFixture(t, tstest.NewConfigBuilder().WithDefaultTarget("beta").WithMirror("state-bucket").Build())
	newMirror = func(context.Context, config.ArchiveConfig, string, logr.Logger) (lifecycle.Mirror, error) {
		return nil, errors.New("no credentials")
	}

	err := BringUp(context.Background(), LifecycleOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no credentials")
	assert.Empty(t, f.runner.Calls())
}

func TestBringDown_Skipped(t *testing.T) {
	f := newFixture(t, tstest.NewConfigBuilder().WithDefaultTarget("beta").Build())
	f.runner.Handle = func(string, command.Command) (*command.Result, error) {
		return &command.Result{Stdout: `["alpha"]`}, nil
	}

	require.NoError(t, BringDown(context.Background(), LifecycleOptions{}))

	assert.Len(t, f.runner.Calls(), 1)
	assert.Contains(t, f.out.String(), "nothing to do")
}

func TestBringDown_WorkspaceError(t *testing.T) {
	newFixture(t, tstest.MinimalConfig())
	resolveWorkspace = func(string, string) (*workspace.Location, error) {
		return nil, &config.Error{Path: "/tmp", Err: config.ErrNotARepository}
	}

	err := BringDown(context.Background(), LifecycleOptions{Target: "beta"})
	require.ErrorIs(t, err, config.ErrNotARepository)
}
