package handlers

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr"

	"github.com/imamik/tfslot/internal/command"
	"github.com/imamik/tfslot/internal/config"
	"github.com/imamik/tfslot/internal/lifecycle"
	tstest "github.com/imamik/tfslot/internal/testing"
	"github.com/imamik/tfslot/internal/ui/prompt"
	"github.com/imamik/tfslot/internal/workspace"
)

// fixture replaces the handler factories with test doubles for one test.
type fixture struct {
	loc    *workspace.Location
	runner *tstest.FakeRunner
	out    *bytes.Buffer
	logs   *bytes.Buffer

	autoConfirm bool
	configPath  string
}

func newFixture(t *testing.T, cfg *config.Config) *fixture {
	t.Helper()

	root := t.TempDir()
	dir := filepath.Join(root, cfg.WorkspaceDir)
	tstest.WriteFile(t, filepath.Join(dir, cfg.Declaration.File), tstest.Declaration("alpha"))
	cfg.Path = filepath.Join(root, config.DefaultFile)

	f := &fixture{
		loc:    &workspace.Location{RepoRoot: root, Dir: dir, Config: cfg},
		runner: &tstest.FakeRunner{},
		out:    &bytes.Buffer{},
	}
	log, logs := tstest.TestLogger()
	f.logs = logs

	origGetwd := getwd
	origResolve := resolveWorkspace
	origLogger := newLogger
	origRunner := newRunner
	origConfirmer := newConfirmer
	origMirror := newMirror
	origStdout := stdout
	origInteractive := isInteractive
	t.Cleanup(func() {
		getwd = origGetwd
		resolveWorkspace = origResolve
		newLogger = origLogger
		newRunner = origRunner
		newConfirmer = origConfirmer
		newMirror = origMirror
		stdout = origStdout
		isInteractive = origInteractive
	})

	getwd = func() (string, error) { return root, nil }
	resolveWorkspace = func(_ string, configPath string) (*workspace.Location, error) {
		f.configPath = configPath
		return f.loc, nil
	}
	newLogger = func() logr.Logger { return log }
	newRunner = func(logr.Logger) command.Runner { return f.runner }
	newConfirmer = func(auto bool) prompt.Confirmer {
		f.autoConfirm = auto
		return prompt.Auto{}
	}
	newMirror = func(context.Context, config.ArchiveConfig, string, logr.Logger) (lifecycle.Mirror, error) {
		t.Fatal("mirror is not configured")
		return nil, nil
	}
	stdout = f.out
	isInteractive = func() bool { return false }

	return f
}
