package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/tfslot/internal/config"
)

func initRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	// Resolve symlinked temp dirs (macOS) so paths compare equal.
	root, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	_, err = git.PlainInit(root, false)
	require.NoError(t, err)
	return root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestResolve(t *testing.T) {
	root := initRepo(t)
	writeFile(t, filepath.Join(root, config.DefaultFile), "[DEFAULT]\ntarget_cluster_dir = infra/eks\ntarget_cluster = dev\n")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "infra", "eks"), 0o755))

	nested := filepath.Join(root, "qa", "scripts")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	loc, err := Resolve(nested, "")
	require.NoError(t, err)

	assert.Equal(t, root, loc.RepoRoot)
	assert.Equal(t, filepath.Join(root, "infra", "eks"), loc.Dir)
	assert.Equal(t, "dev", loc.Config.DefaultTarget)
	assert.Equal(t, filepath.Join(root, "infra", "eks", "main.tf"), loc.DeclarationPath())
}

func TestResolve_CustomConfigPath(t *testing.T) {
	root := initRepo(t)
	writeFile(t, filepath.Join(root, "alt.cfg"), "target_cluster_dir = ws\n")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "ws"), 0o755))

	loc, err := Resolve(root, "alt.cfg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "ws"), loc.Dir)
	assert.Equal(t, filepath.Join(root, "alt.cfg"), loc.Config.Path)
}

func TestResolve_RelativeConfigPathFollowsStartDir(t *testing.T) {
	root := initRepo(t)
	nested := filepath.Join(root, "qa")
	writeFile(t, filepath.Join(nested, "my.cfg"), "target_cluster_dir = ws-nested\n")
	writeFile(t, filepath.Join(root, "my.cfg"), "target_cluster_dir = ws-root\n")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "ws-nested"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "ws-root"), 0o755))

	loc, err := Resolve(nested, "./my.cfg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(nested, "my.cfg"), loc.Config.Path)
	assert.Equal(t, filepath.Join(root, "ws-nested"), loc.Dir, "workspace dir stays relative to the repository root")
}

func TestResolve_Errors(t *testing.T) {
	t.Run("not a repository", func(t *testing.T) {
		_, err := Resolve(t.TempDir(), "")
		assert.ErrorIs(t, err, config.ErrNotARepository)
		assert.True(t, config.IsConfigurationError(err))
	})

	t.Run("config file missing", func(t *testing.T) {
		root := initRepo(t)
		_, err := Resolve(root, "")
		assert.ErrorIs(t, err, config.ErrFileMissing)
	})

	t.Run("workspace key missing", func(t *testing.T) {
		root := initRepo(t)
		writeFile(t, filepath.Join(root, config.DefaultFile), "target_cluster = dev\n")
		_, err := Resolve(root, "")
		assert.ErrorIs(t, err, config.ErrKeyMissing)
	})

	t.Run("workspace directory missing", func(t *testing.T) {
		root := initRepo(t)
		writeFile(t, filepath.Join(root, config.DefaultFile), "target_cluster_dir = nowhere\n")
		_, err := Resolve(root, "")
		assert.ErrorIs(t, err, config.ErrWorkspaceMissing)
	})

	t.Run("workspace is a file", func(t *testing.T) {
		root := initRepo(t)
		writeFile(t, filepath.Join(root, config.DefaultFile), "target_cluster_dir = main.tf\n")
		writeFile(t, filepath.Join(root, "main.tf"), "")
		_, err := Resolve(root, "")
		assert.ErrorIs(t, err, config.ErrWorkspaceMissing)
	})
}
