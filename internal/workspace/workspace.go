package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"

	"github.com/imamik/tfslot/internal/config"
)

// Location is a resolved workspace.
type Location struct {
	// RepoRoot is the top of the enclosing git working tree.
	RepoRoot string
	// Dir is the absolute path of the Terraform workspace.
	Dir string
	// Config is the project configuration the workspace was resolved from.
	Config *config.Config
}

// DeclarationPath returns the absolute path of the file holding the identity field.
func (l *Location) DeclarationPath() string {
	return filepath.Join(l.Dir, l.Config.Declaration.File)
}

// RepoRoot returns the root of the git working tree enclosing startDir.
func RepoRoot(startDir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(startDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return "", &config.Error{Path: startDir, Err: config.ErrNotARepository}
		}
		return "", &config.Error{Path: startDir, Err: fmt.Errorf("%w: %v", config.ErrNotARepository, err)}
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", &config.Error{Path: startDir, Err: fmt.Errorf("%w: %v", config.ErrNotARepository, err)}
	}
	return wt.Filesystem.Root(), nil
}

// Resolve locates the repository enclosing startDir, loads the project
// configuration and checks that the configured workspace exists. An empty
// configPath selects config.DefaultFile under the repository root; a relative
// one is taken relative to startDir, like any other command-line path.
func Resolve(startDir, configPath string) (*Location, error) {
	root, err := RepoRoot(startDir)
	if err != nil {
		return nil, err
	}

	switch {
	case configPath == "":
		configPath = filepath.Join(root, config.DefaultFile)
	case !filepath.IsAbs(configPath):
		configPath = filepath.Join(startDir, configPath)
	}

	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, err
	}

	dir := cfg.WorkspaceDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, &config.Error{Path: dir, Key: config.KeyWorkspaceDir, Err: config.ErrWorkspaceMissing}
	}

	return &Location{RepoRoot: root, Dir: dir, Config: cfg}, nil
}
