package lifecycle

import (
	"errors"

	"github.com/go-logr/logr"

	"github.com/imamik/tfslot/internal/config"
	"github.com/imamik/tfslot/internal/identity"
	"github.com/imamik/tfslot/internal/platform/kube"
	"github.com/imamik/tfslot/internal/tfstate"
	"github.com/imamik/tfslot/internal/workspace"
)

// Status is a read-only view of a workspace.
type Status struct {
	Workspace       string `json:"workspace" yaml:"workspace"`
	DeclarationFile string `json:"declarationFile" yaml:"declarationFile"`
	// Declared is the cluster named in the declaration file.
	Declared string `json:"declared" yaml:"declared"`
	// Occupant is the cluster whose state is active, "" when none is known.
	Occupant      string                `json:"occupant,omitempty" yaml:"occupant,omitempty"`
	OccupantFiles []string              `json:"occupantFiles,omitempty" yaml:"occupantFiles,omitempty"`
	Archives      []tfstate.ArchiveInfo `json:"archives" yaml:"archives"`
	KubeContext   *kube.Context         `json:"kubeContext,omitempty" yaml:"kubeContext,omitempty"`
}

// Drifted reports whether the declaration names a cluster other than the
// active state's.
func (s *Status) Drifted() bool {
	return s.Occupant != "" && s.Declared != "" && s.Occupant != s.Declared
}

// Inspect collects the workspace status without modifying anything.
func Inspect(loc *workspace.Location, log logr.Logger) (*Status, error) {
	cfg := loc.Config
	mutator := &identity.Mutator{Path: loc.DeclarationPath(), Field: cfg.Declaration.Field, Log: log}
	states := tfstate.NewManager(cfg.Archive.Prefix, log)

	st := &Status{Workspace: loc.Dir, DeclarationFile: loc.DeclarationPath()}

	declared, err := mutator.Current()
	if err != nil && !errors.Is(err, identity.ErrMarkerNotFound) && !errors.Is(err, config.ErrFileMissing) {
		return nil, err
	}
	st.Declared = declared

	occ, err := states.DetectOccupant(loc.Dir)
	if err != nil {
		return nil, err
	}
	st.Occupant = occ.Identity
	st.OccupantFiles = occ.Files

	if st.Archives, err = states.Archives(loc.Dir); err != nil {
		return nil, err
	}
	return st, nil
}
