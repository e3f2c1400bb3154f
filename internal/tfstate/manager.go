package tfstate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/imamik/tfslot/internal/util/fsutil"
	"github.com/imamik/tfslot/internal/util/naming"
)

// Occupant describes the state set found in a directory.
type Occupant struct {
	// Identity is the recovered cluster name, or "" when unknown.
	Identity string
	// Files are the state set members present, in scan order.
	Files []string
}

// Empty reports whether no state files are present.
func (o Occupant) Empty() bool {
	return len(o.Files) == 0
}

// Known reports whether the occupant's cluster could be recovered.
func (o Occupant) Known() bool {
	return o.Identity != ""
}

// ArchiveInfo describes one archive directory.
type ArchiveInfo struct {
	Identity string    `json:"identity" yaml:"identity"`
	Path     string    `json:"path" yaml:"path"`
	Files    []string  `json:"files" yaml:"files"`
	Modified time.Time `json:"modified" yaml:"modified"`
}

// Manager moves state sets between a workspace and its archives.
type Manager struct {
	Prefix string
	Log    logr.Logger

	now func() time.Time
}

// NewManager returns a Manager using the given archive prefix.
func NewManager(prefix string, log logr.Logger) *Manager {
	if prefix == "" {
		prefix = naming.DefaultArchivePrefix
	}
	return &Manager{Prefix: prefix, Log: log, now: time.Now}
}

// ArchivePath returns the archive directory for identity under dir.
func (m *Manager) ArchivePath(identity, dir string) string {
	return filepath.Join(dir, naming.ArchiveDir(m.Prefix, identity))
}

// DetectOccupant reports which cluster's state set occupies dir.
func (m *Manager) DetectOccupant(dir string) (Occupant, error) {
	var occ Occupant
	found := map[string]string{}

	for _, name := range Files {
		path := filepath.Join(dir, name)
		ok, err := fsutil.Exists(path)
		if err != nil {
			return Occupant{}, err
		}
		if !ok {
			continue
		}
		occ.Files = append(occ.Files, name)

		id, err := ReadIdentity(path)
		if err != nil {
			return Occupant{}, err
		}
		if id != "" {
			found[name] = id
		}
	}

	for _, id := range found {
		if occ.Identity != "" && occ.Identity != id {
			return Occupant{}, &InconsistentStateError{Dir: dir, Identities: found}
		}
		occ.Identity = id
	}

	m.Log.V(1).Info("detected occupant", "dir", dir, "cluster", occ.Identity, "files", strings.Join(occ.Files, ","))
	return occ, nil
}

// Archive moves the workspace state set into identity's archive, replacing
// its previous contents. State without a recoverable cluster is attributed
// to identity. An empty workspace is a no-op.
func (m *Manager) Archive(identity, dir string) error {
	if err := ValidateIdentity(identity); err != nil {
		return err
	}

	occ, err := m.DetectOccupant(dir)
	if err != nil {
		return err
	}
	if occ.Empty() {
		m.Log.V(1).Info("no state to archive", "cluster", identity)
		return nil
	}
	if occ.Known() && occ.Identity != identity {
		return &OccupantMismatchError{Dir: dir, Want: identity, Got: occ.Identity}
	}

	archive := m.ArchivePath(identity, dir)
	if err := m.moveSet(dir, archive, occ.Files); err != nil {
		return fmt.Errorf("failed to archive state for %s: %w", identity, err)
	}

	m.Log.Info("archived state", "cluster", identity, "archive", archive)
	return nil
}

// Restore makes identity's archived state the workspace occupant and reports
// whether a state set for identity is now active. Archive contents are
// copied, not moved. State without a recoverable cluster is moved to an
// unclaimed stash first. Without an archive the workspace is left without
// state.
func (m *Manager) Restore(identity, dir string) (bool, error) {
	if err := ValidateIdentity(identity); err != nil {
		return false, err
	}

	archive := m.ArchivePath(identity, dir)
	stored, err := m.DetectOccupant(archive)
	if err != nil {
		return false, err
	}
	if stored.Known() && stored.Identity != identity {
		return false, &OccupantMismatchError{Dir: archive, Want: identity, Got: stored.Identity}
	}

	occ, err := m.DetectOccupant(dir)
	if err != nil {
		return false, err
	}
	if occ.Known() && occ.Identity == identity {
		m.Log.Info("state already active", "cluster", identity)
		return true, nil
	}
	if occ.Known() {
		return false, &OccupantMismatchError{Dir: dir, Want: identity, Got: occ.Identity}
	}
	if !occ.Empty() {
		if err := m.stash(dir, occ.Files); err != nil {
			return false, err
		}
	}

	if stored.Empty() {
		m.Log.Info("no archived state, workspace left empty", "cluster", identity)
		return false, nil
	}

	for _, name := range stored.Files {
		if err := fsutil.CopyFile(filepath.Join(archive, name), filepath.Join(dir, name)); err != nil {
			return false, fmt.Errorf("failed to restore state for %s: %w", identity, err)
		}
	}

	m.Log.Info("restored state", "cluster", identity, "archive", archive)
	return true, nil
}

// Purge deletes identity's archive.
func (m *Manager) Purge(identity, dir string) error {
	if err := ValidateIdentity(identity); err != nil {
		return err
	}
	archive := m.ArchivePath(identity, dir)
	if err := os.RemoveAll(archive); err != nil {
		return fmt.Errorf("failed to purge archive for %s: %w", identity, err)
	}
	m.Log.Info("purged archive", "cluster", identity, "archive", archive)
	return nil
}

// Discard deletes the workspace state set after its cluster was destroyed.
func (m *Manager) Discard(identity, dir string) error {
	if err := ValidateIdentity(identity); err != nil {
		return err
	}
	occ, err := m.DetectOccupant(dir)
	if err != nil {
		return err
	}
	if occ.Known() && occ.Identity != identity {
		return &OccupantMismatchError{Dir: dir, Want: identity, Got: occ.Identity}
	}
	for _, name := range occ.Files {
		if err := os.Remove(filepath.Join(dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to discard %s: %w", name, err)
		}
	}
	if !occ.Empty() {
		m.Log.Info("discarded workspace state", "cluster", identity)
	}
	return nil
}

// Archives lists the archive directories under dir, ordered by cluster name.
func (m *Manager) Archives(dir string) ([]ArchiveInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var out []ArchiveInfo
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		id, ok := naming.ClusterFromArchiveDir(m.Prefix, e.Name())
		if !ok {
			continue
		}
		info := ArchiveInfo{Identity: id, Path: filepath.Join(dir, e.Name())}
		for _, name := range Files {
			fi, err := os.Stat(filepath.Join(info.Path, name))
			if err != nil {
				continue
			}
			info.Files = append(info.Files, name)
			if fi.ModTime().After(info.Modified) {
				info.Modified = fi.ModTime()
			}
		}
		out = append(out, info)
	}
	return out, nil
}

// moveSet copies files from src into dst and only then removes them from
// src. Members of the set missing from src are removed from dst.
func (m *Manager) moveSet(src, dst string, files []string) error {
	if err := os.MkdirAll(dst, 0o750); err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	present := map[string]bool{}
	for _, name := range files {
		present[name] = true
		if err := fsutil.CopyFile(filepath.Join(src, name), filepath.Join(dst, name)); err != nil {
			return err
		}
	}
	for _, name := range Files {
		if present[name] {
			continue
		}
		if err := os.Remove(filepath.Join(dst, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove stale %s: %w", name, err)
		}
	}
	for _, name := range files {
		if err := os.Remove(filepath.Join(src, name)); err != nil {
			return fmt.Errorf("failed to remove %s: %w", name, err)
		}
	}
	return nil
}

// stash moves state of unknown ownership aside so it is never overwritten.
func (m *Manager) stash(dir string, files []string) error {
	now := time.Now
	if m.now != nil {
		now = m.now
	}
	dst := filepath.Join(dir, naming.UnclaimedDir(m.Prefix, now()))
	if err := m.moveSet(dir, dst, files); err != nil {
		return fmt.Errorf("failed to stash unclaimed state: %w", err)
	}
	m.Log.Info("moved state without a cluster name aside", "stash", dst)
	return nil
}

// ValidateIdentity rejects names that cannot safely name an archive directory.
func ValidateIdentity(identity string) error {
	switch {
	case strings.TrimSpace(identity) == "":
		return fmt.Errorf("%w: empty", ErrInvalidIdentity)
	case strings.ContainsAny(identity, `/\`), strings.Contains(identity, ".."):
		return fmt.Errorf("%w: %q contains a path separator or '..'", ErrInvalidIdentity, identity)
	case strings.HasPrefix(identity, "@"):
		return fmt.Errorf("%w: %q starts with '@'", ErrInvalidIdentity, identity)
	}
	return nil
}
