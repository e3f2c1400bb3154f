package identity

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/go-logr/logr"

	"github.com/imamik/tfslot/internal/config"
	"github.com/imamik/tfslot/internal/logging"
	"github.com/imamik/tfslot/internal/ui/prompt"
	"github.com/imamik/tfslot/internal/util/fsutil"
)

var (
	// ErrMarkerNotFound is returned when the declaration file has no such field.
	ErrMarkerNotFound = errors.New("declaration field not found")

	// ErrUserAbort is returned when the operator declines the switch.
	ErrUserAbort = errors.New("operation aborted by the user")

	// ErrInvalidTarget is returned for names that cannot be written into the field.
	ErrInvalidTarget = errors.New("invalid target cluster name")
)

// Snapshot is the declaration file as it was before Set.
type Snapshot struct {
	Path  string
	Data  []byte
	Mode  fs.FileMode
	Value string
}

// Mutator rewrites one quoted field in a declaration file.
type Mutator struct {
	Path      string
	Field     string
	Confirmer prompt.Confirmer
	Log       logr.Logger
}

// Current returns the declared value.
func (m *Mutator) Current() (string, error) {
	data, _, err := m.read()
	if err != nil {
		return "", err
	}
	start, end, err := m.locate(data)
	if err != nil {
		return "", err
	}
	return string(data[start:end]), nil
}

// Set declares target in the file. When the declared value differs the
// operator is asked first; a refusal, or a nil Confirmer, returns ErrUserAbort
// and leaves the file untouched. Use prompt.Auto to switch without asking.
// The returned snapshot restores the original bytes.
func (m *Mutator) Set(ctx context.Context, target string) (*Snapshot, error) {
	if target == "" || strings.ContainsAny(target, "\"\n\r") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTarget, target)
	}

	data, mode, err := m.read()
	if err != nil {
		return nil, err
	}
	start, end, err := m.locate(data)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{Path: m.Path, Data: data, Mode: mode, Value: string(data[start:end])}
	if snap.Value == target {
		m.Log.V(1).Info("declaration already matches", "file", m.Path, "cluster", target)
		return snap, nil
	}

	logging.Warn(m.Log, "cluster mismatch", "file", m.Path, "declared", snap.Value, "target", target)
	if m.Confirmer == nil {
		m.Log.Info("no confirmer configured, refusing to switch without consent")
		return nil, ErrUserAbort
	}
	ok, err := m.Confirmer.Confirm(ctx, prompt.ConfirmRequest{File: m.Path, Current: snap.Value, Target: target})
	if err != nil {
		return nil, fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		m.Log.Info("operation aborted by the user")
		return nil, ErrUserAbort
	}

	updated := make([]byte, 0, len(data)-len(snap.Value)+len(target))
	updated = append(updated, data[:start]...)
	updated = append(updated, target...)
	updated = append(updated, data[end:]...)

	if err := fsutil.AtomicWrite(m.Path, updated, mode); err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", m.Path, err)
	}

	m.Log.Info("declaration switched", "file", m.Path, "from", snap.Value, "to", target)
	return snap, nil
}

// Revert writes the snapshot's bytes back if the file changed since Set. A
// nil snapshot is a no-op.
func (m *Mutator) Revert(snap *Snapshot) error {
	if snap == nil {
		return nil
	}

	// #nosec G304 - path comes from the resolved workspace
	current, err := os.ReadFile(snap.Path)
	if err == nil && bytes.Equal(current, snap.Data) {
		return nil
	}

	if err := fsutil.AtomicWrite(snap.Path, snap.Data, snap.Mode); err != nil {
		return fmt.Errorf("failed to revert %s: %w", snap.Path, err)
	}

	m.Log.Info("declaration reverted", "file", snap.Path, "cluster", snap.Value)
	return nil
}

func (m *Mutator) read() ([]byte, fs.FileMode, error) {
	info, err := os.Stat(m.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, &config.Error{Path: m.Path, Err: config.ErrFileMissing}
		}
		return nil, 0, fmt.Errorf("failed to stat %s: %w", m.Path, err)
	}
	// #nosec G304 - path comes from the resolved workspace
	data, err := os.ReadFile(m.Path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read %s: %w", m.Path, err)
	}
	return data, info.Mode().Perm(), nil
}

// locate returns the byte range of the quoted value.
func (m *Mutator) locate(data []byte) (int, int, error) {
	re := regexp.MustCompile(`(?m)^[ \t]*` + regexp.QuoteMeta(m.Field) + `[ \t]*=[ \t]*"([^"\n]*)"`)
	loc := re.FindSubmatchIndex(data)
	if loc == nil {
		return 0, 0, &config.Error{Path: m.Path, Key: m.Field, Err: ErrMarkerNotFound}
	}
	return loc[2], loc[3], nil
}
