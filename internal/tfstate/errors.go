package tfstate

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnreadableState is returned for state files that are not valid JSON.
	ErrUnreadableState = errors.New("unreadable state file")

	// ErrInvalidIdentity is returned for cluster names that cannot name an archive.
	ErrInvalidIdentity = errors.New("invalid cluster name")
)

// InconsistentStateError reports a state set whose files name different clusters.
type InconsistentStateError struct {
	Dir        string
	Identities map[string]string // file name -> cluster
}

func (e *InconsistentStateError) Error() string {
	files := make([]string, 0, len(e.Identities))
	for f := range e.Identities {
		files = append(files, f)
	}
	sort.Strings(files)
	parts := make([]string, 0, len(files))
	for _, f := range files {
		parts = append(parts, fmt.Sprintf("%s=%q", f, e.Identities[f]))
	}
	return fmt.Sprintf("inconsistent state in %s: %s", e.Dir, strings.Join(parts, ", "))
}

// OccupantMismatchError reports a state set that belongs to a different
// cluster than the one being operated on.
type OccupantMismatchError struct {
	Dir  string
	Want string
	Got  string
}

func (e *OccupantMismatchError) Error() string {
	return fmt.Sprintf("state in %s belongs to cluster %q, not %q", e.Dir, e.Got, e.Want)
}
