package config

import (
	"errors"
	"fmt"
)

var (
	// ErrNotARepository is returned when no enclosing git repository exists.
	ErrNotARepository = errors.New("not a git repository")

	// ErrFileMissing is returned when a required file does not exist.
	ErrFileMissing = errors.New("file not found")

	// ErrKeyMissing is returned when a required key is absent or empty.
	ErrKeyMissing = errors.New("key not found")

	// ErrInvalidValue is returned when a key holds a value outside its domain.
	ErrInvalidValue = errors.New("invalid value")

	// ErrWorkspaceMissing is returned when target_cluster_dir does not name a directory.
	ErrWorkspaceMissing = errors.New("workspace directory not found")

	// ErrNoTarget is returned when neither a flag nor target_cluster names an identity.
	ErrNoTarget = errors.New("no target cluster given and no default configured")
)

// Error is a configuration problem: a missing repository, file or key, or an
// unusable value.
type Error struct {
	Path string
	Key  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Key != "" && e.Path != "":
		return fmt.Sprintf("configuration error: %s: key %q in %s", e.Err, e.Key, e.Path)
	case e.Key != "":
		return fmt.Sprintf("configuration error: %s: key %q", e.Err, e.Key)
	case e.Path != "":
		return fmt.Sprintf("configuration error: %s: %s", e.Err, e.Path)
	default:
		return fmt.Sprintf("configuration error: %s", e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err is, or wraps, an *Error.
func IsConfigurationError(err error) bool {
	var cfgErr *Error
	return errors.As(err, &cfgErr)
}
