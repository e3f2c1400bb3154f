package config

import (
	"fmt"
	"strings"

	"github.com/imamik/tfslot/internal/util/naming"
)

// DefaultFile is the config path relative to the repository root.
const DefaultFile = "configs/tfslot.cfg"

// Keys of the [DEFAULT] section.
const (
	KeyWorkspaceDir  = "target_cluster_dir"
	KeyDefaultTarget = "target_cluster"
)

// Defaults applied when a key is not set.
const (
	DefaultDeclarationFile  = "main.tf"
	DefaultDeclarationField = "cluster_custom_name"
	DefaultTerraformBinary  = "terraform"
	DefaultAWSBinary        = "aws"
	DefaultRegion           = "us-east-1"
	DefaultMirrorPrefix     = "tfslot"
)

// FinalOccupant decides which identity's state stays in the workspace after
// a bring-up or a failed bring-down.
type FinalOccupant string

const (
	// FinalOccupantPrior restores whichever identity occupied the workspace
	// before the call.
	FinalOccupantPrior FinalOccupant = "prior"
	// FinalOccupantTarget leaves the targeted identity's state active.
	FinalOccupantTarget FinalOccupant = "target"
)

// ParseFinalOccupant validates a policy value. Empty selects the default.
func ParseFinalOccupant(s string) (FinalOccupant, error) {
	switch FinalOccupant(strings.ToLower(strings.TrimSpace(s))) {
	case "", FinalOccupantPrior:
		return FinalOccupantPrior, nil
	case FinalOccupantTarget:
		return FinalOccupantTarget, nil
	default:
		return "", fmt.Errorf("final occupant must be %q or %q, got %q: %w",
			FinalOccupantPrior, FinalOccupantTarget, s, ErrInvalidValue)
	}
}

// Config is the parsed project configuration.
type Config struct {
	// Path is the file the configuration was loaded from.
	Path string

	// WorkspaceDir is the Terraform project directory, relative to the repository root.
	WorkspaceDir string

	// DefaultTarget is used when no target flag is given.
	DefaultTarget string

	Declaration DeclarationConfig
	Terraform   TerraformConfig
	AWS         AWSConfig
	Archive     ArchiveConfig
	Policy      PolicyConfig
}

// DeclarationConfig locates the identity field inside the workspace.
type DeclarationConfig struct {
	File  string
	Field string
}

// TerraformConfig configures the provisioning tool.
type TerraformConfig struct {
	Binary string
}

// AWSConfig configures the cloud control-plane CLI.
type AWSConfig struct {
	Binary  string
	Region  string
	Profile string
}

// ArchiveConfig configures state archive naming and the optional S3 mirror.
type ArchiveConfig struct {
	Prefix          string
	MirrorBucket    string
	MirrorPrefix    string
	MirrorRegion    string
	MirrorEndpoint  string
	MirrorAccessKey string
	MirrorSecretKey string
}

// MirrorEnabled reports whether archives are replicated to S3.
func (a ArchiveConfig) MirrorEnabled() bool {
	return a.MirrorBucket != ""
}

// PolicyConfig holds operator policy switches.
type PolicyConfig struct {
	AutoConfirm   bool
	FinalOccupant FinalOccupant
}

// Default returns a configuration with every optional value populated.
func Default() *Config {
	return &Config{
		Declaration: DeclarationConfig{
			File:  DefaultDeclarationFile,
			Field: DefaultDeclarationField,
		},
		Terraform: TerraformConfig{Binary: DefaultTerraformBinary},
		AWS: AWSConfig{
			Binary: DefaultAWSBinary,
			Region: DefaultRegion,
		},
		Archive: ArchiveConfig{
			Prefix:       naming.DefaultArchivePrefix,
			MirrorPrefix: DefaultMirrorPrefix,
			MirrorRegion: DefaultRegion,
		},
		Policy: PolicyConfig{FinalOccupant: FinalOccupantPrior},
	}
}

// Validate checks required keys and value domains.
func (c *Config) Validate() error {
	if c.WorkspaceDir == "" {
		return &Error{Path: c.Path, Key: KeyWorkspaceDir, Err: ErrKeyMissing}
	}
	if c.Declaration.File == "" || c.Declaration.Field == "" {
		return &Error{Path: c.Path, Key: "declaration", Err: ErrInvalidValue}
	}
	if c.Archive.Prefix == "" {
		return &Error{Path: c.Path, Key: "archive.prefix", Err: ErrInvalidValue}
	}
	if strings.ContainsAny(c.Archive.Prefix, `/\`) {
		return &Error{Path: c.Path, Key: "archive.prefix", Err: fmt.Errorf("must not contain path separators: %w", ErrInvalidValue)}
	}
	if c.AWS.Region == "" {
		return &Error{Path: c.Path, Key: "aws.region", Err: ErrInvalidValue}
	}
	if c.Archive.MirrorEnabled() && (c.Archive.MirrorAccessKey == "") != (c.Archive.MirrorSecretKey == "") {
		return &Error{Path: c.Path, Key: "archive.mirror_access_key", Err: fmt.Errorf("access and secret key must be set together: %w", ErrInvalidValue)}
	}
	if _, err := ParseFinalOccupant(string(c.Policy.FinalOccupant)); err != nil {
		return &Error{Path: c.Path, Key: "policy.final_occupant", Err: err}
	}
	return nil
}

// ResolveTarget picks the identity to operate on: the explicit flag value,
// falling back to the configured default.
func (c *Config) ResolveTarget(flag string) (string, error) {
	if t := strings.TrimSpace(flag); t != "" {
		return t, nil
	}
	if c.DefaultTarget != "" {
		return c.DefaultTarget, nil
	}
	return "", &Error{Path: c.Path, Key: KeyDefaultTarget, Err: ErrNoTarget}
}
