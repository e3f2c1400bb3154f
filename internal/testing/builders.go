package testing

import (
	"github.com/imamik/tfslot/internal/config"
)

// ConfigBuilder provides a fluent interface for constructing test configs.
// Each method returns a new builder (immutable) for chaining.
type ConfigBuilder struct {
	cfg config.Config
}

// NewConfigBuilder creates a new ConfigBuilder with the loader's defaults and
// a workspace directory of "infra".
func NewConfigBuilder() *ConfigBuilder {
	cfg := *config.Default()
	cfg.WorkspaceDir = "infra"
	return &ConfigBuilder{cfg: cfg}
}

// WithWorkspaceDir sets target_cluster_dir.
func (b *ConfigBuilder) WithWorkspaceDir(dir string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.WorkspaceDir = dir
	return newBuilder
}

// WithDefaultTarget sets target_cluster.
func (b *ConfigBuilder) WithDefaultTarget(target string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.DefaultTarget = target
	return newBuilder
}

// WithBinaries sets the terraform and aws executables.
func (b *ConfigBuilder) WithBinaries(terraform, aws string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Terraform.Binary = terraform
	newBuilder.cfg.AWS.Binary = aws
	return newBuilder
}

// WithRegion sets the AWS region.
func (b *ConfigBuilder) WithRegion(region string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.AWS.Region = region
	return newBuilder
}

// WithMirror enables the S3 archive mirror.
func (b *ConfigBuilder) WithMirror(bucket string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Archive.MirrorBucket = bucket
	return newBuilder
}

// WithAutoConfirm sets the auto_confirm policy.
func (b *ConfigBuilder) WithAutoConfirm(auto bool) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Policy.AutoConfirm = auto
	return newBuilder
}

// WithFinalOccupant sets the final_occupant policy.
func (b *ConfigBuilder) WithFinalOccupant(fo config.FinalOccupant) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Policy.FinalOccupant = fo
	return newBuilder
}

// Build returns the constructed config.
func (b *ConfigBuilder) Build() *config.Config {
	cfg := b.cfg // copy
	return &cfg
}

// clone copies the builder; Config holds no reference types.
func (b *ConfigBuilder) clone() *ConfigBuilder {
	return &ConfigBuilder{cfg: b.cfg}
}

// MinimalConfig returns a minimal valid config for simple tests.
func MinimalConfig() *config.Config {
	return NewConfigBuilder().Build()
}
