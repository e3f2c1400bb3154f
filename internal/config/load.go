package config

import (
	"fmt"
	"os"

	"gopkg.in/ini.v1"
)

// LoadFile reads and validates the configuration at path.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, &Error{Path: path, Err: ErrFileMissing}
		}
		return nil, &Error{Path: path, Err: err}
	}

	f, err := ini.LoadSources(ini.LoadOptions{Insensitive: true}, path)
	if err != nil {
		return nil, &Error{Path: path, Err: fmt.Errorf("failed to parse: %w", err)}
	}

	cfg := Default()
	cfg.Path = path

	root := f.Section("")
	if !root.HasKey(KeyWorkspaceDir) {
		return nil, &Error{Path: path, Key: KeyWorkspaceDir, Err: ErrKeyMissing}
	}
	cfg.WorkspaceDir = root.Key(KeyWorkspaceDir).String()
	cfg.DefaultTarget = root.Key(KeyDefaultTarget).String()

	decl := f.Section("declaration")
	setString(&cfg.Declaration.File, decl, "file")
	setString(&cfg.Declaration.Field, decl, "field")

	setString(&cfg.Terraform.Binary, f.Section("terraform"), "binary")

	aws := f.Section("aws")
	setString(&cfg.AWS.Binary, aws, "binary")
	setString(&cfg.AWS.Region, aws, "region")
	setString(&cfg.AWS.Profile, aws, "profile")

	archive := f.Section("archive")
	setString(&cfg.Archive.Prefix, archive, "prefix")
	setString(&cfg.Archive.MirrorBucket, archive, "mirror_bucket")
	setString(&cfg.Archive.MirrorPrefix, archive, "mirror_prefix")
	setString(&cfg.Archive.MirrorRegion, archive, "mirror_region")
	setString(&cfg.Archive.MirrorEndpoint, archive, "mirror_endpoint")
	setString(&cfg.Archive.MirrorAccessKey, archive, "mirror_access_key")
	setString(&cfg.Archive.MirrorSecretKey, archive, "mirror_secret_key")

	policy := f.Section("policy")
	if policy.HasKey("auto_confirm") {
		autoConfirm, err := policy.Key("auto_confirm").Bool()
		if err != nil {
			return nil, &Error{Path: path, Key: "policy.auto_confirm", Err: fmt.Errorf("%v: %w", err, ErrInvalidValue)}
		}
		cfg.Policy.AutoConfirm = autoConfirm
	}
	if policy.HasKey("final_occupant") {
		fo, err := ParseFinalOccupant(policy.Key("final_occupant").String())
		if err != nil {
			return nil, &Error{Path: path, Key: "policy.final_occupant", Err: err}
		}
		cfg.Policy.FinalOccupant = fo
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setString overwrites dst only when the key is present and non-empty, so
// defaults survive blank entries.
func setString(dst *string, sec *ini.Section, key string) {
	if !sec.HasKey(key) {
		return
	}
	if v := sec.Key(key).String(); v != "" {
		*dst = v
	}
}
