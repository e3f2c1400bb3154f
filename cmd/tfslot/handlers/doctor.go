package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/imamik/tfslot/internal/config"
	"github.com/imamik/tfslot/internal/platform/s3"
	"github.com/imamik/tfslot/internal/ui/tui"
	"github.com/imamik/tfslot/internal/util/prerequisites"
)

var (
	// checkTools looks up external binaries.
	checkTools = prerequisites.Check

	// checkBucket reports whether the mirror bucket is reachable.
	checkBucket = func(ctx context.Context, cfg config.ArchiveConfig, profile string) (bool, error) {
		client, err := s3.NewClient(ctx, s3.Options{
			Region:    cfg.MirrorRegion,
			Endpoint:  cfg.MirrorEndpoint,
			AccessKey: cfg.MirrorAccessKey,
			SecretKey: cfg.MirrorSecretKey,
			Profile:   profile,
		})
		if err != nil {
			return false, err
		}
		return client.BucketExists(ctx, cfg.MirrorBucket)
	}
)

// Doctor handles the doctor command.
//
// It checks the configuration, the terraform and aws binaries it names and,
// when configured, the archive mirror bucket.
func Doctor(ctx context.Context, configPath string) error {
	var problems []error

	cfg := config.Default()
	loc, err := loadWorkspace(configPath)
	if err != nil {
		problems = append(problems, err)
		fmt.Fprintf(stdout, "  Configuration: %v\n", err)
	} else {
		cfg = loc.Config
		fmt.Fprintf(stdout, "  Configuration: %s\n", cfg.Path)
		fmt.Fprintf(stdout, "  Workspace:     %s\n", loc.Dir)
	}

	tools := append(prerequisites.RequiredTools(cfg.Terraform.Binary, cfg.AWS.Binary), prerequisites.OptionalTools()...)
	results := checkTools(ctx, tools)
	fmt.Fprint(stdout, tui.RenderChecks(results, isInteractive()))
	if err := results.Error(); err != nil {
		problems = append(problems, err)
	}

	if loc != nil && cfg.Archive.MirrorEnabled() {
		ok, err := checkBucket(ctx, cfg.Archive, cfg.AWS.Profile)
		switch {
		case err != nil:
			problems = append(problems, fmt.Errorf("archive mirror: %w", err))
			fmt.Fprintf(stdout, "  Mirror:        s3://%s unreachable: %v\n", cfg.Archive.MirrorBucket, err)
		case !ok:
			problems = append(problems, fmt.Errorf("archive mirror: bucket %s does not exist", cfg.Archive.MirrorBucket))
			fmt.Fprintf(stdout, "  Mirror:        s3://%s not found\n", cfg.Archive.MirrorBucket)
		default:
			fmt.Fprintf(stdout, "  Mirror:        s3://%s\n", cfg.Archive.MirrorBucket)
		}
	}

	return errors.Join(problems...)
}
