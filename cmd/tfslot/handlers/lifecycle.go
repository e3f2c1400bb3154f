package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/tfslot/internal/config"
	"github.com/imamik/tfslot/internal/lifecycle"
	"github.com/imamik/tfslot/internal/logging"
	"github.com/imamik/tfslot/internal/metrics"
	"github.com/imamik/tfslot/internal/ui/tui"
)

// LifecycleOptions are the flags shared by bringup and bringdown.
type LifecycleOptions struct {
	ConfigPath string
	// Target overrides target_cluster from the configuration.
	Target string
	// Yes skips the confirmation prompt.
	Yes bool
	// FinalOccupant overrides policy.final_occupant.
	FinalOccupant string
	// MetricsFile receives the run's metrics in textfile format.
	MetricsFile string
}

// BringUp handles the bringup command.
//
// It declares the target cluster, swaps its archived state into the
// workspace, runs terraform apply and refreshes the kubeconfig. The workspace
// is put back afterwards, also when a step fails.
func BringUp(ctx context.Context, opts LifecycleOptions) error {
	return runLifecycle(ctx, lifecycle.OpBringUp, opts)
}

// BringDown handles the bringdown command.
//
// It destroys the target cluster from its archived state and deletes that
// archive once terraform destroy succeeds. A cluster that is not listed by
// the cloud is reported and skipped.
func BringDown(ctx context.Context, opts LifecycleOptions) error {
	return runLifecycle(ctx, lifecycle.OpBringDown, opts)
}

func runLifecycle(ctx context.Context, op lifecycle.Operation, opts LifecycleOptions) error {
	loc, err := loadWorkspace(opts.ConfigPath)
	if err != nil {
		return err
	}
	cfg := loc.Config

	target, err := cfg.ResolveTarget(opts.Target)
	if err != nil {
		return err
	}

	var final config.FinalOccupant
	if opts.FinalOccupant != "" {
		if final, err = config.ParseFinalOccupant(opts.FinalOccupant); err != nil {
			return &config.Error{Key: "final-occupant", Err: err}
		}
	}

	log := newLogger()
	rec := metrics.NewRecorder()

	var mirror lifecycle.Mirror
	if cfg.Archive.MirrorEnabled() {
		if mirror, err = newMirror(ctx, cfg.Archive, cfg.AWS.Profile, log.WithName("mirror")); err != nil {
			return fmt.Errorf("failed to set up archive mirror: %w", err)
		}
	}

	orch := lifecycle.New(loc, lifecycle.Options{
		Runner:        newRunner(log.WithName("exec")),
		Confirmer:     newConfirmer(opts.Yes || cfg.Policy.AutoConfirm),
		Mirror:        mirror,
		Metrics:       rec,
		FinalOccupant: final,
		Log:           log,
	})

	log.Info("starting", "operation", string(op), "cluster", target, "workspace", loc.Dir)

	var rep *lifecycle.Report
	switch op {
	case lifecycle.OpBringDown:
		rep, err = orch.BringDown(ctx, target)
	default:
		rep, err = orch.BringUp(ctx, target)
	}

	if rep != nil {
		fmt.Fprint(stdout, tui.RenderReport(rep, isInteractive()))
	}
	if werr := rec.WriteTextfile(opts.MetricsFile); werr != nil {
		logging.Warn(log, "could not write metrics", "error", werr.Error())
	}

	if err != nil {
		return fmt.Errorf("%s %s failed: %w", op, target, err)
	}
	return nil
}
