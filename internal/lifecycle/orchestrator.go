package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/imamik/tfslot/internal/command"
	"github.com/imamik/tfslot/internal/config"
	"github.com/imamik/tfslot/internal/identity"
	"github.com/imamik/tfslot/internal/logging"
	"github.com/imamik/tfslot/internal/metrics"
	"github.com/imamik/tfslot/internal/platform/eks"
	"github.com/imamik/tfslot/internal/platform/terraform"
	"github.com/imamik/tfslot/internal/tfstate"
	"github.com/imamik/tfslot/internal/ui/prompt"
	"github.com/imamik/tfslot/internal/util/fsutil"
	"github.com/imamik/tfslot/internal/workspace"
)

var (
	// ErrUnexpected wraps a panic recovered during an operation.
	ErrUnexpected = errors.New("unexpected failure")

	// ErrNoState is returned by BringDown when the target has no state to
	// destroy from.
	ErrNoState = errors.New("no terraform state for cluster, refusing to tear down")
)

// Step names.
const (
	StepInit             = "init"
	StepApply            = "apply"
	StepDestroy          = "destroy"
	StepUpdateKubeconfig = "update-kubeconfig"
	StepListClusters     = "list-clusters"
)

// Declaration switches the cluster declared in the workspace.
type Declaration interface {
	Set(ctx context.Context, target string) (*identity.Snapshot, error)
	Revert(snap *identity.Snapshot) error
}

// Mirror replicates archives off the machine.
type Mirror interface {
	Push(ctx context.Context, cluster, archiveDir string) error
	Fetch(ctx context.Context, cluster, archiveDir string) (int, error)
	Remove(ctx context.Context, cluster string) error
}

// Options are the collaborators of an Orchestrator.
type Options struct {
	Runner    command.Runner
	Confirmer prompt.Confirmer
	// Mirror is optional.
	Mirror Mirror
	// Metrics is optional.
	Metrics *metrics.Recorder
	// FinalOccupant overrides the configured policy when set.
	FinalOccupant config.FinalOccupant
	Log           logr.Logger
	OnPhase       func(Phase)
}

// Orchestrator runs bring-up and bring-down against one workspace.
type Orchestrator struct {
	Dir           string
	Declaration   Declaration
	States        *tfstate.Manager
	Runner        command.Runner
	Terraform     terraform.CLI
	EKS           *eks.CLI
	Mirror        Mirror
	Metrics       *metrics.Recorder
	FinalOccupant config.FinalOccupant
	Log           logr.Logger
	OnPhase       func(Phase)

	phase Phase
}

// New wires an Orchestrator for a resolved workspace.
func New(loc *workspace.Location, opts Options) *Orchestrator {
	cfg := loc.Config
	log := opts.Log

	final := opts.FinalOccupant
	if final == "" {
		final = cfg.Policy.FinalOccupant
	}

	decl := &identity.Mutator{
		Path:      loc.DeclarationPath(),
		Field:     cfg.Declaration.Field,
		Confirmer: opts.Confirmer,
		Log:       log.WithName("identity"),
	}
	cloud := &eks.CLI{
		Runner:  opts.Runner,
		Binary:  cfg.AWS.Binary,
		Region:  cfg.AWS.Region,
		Profile: cfg.AWS.Profile,
	}

	return &Orchestrator{
		Dir:           loc.Dir,
		Declaration:   decl,
		States:        tfstate.NewManager(cfg.Archive.Prefix, log.WithName("state")),
		Runner:        opts.Runner,
		Terraform:     terraform.CLI{Binary: cfg.Terraform.Binary, Dir: loc.Dir},
		EKS:           cloud,
		Mirror:        opts.Mirror,
		Metrics:       opts.Metrics,
		FinalOccupant: final,
		Log:           log,
		OnPhase:       opts.OnPhase,
	}
}

// Phase returns the current phase.
func (o *Orchestrator) Phase() Phase {
	return o.phase
}

// session tracks what acquire has taken so release can give it back.
type session struct {
	op            Operation
	target        string
	snap          *identity.Snapshot
	prior         string
	priorArchived bool
	swapped       bool
	destroyed     bool
}

// BringUp provisions target from the shared workspace.
func (o *Orchestrator) BringUp(ctx context.Context, target string) (rep *Report, err error) {
	rep = &Report{Operation: OpBringUp, Target: target}
	start := time.Now()
	defer func() { o.finish(rep, start, err) }()

	// Reject names that cannot become an archive before anything is touched.
	if err = tfstate.ValidateIdentity(target); err != nil {
		return rep, err
	}

	sess := &session{op: OpBringUp, target: target}
	defer o.release(ctx, sess, rep, &err)
	defer o.recoverPanic(&err)

	if err = o.acquire(ctx, sess, rep); err != nil {
		return rep, err
	}

	o.setPhase(PhaseProvisioning)
	steps := []command.Step{
		{Name: StepInit, Command: o.Terraform.Init(false)},
		{Name: StepApply, Command: o.Terraform.Apply()},
		{Name: StepUpdateKubeconfig, Command: o.withDir(o.EKS.UpdateKubeconfigCommand(target))},
		{Name: StepListClusters, Command: o.withDir(o.EKS.ListClustersCommand())},
	}
	if err = o.runSteps(ctx, steps, rep); err != nil {
		return rep, err
	}

	o.Log.Info("cluster is up", "cluster", target)
	return rep, nil
}

// BringDown destroys target using its archived state. A cluster the cloud
// does not list is reported as skipped without touching the workspace.
func (o *Orchestrator) BringDown(ctx context.Context, target string) (rep *Report, err error) {
	rep = &Report{Operation: OpBringDown, Target: target}
	start := time.Now()
	defer func() { o.finish(rep, start, err) }()

	if err = tfstate.ValidateIdentity(target); err != nil {
		return rep, err
	}

	exists, clusters, err := o.EKS.ClusterExists(ctx, target)
	if err != nil {
		return rep, fmt.Errorf("failed to list clusters: %w", err)
	}
	rep.Clusters = clusters
	if !exists {
		rep.Skipped = true
		logging.Warn(o.Log, "cluster not found, nothing to tear down", "cluster", target, "existing", fmt.Sprint(clusters))
		return rep, nil
	}

	sess := &session{op: OpBringDown, target: target}
	defer o.release(ctx, sess, rep, &err)
	defer o.recoverPanic(&err)

	if err = o.acquire(ctx, sess, rep); err != nil {
		return rep, err
	}
	if !rep.StateFound {
		return rep, fmt.Errorf("%w %q", ErrNoState, target)
	}

	o.setPhase(PhaseProvisioning)
	steps := []command.Step{
		{Name: StepUpdateKubeconfig, Command: o.withDir(o.EKS.UpdateKubeconfigCommand(target))},
		{Name: StepInit, Command: o.Terraform.Init(true)},
		{Name: StepDestroy, Command: o.Terraform.Destroy()},
		{Name: StepListClusters, Command: o.withDir(o.EKS.ListClustersCommand())},
	}
	err = o.runSteps(ctx, steps, rep)
	sess.destroyed = rep.stepSucceeded(StepDestroy)
	rep.Destroyed = sess.destroyed
	if err != nil {
		return rep, err
	}

	for _, c := range rep.Clusters {
		if c == target {
			logging.Warn(o.Log, "cluster is still listed after destroy", "cluster", target)
		}
	}
	o.Log.Info("cluster is down", "cluster", target)
	return rep, nil
}

// acquire declares the target and swaps its state into the workspace.
func (o *Orchestrator) acquire(ctx context.Context, sess *session, rep *Report) error {
	snap, err := o.Declaration.Set(ctx, sess.target)
	if err != nil {
		return err
	}
	sess.snap = snap
	o.setPhase(PhaseIdentitySet)

	occ, err := o.States.DetectOccupant(o.Dir)
	if err != nil {
		return err
	}
	sess.prior = occ.Identity
	rep.PriorOccupant = occ.Identity

	if occ.Known() && occ.Identity != sess.target {
		if err := o.States.Archive(occ.Identity, o.Dir); err != nil {
			return err
		}
		sess.priorArchived = true
		o.push(ctx, occ.Identity)
	}

	if occ.Identity != sess.target {
		if err := o.fetch(ctx, sess.target); err != nil {
			return err
		}
	}

	found, err := o.States.Restore(sess.target, o.Dir)
	if err != nil {
		return err
	}
	sess.swapped = true
	rep.StateFound = found
	o.setPhase(PhaseStateSwapped)
	return nil
}

// release reverts the declaration and returns the workspace to its prior
// occupant. Cleanup errors never replace the operation's own error.
func (o *Orchestrator) release(ctx context.Context, sess *session, rep *Report, errp *error) {
	ctx = context.WithoutCancel(ctx)
	o.setPhase(PhaseReverting)
	defer o.setPhase(PhaseIdle)

	var failures []error
	fail := func(action string, err error) {
		if err == nil {
			return
		}
		o.Log.Error(err, "cleanup failed", "action", action, "cluster", sess.target)
		o.Metrics.RecordCleanupFailure(string(sess.op))
		failures = append(failures, fmt.Errorf("%s: %w", action, err))
	}

	if sess.snap != nil {
		fail("revert declaration", o.Declaration.Revert(sess.snap))
	}

	switch {
	case sess.destroyed:
		fail("discard state", o.States.Discard(sess.target, o.Dir))
		fail("purge archive", o.States.Purge(sess.target, o.Dir))
		if o.Mirror != nil {
			if err := o.Mirror.Remove(ctx, sess.target); err != nil {
				logging.Warn(o.Log, "failed to remove mirrored archive", "cluster", sess.target, "error", err.Error())
			}
		}
		if sess.priorArchived {
			_, err := o.States.Restore(sess.prior, o.Dir)
			fail("restore prior occupant", err)
		}

	case sess.priorArchived && !sess.swapped:
		// The target's archive is untouched; drop any partial copy of it.
		// Restore refuses to overwrite whatever Discard could not remove.
		fail("discard partial restore", o.States.Discard(sess.target, o.Dir))
		_, err := o.States.Restore(sess.prior, o.Dir)
		fail("restore prior occupant", err)

	case sess.priorArchived && o.FinalOccupant == config.FinalOccupantTarget:
		// The target stays active only if it has state to stay with.
		occ, err := o.States.DetectOccupant(o.Dir)
		if err != nil {
			fail("detect occupant", err)
			break
		}
		if occ.Empty() {
			_, err := o.States.Restore(sess.prior, o.Dir)
			fail("restore prior occupant", err)
		}

	case sess.priorArchived:
		if err := o.States.Archive(sess.target, o.Dir); err != nil {
			fail("archive target state", err)
			break
		}
		o.push(ctx, sess.target)
		_, err := o.States.Restore(sess.prior, o.Dir)
		fail("restore prior occupant", err)
	}

	if occ, err := o.States.DetectOccupant(o.Dir); err == nil {
		rep.FinalOccupant = occ.Identity
	}

	if len(failures) > 0 && *errp == nil {
		*errp = fmt.Errorf("cleanup failed: %w", errors.Join(failures...))
	}
}

// recoverPanic converts a panic into ErrUnexpected so release still runs.
func (o *Orchestrator) recoverPanic(errp *error) {
	if r := recover(); r != nil {
		o.Log.Error(nil, "recovered from panic", "panic", fmt.Sprint(r))
		*errp = fmt.Errorf("%w: %v", ErrUnexpected, r)
	}
}

func (o *Orchestrator) runSteps(ctx context.Context, steps []command.Step, rep *Report) error {
	seq := &command.Sequence{
		Runner: o.Runner,
		Log:    o.Log.WithName("steps"),
		OnStep: func(step string, res *command.Result, err error) {
			result := metrics.ResultSuccess
			var seconds float64
			if res != nil {
				seconds = res.Duration.Seconds()
			}
			if err != nil || !res.Success() {
				result = metrics.ResultError
			}
			o.Metrics.RecordCommand(step, result, seconds)
		},
	}

	results, err := seq.Run(ctx, steps)
	rep.Steps = append(rep.Steps, results...)

	if out, ok := rep.stepOutput(StepListClusters); ok {
		clusters, perr := eks.ParseClusterList(out)
		if perr != nil {
			logging.Warn(o.Log, "could not parse cluster list", "error", perr.Error())
		} else {
			rep.Clusters = clusters
			o.Log.Info("clusters", "names", fmt.Sprint(clusters))
		}
	}
	return err
}

func (o *Orchestrator) push(ctx context.Context, cluster string) {
	if o.Mirror == nil {
		return
	}
	if err := o.Mirror.Push(ctx, cluster, o.States.ArchivePath(cluster, o.Dir)); err != nil {
		logging.Warn(o.Log, "failed to mirror archive", "cluster", cluster, "error", err.Error())
	}
}

// fetch pulls the target's archive from the mirror when none exists locally.
func (o *Orchestrator) fetch(ctx context.Context, cluster string) error {
	if o.Mirror == nil {
		return nil
	}
	archive := o.States.ArchivePath(cluster, o.Dir)
	if ok, err := fsutil.Exists(archive); err != nil || ok {
		return err
	}
	n, err := o.Mirror.Fetch(ctx, cluster, archive)
	if err != nil {
		return fmt.Errorf("failed to fetch mirrored archive for %s: %w", cluster, err)
	}
	if n > 0 {
		o.Log.Info("using mirrored archive", "cluster", cluster, "files", n)
	}
	return nil
}

func (o *Orchestrator) finish(rep *Report, start time.Time, err error) {
	rep.Duration = time.Since(start)

	result := metrics.ResultSuccess
	switch {
	case errors.Is(err, identity.ErrUserAbort):
		result = metrics.ResultAborted
	case err != nil:
		result = metrics.ResultError
	case rep.Skipped:
		result = metrics.ResultSkipped
	}
	o.Metrics.RecordOperation(string(rep.Operation), result, rep.Duration.Seconds())
}

func (o *Orchestrator) setPhase(p Phase) {
	if o.phase == p {
		return
	}
	o.Log.V(1).Info("phase", "from", o.phase.String(), "to", p.String())
	o.phase = p
	if o.OnPhase != nil {
		o.OnPhase(p)
	}
}

// withDir runs cloud CLI calls from the workspace so relative paths in the
// environment resolve the same way as for terraform.
func (o *Orchestrator) withDir(c command.Command) command.Command {
	c.Dir = o.Dir
	return c
}
