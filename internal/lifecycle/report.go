package lifecycle

import (
	"time"

	"github.com/imamik/tfslot/internal/command"
)

// Report summarizes one operation.
type Report struct {
	Operation Operation `json:"operation" yaml:"operation"`
	Target    string    `json:"target" yaml:"target"`

	// PriorOccupant is the cluster whose state occupied the workspace before
	// the call, or "" when none could be recovered.
	PriorOccupant string `json:"priorOccupant,omitempty" yaml:"priorOccupant,omitempty"`
	// StateFound reports whether the target had archived state.
	StateFound bool `json:"stateFound" yaml:"stateFound"`
	// Skipped is set when a bring-down found no such cluster.
	Skipped bool `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	// Destroyed is set when terraform destroy exited cleanly.
	Destroyed bool `json:"destroyed,omitempty" yaml:"destroyed,omitempty"`
	// Clusters is the most recent cluster listing.
	Clusters []string `json:"clusters" yaml:"clusters"`
	// FinalOccupant is the cluster whose state occupies the workspace after
	// cleanup.
	FinalOccupant string `json:"finalOccupant,omitempty" yaml:"finalOccupant,omitempty"`

	Steps    []command.StepResult `json:"-" yaml:"-"`
	Duration time.Duration        `json:"duration" yaml:"duration"`
}

// FailedStep returns the name of the first step that exited nonzero, or "".
func (r *Report) FailedStep() string {
	for _, s := range r.Steps {
		if s.Result != nil && s.Result.ExitCode != 0 {
			return s.Step
		}
	}
	return ""
}

func (r *Report) stepSucceeded(name string) bool {
	for _, s := range r.Steps {
		if s.Step == name {
			return s.Result != nil && s.Result.ExitCode == 0
		}
	}
	return false
}

func (r *Report) stepOutput(name string) (string, bool) {
	for _, s := range r.Steps {
		if s.Step == name && s.Result != nil && s.Result.ExitCode == 0 {
			return s.Result.Stdout, true
		}
	}
	return "", false
}
