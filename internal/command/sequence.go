package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-logr/logr"
)

// Step is one named command in a Sequence.
type Step struct {
	Name    string
	Command Command
}

// StepResult pairs a step name with its outcome.
type StepResult struct {
	Step   string
	Result *Result
}

// CommandError reports a step that exited with a nonzero status.
type CommandError struct {
	Step     string
	Command  string
	Stdout   string
	Stderr   string
	ExitCode int
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("step %s failed: %q exited with code %d", e.Step, e.Command, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + lastLine(s)
	}
	return msg
}

// Sequence runs steps in order and aborts at the first failure.
type Sequence struct {
	Runner Runner
	Log    logr.Logger
	// OnStep, when set, observes every executed step. err is the spawn
	// error; a nonzero exit is visible on res.
	OnStep func(step string, res *Result, err error)
}

// Run executes steps in order. It returns the results of every step that ran,
// including the failing one.
func (s *Sequence) Run(ctx context.Context, steps []Step) ([]StepResult, error) {
	results := make([]StepResult, 0, len(steps))

	for i, step := range steps {
		name := fmt.Sprintf("%s (%d/%d)", step.Name, i+1, len(steps))
		s.Log.Info(fmt.Sprintf("[%s] starting", name), "command", step.Command.String())

		res, err := s.Runner.Run(ctx, step.Command)
		if s.OnStep != nil {
			s.OnStep(step.Name, res, err)
		}
		if res != nil {
			results = append(results, StepResult{Step: step.Name, Result: res})
		}
		if err != nil {
			s.Log.Error(err, fmt.Sprintf("[%s] failed", name))
			return results, fmt.Errorf("step %s: %w", step.Name, err)
		}
		if res.ExitCode != 0 {
			cmdErr := &CommandError{
				Step:     step.Name,
				Command:  step.Command.String(),
				Stdout:   res.Stdout,
				Stderr:   res.Stderr,
				ExitCode: res.ExitCode,
			}
			s.Log.Error(cmdErr, fmt.Sprintf("[%s] failed", name))
			return results, cmdErr
		}

		s.Log.Info(fmt.Sprintf("[%s] completed in %v", name, res.Duration.Round(time.Millisecond)))
	}

	return results, nil
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
