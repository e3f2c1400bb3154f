package command

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/go-logr/logr"
)

// maxLineSize bounds a single streamed stdout line.
const maxLineSize = 1024 * 1024

// Command is an external program invocation.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env entries (KEY=value) are appended to the inherited environment.
	Env []string
}

// String renders the command line for logs and errors.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result is the outcome of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Success reports whether the command exited with status 0.
func (r *Result) Success() bool {
	return r != nil && r.ExitCode == 0
}

// Runner executes commands.
type Runner interface {
	// Run blocks until the command exits. The error is non-nil only when the
	// command could not be started or was interrupted.
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// ExecRunner runs commands as child processes and streams their stdout into
// the logger line by line.
type ExecRunner struct {
	Log logr.Logger
}

// NewExecRunner returns a Runner backed by os/exec.
func NewExecRunner(log logr.Logger) *ExecRunner {
	return &ExecRunner{Log: log}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, c Command) (*Result, error) {
	log := r.Log.WithValues("command", c.Name)
	log.V(1).Info("running", "args", strings.Join(c.Args, " "), "dir", c.Dir)

	proc := exec.CommandContext(ctx, c.Name, c.Args...)
	proc.Dir = c.Dir
	proc.Env = append(os.Environ(), c.Env...)

	stdout, err := proc.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	stderr, err := proc.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	start := time.Now()
	if err := proc.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", c.Name, err)
	}

	var (
		outBuf, errBuf bytes.Buffer
		wg             sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		streamLines(stdout, &outBuf, func(line string) { log.Info(line) })
	}()
	go func() {
		defer wg.Done()
		_, _ = io.Copy(&errBuf, stderr)
	}()
	// Pipes must be drained before Wait closes them.
	wg.Wait()
	waitErr := proc.Wait()

	res := &Result{
		Stdout:   outBuf.String(),
		Stderr:   errBuf.String(),
		Duration: time.Since(start),
	}

	if msg := strings.TrimSpace(res.Stderr); msg != "" {
		log.Error(nil, "command wrote to stderr", "stderr", msg)
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return res, fmt.Errorf("failed to wait for %s: %w", c.Name, waitErr)
		}
		res.ExitCode = exitErr.ExitCode()
	}
	if ctxErr := ctx.Err(); ctxErr != nil && res.ExitCode != 0 {
		return res, fmt.Errorf("%s interrupted: %w", c.Name, ctxErr)
	}

	log.V(1).Info("finished", "exitCode", res.ExitCode, "duration", res.Duration.Round(time.Millisecond))
	return res, nil
}

// streamLines copies r into buf, calling emit for each complete line as it
// arrives. Lines longer than maxLineSize are captured but not emitted.
func streamLines(r io.Reader, buf *bytes.Buffer, emit func(string)) {
	scanner := bufio.NewScanner(io.TeeReader(r, buf))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		emit(scanner.Text())
	}
	if scanner.Err() != nil {
		// Keep draining so the child never blocks on a full pipe.
		_, _ = io.Copy(buf, r)
	}
}
