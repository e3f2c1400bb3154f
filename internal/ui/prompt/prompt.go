// Package prompt asks the operator to confirm switching the workspace to a
// different cluster.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// ConfirmRequest describes the pending declaration change.
type ConfirmRequest struct {
	File    string
	Current string
	Target  string
}

func (r ConfirmRequest) question() string {
	return fmt.Sprintf("%s declares cluster %q. Switch it to %q?", r.File, r.Current, r.Target)
}

// Confirmer decides whether a declaration change may proceed.
type Confirmer interface {
	Confirm(ctx context.Context, req ConfirmRequest) (bool, error)
}

// Auto approves every request without asking.
type Auto struct{}

// Confirm implements Confirmer.
func (Auto) Confirm(context.Context, ConfirmRequest) (bool, error) {
	return true, nil
}

// Line asks on a plain text stream and accepts only "yes". One reader
// goroutine owns In for the lifetime of the Line, so a cancelled Confirm
// leaves no extra reader behind and the next Confirm picks up its answer.
type Line struct {
	In  io.Reader
	Out io.Writer

	once    sync.Once
	answers chan answer
}

type answer struct {
	text string
	err  error
}

// Confirm implements Confirmer. End of input counts as a refusal.
func (l *Line) Confirm(ctx context.Context, req ConfirmRequest) (bool, error) {
	if _, err := fmt.Fprintf(l.Out, "%s Type 'yes' to continue: ", req.question()); err != nil {
		return false, err
	}
	l.once.Do(l.startReader)

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case a, ok := <-l.answers:
		if !ok {
			return false, nil
		}
		if a.err != nil && !errors.Is(a.err, io.EOF) {
			return false, fmt.Errorf("failed to read answer: %w", a.err)
		}
		return strings.EqualFold(strings.TrimSpace(a.text), "yes"), nil
	}
}

// startReader hands each line of In to answers and closes it after the first
// read error.
func (l *Line) startReader() {
	l.answers = make(chan answer)
	go func() {
		defer close(l.answers)
		r := bufio.NewReader(l.In)
		for {
			text, err := r.ReadString('\n')
			l.answers <- answer{text: text, err: err}
			if err != nil {
				return
			}
		}
	}()
}

// Huh asks with an interactive terminal form.
type Huh struct {
	In         io.Reader
	Out        io.Writer
	Accessible bool
}

// Confirm implements Confirmer. Aborting the form counts as a refusal.
func (h *Huh) Confirm(ctx context.Context, req ConfirmRequest) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(req.question()).
				Description("The previous value is restored when the operation finishes.").
				Affirmative("Switch").
				Negative("Abort").
				Value(&ok),
		),
	).
		WithInput(h.In).
		WithOutput(h.Out).
		WithAccessible(h.Accessible).
		RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return ok, nil
}

// New selects a Confirmer: Auto when autoConfirm is set, a terminal form when
// in and out are both terminals, and a line prompt otherwise.
func New(autoConfirm bool, in *os.File, out *os.File) Confirmer {
	if autoConfirm {
		return Auto{}
	}
	if isTerminal(in) && isTerminal(out) {
		return &Huh{In: in, Out: out, Accessible: os.Getenv("ACCESSIBLE") != ""}
	}
	return &Line{In: in, Out: out}
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
