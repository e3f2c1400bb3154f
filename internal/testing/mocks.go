package testing

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/imamik/tfslot/internal/command"
	"github.com/imamik/tfslot/internal/ui/prompt"
)

// MockConfirmer is a testify mock of prompt.Confirmer.
type MockConfirmer struct {
	mock.Mock
}

// Confirm records the request and returns the configured answer.
func (m *MockConfirmer) Confirm(ctx context.Context, req prompt.ConfirmRequest) (bool, error) {
	args := m.Called(ctx, req)
	return args.Bool(0), args.Error(1)
}

// NewMockConfirmer returns a confirmer that answers every request with ok.
func NewMockConfirmer(ok bool) *MockConfirmer {
	m := &MockConfirmer{}
	m.On("Confirm", mock.Anything, mock.Anything).Return(ok, nil)
	return m
}

// FakeRunner is a command.Runner that records invocations and delegates the
// outcome to Handle.
type FakeRunner struct {
	// Handle produces the result for a command line such as
	// "terraform apply -auto-approve". A nil result means exit 0 with no output.
	Handle func(line string, cmd command.Command) (*command.Result, error)

	mu    sync.Mutex
	calls []command.Command
}

// Run implements command.Runner.
func (f *FakeRunner) Run(_ context.Context, cmd command.Command) (*command.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	f.mu.Unlock()

	if f.Handle == nil {
		return &command.Result{}, nil
	}
	res, err := f.Handle(Line(cmd), cmd)
	if res == nil && err == nil {
		res = &command.Result{}
	}
	return res, err
}

// Calls returns the recorded command lines in order.
func (f *FakeRunner) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = Line(c)
	}
	return out
}

// Commands returns the recorded commands in order.
func (f *FakeRunner) Commands() []command.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]command.Command(nil), f.calls...)
}

// Line renders cmd with the binary's base name, e.g. "aws eks list-clusters".
func Line(cmd command.Command) string {
	return strings.Join(append([]string{filepath.Base(cmd.Name)}, cmd.Args...), " ")
}
