package prompt

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var req = ConfirmRequest{File: "main.tf", Current: "alpha", Target: "beta"}

func TestAuto(t *testing.T) {
	ok, err := Auto{}.Confirm(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "yes", input: "yes\n", want: true},
		{name: "yes uppercase with spaces", input: "  YES \n", want: true},
		{name: "y is not enough", input: "y\n", want: false},
		{name: "no", input: "no\n", want: false},
		{name: "empty line", input: "\n", want: false},
		{name: "eof", input: "", want: false},
		{name: "yes without newline", input: "yes", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			l := &Line{In: strings.NewReader(tt.input), Out: &out}

			ok, err := l.Confirm(context.Background(), req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.Equal(t, `main.tf declares cluster "alpha". Switch it to "beta"? Type 'yes' to continue: `, out.String())
		})
	}
}

func TestLine_Cancelled(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok, err := (&Line{In: r, Out: io.Discard}).Confirm(ctx, req)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ok)
}

func TestLine_AnswerAfterCancelReachesNextConfirm(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	l := &Line{In: r, Out: io.Discard}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := l.Confirm(ctx, req)
	require.ErrorIs(t, err, context.Canceled)

	go func() { _, _ = io.WriteString(w, "yes\n") }()
	ok, err := l.Confirm(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLine_ClosedInputKeepsDeclining(t *testing.T) {
	l := &Line{In: strings.NewReader(""), Out: io.Discard}

	for range 2 {
		ok, err := l.Confirm(context.Background(), req)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestNew(t *testing.T) {
	assert.IsType(t, Auto{}, New(true, os.Stdin, os.Stdout))

	f, err := os.CreateTemp(t.TempDir(), "stdin")
	require.NoError(t, err)
	defer f.Close()
	assert.IsType(t, &Line{}, New(false, f, f))
	assert.IsType(t, &Line{}, New(false, nil, nil))
}
