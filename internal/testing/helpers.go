package testing

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/go-logr/logr"

	"github.com/imamik/tfslot/internal/logging"
)

// TestContext returns a context with a reasonable timeout for tests.
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// TestLogger returns a debug-level logger and the buffer it writes to.
func TestLogger() (logr.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return logging.New(&buf, logging.LevelDebug), &buf
}
