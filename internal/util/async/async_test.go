package async

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Success(t *testing.T) {
	var count atomic.Int32
	tasks := make([]Task, 5)
	for i := range tasks {
		tasks[i] = Task{Name: "task", Func: func(context.Context) error {
			count.Add(1)
			return nil
		}}
	}

	require.NoError(t, Run(context.Background(), 2, tasks))
	assert.Equal(t, int32(5), count.Load())
}

func TestRun_Empty(t *testing.T) {
	assert.NoError(t, Run(context.Background(), 2, nil))
}

func TestRun_SingleTaskError(t *testing.T) {
	err := Run(context.Background(), 2, []Task{{Name: "upload terraform.tfstate", Func: func(context.Context) error {
		return errors.New("access denied")
	}}})

	require.Error(t, err)
	assert.Equal(t, "upload terraform.tfstate: access denied", err.Error())
}

func TestRun_ErrorCancelsOthers(t *testing.T) {
	boom := errors.New("boom")
	var cancelled atomic.Bool

	tasks := []Task{
		{Name: "failing", Func: func(context.Context) error { return boom }},
		{Name: "slow", Func: func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				cancelled.Store(true)
				return ctx.Err()
			case <-time.After(5 * time.Second):
				return nil
			}
		}},
	}

	err := Run(context.Background(), 2, tasks)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failing")
	assert.True(t, cancelled.Load())
}

func TestRun_RespectsLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	tasks := make([]Task, 8)
	for i := range tasks {
		tasks[i] = Task{Name: "task", Func: func(context.Context) error {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			inFlight.Add(-1)
			return nil
		}}
	}

	require.NoError(t, Run(context.Background(), 3, tasks))
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestRun_DefaultLimit(t *testing.T) {
	var count atomic.Int32
	tasks := []Task{
		{Name: "a", Func: func(context.Context) error { count.Add(1); return nil }},
		{Name: "b", Func: func(context.Context) error { count.Add(1); return nil }},
	}

	require.NoError(t, Run(context.Background(), 0, tasks))
	assert.Equal(t, int32(2), count.Load())
}
