package async

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// DefaultLimit bounds concurrent tasks when Run is given a limit below one.
const DefaultLimit = 4

// Task is a named unit of work.
type Task struct {
	Name string
	Func func(context.Context) error
}

// Run executes tasks with at most limit in flight. The first failure cancels
// the context handed to the remaining tasks and is returned prefixed with the
// task's name.
func Run(ctx context.Context, limit int, tasks []Task) error {
	switch len(tasks) {
	case 0:
		return nil
	case 1:
		return named(ctx, tasks[0])
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, task := range tasks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return named(gctx, task)
		})
	}
	return g.Wait()
}

func named(ctx context.Context, task Task) error {
	if err := task.Func(ctx); err != nil {
		return fmt.Errorf("%s: %w", task.Name, err)
	}
	return nil
}
