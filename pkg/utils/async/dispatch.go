package async

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/m-mizutani/ctxlog"
)

// Dispatch runs a background task detached from the caller's cancellation.
// The logger of ctx is carried over; panics are recovered and logged.
func Dispatch(ctx context.Context, name string, task func(ctx context.Context) error) {
	newCtx := newBackgroundContext(ctx, name)

	go func() {
		started := time.Now()
		logger := ctxlog.From(newCtx)

		defer func() {
			if r := recover(); r != nil {
				logger.Error("Panic in background task",
					"recover", r,
					"stack", string(debug.Stack()),
				)
			}
		}()

		if err := task(newCtx); err != nil {
			logger.Error("Background task failed",
				"error", err,
				"elapsed", time.Since(started),
			)
			return
		}
		logger.Debug("Background task finished", "elapsed", time.Since(started))
	}()
}

// newBackgroundContext creates a context that outlives ctx but keeps its
// logger, tagged with the task name
func newBackgroundContext(ctx context.Context, name string) context.Context {
	logger := ctxlog.From(ctx).With("task", name)
	return ctxlog.With(context.Background(), logger)
}
