package apperr

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/safetylens/safetytracker/pkg/domain/model"
)

// Handle logs an error the dashboard recovered from. Validation and render
// errors are expected with user input and are logged as warnings, without
// a stack trace.
func Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}
	logger := ctxlog.From(ctx)
	switch {
	case goerr.HasTag(err, model.ErrTagValidation):
		logger.Warn("invalid selection", brief(err)...)
	case goerr.HasTag(err, model.ErrTagRender):
		logger.Warn("chart fell back to placeholder", brief(err)...)
	default:
		logger.Error("application error", "error", err)
	}
}

func brief(err error) []any {
	args := []any{"error", err.Error()}
	if values := goerr.Values(err); len(values) > 0 {
		args = append(args, "values", values)
	}
	return args
}
