package dispatcher

import (
	"go.uber.org/zap"

	"github.com/dshills/tabalign/internal/dispatcher/execctx"
	"github.com/dshills/tabalign/internal/dispatcher/handler"
	"github.com/dshills/tabalign/internal/input"
)

// PreDispatchHook is called before an action is dispatched.
// Returning false cancels the dispatch.
type PreDispatchHook interface {
	PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool
}

// PostDispatchHook is called after an action is dispatched.
// It may inspect or modify the result.
type PostDispatchHook interface {
	PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result)
}

// PreDispatchFunc is a function adapter for PreDispatchHook.
type PreDispatchFunc func(action *input.Action, ctx *execctx.ExecutionContext) bool

// PreDispatch implements PreDispatchHook.
func (f PreDispatchFunc) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	return f(action, ctx)
}

// PostDispatchFunc is a function adapter for PostDispatchHook.
type PostDispatchFunc func(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result)

// PostDispatch implements PostDispatchHook.
func (f PostDispatchFunc) PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	f(action, ctx, result)
}

// LoggingHook logs every dispatch at debug level and failures at warn.
type LoggingHook struct {
	logger *zap.Logger
}

// NewLoggingHook creates a new logging hook.
func NewLoggingHook(logger *zap.Logger) *LoggingHook {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingHook{logger: logger}
}

// PreDispatch logs the action being dispatched.
func (h *LoggingHook) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	h.logger.Debug("dispatching action",
		zap.String("action", action.Name),
		zap.Stringer("source", action.Source),
		zap.String("file", ctx.FilePath))
	return true
}

// PostDispatch logs the dispatch result.
func (h *LoggingHook) PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	fields := []zap.Field{
		zap.String("action", action.Name),
		zap.Stringer("status", result.Status),
		zap.Int("edits", len(result.Edits)),
	}
	if result.IsError() {
		h.logger.Warn("dispatch failed", append(fields, zap.Error(result.Error))...)
		return
	}
	h.logger.Debug("dispatch complete", fields...)
}
