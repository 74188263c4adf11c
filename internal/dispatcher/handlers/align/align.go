package align

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dshills/tabalign/internal/align"
	"github.com/dshills/tabalign/internal/dispatcher/execctx"
	"github.com/dshills/tabalign/internal/dispatcher/handler"
	"github.com/dshills/tabalign/internal/input"
)

// Action names for alignment.
const (
	ActionAlignLast    = "align.last"    // align, collapsing delimiter runs
	ActionAlignFirst   = "align.first"   // align on every occurrence
	ActionAlignCursors = "align.cursors" // align multiple cursors only
)

// Argument keys read from input.ActionArgs.Extra.
const (
	ArgTabSize = "tabSize"
)

// Result data keys.
const (
	DataMode      = "mode"
	DataDelimiter = "delimiter"
	DataLines     = "lines"
	DataPasses    = "passes"
)

// AlignHandler handles the align namespace.
type AlignHandler struct {
	tabSize int
	budget  align.Budget
}

// NewAlignHandler creates an align handler that uses the engine's tab width
// and the default budget.
func NewAlignHandler() *AlignHandler {
	return &AlignHandler{budget: align.DefaultBudget()}
}

// NewAlignHandlerWithConfig creates an align handler with custom settings.
func NewAlignHandlerWithConfig(tabSize int, budget align.Budget) *AlignHandler {
	return &AlignHandler{
		tabSize: tabSize,
		budget:  budget,
	}
}

// Namespace returns the align namespace.
func (h *AlignHandler) Namespace() string {
	return "align"
}

// CanHandle returns true if this handler can process the action.
func (h *AlignHandler) CanHandle(actionName string) bool {
	switch actionName {
	case ActionAlignLast, ActionAlignFirst, ActionAlignCursors:
		return true
	}
	return false
}

// HandleAction processes an align action.
func (h *AlignHandler) HandleAction(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.ValidateForEdit(); err != nil {
		return handler.Error(err)
	}

	tabSize := h.tabSize
	if n := action.Args.GetInt(ArgTabSize); n > 0 {
		tabSize = n
	}

	host := NewEngineHost(ctx.Engine, ctx.Cursors, tabSize)
	aligner := align.New(host,
		align.WithBudget(h.budget),
		align.WithLogger(ctx.Logger.With(zap.String("action", action.Name))))

	var (
		res align.Result
		err error
	)
	switch action.Name {
	case ActionAlignLast:
		res, err = aligner.Run(false)
	case ActionAlignFirst:
		res, err = aligner.Run(true)
	case ActionAlignCursors:
		res, err = aligner.AlignByCursors()
	default:
		return handler.Errorf("unknown align action: %s", action.Name)
	}

	return toResult(res, err, host)
}

// toResult converts an alignment outcome into a handler result.
func toResult(res align.Result, err error, host *EngineHost) handler.Result {
	if err != nil {
		// Edits from completed passes stay applied after a timeout.
		return handler.Error(err).
			WithMessage(host.LastStatus()).
			WithEdits(res.Edits)
	}

	var r handler.Result
	if !res.Changed() {
		r = handler.NoOpWithMessage("already aligned")
	} else {
		r = handler.SuccessWithMessage(describe(res)).WithEdits(res.Edits)
	}

	r = r.WithData(DataMode, res.Mode.String()).
		WithData(DataLines, res.Lines).
		WithData(DataPasses, res.Passes)
	if res.Delimiter != "" {
		r = r.WithData(DataDelimiter, res.Delimiter)
	}
	return r
}

func describe(res align.Result) string {
	if res.Mode == align.ModeCursors {
		return fmt.Sprintf("aligned %d cursor column(s) on %d line(s)", res.Passes, res.Lines)
	}
	return fmt.Sprintf("aligned %d line(s) on %q", res.Lines, res.Delimiter)
}
