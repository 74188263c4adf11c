package execctx_test

import (
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/dshills/tabalign/internal/dispatcher/execctx"
	"github.com/dshills/tabalign/internal/engine/buffer"
	"github.com/dshills/tabalign/internal/engine/cursor"
)

func TestNew(t *testing.T) {
	ctx := execctx.New()

	if ctx.Data == nil {
		t.Error("expected Data to be initialized")
	}
	if ctx.Logger == nil {
		t.Error("expected a no-op Logger")
	}
}

func TestWithBuilders(t *testing.T) {
	buf := buffer.NewBufferFromString("abc")
	cs := cursor.NewCursorSetAt(1)
	logger := zap.NewExample()

	ctx := execctx.New().
		WithEngine(buf).
		WithCursors(cs).
		WithLogger(logger)

	if ctx.Engine == nil || ctx.Cursors == nil {
		t.Error("expected engine and cursors to be set")
	}
	if ctx.Logger != logger {
		t.Error("expected logger to be set")
	}

	if execctx.New().WithLogger(nil).Logger == nil {
		t.Error("nil logger should keep the default")
	}
}

func TestHasSelection(t *testing.T) {
	ctx := execctx.New()
	if ctx.HasSelection() {
		t.Error("no cursors means no selection")
	}

	ctx.WithCursors(cursor.NewCursorSet(cursor.NewSelection(0, 2)))
	if !ctx.HasSelection() {
		t.Error("expected selection")
	}
}

func TestData(t *testing.T) {
	ctx := &execctx.ExecutionContext{}

	ctx.SetData("key", "value")
	if got := ctx.GetDataString("key"); got != "value" {
		t.Errorf("GetDataString = %q, want value", got)
	}
	if got := ctx.GetDataString("missing"); got != "" {
		t.Errorf("GetDataString(missing) = %q", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		ctx  *execctx.ExecutionContext
		want error
	}{
		{"missing engine", execctx.New(), execctx.ErrMissingEngine},
		{"missing cursors", execctx.New().WithEngine(buffer.NewBuffer()), execctx.ErrMissingCursors},
		{"valid", execctx.New().WithEngine(buffer.NewBuffer()).WithCursors(cursor.NewCursorSetAt(0)), nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.ctx.ValidateForEdit(); !errors.Is(err, tc.want) {
				t.Errorf("ValidateForEdit() = %v, want %v", err, tc.want)
			}
		})
	}
}
