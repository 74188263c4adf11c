// Package execctx provides the execution context for action handlers.
package execctx

import (
	"go.uber.org/zap"

	"github.com/dshills/tabalign/internal/engine/buffer"
	"github.com/dshills/tabalign/internal/engine/cursor"
)

// EngineInterface abstracts the text buffer for handlers.
type EngineInterface interface {
	// Read operations
	Text() string
	TextRange(start, end buffer.ByteOffset) string
	LineText(line uint32) string
	Len() buffer.ByteOffset
	LineCount() uint32

	// Line operations
	LineStartOffset(line uint32) buffer.ByteOffset
	LineEndOffset(line uint32) buffer.ByteOffset

	// Position conversion
	OffsetToPoint(offset buffer.ByteOffset) buffer.Point
	PointToOffset(point buffer.Point) buffer.ByteOffset
	CharColumn(offset buffer.ByteOffset) int

	// Settings
	TabWidth() int

	// Editing
	ApplyEdits(edits []buffer.Edit) error
	RevisionID() buffer.RevisionID
}

// CursorManagerInterface abstracts cursor management for handlers.
type CursorManagerInterface interface {
	// Primary cursor
	Primary() cursor.Selection

	// Multi-cursor
	All() []cursor.Selection
	Add(sel cursor.Selection)
	Clear()
	Count() int
	IsMulti() bool

	// Selection state
	HasSelection() bool

	// Bulk operations
	SetAll(sels []cursor.Selection)
	MapInPlace(f func(sel cursor.Selection) cursor.Selection)

	// Utility
	Clamp(maxOffset cursor.ByteOffset)
}

// ExecutionContext provides context for action execution.
type ExecutionContext struct {
	// Engine provides access to the text buffer.
	Engine EngineInterface

	// Cursors provides access to cursor/selection state.
	Cursors CursorManagerInterface

	// Logger receives handler diagnostics. Never nil after New.
	Logger *zap.Logger

	// FilePath is the path of the document being edited, if any.
	FilePath string

	// Data holds handler-specific context data.
	Data map[string]interface{}
}

// New creates a new execution context.
func New() *ExecutionContext {
	return &ExecutionContext{
		Logger: zap.NewNop(),
		Data:   make(map[string]interface{}),
	}
}

// WithEngine returns the context with the engine set.
func (ctx *ExecutionContext) WithEngine(engine EngineInterface) *ExecutionContext {
	ctx.Engine = engine
	return ctx
}

// WithCursors returns the context with cursors set.
func (ctx *ExecutionContext) WithCursors(cursors CursorManagerInterface) *ExecutionContext {
	ctx.Cursors = cursors
	return ctx
}

// WithLogger returns the context with the logger set.
func (ctx *ExecutionContext) WithLogger(logger *zap.Logger) *ExecutionContext {
	if logger != nil {
		ctx.Logger = logger
	}
	return ctx
}

// HasSelection returns true if there is an active selection.
func (ctx *ExecutionContext) HasSelection() bool {
	if ctx.Cursors != nil {
		return ctx.Cursors.HasSelection()
	}
	return false
}

// SetData sets a context data value.
func (ctx *ExecutionContext) SetData(key string, value interface{}) {
	if ctx.Data == nil {
		ctx.Data = make(map[string]interface{})
	}
	ctx.Data[key] = value
}

// GetData retrieves a context data value.
func (ctx *ExecutionContext) GetData(key string) (interface{}, bool) {
	if ctx.Data == nil {
		return nil, false
	}
	v, ok := ctx.Data[key]
	return v, ok
}

// GetDataString retrieves a string value from context data.
func (ctx *ExecutionContext) GetDataString(key string) string {
	if v, ok := ctx.GetData(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Validate checks that the context has all required components.
func (ctx *ExecutionContext) Validate() error {
	if ctx.Engine == nil {
		return ErrMissingEngine
	}
	return nil
}

// ValidateForEdit checks that the context is valid for editing operations.
func (ctx *ExecutionContext) ValidateForEdit() error {
	if err := ctx.Validate(); err != nil {
		return err
	}
	if ctx.Cursors == nil {
		return ErrMissingCursors
	}
	return nil
}
