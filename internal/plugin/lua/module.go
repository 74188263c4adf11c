package lua

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/dshills/tabalign/internal/align"
	"github.com/dshills/tabalign/internal/dispatcher"
	"github.com/dshills/tabalign/internal/dispatcher/handler"
	alignhandler "github.com/dshills/tabalign/internal/dispatcher/handlers/align"
	"github.com/dshills/tabalign/internal/engine/buffer"
	"github.com/dshills/tabalign/internal/engine/cursor"
	"github.com/dshills/tabalign/internal/input"
)

// ModuleName is the global name scripts use.
const ModuleName = "tabalign"

// Module exposes a buffer, its cursors and the align actions to Lua as the
// tabalign table:
//
//	tabalign.align_lines(lines, delim [, first]) -> table | nil, message
//	tabalign.add_cursor(line, col)
//	tabalign.select(line1, col1, line2, col2)
//	tabalign.clear_cursors()
//	tabalign.cursors() -> { {line=, col=}, ... }
//	tabalign.align([first]) -> ok, message
//	tabalign.align_cursors() -> ok, message
//	tabalign.text() -> string
//	tabalign.status() -> string
//
// Lines and columns are 1-based; columns count characters.
type Module struct {
	buf        *buffer.Buffer
	cursors    *cursor.CursorSet
	dispatcher *dispatcher.Dispatcher
	budget     align.Budget
	logger     *zap.Logger
	status     string
}

// ModuleOption configures a Module.
type ModuleOption func(*Module)

// WithBudget sets the budget used by align_lines.
func WithBudget(b align.Budget) ModuleOption {
	return func(m *Module) {
		m.budget = b
	}
}

// WithLogger sets the module logger.
func WithLogger(l *zap.Logger) ModuleOption {
	return func(m *Module) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewModule creates a module over buf. cursors may be nil; the first
// add_cursor or select creates the set. d must have the align namespace
// registered.
func NewModule(buf *buffer.Buffer, cursors *cursor.CursorSet, d *dispatcher.Dispatcher, opts ...ModuleOption) *Module {
	m := &Module{
		buf:        buf,
		cursors:    cursors,
		dispatcher: d,
		budget:     align.DefaultBudget(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register installs the module into s.
func (m *Module) Register(s *State) {
	s.RegisterModule(ModuleName, map[string]lua.LGFunction{
		"align_lines":   m.alignLines,
		"add_cursor":    m.addCursor,
		"select":        m.selectRange,
		"clear_cursors": m.clearCursors,
		"cursors":       m.listCursors,
		"align":         m.align,
		"align_cursors": m.alignCursors,
		"text":          m.text,
		"status":        m.getStatus,
	})
}

// Cursors returns the current cursor set, or nil if none was placed.
func (m *Module) Cursors() *cursor.CursorSet {
	return m.cursors
}

// Status returns the last status message.
func (m *Module) Status() string {
	return m.status
}

func (m *Module) alignLines(L *lua.LState) int {
	texts, err := stringsFromTable(L.CheckTable(1))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	delim := L.CheckString(2)
	first := L.OptBool(3, false)

	if delim == "" {
		m.status = align.StatusMessage(&align.UserInputError{Op: "align_lines", Err: align.ErrEmptyDelimiter})
		L.Push(lua.LNil)
		L.Push(lua.LString(m.status))
		return 2
	}

	lines := make([]*align.Line, len(texts))
	for i, t := range texts {
		lines[i] = align.NewLine(0, 0, t)
	}
	if _, err := align.Columns(lines, delim, first, align.NewGuard(m.budget)); err != nil {
		m.status = align.StatusMessage(err)
		m.logger.Error("align_lines failed", zap.Error(err))
		L.Push(lua.LNil)
		L.Push(lua.LString(m.status))
		return 2
	}

	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text()
	}
	m.status = ""
	L.Push(stringsToTable(L, out))
	return 1
}

// offsetArg reads a 1-based line and column starting at argument n.
func (m *Module) offsetArg(L *lua.LState, n int) buffer.ByteOffset {
	line := L.CheckInt(n)
	col := L.CheckInt(n + 1)
	if line < 1 {
		L.ArgError(n, "line must be at least 1")
	}
	offset, ok := m.buf.CharOffset(uint32(line-1), col-1)
	if !ok {
		L.ArgError(n+1, "position is outside the buffer")
	}
	return offset
}

func (m *Module) addSelection(sel cursor.Selection) {
	if m.cursors == nil {
		m.cursors = cursor.NewCursorSet(sel)
		return
	}
	m.cursors.Add(sel)
}

func (m *Module) addCursor(L *lua.LState) int {
	m.addSelection(cursor.NewCursorSelection(m.offsetArg(L, 1)))
	return 0
}

func (m *Module) selectRange(L *lua.LState) int {
	start := m.offsetArg(L, 1)
	end := m.offsetArg(L, 3)
	m.addSelection(cursor.NewSelection(start, end))
	return 0
}

func (m *Module) clearCursors(L *lua.LState) int {
	m.cursors = nil
	return 0
}

func (m *Module) listCursors(L *lua.LState) int {
	t := L.NewTable()
	if m.cursors != nil {
		for _, sel := range m.cursors.All() {
			entry := L.NewTable()
			entry.RawSetString("line", lua.LNumber(m.buf.OffsetToPoint(sel.Head).Line+1))
			entry.RawSetString("col", lua.LNumber(m.buf.CharColumn(sel.Head)+1))
			t.Append(entry)
		}
	}
	L.Push(t)
	return 1
}

func (m *Module) align(L *lua.LState) int {
	action := alignhandler.ActionAlignLast
	if L.OptBool(1, false) {
		action = alignhandler.ActionAlignFirst
	}
	return m.dispatch(L, action)
}

func (m *Module) alignCursors(L *lua.LState) int {
	return m.dispatch(L, alignhandler.ActionAlignCursors)
}

// dispatch runs an align action and pushes ok and the status message.
func (m *Module) dispatch(L *lua.LState, action string) int {
	var result handler.Result
	if m.cursors == nil {
		err := &align.UserInputError{Op: action, Err: align.ErrNoCursors}
		result = handler.Error(err).WithMessage(align.StatusMessage(err))
	} else {
		m.dispatcher.SetEngine(m.buf)
		m.dispatcher.SetCursors(m.cursors)
		result = m.dispatcher.Dispatch(input.NewAction(action, input.SourcePlugin))
	}

	m.status = result.Message
	ok := result.Status == handler.StatusOK || result.Status == handler.StatusNoOp
	m.logger.Debug("script dispatched action",
		zap.String("action", action),
		zap.Stringer("status", result.Status),
		zap.String("message", result.Message))

	L.Push(lua.LBool(ok))
	L.Push(lua.LString(result.Message))
	return 2
}

func (m *Module) text(L *lua.LState) int {
	L.Push(lua.LString(m.buf.Text()))
	return 1
}

func (m *Module) getStatus(L *lua.LState) int {
	L.Push(lua.LString(m.status))
	return 1
}
