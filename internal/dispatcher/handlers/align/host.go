package align

import (
	"github.com/dshills/tabalign/internal/align"
	"github.com/dshills/tabalign/internal/dispatcher/execctx"
	"github.com/dshills/tabalign/internal/engine/buffer"
	"github.com/dshills/tabalign/internal/engine/cursor"
)

// EngineHost adapts an engine and a cursor manager to align.Host.
// Cursors follow every applied batch of edits.
type EngineHost struct {
	engine  execctx.EngineInterface
	cursors execctx.CursorManagerInterface
	tabSize int
	status  []string
}

// NewEngineHost creates a host over engine and cursors. A tabSize of zero
// or less uses the engine's tab width.
func NewEngineHost(engine execctx.EngineInterface, cursors execctx.CursorManagerInterface, tabSize int) *EngineHost {
	return &EngineHost{
		engine:  engine,
		cursors: cursors,
		tabSize: tabSize,
	}
}

// Line implements align.Host.
func (h *EngineHost) Line(offset buffer.ByteOffset) (align.LineSpan, bool) {
	if offset < 0 || offset >= h.engine.Len() {
		return align.LineSpan{}, false
	}
	line := h.engine.OffsetToPoint(offset).Line
	return align.LineSpan{
		Start: h.engine.LineStartOffset(line),
		End:   h.engine.LineEndOffset(line),
		Text:  h.engine.LineText(line),
	}, true
}

// Selections implements align.Host.
func (h *EngineHost) Selections() []buffer.Range {
	sels := h.cursors.All()
	ranges := make([]buffer.Range, len(sels))
	for i, sel := range sels {
		ranges[i] = sel.Range()
	}
	return ranges
}

// TabSize implements align.Host.
func (h *EngineHost) TabSize() int {
	if h.tabSize > 0 {
		return h.tabSize
	}
	return h.engine.TabWidth()
}

// RowColumn implements align.Host.
func (h *EngineHost) RowColumn(offset buffer.ByteOffset) (int, int) {
	return int(h.engine.OffsetToPoint(offset).Line), h.engine.CharColumn(offset)
}

// Status implements align.Host.
func (h *EngineHost) Status(msg string) {
	h.status = append(h.status, msg)
}

// ApplyEdits implements align.Host.
func (h *EngineHost) ApplyEdits(edits []buffer.Edit) error {
	if err := h.engine.ApplyEdits(edits); err != nil {
		return err
	}
	h.cursors.MapInPlace(func(sel cursor.Selection) cursor.Selection {
		return cursor.TransformBatch(sel, edits)
	})
	return nil
}

// LastStatus returns the most recent status message, or "".
func (h *EngineHost) LastStatus() string {
	if len(h.status) == 0 {
		return ""
	}
	return h.status[len(h.status)-1]
}

// StatusMessages returns every status message reported so far.
func (h *EngineHost) StatusMessages() []string {
	out := make([]string, len(h.status))
	copy(out, h.status)
	return out
}
