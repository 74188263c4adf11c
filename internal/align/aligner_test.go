package align

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/tabalign/internal/engine/buffer"
)

// testHost is a Host over an in-memory buffer.
type testHost struct {
	buf     *buffer.Buffer
	sels    []buffer.Range
	tabSize int
	status  []string
	applied [][]buffer.Edit
}

func newTestHost(text string, sels ...buffer.Range) *testHost {
	return &testHost{
		buf:     buffer.NewBufferFromString(text),
		sels:    sels,
		tabSize: 4,
	}
}

func cursorAt(offset buffer.ByteOffset) buffer.Range {
	return buffer.NewRange(offset, offset)
}

func (h *testHost) Line(offset buffer.ByteOffset) (LineSpan, bool) {
	if offset < 0 || offset >= h.buf.Len() {
		return LineSpan{}, false
	}
	line := h.buf.OffsetToPoint(offset).Line
	return LineSpan{
		Start: h.buf.LineStartOffset(line),
		End:   h.buf.LineEndOffset(line),
		Text:  h.buf.LineText(line),
	}, true
}

func (h *testHost) Selections() []buffer.Range { return h.sels }

func (h *testHost) TabSize() int { return h.tabSize }

func (h *testHost) RowColumn(offset buffer.ByteOffset) (int, int) {
	return int(h.buf.OffsetToPoint(offset).Line), h.buf.CharColumn(offset)
}

func (h *testHost) Status(msg string) { h.status = append(h.status, msg) }

func (h *testHost) ApplyEdits(edits []buffer.Edit) error {
	h.applied = append(h.applied, edits)
	return h.buf.ApplyEdits(edits)
}

func TestAlignBySelectionCursor(t *testing.T) {
	h := newTestHost("a=1\nbbb=2\nno delim\ncc=3")

	res, err := New(h).AlignBySelection(cursorAt(1), false)
	if err != nil {
		t.Fatalf("AlignBySelection() error = %v", err)
	}

	if diff := cmp.Diff("a  =1\nbbb=2\nno delim\ncc=3", h.buf.Text()); diff != "" {
		t.Errorf("text mismatch (-want +got):\n%s", diff)
	}
	if res.Delimiter != "=" || res.Lines != 2 || res.Passes != 1 {
		t.Errorf("unexpected result %+v", res)
	}
	want := []buffer.Edit{buffer.NewEdit(buffer.NewRange(0, 9), "a  =1\nbbb=2")}
	if diff := cmp.Diff(want, res.Edits); diff != "" {
		t.Errorf("edits mismatch (-want +got):\n%s", diff)
	}
	if len(h.status) != 0 {
		t.Errorf("unexpected status %v", h.status)
	}
}

func TestAlignBySelectionStartsAtCursorLine(t *testing.T) {
	h := newTestHost("x=1\ny\nab=1\nc=22")

	if _, err := New(h).AlignBySelection(cursorAt(8), true); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff("x=1\ny\nab=1\nc =22", h.buf.Text()); diff != "" {
		t.Errorf("text mismatch (-want +got):\n%s", diff)
	}
}

func TestAlignBySelectionSelectedDelimiter(t *testing.T) {
	h := newTestHost("x := 1\nlong := 2")

	res, err := New(h).AlignBySelection(buffer.NewRange(2, 4), false)
	if err != nil {
		t.Fatal(err)
	}
	if res.Delimiter != ":=" {
		t.Errorf("Delimiter = %q, want %q", res.Delimiter, ":=")
	}
	if diff := cmp.Diff("x    := 1\nlong := 2", h.buf.Text()); diff != "" {
		t.Errorf("text mismatch (-want +got):\n%s", diff)
	}
}

func TestAlignBySelectionTable(t *testing.T) {
	tests := []struct {
		name       string
		in         []string
		alignFirst bool
		want       []string
	}{
		{
			name:       "first occurrence",
			in:         []string{"this|is||a|table", "it||has|some|values"},
			alignFirst: true,
			want:       []string{"this|is|   |a   |table", "it  |  |has|some|values"},
		},
		{
			name: "runs collapsed",
			in:   []string{"this | is    | a | table", "it | has | some    | values"},
			want: []string{"this | is    | a       | table", "it   | has   | some    | values"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestHost(strings.Join(tc.in, "\n"))
			pipe := buffer.ByteOffset(strings.Index(tc.in[0], "|"))

			if _, err := New(h).AlignBySelection(cursorAt(pipe), tc.alignFirst); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.want, strings.Split(h.buf.Text(), "\n")); diff != "" {
				t.Errorf("text mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAlignBySelectionIdempotent(t *testing.T) {
	text := "this | is    | a       | table\nit   | has   | some    | values"
	h := newTestHost(text)
	rev := h.buf.RevisionID()

	res, err := New(h).AlignBySelection(cursorAt(5), false)
	if err != nil {
		t.Fatal(err)
	}
	if res.Changed() || len(h.applied) != 0 {
		t.Errorf("aligned text should not be edited, got %v", res.Edits)
	}
	if h.buf.RevisionID() != rev {
		t.Error("buffer revision changed")
	}
}

func TestAlignBySelectionErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		sel  buffer.Range
		want error
	}{
		{"spans lines", "a=1\nb=2", buffer.NewRange(1, 5), ErrSelectionSpansLines},
		{"end of buffer", "a=1", cursorAt(3), ErrEmptyDelimiter},
		{"end of line", "a=1\nb=2", cursorAt(3), ErrEmptyDelimiter},
		{"empty buffer", "", cursorAt(0), ErrEmptyDelimiter},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestHost(tc.text)

			_, err := New(h).AlignBySelection(tc.sel, false)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !IsUserInputError(err) {
				t.Errorf("expected a user input error, got %T", err)
			}
			if len(h.applied) != 0 || h.buf.Text() != tc.text {
				t.Error("buffer must not change on input errors")
			}
			want := []string{"Error: " + tc.want.Error()}
			if diff := cmp.Diff(want, h.status); diff != "" {
				t.Errorf("status mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAlignBySelectionTimeout(t *testing.T) {
	h := newTestHost("a=1\nbb=2")

	a := New(h, WithBudget(Budget{MaxIterations: 1}))
	_, err := a.AlignBySelection(cursorAt(1), false)

	var ie *InvariantError
	if !errors.As(err, &ie) {
		t.Fatalf("expected InvariantError, got %v", err)
	}
	if ie.Where != "align.AlignBySelection" {
		t.Errorf("Where = %q", ie.Where)
	}
	if len(h.status) != 1 || !strings.HasPrefix(h.status[0], "Programmer error:") {
		t.Errorf("unexpected status %v", h.status)
	}
	if len(h.applied) != 0 {
		t.Error("no edits expected")
	}
}

func TestAlignByCursors(t *testing.T) {
	// Cursors at columns 2, 5 and 1 of three lines.
	h := newTestHost("aaxx\naaaaax\naxxx", cursorAt(2), cursorAt(10), cursorAt(13))

	res, err := New(h).AlignByCursors()
	if err != nil {
		t.Fatalf("AlignByCursors() error = %v", err)
	}

	if diff := cmp.Diff("aa   xx\naaaaax\na    xxx", h.buf.Text()); diff != "" {
		t.Errorf("text mismatch (-want +got):\n%s", diff)
	}
	wantIns := []Insertion{
		{Pass: 0, Offset: 13, Length: 4},
		{Pass: 0, Offset: 2, Length: 3},
	}
	if diff := cmp.Diff(wantIns, res.Insertions); diff != "" {
		t.Errorf("insertions mismatch (-want +got):\n%s", diff)
	}
	if res.Passes != 1 || res.Lines != 3 {
		t.Errorf("unexpected result %+v", res)
	}
	if len(h.applied) != 1 {
		t.Errorf("expected one batch, got %d", len(h.applied))
	}
}

func TestAlignByCursorsSecondCursorWaits(t *testing.T) {
	// Two cursors on the first line, one on the second.
	h := newTestHost("a b c\naaa b", cursorAt(1), cursorAt(3), cursorAt(9))

	res, err := New(h).AlignByCursors()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff("a   b c\naaa b", h.buf.Text()); diff != "" {
		t.Errorf("text mismatch (-want +got):\n%s", diff)
	}
	if res.Passes != 2 {
		t.Errorf("Passes = %d, want 2", res.Passes)
	}
	// The lone second-pass cursor needs no padding.
	if len(h.applied) != 1 {
		t.Errorf("expected one applied batch, got %d", len(h.applied))
	}
}

func TestAlignByCursorsMultiplePasses(t *testing.T) {
	h := newTestHost("a,bbb,c\naaa,b,c", cursorAt(1), cursorAt(5), cursorAt(11), cursorAt(13))

	res, err := New(h).AlignByCursors()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff("a  ,bbb,c\naaa,b  ,c", h.buf.Text()); diff != "" {
		t.Errorf("text mismatch (-want +got):\n%s", diff)
	}
	wantIns := []Insertion{
		{Pass: 0, Offset: 1, Length: 2},
		{Pass: 1, Offset: 15, Length: 2},
	}
	if diff := cmp.Diff(wantIns, res.Insertions); diff != "" {
		t.Errorf("insertions mismatch (-want +got):\n%s", diff)
	}
}

func TestAlignByCursorsTabs(t *testing.T) {
	// The tab puts the first cursor at visual column 4.
	h := newTestHost("\tx\nabx", cursorAt(1), cursorAt(5))

	if _, err := New(h).AlignByCursors(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff("\tx\nab  x", h.buf.Text()); diff != "" {
		t.Errorf("text mismatch (-want +got):\n%s", diff)
	}
}

func TestAlignByCursorsMixedSelections(t *testing.T) {
	h := newTestHost("a=1\nbb=2", cursorAt(1), buffer.NewRange(5, 6))

	_, err := New(h).AlignByCursors()
	if !errors.Is(err, ErrMixedSelections) {
		t.Fatalf("expected ErrMixedSelections, got %v", err)
	}
	if len(h.applied) != 0 {
		t.Error("no edits expected")
	}
	if len(h.status) != 1 {
		t.Errorf("expected one status message, got %v", h.status)
	}
}

func TestAlignByCursorsTimeout(t *testing.T) {
	h := newTestHost("a b\naaa b", cursorAt(1), cursorAt(7))

	_, err := New(h, WithBudget(Budget{MaxIterations: 2})).AlignByCursors()
	var ie *InvariantError
	if !errors.As(err, &ie) || ie.Where != "align.describeCursors" {
		t.Fatalf("expected timeout in align.describeCursors, got %v", err)
	}
}

func TestRunDispatch(t *testing.T) {
	t.Run("single cursor", func(t *testing.T) {
		h := newTestHost("a=1\nbb=2", cursorAt(1))
		res, err := New(h).Run(false)
		if err != nil {
			t.Fatal(err)
		}
		if res.Mode != ModeSelection {
			t.Errorf("Mode = %v, want selection", res.Mode)
		}
	})

	t.Run("several cursors", func(t *testing.T) {
		h := newTestHost("a=1\nbb=2", cursorAt(1), cursorAt(6))
		res, err := New(h).Run(false)
		if err != nil {
			t.Fatal(err)
		}
		if res.Mode != ModeCursors {
			t.Errorf("Mode = %v, want cursors", res.Mode)
		}
		if h.buf.Text() != "a =1\nbb=2" {
			t.Errorf("unexpected text %q", h.buf.Text())
		}
	})

	t.Run("no cursors", func(t *testing.T) {
		h := newTestHost("a=1")
		if _, err := New(h).Run(false); !errors.Is(err, ErrNoCursors) {
			t.Errorf("expected ErrNoCursors, got %v", err)
		}
	})
}

func TestVisualColumn(t *testing.T) {
	tests := []struct {
		line    string
		col     int
		tabSize int
		want    int
	}{
		{"\t\tabc", 3, 4, 9},
		{"abc", 2, 4, 2},
		{"\tx", 1, 8, 8},
		{"a\tb", 1, 4, 1},
		{"\t", 1, 0, 1},
	}
	for _, tc := range tests {
		if got := VisualColumn(tc.line, tc.col, tc.tabSize); got != tc.want {
			t.Errorf("VisualColumn(%q, %d, %d) = %d, want %d", tc.line, tc.col, tc.tabSize, got, tc.want)
		}
	}
}

func TestGroupCursors(t *testing.T) {
	infos := []CursorInfo{
		{Region: cursorAt(9), LineStart: 6},
		{Region: cursorAt(3), LineStart: 0},
		{Region: cursorAt(1), LineStart: 0},
		{Region: cursorAt(12), LineStart: 12},
	}

	active, waiting := GroupCursors(infos)

	var gotActive, gotWaiting []buffer.ByteOffset
	for _, c := range active {
		gotActive = append(gotActive, c.Offset())
	}
	for _, c := range waiting {
		gotWaiting = append(gotWaiting, c.Offset())
	}
	if diff := cmp.Diff([]buffer.ByteOffset{12, 9, 1}, gotActive); diff != "" {
		t.Errorf("active mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]buffer.ByteOffset{3}, gotWaiting); diff != "" {
		t.Errorf("waiting mismatch (-want +got):\n%s", diff)
	}
}
