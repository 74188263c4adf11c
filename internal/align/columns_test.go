package align

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func linesOf(texts ...string) []*Line {
	lines := make([]*Line, len(texts))
	for i, s := range texts {
		lines[i] = NewLine(0, 0, s)
	}
	return lines
}

func TestColumns(t *testing.T) {
	tests := []struct {
		name       string
		in         []string
		delim      string
		alignFirst bool
		want       []string
	}{
		{
			name:  "simple",
			in:    []string{"a=1", "bbb=2"},
			delim: "=",
			want:  []string{"a  =1", "bbb=2"},
		},
		{
			name:  "run shares a column",
			in:    []string{"a|b||c", "a|bb|c"},
			delim: "|",
			want:  []string{"a|b||c", "a|bb|c"},
		},
		{
			name:       "first occurrence",
			in:         []string{"this|is||a|table", "it||has|some|values"},
			delim:      "|",
			alignFirst: true,
			want:       []string{"this|is|   |a   |table", "it  |  |has|some|values"},
		},
		{
			name:  "padded table",
			in:    []string{"this | is    | a | table", "it | has | some    | values"},
			delim: "|",
			want:  []string{"this | is    | a       | table", "it   | has   | some    | values"},
		},
		{
			name:  "multi-character delimiter",
			in:    []string{"x := 1", "long := 2"},
			delim: ":=",
			want:  []string{"x    := 1", "long := 2"},
		},
		{
			name:  "exhausted line is left alone",
			in:    []string{"a,b", "aaa,bbb,c"},
			delim: ",",
			want:  []string{"a  ,b", "aaa,bbb,c"},
		},
		{
			name:  "single line",
			in:    []string{"a = b = c"},
			delim: "=",
			want:  []string{"a = b = c"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Columns(linesOf(tc.in...), tc.delim, tc.alignFirst, NewGuard(DefaultBudget()))
			if err != nil {
				t.Fatalf("Columns() error = %v", err)
			}
			if diff := cmp.Diff(tc.want, strings.Split(got, "\n")); diff != "" {
				t.Errorf("Columns() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestColumnsIdempotent(t *testing.T) {
	tests := []struct {
		in         []string
		alignFirst bool
	}{
		{[]string{"this|is||a|table", "it||has|some|values"}, true},
		{[]string{"this | is    | a | table", "it | has | some    | values"}, false},
		{[]string{"a|1", "bbb|2", "cc|3"}, false},
	}

	for _, tc := range tests {
		once, err := Columns(linesOf(tc.in...), "|", tc.alignFirst, nil)
		if err != nil {
			t.Fatal(err)
		}
		twice, err := Columns(linesOf(strings.Split(once, "\n")...), "|", tc.alignFirst, nil)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Errorf("%q: second run changed text (-first +second):\n%s", tc.in, diff)
		}
	}
}

func TestColumnsTimeout(t *testing.T) {
	lines := linesOf("this|is||a|table", "it||has|some|values")

	_, err := Columns(lines, "|", true, NewGuard(Budget{MaxIterations: 1}))
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if got := StatusMessage(err); got != "Programmer error: timeout in align.Columns" {
		t.Errorf("StatusMessage() = %q", got)
	}
}
