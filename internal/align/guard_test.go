package align

import (
	"errors"
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestGuardInterval(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	g := NewGuard(Budget{Interval: 10 * time.Second, Now: clock.Now})

	if g.HasTicked() {
		t.Fatal("guard ticked immediately")
	}
	clock.Advance(9 * time.Second)
	if g.HasTicked() {
		t.Fatal("guard ticked before the interval elapsed")
	}
	clock.Advance(time.Second)
	if !g.HasTicked() {
		t.Fatal("guard did not tick once the interval elapsed")
	}
	if g.Iterations() != 3 {
		t.Errorf("Iterations = %d, want 3", g.Iterations())
	}
}

func TestGuardMaxIterations(t *testing.T) {
	g := NewGuard(Budget{MaxIterations: 2})

	for i := 0; i < 2; i++ {
		if g.HasTicked() {
			t.Fatalf("guard ticked on check %d", i+1)
		}
	}
	if !g.HasTicked() {
		t.Error("guard should tick once the cap is exceeded")
	}
}

func TestGuardDisabled(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	g := NewGuard(Budget{Now: clock.Now})

	clock.Advance(time.Hour)
	for i := 0; i < 1000; i++ {
		if g.HasTicked() {
			t.Fatalf("unbounded guard ticked on check %d", i+1)
		}
	}

	var nilGuard *Guard
	if nilGuard.HasTicked() || nilGuard.Iterations() != 0 {
		t.Error("nil guard should never tick")
	}
}

func TestDefaultBudget(t *testing.T) {
	b := DefaultBudget()
	if b.Interval != DefaultInterval {
		t.Errorf("Interval = %v, want %v", b.Interval, DefaultInterval)
	}
	if b.MaxIterations != 0 {
		t.Errorf("MaxIterations = %d, want 0", b.MaxIterations)
	}
}

func TestStatusMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"input", inputError("align selection", ErrSelectionSpansLines), "Error: selection can't span more than one line"},
		{"timeout", timeoutError("align.Columns"), "Programmer error: timeout in align.Columns"},
		{"other", errors.New("disk full"), "Error: disk full"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := StatusMessage(tc.err); got != tc.want {
				t.Errorf("StatusMessage() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestErrorClassification(t *testing.T) {
	err := inputError("align cursors", ErrMixedSelections)
	if !errors.Is(err, ErrMixedSelections) {
		t.Error("input error should unwrap to its sentinel")
	}
	if !IsUserInputError(err) {
		t.Error("IsUserInputError should be true")
	}

	terr := timeoutError("align.AlignByCursors")
	if !errors.Is(terr, ErrTimeout) {
		t.Error("timeout error should unwrap to ErrTimeout")
	}
	if IsUserInputError(terr) {
		t.Error("timeout is not an input error")
	}
	var ie *InvariantError
	if !errors.As(terr, &ie) || ie.Where != "align.AlignByCursors" {
		t.Errorf("unexpected invariant error %v", terr)
	}
}
