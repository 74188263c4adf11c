package align

import "time"

// DefaultInterval is how long a single command may run before the guard trips.
const DefaultInterval = 10 * time.Second

// Budget bounds the loops of one alignment command.
type Budget struct {
	// Interval is the wall-clock allowance. Zero or negative disables it.
	Interval time.Duration

	// MaxIterations caps the number of guard checks. Zero disables it.
	MaxIterations int

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// DefaultBudget returns the budget used when none is configured.
func DefaultBudget() Budget {
	return Budget{Interval: DefaultInterval}
}

// Guard breaks loops that run past their budget. Every unbounded loop in
// this package checks it once per iteration. A Guard lives for one command.
type Guard struct {
	start         time.Time
	interval      time.Duration
	maxIterations int
	iterations    int
	now           func() time.Time
}

// NewGuard starts a guard for b.
func NewGuard(b Budget) *Guard {
	now := b.Now
	if now == nil {
		now = time.Now
	}
	return &Guard{
		start:         now(),
		interval:      b.Interval,
		maxIterations: b.MaxIterations,
		now:           now,
	}
}

// HasTicked reports whether the budget is spent. Each call counts as one
// iteration. A nil Guard never ticks.
func (g *Guard) HasTicked() bool {
	if g == nil {
		return false
	}
	g.iterations++
	if g.maxIterations > 0 && g.iterations > g.maxIterations {
		return true
	}
	if g.interval <= 0 {
		return false
	}
	return g.now().Sub(g.start) >= g.interval
}

// Iterations returns the number of checks made so far.
func (g *Guard) Iterations() int {
	if g == nil {
		return 0
	}
	return g.iterations
}
