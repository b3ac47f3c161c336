// Package coverage implements the coverage counter: an external propagator (component C3 of
// SPEC_FULL.md) that counts, per SAT query, how many observed variables became assigned purely as
// a consequence of the current assumption prefix. The engine in package qsm uses that count as a
// decision heuristic (see spec.md §4.5). Grounded directly on original_source/coverage_counter.{h,cpp}.
package coverage

import "github.com/lfalkau/qsmin/internal/satif"

// Counter is the coverage counter. Construct one with [New] and attach it to a solver with
// [satif.Solver.ConnectExternalPropagator]; then bracket each tentative query with
// [Counter.StartCount] / [Counter.StopCount].
type Counter struct {
	// InCount is true between StartCount and StopCount: while true, fixed observed-variable
	// assignments are tallied into AssumptionCoverage, and non-fixed ones are tallied only until
	// the solver's first CBDecide of the query.
	InCount bool

	// AssumptionCoverage is the running count of observed variables assigned since the most
	// recent StartCount, including those already fixed at root level.
	AssumptionCoverage int

	onAssumptionLevel bool
	rootCoverage      int
}

var _ satif.ExternalPropagator = (*Counter)(nil)

// New constructs a Counter and attaches it to solver, registering every variable 1..maxCareLit as
// observed. maxCareLit is the largest literal magnitude appearing in any PI class's care-literal
// set.
func New(solver satif.Solver, maxCareLit int) *Counter {
	c := &Counter{onAssumptionLevel: true}
	solver.ConnectExternalPropagator(c)
	for v := 1; v <= maxCareLit; v++ {
		solver.AddObservedVar(v)
	}
	return c
}

// StartCount begins a tentative coverage count for the query about to be issued.
func (c *Counter) StartCount() {
	c.InCount = true
	c.onAssumptionLevel = true
	c.AssumptionCoverage = c.rootCoverage
}

// StopCount ends the tentative coverage count started by the most recent [Counter.StartCount].
func (c *Counter) StopCount() {
	c.InCount = false
}

// NotifyAssignment implements [satif.ExternalPropagator].
func (c *Counter) NotifyAssignment(lit int, isFixed bool) {
	if isFixed {
		c.rootCoverage++
		if c.InCount {
			c.AssumptionCoverage++
		}
		return
	}
	if c.InCount && c.onAssumptionLevel {
		c.AssumptionCoverage++
	}
}

// NotifyNewDecisionLevel implements [satif.ExternalPropagator]; the counter does not need to react.
func (c *Counter) NotifyNewDecisionLevel() {}

// NotifyBacktrack implements [satif.ExternalPropagator]; the counter does not need to react.
func (c *Counter) NotifyBacktrack(level int) {}

// CBDecide implements [satif.ExternalPropagator]. Being asked to decide is the signal that
// unit-propagation from the assumption prefix has reached a fixpoint: everything from here on is
// the solver's own free search, not a consequence of the assumptions under test.
func (c *Counter) CBDecide() int {
	c.onAssumptionLevel = false
	return 0
}

// CBPropagate, CBAddReasonClauseLit, CBCheckFoundModel, CBHasExternalClause, and
// CBAddExternalClauseLit implement the remainder of [satif.ExternalPropagator]. The coverage
// counter never proposes propagations or clauses of its own.
func (c *Counter) CBPropagate() int                  { return 0 }
func (c *Counter) CBAddReasonClauseLit() int         { return 0 }
func (c *Counter) CBCheckFoundModel(model []int) bool { return true }
func (c *Counter) CBHasExternalClause() bool         { return false }
func (c *Counter) CBAddExternalClauseLit() int       { return 0 }
