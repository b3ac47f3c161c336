package qsm

import (
	"fmt"

	"github.com/lfalkau/qsmin/internal/coverage"
	"github.com/lfalkau/qsmin/internal/satif"
)

// Engine is the branch-and-bound search engine (component C6) together with the trail & cost
// accounting (C2) it drives. Construct one with [NewEngine], configure it with the Set* methods,
// then call [Engine.Solve].
type Engine struct {
	store  *Store
	solver satif.Solver
	cc     *coverage.Counter

	trail  []int // signed pids: +pid selected, -pid not-selected
	ptrail []int // positive subsequence of trail

	currentCost int
	bestCost    int
	bestSolutions []Solution

	unassigned      int
	overUB          bool
	removed         bool
	coverPropagated int

	allSolutions bool
	preferConsts bool
	verbose      bool
	satCalls     int

	tracer func(format string, args ...any)
}

// NewEngine constructs an Engine over store, backed by solver. cc may be nil if no coverage
// counter is attached (coveredClasses then simply never refreshes coverage scores). bestCost is
// initialized to the sum of every class's cost, the trivial upper bound where every class is
// selected.
func NewEngine(store *Store, solver satif.Solver, cc *coverage.Counter) *Engine {
	total := 0
	for i := 0; i < store.Len(); i++ {
		total += store.At(i).Cost
	}
	return &Engine{
		store:       store,
		solver:      solver,
		cc:          cc,
		unassigned:  store.Len(),
		bestCost:    total,
		currentCost: 0,
	}
}

// SetAllSolutions enables or disables all-optimal-solutions enumeration.
func (e *Engine) SetAllSolutions(v bool) { e.allSolutions = v; e.recomputeOverUB() }

// SetPreferConsts switches the decision comparator to constOrLessCoverage.
func (e *Engine) SetPreferConsts(v bool) { e.preferConsts = v }

// SetVerbose enables or disables the per-step inference trace.
func (e *Engine) SetVerbose(v bool) { e.verbose = v }

// SetTracer installs the callback used to emit verbose trace lines. If nil (the default), trace
// output is discarded.
func (e *Engine) SetTracer(fn func(format string, args ...any)) { e.tracer = fn }

func (e *Engine) trace(format string, args ...any) {
	if e.tracer != nil {
		e.tracer(format, args...)
	}
}

// Solve runs the branch-and-bound search to completion. Before the loop it performs the initial
// phase (root essentials then covered classes); if the problem is fully resolved at root level, no
// search loop runs at all.
func (e *Engine) Solve() {
	e.rootEssentials()
	e.coveredClasses()
	if e.unassigned == 0 {
		if e.verbose {
			e.trace("c All PIs are assigned on root-level, no search started.")
		}
		e.evaluateSolution()
		return
	}

	for {
		if e.overUB {
			if !e.backtrack() {
				return
			}
			e.conditionalEssentials()
			continue
		}

		e.coveredClasses()

		if e.unassigned == 0 {
			e.evaluateSolution()
			if !e.backtrack() {
				return
			}
			e.conditionalEssentials()
			continue
		}

		if e.overUB {
			if !e.backtrack() {
				return
			}
			e.conditionalEssentials()
			continue
		}

		e.decide()
	}
}

// invariantViolation panics with a message identifying a broken core invariant (spec.md §7); these
// represent genuine bugs, not recoverable runtime conditions.
func invariantViolation(format string, args ...any) {
	panic(fmt.Sprintf("qsm: invariant violation: "+format, args...))
}
