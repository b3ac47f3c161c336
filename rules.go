package qsm

import "github.com/lfalkau/qsmin/internal/satif"

// Inference rules (component C4), each driven by SAT queries through the solver's assumption
// mechanism. Convention (external to this package, owned by the CNF encoding producer): assuming
// the bare positive literal pid means "do not select class pid"; assuming a class's care literals
// means "select this class". Each rule scans classes in load order, stages its conclusions, and
// applies them only after the scan completes, so that every query within a pass observes a
// consistent partial assignment (spec.md §5).

func (e *Engine) querySat() satif.Status {
	e.satCalls++
	return e.solver.Solve()
}

// rootEssentials scans every class with the empty partial cover: if asserting only i's care
// literals (and forbidding every other class via its bare pid) is satisfiable, i belongs to every
// cover and is promoted unconditionally.
func (e *Engine) rootEssentials() {
	var staged []int
	for i := 0; i < e.store.Len(); i++ {
		ci := e.store.At(i)
		for lit := range ci.CareLits.Iter() {
			e.solver.Assume(lit)
		}
		for j := 0; j < e.store.Len(); j++ {
			if j == i {
				continue
			}
			e.solver.Assume(e.store.At(j).Pid)
		}
		if e.querySat() == satif.Sat {
			staged = append(staged, i)
		}
	}
	for _, i := range staged {
		if e.store.Val(i) != 0 {
			continue
		}
		e.assignSelected(i)
		if e.verbose {
			e.trace("c PI class %d is root essential.", e.store.At(i).Pid)
		}
	}
}

// conditionalEssentials scans every unassigned class relative to the current committed partial
// cover (ptrail). It is skipped when there is no committed partial cover to be relative to, or
// when nothing has been removed since the last pass.
func (e *Engine) conditionalEssentials() {
	if len(e.trail) == len(e.ptrail) || !e.removed {
		return
	}
	e.removed = false

	unassigned := e.store.Unassigned()
	var staged []int
	for _, i := range unassigned {
		for _, pid := range e.ptrail {
			e.solver.Assume(pid)
		}
		for _, j := range unassigned {
			if j == i {
				continue
			}
			e.solver.Assume(e.store.At(j).Pid)
		}
		for lit := range e.store.At(i).CareLits.Iter() {
			e.solver.Assume(lit)
		}
		if e.querySat() == satif.Sat {
			staged = append(staged, i)
		}
	}
	for _, i := range staged {
		if e.store.Val(i) != 0 {
			continue
		}
		e.assignSelected(i)
		if e.verbose {
			e.trace("P%d", e.store.At(i).Pid)
		}
	}
}

// coveredClasses scans every unassigned class against the committed partial cover: a class whose
// selection would be unsatisfiable in that context is already redundant and is marked
// not-selected; otherwise its coverage score is refreshed from the tentative query's coverage
// count, for use by the decision heuristic.
func (e *Engine) coveredClasses() {
	if e.coverPropagated == len(e.ptrail) {
		return
	}

	unassigned := e.store.Unassigned()
	var covered []int
	for _, i := range unassigned {
		for _, pid := range e.ptrail {
			e.solver.Assume(pid)
		}
		for lit := range e.store.At(i).CareLits.Iter() {
			e.solver.Assume(lit)
		}
		if e.cc != nil {
			e.cc.StartCount()
		}
		status := e.querySat()
		if e.cc != nil {
			e.cc.StopCount()
		}
		switch status {
		case satif.Unsat:
			covered = append(covered, i)
		case satif.Sat:
			if e.cc != nil {
				e.store.SetCoverage(i, e.cc.AssumptionCoverage)
			}
		}
	}
	for _, i := range covered {
		if e.store.Val(i) != 0 {
			continue
		}
		e.assignNotSelected(i)
		if e.verbose {
			e.trace("P-%d", e.store.At(i).Pid)
		}
	}
	e.coverPropagated = len(e.ptrail)
}
