package qsm

// Decision heuristic (component C5): selects the next class to branch on. Per spec.md §9's design
// note on the engine/heuristic cyclic reference, the comparators below take the engine's Store as
// a plain parameter for the duration of a single call rather than holding a stored back-reference.

func absVal(v int8) int8 {
	if v < 0 {
		return -v
	}
	return v
}

// lessCoverage is the default comparator: unassigned classes sort before assigned ones, then
// ascending coverage, then descending pid.
func lessCoverage(s *Store, a, b int) bool {
	va, vb := absVal(s.Val(a)), absVal(s.Val(b))
	if va != vb {
		return va < vb
	}
	ca, cb := s.Coverage(a), s.Coverage(b)
	if ca != cb {
		return ca < cb
	}
	return s.At(a).Pid > s.At(b).Pid
}

// constOrLessCoverage is the comparator enabled by --prefer-consts: unassigned first, then
// ascending cost, then ascending coverage, then classes with has_all_const, then classes with
// has_const > 0, then descending pid.
func constOrLessCoverage(s *Store, a, b int) bool {
	va, vb := absVal(s.Val(a)), absVal(s.Val(b))
	if va != vb {
		return va < vb
	}
	costA, costB := s.At(a).Cost, s.At(b).Cost
	if costA != costB {
		return costA < costB
	}
	ca, cb := s.Coverage(a), s.Coverage(b)
	if ca != cb {
		return ca < cb
	}
	allA, allB := s.At(a).HasAllConst, s.At(b).HasAllConst
	if allA != allB {
		return allA
	}
	hasA, hasB := s.At(a).HasConst > 0, s.At(b).HasConst > 0
	if hasA != hasB {
		return hasA
	}
	return s.At(a).Pid > s.At(b).Pid
}

// decide selects the minimum unassigned class under the configured comparator, marks it decided,
// and assigns it selected. It panics if called with no unassigned classes; callers must check
// e.unassigned > 0 first (spec.md §7's "invariant violation" error kind).
func (e *Engine) decide() {
	less := lessCoverage
	if e.preferConsts {
		less = constOrLessCoverage
	}
	candidates := e.store.Unassigned()
	if len(candidates) == 0 {
		panic("qsm: decide called with no unassigned classes")
	}
	best := candidates[0]
	for _, idx := range candidates[1:] {
		if less(e.store, idx, best) {
			best = idx
		}
	}
	e.store.states[best].decided = true
	e.assignSelected(best)
	if e.verbose {
		e.trace("D%d", e.store.At(best).Pid)
	}
}
