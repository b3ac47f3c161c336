package qsm

// trail and cost accounting (component C2). These methods mutate the engine's ordered trail and
// recompute the derived current_cost / over_UB state; see spec.md §4.2 for the accounting rules
// they must preserve.

// assignSelected marks the class at position idx as selected: pushes +pid onto the trail and
// ptrail, sets val = +1, decrements unassigned, adds the class's cost to current_cost, and
// recomputes overUB.
func (e *Engine) assignSelected(idx int) {
	pid := e.store.At(idx).Pid
	e.trail = append(e.trail, pid)
	e.ptrail = append(e.ptrail, pid)
	e.store.states[idx].val = 1
	e.unassigned--
	e.currentCost += e.store.At(idx).Cost
	e.recomputeOverUB()
}

// assignNotSelected marks the class at position idx as not-selected: pushes -pid onto the trail,
// sets val = -1, decrements unassigned, and raises the removed dirty flag. Cost is unchanged.
func (e *Engine) assignNotSelected(idx int) {
	pid := e.store.At(idx).Pid
	e.trail = append(e.trail, -pid)
	e.store.states[idx].val = -1
	e.unassigned--
	e.removed = true
}

// backtrack pops trail entries, restoring val = 0 for each and incrementing unassigned, until it
// finds one whose class had decided = true. That class is flipped to not-selected (decided is
// cleared, assignNotSelected is applied, and the accumulated cost of undone selections is
// subtracted from current_cost), and a flip trace line is emitted if verbose. backtrack reports
// false if the trail empties without finding a decided entry, meaning search is complete.
func (e *Engine) backtrack() bool {
	costDiff := 0
	for len(e.trail) > 0 {
		entry := e.trail[len(e.trail)-1]
		e.trail = e.trail[:len(e.trail)-1]

		pid := entry
		if pid < 0 {
			pid = -pid
		}
		idx, ok := e.store.IndexOf(pid)
		if !ok {
			panic("qsm: backtrack: trail entry refers to unknown pid")
		}

		if entry > 0 {
			e.ptrail = e.ptrail[:len(e.ptrail)-1]
		}

		wasDecided := e.store.states[idx].decided
		e.store.states[idx].val = 0
		e.unassigned++
		if entry > 0 {
			costDiff += e.store.At(idx).Cost
		}

		if wasDecided {
			e.store.states[idx].decided = false
			e.assignNotSelected(idx)
			e.currentCost -= costDiff
			e.recomputeOverUB()
			if e.verbose {
				e.trace("F%d", e.store.At(idx).Pid)
			}
			return true
		}
	}
	return false
}

// recomputeOverUB recomputes the over_UB derived flag per the current mode: under single-solution
// mode current_cost >= best_cost is pruned; under all-solutions mode only current_cost > best_cost
// is pruned, so ties are allowed to run to completion and be recorded.
func (e *Engine) recomputeOverUB() {
	if e.allSolutions {
		e.overUB = e.currentCost > e.bestCost
	} else {
		e.overUB = e.currentCost >= e.bestCost
	}
}
