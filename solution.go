package qsm

import (
	"fmt"
	"io"
	"slices"
)

// Solution is a snapshot of the committed cover (ptrail) at the moment it was evaluated.
type Solution struct {
	Pids []int
	Cost int
}

// evaluateSolution is called when every class has been assigned. The first cover evaluated, or a
// strictly cheaper one, resets the recorded best solutions; after that, a tying cover is
// additionally recorded only in all-solutions mode;
// a strictly worse cover (which should not occur once over_UB pruning is correct, but is handled
// defensively) is ignored.
func (e *Engine) evaluateSolution() {
	switch {
	case len(e.bestSolutions) == 0 || e.currentCost < e.bestCost:
		snap := slices.Clone(e.ptrail)
		e.bestSolutions = e.bestSolutions[:0]
		e.bestSolutions = append(e.bestSolutions, Solution{Pids: snap, Cost: e.currentCost})
		e.bestCost = e.currentCost
		e.recomputeOverUB()
		if e.verbose {
			e.trace("c IMPROVED solution was found, cost %d.", e.bestCost)
		}
	case e.currentCost == e.bestCost && e.allSolutions:
		snap := slices.Clone(e.ptrail)
		e.bestSolutions = append(e.bestSolutions, Solution{Pids: snap, Cost: e.currentCost})
		if e.verbose {
			e.trace("c another solution was found, cost %d.", e.currentCost)
		}
	}
}

// Solutions returns the best-cost solutions recorded during [Engine.Solve]. In single-solution
// mode it holds at most one entry; in all-solutions mode it holds every cover tying the best cost.
func (e *Engine) Solutions() []Solution { return e.bestSolutions }

// BestCost returns the cost of the best cover found so far.
func (e *Engine) BestCost() int { return e.bestCost }

// SATCalls returns the total number of SAT queries issued during the search.
func (e *Engine) SATCalls() int { return e.satCalls }

// PrintSolution writes one "invariant [pi<pid>] <qform>" line per selected class of sol to w, in
// the order the classes appear in the store's load order (not the trail order, which is the order
// of selection). Printing every recorded solution in all-solutions mode, rather than only
// the first, surfaces the full set the search accumulated; see DESIGN.md.
func (e *Engine) PrintSolution(w io.Writer, sol Solution) {
	selected := make(map[int]bool, len(sol.Pids))
	for _, pid := range sol.Pids {
		selected[pid] = true
	}
	for i := 0; i < e.store.Len(); i++ {
		c := e.store.At(i)
		if selected[c.Pid] {
			fmt.Fprintf(w, "invariant [pi%d] %s\n", c.Pid, c.QForm)
		}
	}
}
