package qsm

import (
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
)

// Scenario 5: in all-solutions mode, every cover tying the best cost is retained as a separate
// snapshot.
func TestEvaluateSolutionAccumulatesTiesInAllSolutionsMode(t *testing.T) {
	e := newTestEngine(t,
		PIClass{Pid: 1, Cost: 4, CareLits: mapset.NewSet(1)},
		PIClass{Pid: 2, Cost: 4, CareLits: mapset.NewSet(2)},
		PIClass{Pid: 3, Cost: 4, CareLits: mapset.NewSet(3)},
	)
	e.SetAllSolutions(true)

	combos := [][]int{{1, 2}, {1, 3}, {2, 3}}
	for _, combo := range combos {
		e.ptrail = combo
		e.currentCost = 8
		e.evaluateSolution()
	}

	sols := e.Solutions()
	if len(sols) != len(combos) {
		t.Fatalf("len(Solutions()) = %d, want %d", len(sols), len(combos))
	}
	for _, s := range sols {
		if s.Cost != 8 {
			t.Fatalf("solution %+v has cost %d, want 8", s, s.Cost)
		}
	}
}

// Scenario 5b (single-solution mode contrast): a tie at the best cost is not recorded once a best
// solution already exists.
func TestEvaluateSolutionIgnoresTiesInSingleSolutionMode(t *testing.T) {
	e := newTestEngine(t,
		PIClass{Pid: 1, Cost: 4, CareLits: mapset.NewSet(1)},
		PIClass{Pid: 2, Cost: 4, CareLits: mapset.NewSet(2)},
	)
	e.ptrail = []int{1}
	e.currentCost = 4
	e.evaluateSolution()

	e.ptrail = []int{2}
	e.currentCost = 4
	e.evaluateSolution()

	if got := len(e.Solutions()); got != 1 {
		t.Fatalf("len(Solutions()) = %d, want 1 (ties ignored outside all-solutions mode)", got)
	}
}
