package qsm_test

import (
	"sort"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	qsm "github.com/lfalkau/qsmin"
	"github.com/lfalkau/qsmin/internal/satfake"
	"github.com/lfalkau/qsmin/internal/satif"
)

// sortedPids returns the pids selected across all solutions, each sorted, so assertions don't
// depend on load order.
func sortedPids(sols []qsm.Solution) [][]int {
	out := make([][]int, len(sols))
	for i, s := range sols {
		pids := append([]int(nil), s.Pids...)
		sort.Ints(pids)
		out[i] = pids
	}
	return out
}

func newStore(t *testing.T, classes ...qsm.PIClass) *qsm.Store {
	t.Helper()
	s := qsm.NewStore()
	for _, c := range classes {
		if err := s.Add(c); err != nil {
			t.Fatalf("Add(%+v): %v", c, err)
		}
	}
	return s
}

// Scenario 1: an empty PI file terminates immediately with one empty, zero-cost solution.
func TestEngineEmptyPIFile(t *testing.T) {
	store := newStore(t)
	solver := satfake.New(func([]int) satif.Status { return satif.Sat })
	e := qsm.NewEngine(store, solver, nil)
	e.Solve()

	if got := e.BestCost(); got != 0 {
		t.Fatalf("BestCost() = %d, want 0", got)
	}
	sols := e.Solutions()
	if len(sols) != 1 {
		t.Fatalf("len(Solutions()) = %d, want 1", len(sols))
	}
	if len(sols[0].Pids) != 0 {
		t.Fatalf("Solutions()[0].Pids = %v, want empty", sols[0].Pids)
	}
}

// Scenario 2: a single class whose selection the mock always confirms is promoted as root
// essential.
func TestEngineSingleClassRootEssential(t *testing.T) {
	store := newStore(t, qsm.PIClass{Pid: 7, Cost: 3, CareLits: mapset.NewSet(1)})
	solver := satfake.New(func([]int) satif.Status { return satif.Sat })
	e := qsm.NewEngine(store, solver, nil)
	e.Solve()

	if got := e.BestCost(); got != 3 {
		t.Fatalf("BestCost() = %d, want 3", got)
	}
	sols := e.Solutions()
	if diff := cmp.Diff([][]int{{7}}, sortedPids(sols)); diff != "" {
		t.Fatalf("Solutions() pids mismatch (-want +got):\n%s", diff)
	}
}

// Scenario 3: two disjoint classes are both root essential.
func TestEngineTwoDisjointClassesBothEssential(t *testing.T) {
	store := newStore(t,
		qsm.PIClass{Pid: 10, Cost: 5, CareLits: mapset.NewSet(1)},
		qsm.PIClass{Pid: 11, Cost: 2, CareLits: mapset.NewSet(2)},
	)
	solver := satfake.New(func([]int) satif.Status { return satif.Sat })
	e := qsm.NewEngine(store, solver, nil)
	e.Solve()

	if got := e.BestCost(); got != 7 {
		t.Fatalf("BestCost() = %d, want 7", got)
	}
	sols := e.Solutions()
	if diff := cmp.Diff([][]int{{10, 11}}, sortedPids(sols)); diff != "" {
		t.Fatalf("Solutions() pids mismatch (-want +got):\n%s", diff)
	}
}

// Scenario 4: two overlapping classes where neither is root essential, but covered-detection
// retires the more expensive one once the cheaper one is selected, with exactly one backtrack
// flip over the course of the whole search.
func TestEngineOverlappingClassesCoveredDetection(t *testing.T) {
	store := newStore(t,
		qsm.PIClass{Pid: 4, Cost: 10, CareLits: mapset.NewSet(100)},
		qsm.PIClass{Pid: 5, Cost: 3, CareLits: mapset.NewSet(101)},
	)
	calls := 0
	solver := satfake.New(func([]int) satif.Status {
		calls++
		switch calls {
		case 1, 2:
			// Root essentials for pid 4 and pid 5: neither alone is essential.
			return satif.Unsat
		case 3:
			// Covered-detection for pid 4 once pid 5 has been tentatively selected: redundant.
			return satif.Unsat
		case 4:
			// Conditional-essentials for pid 4 once pid 5 has been backtracked away: the
			// remaining class is essential on its own, but its tentative selection is over the
			// cost bound and gets unwound without ever becoming a second decided flip.
			return satif.Sat
		default:
			return satif.Unsat
		}
	})
	e := qsm.NewEngine(store, solver, nil)
	e.Solve()

	if got := e.BestCost(); got != 3 {
		t.Fatalf("BestCost() = %d, want 3", got)
	}
	sols := e.Solutions()
	if diff := cmp.Diff([][]int{{5}}, sortedPids(sols)); diff != "" {
		t.Fatalf("Solutions() pids mismatch (-want +got):\n%s", diff)
	}
}

// TestEngineFirstQueryIgnoresAssumptionOrder exercises go-cmp's structural comparison directly
// against satfake's recorded assumption history, independent of the order of assumptions within
// the query.
func TestEngineFirstQueryIgnoresAssumptionOrder(t *testing.T) {
	store := newStore(t, qsm.PIClass{Pid: 1, Cost: 1, CareLits: mapset.NewSet(1)})
	solver := satfake.New(func([]int) satif.Status { return satif.Sat })
	e := qsm.NewEngine(store, solver, nil)
	e.Solve()

	if len(solver.Queries) == 0 {
		t.Fatalf("expected at least one recorded query")
	}
	if diff := cmp.Diff([]int{1}, solver.Queries[0], cmpopts.SortSlices(func(a, b int) bool { return a < b })); diff != "" {
		t.Fatalf("first query mismatch (-want +got):\n%s", diff)
	}
}
