package qsm

import (
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
)

// Scenario 6: with --prefer-consts, a class with has_all_const is chosen over an equal-cost,
// equal-coverage class without it.
func TestDecidePrefersConstsWhenEnabled(t *testing.T) {
	e := newTestEngine(t,
		PIClass{Pid: 1, Cost: 4, CareLits: mapset.NewSet(1), HasAllConst: false},
		PIClass{Pid: 2, Cost: 4, CareLits: mapset.NewSet(2), HasAllConst: true},
	)
	e.SetPreferConsts(true)
	e.decide()

	if !e.store.Decided(1) || e.store.Val(1) != 1 {
		t.Fatalf("expected the has_all_const class (pid 2, index 1) to be decided first")
	}
	if e.store.Val(0) != 0 {
		t.Fatalf("expected the non-const class (pid 1, index 0) to remain unassigned")
	}
}

func TestDecideDefaultComparatorPrefersHigherPidOnTie(t *testing.T) {
	e := newTestEngine(t,
		PIClass{Pid: 3, Cost: 1, CareLits: mapset.NewSet(1)},
		PIClass{Pid: 9, Cost: 1, CareLits: mapset.NewSet(2)},
	)
	e.decide()

	if !e.store.Decided(1) {
		t.Fatalf("expected the higher-pid class (pid 9, index 1) to be decided first under the default comparator")
	}
}
