// Package qsm implements a branch-and-bound search for a minimum-cost cover of a set of PI
// (prime-implicant) classes against a Boolean constraint system, driven by an incremental SAT
// solver's external-propagator interface. See internal/satif for the SAT solver contract and
// internal/coverage for the propagator that backs the decision heuristic.
package qsm

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

// PIClass is an immutable descriptor for one prime-implicant class, as loaded from the PI-class
// file. See [LoadPIClasses].
type PIClass struct {
	Pid         int
	Cost        int
	CareLits    mapset.Set[int]
	QForm       string
	HasConst    int
	HasAllConst bool
}

// classState is the mutable per-class state threaded through the search, kept parallel to the
// ordered class slice so that the trail can refer to classes by lightweight index.
type classState struct {
	val      int8 // -1 not-selected, 0 unassigned, +1 selected
	decided  bool
	coverage int
}

// Store holds the ordered, indexed set of PI classes together with their mutable per-class state.
// Classes are immutable once added with [Store.Add]; only classState changes during search.
type Store struct {
	classes []*PIClass
	index   map[int]int // pid -> position in classes/states
	states  []classState

	maxCare int // largest literal magnitude appearing in any class's CareLits
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{index: make(map[int]int)}
}

// Add appends a new class to the store. It returns an error if pid is not positive, cost is not
// positive, care_lits is empty, or pid is already present (see spec §4.1).
func (s *Store) Add(c PIClass) error {
	if c.Pid <= 0 {
		return fmt.Errorf("qsm: pi class pid must be > 0, got %d", c.Pid)
	}
	if c.Cost <= 0 {
		return fmt.Errorf("qsm: pi class %d: cost must be > 0, got %d", c.Pid, c.Cost)
	}
	if c.CareLits == nil || c.CareLits.Cardinality() == 0 {
		return fmt.Errorf("qsm: pi class %d: care_lits must be non-empty", c.Pid)
	}
	if _, dup := s.index[c.Pid]; dup {
		return fmt.Errorf("qsm: duplicate pi class pid %d", c.Pid)
	}
	class := c
	s.index[c.Pid] = len(s.classes)
	s.classes = append(s.classes, &class)
	s.states = append(s.states, classState{coverage: c.Cost})
	for lit := range c.CareLits.Iter() {
		if lit > s.maxCare {
			s.maxCare = lit
		}
		if -lit > s.maxCare {
			s.maxCare = -lit
		}
	}
	return nil
}

// Len returns the number of loaded classes.
func (s *Store) Len() int { return len(s.classes) }

// MaxCare returns the largest literal magnitude appearing in any class's care-literal set. This is
// the observed-variable upper bound the coverage counter registers at attach time.
func (s *Store) MaxCare() int { return s.maxCare }

// At returns the class at position i in load order.
func (s *Store) At(i int) *PIClass { return s.classes[i] }

// IndexOf returns the load-order position of pid, and whether it was found.
func (s *Store) IndexOf(pid int) (int, bool) {
	i, ok := s.index[pid]
	return i, ok
}

// Val returns the current assignment of the class at position i.
func (s *Store) Val(i int) int8 { return s.states[i].val }

// Decided reports whether the class at position i is currently selected as a branch decision.
func (s *Store) Decided(i int) bool { return s.states[i].decided }

// Coverage returns the class at position i's last-recorded coverage score.
func (s *Store) Coverage(i int) int { return s.states[i].coverage }

// SetCoverage updates the class at position i's coverage score, as refreshed by [Engine.coveredClasses].
func (s *Store) SetCoverage(i int, coverage int) { s.states[i].coverage = coverage }

// Unassigned returns the positions of all classes with val == 0, in load order.
func (s *Store) Unassigned() []int {
	var out []int
	for i, st := range s.states {
		if st.val == 0 {
			out = append(out, i)
		}
	}
	return out
}
