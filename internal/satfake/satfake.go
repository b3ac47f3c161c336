// Package satfake provides a scripted, in-memory implementation of [satif.Solver] for use in tests
// of package qsm, so the branch-and-bound engine can be exercised against literal, known answers
// without a real SAT backend.
package satfake

import (
	"slices"

	"github.com/lfalkau/qsmin/internal/satif"
)

// Solver is a fake [satif.Solver] whose Solve results are produced by a user-supplied Answer
// function rather than by actually solving anything.
type Solver struct {
	// Answer is called on every Solve, with the assumptions staged since the previous Solve (in
	// assume order). It must return the status to report. A nil Answer always reports
	// [satif.Unknown].
	Answer func(assumptions []int) satif.Status

	// Queries records every assumption set passed to Solve, in call order, for assertions in
	// tests.
	Queries [][]int

	assumptions []int
	propagator  satif.ExternalPropagator
	observed    map[int]bool
}

var _ satif.Solver = (*Solver)(nil)

// New constructs a Solver that answers queries with answer.
func New(answer func(assumptions []int) satif.Status) *Solver {
	return &Solver{Answer: answer}
}

// Assume implements [satif.Solver].
func (s *Solver) Assume(lit int) { s.assumptions = append(s.assumptions, lit) }

// Solve implements [satif.Solver]. It records the staged assumptions, asks Answer for a verdict,
// and clears the assumption set, matching the real contract's incremental-query semantics.
func (s *Solver) Solve() satif.Status {
	asked := slices.Clone(s.assumptions)
	s.Queries = append(s.Queries, asked)
	s.assumptions = s.assumptions[:0]
	if s.Answer == nil {
		return satif.Unknown
	}
	return s.Answer(asked)
}

// Active implements [satif.Solver]. The fake holds no variables of its own, so Active always
// reports zero; tests that care about variable counts should assert on Queries instead.
func (s *Solver) Active() int { return 0 }

// ConnectExternalPropagator implements [satif.Solver].
func (s *Solver) ConnectExternalPropagator(p satif.ExternalPropagator) { s.propagator = p }

// DisconnectExternalPropagator implements [satif.Solver].
func (s *Solver) DisconnectExternalPropagator() { s.propagator = nil }

// AddObservedVar implements [satif.Solver].
func (s *Solver) AddObservedVar(v int) {
	if s.observed == nil {
		s.observed = make(map[int]bool)
	}
	s.observed[v] = true
}

// Observed reports whether v was registered with AddObservedVar.
func (s *Solver) Observed(v int) bool { return s.observed[v] }

// Propagator returns the currently connected external propagator, or nil.
func (s *Solver) Propagator() satif.ExternalPropagator { return s.propagator }
