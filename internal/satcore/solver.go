package satcore

import (
	"fmt"

	"github.com/lfalkau/qsmin/internal/satif"
)

// Stats are statistics about a [Solver]'s resolution of its queries, provided for diagnostic
// purposes only, mirroring gophersat's own per-solver Stats.
type Stats struct {
	NbSolves      int
	NbDecisions   int
	NbPropagated  int
	NbConflicts   int
	NbAssumptions int
}

// decFrame records one entry of the free-decision stack maintained during search: the literal
// decided, and whether its negation has already been tried at this same stack depth.
type decFrame struct {
	lit     Lit
	flipped bool
}

// Solver is an incremental, assumption-based SAT solver. The zero value is not usable; construct
// one with [New] or [ReadDIMACS].
type Solver struct {
	nbVars int

	assign []int8 // per Var: 0 unknown, 1 true, -1 false
	level  []int  // per Var: decision level at assignment time (meaningful only if assign != 0)
	reason []*Clause

	watches map[Lit][]*Clause // watches[l]: clauses that watch l, i.e. trigger when l becomes false

	trail    []Lit
	trailLim []int // trail length at the start of each decision level; len(trailLim) is the depth
	qHead    int   // propagate() has processed trail[:qHead]

	decStack []decFrame

	assumptions []Lit
	observed    map[Var]bool
	propagator  satif.ExternalPropagator

	status    satif.Status
	lastModel []bool

	Stats Stats
}

var _ satif.Solver = (*Solver)(nil)

// New constructs a [Solver] over nbVars variables (numbered 1..nbVars in DIMACS terms) with no
// clauses yet. Clauses are added with [Solver.AddClause].
func New(nbVars int) *Solver {
	return &Solver{
		nbVars:   nbVars,
		assign:   make([]int8, nbVars),
		level:    make([]int, nbVars),
		reason:   make([]*Clause, nbVars),
		watches:  make(map[Lit][]*Clause),
		observed: make(map[Var]bool),
	}
}

// NbVars returns the number of variables the solver was constructed with.
func (s *Solver) NbVars() int { return s.nbVars }

// AddClause adds a permanent clause, expressed as nonzero signed DIMACS literals. It returns an
// error only if the clause is empty (the formula is then permanently unsatisfiable) -- AddClause
// still records the contradiction rather than panicking, so that a formula with an explicit empty
// clause reports Unsat on the next Solve rather than crashing the loader.
func (s *Solver) AddClause(ints []int) error {
	if len(ints) == 0 {
		s.status = satif.Unsat
		return fmt.Errorf("satcore: empty clause makes the formula unsatisfiable")
	}
	lits := make([]Lit, len(ints))
	for i, x := range ints {
		lits[i] = IntToLit(int32(x))
	}
	if len(lits) == 1 {
		if !s.enqueue(lits[0], nil) {
			s.status = satif.Unsat
			return nil
		}
		if conflict := s.propagate(); conflict != nil {
			s.status = satif.Unsat
		}
		return nil
	}
	c := NewClause(lits)
	s.watches[c.lits[0]] = append(s.watches[c.lits[0]], c)
	s.watches[c.lits[1]] = append(s.watches[c.lits[1]], c)
	return nil
}

// Assume implements [satif.Solver].
func (s *Solver) Assume(lit int) {
	s.assumptions = append(s.assumptions, IntToLit(int32(lit)))
}

// Active implements [satif.Solver]. Active reports the total variable count: satcore never
// eliminates or fixes variables through inprocessing, so every variable remains active for the
// lifetime of the solver.
func (s *Solver) Active() int { return s.nbVars }

// ConnectExternalPropagator implements [satif.Solver].
func (s *Solver) ConnectExternalPropagator(p satif.ExternalPropagator) { s.propagator = p }

// DisconnectExternalPropagator implements [satif.Solver].
func (s *Solver) DisconnectExternalPropagator() { s.propagator = nil }

// AddObservedVar implements [satif.Solver].
func (s *Solver) AddObservedVar(v int) { s.observed[Var(v-1)] = true }

// Model returns the most recent satisfying assignment, indexed by Var. It panics if the solver's
// last Solve call did not return [satif.Sat].
func (s *Solver) Model() []bool {
	if s.lastModel == nil {
		panic("satcore: Model called without a prior Sat result")
	}
	return s.lastModel
}

func (s *Solver) litValue(l Lit) int8 {
	a := s.assign[l.Var()]
	if a == 0 {
		return 0
	}
	if (a == 1) == l.IsPositive() {
		return 1
	}
	return -1
}

func (s *Solver) newDecisionLevel() {
	s.trailLim = append(s.trailLim, len(s.trail))
	if s.propagator != nil {
		s.propagator.NotifyNewDecisionLevel()
	}
}

// enqueue assigns lit. It returns false if lit's variable was already assigned to the opposite
// value (a conflict), true otherwise (including when the variable was already consistently
// assigned).
func (s *Solver) enqueue(lit Lit, reason *Clause) bool {
	v := lit.Var()
	if cur := s.assign[v]; cur != 0 {
		want := int8(1)
		if !lit.IsPositive() {
			want = -1
		}
		return cur == want
	}
	if lit.IsPositive() {
		s.assign[v] = 1
	} else {
		s.assign[v] = -1
	}
	s.level[v] = len(s.trailLim)
	s.reason[v] = reason
	s.trail = append(s.trail, lit)
	if s.observed[v] && s.propagator != nil {
		s.propagator.NotifyAssignment(int(lit.Int()), s.level[v] == 0)
	}
	return true
}

func (s *Solver) backtrackTo(lvl int) {
	if len(s.trailLim) <= lvl {
		return
	}
	from := s.trailLim[lvl]
	for i := len(s.trail) - 1; i >= from; i-- {
		v := s.trail[i].Var()
		s.assign[v] = 0
		s.reason[v] = nil
	}
	s.trail = s.trail[:from]
	s.trailLim = s.trailLim[:lvl]
	s.qHead = len(s.trail)
	if s.propagator != nil {
		s.propagator.NotifyBacktrack(lvl)
	}
}

// propagate performs unit propagation via two-watched-literal clause scanning over the unprocessed
// suffix of the trail. It returns the conflicting clause, or nil if a fixpoint was reached cleanly.
func (s *Solver) propagate() *Clause {
	for s.qHead < len(s.trail) {
		lit := s.trail[s.qHead]
		s.qHead++
		s.Stats.NbPropagated++
		falseLit := lit.Negation()
		ws := s.watches[falseLit]
		kept := ws[:0]
		var conflict *Clause
		for i := 0; i < len(ws); i++ {
			c := ws[i]
			if ok := s.watchClause(c, falseLit, &kept); !ok {
				conflict = c
				kept = append(kept, ws[i+1:]...)
				break
			}
		}
		s.watches[falseLit] = kept
		if conflict != nil {
			s.Stats.NbConflicts++
			return conflict
		}
	}
	return nil
}

// watchClause re-establishes c's watch after falseLit (one of c's two watched literals) became
// false. It appends c back onto *kept if falseLit remains one of c's watches; it returns false if c
// is now a conflicting clause (all literals false).
func (s *Solver) watchClause(c *Clause, falseLit Lit, kept *[]*Clause) bool {
	if c.lits[0] == falseLit {
		c.swap(0, 1)
	}
	if s.litValue(c.lits[0]) == 1 {
		*kept = append(*kept, c)
		return true
	}
	for k := 2; k < len(c.lits); k++ {
		if s.litValue(c.lits[k]) != -1 {
			c.swap(1, k)
			s.watches[c.lits[1]] = append(s.watches[c.lits[1]], c)
			return true
		}
	}
	*kept = append(*kept, c)
	if s.litValue(c.lits[0]) == -1 {
		return false
	}
	return s.enqueue(c.lits[0], c)
}

func (s *Solver) chooseLit() (Lit, bool) {
	for v := Var(0); int(v) < s.nbVars; v++ {
		if s.assign[v] == 0 {
			return v.Pos(), true
		}
	}
	return 0, false
}

// search performs free decisions (propagate, decide, backtrack-and-flip on conflict) until either
// every variable is assigned (satisfiable) or the decision stack is exhausted (unsatisfiable). It
// assumes propagate() has already been run to a fixpoint for whatever's currently on the trail.
func (s *Solver) search() (unsat bool) {
	for {
		if s.propagator != nil {
			s.propagator.CBDecide()
		}
		lit, ok := s.chooseLit()
		if !ok {
			return false
		}
		s.Stats.NbDecisions++
		s.newDecisionLevel()
		s.decStack = append(s.decStack, decFrame{lit: lit})
		s.enqueue(lit, nil)
		if s.propagateAndBacktrack() {
			return true
		}
	}
}

// propagateAndBacktrack propagates from the current trail head, and on conflict backtracks
// chronologically, flipping the most recent un-flipped decision and trying again, until either
// propagation succeeds cleanly or the decision stack is exhausted. It returns true iff the search
// is unsatisfiable (the decision stack was exhausted).
func (s *Solver) propagateAndBacktrack() bool {
	for {
		if conflict := s.propagate(); conflict == nil {
			return false
		}
		for {
			if len(s.decStack) == 0 {
				return true
			}
			top := s.decStack[len(s.decStack)-1]
			s.decStack = s.decStack[:len(s.decStack)-1]
			s.backtrackTo(len(s.trailLim) - 1)
			if !top.flipped {
				neg := top.lit.Negation()
				s.newDecisionLevel()
				s.decStack = append(s.decStack, decFrame{lit: neg, flipped: true})
				s.enqueue(neg, nil)
				break
			}
		}
	}
}

// Solve implements [satif.Solver]. It pushes every staged assumption as a forced decision level,
// propagates, and -- if no conflict arose -- continues with free decisions until a complete model
// is found or exhausted. Regardless of outcome, it unwinds every level opened during the call and
// clears the assumption set before returning, so the solver remains ready for the next incremental
// query.
func (s *Solver) Solve() satif.Status {
	s.Stats.NbSolves++
	rootLevel := len(s.trailLim)
	if s.status == satif.Unsat {
		s.assumptions = s.assumptions[:0]
		return satif.Unsat
	}

	conflict := false
	for _, lit := range s.assumptions {
		s.Stats.NbAssumptions++
		s.newDecisionLevel()
		if !s.enqueue(lit, nil) {
			conflict = true
			break
		}
		if c := s.propagate(); c != nil {
			conflict = true
			break
		}
	}
	if !conflict {
		conflict = s.search()
	}

	var result satif.Status
	if conflict {
		result = satif.Unsat
	} else {
		result = satif.Sat
		s.lastModel = make([]bool, s.nbVars)
		for v := 0; v < s.nbVars; v++ {
			s.lastModel[v] = s.assign[v] > 0
		}
	}
	s.decStack = s.decStack[:0]
	s.backtrackTo(rootLevel)
	s.assumptions = s.assumptions[:0]
	return result
}
