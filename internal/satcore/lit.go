// Package satcore is an incremental, assumption-based CDCL-family SAT engine implementing
// [github.com/lfalkau/qsmin/internal/satif.Solver]. It exists because no SAT library in the
// ecosystem exposes both an assumption API and an external-propagator callback hook (see
// SPEC_FULL.md's Domain Stack section for why github.com/crillab/gophersat cannot be used
// directly). Its literal/variable encoding and its two-watched-literal propagation loop follow
// gophersat's own solver design; it omits gophersat's conflict-driven clause learning, which this
// tool's Non-goals (spec.md §1) explicitly place out of scope.
package satcore

import "fmt"

// Var is a 0-indexed Boolean variable. DIMACS variable numbers are 1-indexed; Var(n-1) corresponds
// to DIMACS variable n.
type Var int32

// Int returns the 1-based DIMACS variable number corresponding to v.
func (v Var) Int() int32 { return int32(v) + 1 }

// Pos returns the positive literal of v.
func (v Var) Pos() Lit { return Lit(v) << 1 }

// Neg returns the negative literal of v.
func (v Var) Neg() Lit { return Lit(v)<<1 + 1 }

// SignedLit returns v's negative literal if neg is true, else its positive literal.
func (v Var) SignedLit(neg bool) Lit {
	if neg {
		return v.Neg()
	}
	return v.Pos()
}

// Lit is a sign-packed literal: the low bit carries polarity (0 = positive, 1 = negative) and the
// remaining bits hold the [Var].
type Lit int32

// Var returns the variable l refers to.
func (l Lit) Var() Var { return Var(l >> 1) }

// IsPositive reports whether l is the positive literal of its variable.
func (l Lit) IsPositive() bool { return l&1 == 0 }

// Negation returns the complementary literal.
func (l Lit) Negation() Lit { return l ^ 1 }

// Int returns l as a signed DIMACS literal (positive for a positive literal, negative otherwise).
func (l Lit) Int() int32 {
	v := l.Var().Int()
	if l.IsPositive() {
		return v
	}
	return -v
}

func (l Lit) String() string { return fmt.Sprintf("%d", l.Int()) }

// IntToLit converts a nonzero signed DIMACS literal into a [Lit].
func IntToLit(i int32) Lit {
	if i == 0 {
		panic("satcore: literal 0 is not a valid DIMACS literal")
	}
	if i > 0 {
		return Var(i - 1).Pos()
	}
	return Var(-i - 1).Neg()
}
