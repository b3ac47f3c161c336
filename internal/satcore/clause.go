package satcore

// Clause is a disjunction of literals. The first two entries are always the clause's watched
// literals; watchClause keeps this invariant as propagation proceeds.
type Clause struct {
	lits []Lit
}

// NewClause copies lits into a new [Clause].
func NewClause(lits []Lit) *Clause {
	c := &Clause{lits: make([]Lit, len(lits))}
	copy(c.lits, lits)
	return c
}

// Len returns the number of literals remaining in c.
func (c *Clause) Len() int { return len(c.lits) }

// Get returns the i'th literal of c.
func (c *Clause) Get(i int) Lit { return c.lits[i] }

func (c *Clause) swap(i, j int) { c.lits[i], c.lits[j] = c.lits[j], c.lits[i] }
