package satcore

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ReadDIMACS constructs a [Solver] from a DIMACS CNF file at path. This is "the SAT solver's own
// reader" that spec.md §4.7 and §6 delegate DIMACS parsing to: package qsm never parses DIMACS
// itself, it only asks [ReadDIMACS] for a solver and a variable count.
func ReadDIMACS(path string) (solver *Solver, nbVars int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("satcore: opening DIMACS file %q: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	headerSeen := false
	var lineNo int
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "c") {
			continue
		}
		if !headerSeen {
			fields := strings.Fields(line)
			if len(fields) < 4 || fields[0] != "p" || fields[1] != "cnf" {
				return nil, 0, fmt.Errorf("satcore: %s:%d: expected DIMACS header \"p cnf <vars> <clauses>\"", path, lineNo)
			}
			n, err := strconv.Atoi(fields[2])
			if err != nil || n < 0 {
				return nil, 0, fmt.Errorf("satcore: %s:%d: invalid variable count %q", path, lineNo, fields[2])
			}
			nbVars = n
			solver = New(nbVars)
			headerSeen = true
			continue
		}
		fields := strings.Fields(line)
		lits := make([]int, 0, len(fields))
		for _, tok := range fields {
			x, err := strconv.Atoi(tok)
			if err != nil {
				return nil, 0, fmt.Errorf("satcore: %s:%d: invalid literal %q", path, lineNo, tok)
			}
			if x == 0 {
				break
			}
			lits = append(lits, x)
		}
		if err := solver.AddClause(lits); err != nil {
			// An empty or root-conflicting clause makes the formula permanently unsatisfiable;
			// that is a legitimate (if degenerate) DIMACS file, not a parse error, so continue
			// reading rather than aborting the load.
			continue
		}
	}
	if err := sc.Err(); err != nil {
		return nil, 0, fmt.Errorf("satcore: reading DIMACS file %q: %w", path, err)
	}
	if !headerSeen {
		return nil, 0, fmt.Errorf("satcore: %s: missing DIMACS header", path)
	}
	return solver, nbVars, nil
}
