package qsm

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/sync/errgroup"

	"github.com/lfalkau/qsmin/internal/satcore"
)

// Input bindings (component C7). DIMACS parsing is delegated entirely to
// [github.com/lfalkau/qsmin/internal/satcore.ReadDIMACS]; this file only parses the PI-class
// descriptor file and fans the two independent loads out concurrently.

// Inputs bundles the two things a run needs: a ready-to-query SAT solver and the PI-class store.
type Inputs struct {
	Solver *satcore.Solver
	NbVars int
	Store  *Store
}

// LoadInputs loads cnfPath and picPath concurrently, the same way a dependency graph resolver fans
// independent collaborator loads out with an errgroup: the two loads share nothing and either can
// fail independently.
func LoadInputs(cnfPath, picPath string) (*Inputs, error) {
	var g errgroup.Group
	var solver *satcore.Solver
	var nbVars int
	var store *Store

	g.Go(func() error {
		s, n, err := satcore.ReadDIMACS(cnfPath)
		if err != nil {
			return err
		}
		solver, nbVars = s, n
		return nil
	})
	g.Go(func() error {
		s, err := LoadPIClasses(picPath)
		if err != nil {
			return err
		}
		store = s
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Inputs{Solver: solver, NbVars: nbVars, Store: store}, nil
}

// LoadPIClasses parses the PI-class descriptor file at path: one class per line, six
// semicolon-delimited fields (pid; cost; whitespace-separated care literals; has_const;
// has_all_const; qform). See spec.md §4.7 for the exact field grammar.
func LoadPIClasses(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("qsm: opening pi-class file %q: %w", path, err)
	}
	defer f.Close()

	store := NewStore()
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		class, err := parsePIClassLine(line)
		if err != nil {
			return nil, fmt.Errorf("qsm: %s:%d: %w", path, lineNo, err)
		}
		if err := store.Add(*class); err != nil {
			return nil, fmt.Errorf("qsm: %s:%d: %w", path, lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("qsm: reading pi-class file %q: %w", path, err)
	}
	return store, nil
}

func parsePIClassLine(line string) (*PIClass, error) {
	fields := strings.Split(line, ";")
	if len(fields) != 6 {
		return nil, fmt.Errorf("expected 6 semicolon-delimited fields, got %d", len(fields))
	}

	pid, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return nil, fmt.Errorf("invalid pid %q: %w", fields[0], err)
	}

	cost, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return nil, fmt.Errorf("invalid cost %q: %w", fields[1], err)
	}

	careLits := mapset.NewThreadUnsafeSet[int]()
	for _, tok := range strings.Fields(fields[2]) {
		lit, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("invalid care literal %q: %w", tok, err)
		}
		if lit == 0 {
			return nil, fmt.Errorf("care literal list must not contain 0")
		}
		careLits.Add(lit)
	}

	hasConst, err := strconv.Atoi(strings.TrimSpace(fields[3]))
	if err != nil {
		return nil, fmt.Errorf("invalid has_const %q: %w", fields[3], err)
	}

	hasAllConstN, err := strconv.Atoi(strings.TrimSpace(fields[4]))
	if err != nil {
		return nil, fmt.Errorf("invalid has_all_const %q: %w", fields[4], err)
	}

	return &PIClass{
		Pid:         pid,
		Cost:        cost,
		CareLits:    careLits,
		QForm:       fields[5],
		HasConst:    hasConst,
		HasAllConst: hasAllConstN != 0,
	}, nil
}
