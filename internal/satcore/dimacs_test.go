package satcore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lfalkau/qsmin/internal/satcore"
	"github.com/lfalkau/qsmin/internal/satif"
)

func writeDIMACS(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "formula.cnf")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestReadDIMACSBasic(t *testing.T) {
	path := writeDIMACS(t, "c a comment\np cnf 2 1\n1 2 0\n")
	s, nbVars, err := satcore.ReadDIMACS(path)
	if err != nil {
		t.Fatalf("ReadDIMACS: %v", err)
	}
	if nbVars != 2 {
		t.Fatalf("nbVars = %d, want 2", nbVars)
	}
	if got := s.Solve(); got != satif.Sat {
		t.Fatalf("Solve() = %v, want Sat", got)
	}
}

func TestReadDIMACSMissingHeader(t *testing.T) {
	path := writeDIMACS(t, "1 2 0\n")
	if _, _, err := satcore.ReadDIMACS(path); err == nil {
		t.Fatalf("ReadDIMACS with no header = nil error, want error")
	}
}

func TestReadDIMACSEmptyClauseIsUnsat(t *testing.T) {
	path := writeDIMACS(t, "p cnf 1 1\n0\n")
	s, _, err := satcore.ReadDIMACS(path)
	if err != nil {
		t.Fatalf("ReadDIMACS: %v", err)
	}
	if got := s.Solve(); got != satif.Unsat {
		t.Fatalf("Solve() = %v, want Unsat", got)
	}
}

func TestReadDIMACSMissingFile(t *testing.T) {
	if _, _, err := satcore.ReadDIMACS(filepath.Join(t.TempDir(), "nope.cnf")); err == nil {
		t.Fatalf("ReadDIMACS on a missing file = nil error, want error")
	}
}
