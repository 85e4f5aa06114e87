package cassowary

import "github.com/davecgh/go-spew/spew"

// tableauSnapshot is a plain-data view of a Solver's tableau for diagnostics:
// every row a variable kind and name, every basic variable its current
// defining expression as a string. Built fresh on each Dump call rather than
// held live, since the tableau mutates on every pivot.
type tableauSnapshot struct {
	Variables map[string]string // name -> Kind
	Rows      map[string]string // basic variable name -> defining row
	Pivots    int
}

// Dump renders the solver's current tableau state for test failure messages
// and interactive debugging: every known variable's kind, every basic
// variable's defining row, and the pivot count since the last AddConstraint/
// RemoveConstraint/Resolve call. It is never used by solving itself, only by
// callers (tests, demo binaries) that want a readable snapshot when a
// simplex run behaves unexpectedly.
func (s *Solver) Dump() string {
	snap := tableauSnapshot{
		Variables: make(map[string]string),
		Rows:      make(map[string]string),
		Pivots:    s.pivotCount,
	}
	for id, kind := range s.tab.kind {
		snap.Variables[s.nameOf(id)] = kind.String()
	}
	for id, row := range s.tab.rows {
		snap.Rows[s.nameOf(id)] = row.String()
	}
	return spew.Sdump(snap)
}

// nameOf resolves id to its caller-supplied Variable name when it is
// external and named, falling back to its identity string otherwise.
func (s *Solver) nameOf(id VarID) string {
	if v, ok := s.externals[id]; ok && v.name != "" {
		return v.name
	}
	return id.String()
}
