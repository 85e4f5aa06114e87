package cassowary

import "sort"

// tableau is the row/column incidence index of basic and parametric
// variables: for each basic variable, the expression defining it, plus a
// reverse index from every parametric variable to the set of basic
// variables whose row mentions it. It also owns variable identity
// allocation and the per-variable kind registry, since both are properties
// of "being a variable known to this tableau" rather than of the simplex
// engine built on top of it.
type tableau struct {
	ids  idGenerator
	kind map[VarID]Kind

	rows    map[VarID]LinearExpression
	columns map[VarID]map[VarID]struct{}

	// infeasible holds basic restricted variables whose row constant has
	// gone negative, awaiting dual re-optimization. It is operated as a
	// stack (last pushed, first popped), matching the reference
	// implementation's traversal order.
	infeasible []VarID

	// epsilon is the solver's configured approximate-zero tolerance,
	// mirrored here so substituteAcrossRows's infeasibility check honors
	// WithEpsilon like the solver's other feasibility checks do.
	epsilon float64
}

func newTableau() *tableau {
	return &tableau{
		kind:    make(map[VarID]Kind),
		rows:    make(map[VarID]LinearExpression),
		columns: make(map[VarID]map[VarID]struct{}),
		epsilon: epsilon,
	}
}

func (t *tableau) newVar(k Kind) VarID {
	id := t.ids.new(k)
	t.kind[id] = k
	return id
}

func (t *tableau) kindOf(id VarID) Kind { return t.kind[id] }

func (t *tableau) forgetVar(id VarID) { delete(t.kind, id) }

func (t *tableau) isBasic(id VarID) bool {
	_, ok := t.rows[id]
	return ok
}

func (t *tableau) row(id VarID) (LinearExpression, bool) {
	e, ok := t.rows[id]
	return e, ok
}

func (t *tableau) addColumn(param, basic VarID) {
	set, ok := t.columns[param]
	if !ok {
		set = make(map[VarID]struct{})
		t.columns[param] = set
	}
	set[basic] = struct{}{}
}

func (t *tableau) removeColumn(param, basic VarID) {
	set, ok := t.columns[param]
	if !ok {
		return
	}
	delete(set, basic)
	if len(set) == 0 {
		delete(t.columns, param)
	}
}

// columnOf returns the set of basic variables whose row currently mentions
// param, as a stable, sorted slice.
func (t *tableau) columnOf(param VarID) []VarID {
	set := t.columns[param]
	if len(set) == 0 {
		return nil
	}
	ids := make([]VarID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids
}

// registerRow installs expr as basic's defining row and indexes its terms
// into columns. basic must not already be a registered row.
func (t *tableau) registerRow(basic VarID, expr LinearExpression) {
	t.rows[basic] = expr
	for _, term := range expr.Terms() {
		t.addColumn(term.ID, basic)
	}
}

// unregisterRow removes basic's row entirely, unindexing its terms from
// columns, and returns the expression it had.
func (t *tableau) unregisterRow(basic VarID) LinearExpression {
	expr, ok := t.rows[basic]
	if !ok {
		return LinearExpression{}
	}
	delete(t.rows, basic)
	for _, term := range expr.Terms() {
		t.removeColumn(term.ID, basic)
	}
	return expr
}

// replaceRow swaps basic's row for a freshly computed expression, resyncing
// columns for both the old and new term sets.
func (t *tableau) replaceRow(basic VarID, expr LinearExpression) {
	t.unregisterRow(basic)
	t.registerRow(basic, expr)
}

// setRowConstant overwrites only the constant of basic's row, leaving its
// terms (and therefore columns) untouched.
func (t *tableau) setRowConstant(basic VarID, constant float64) {
	e := t.rows[basic]
	e.SetConstant(constant)
	t.rows[basic] = e
}

// pushInfeasible enqueues a basic restricted variable whose row constant
// just went negative.
func (t *tableau) pushInfeasible(id VarID) {
	t.infeasible = append(t.infeasible, id)
}

// popInfeasible pops the most recently pushed infeasible row, or returns
// false if none remain.
func (t *tableau) popInfeasible() (VarID, bool) {
	if len(t.infeasible) == 0 {
		return InvalidVarID, false
	}
	id := t.infeasible[len(t.infeasible)-1]
	t.infeasible = t.infeasible[:len(t.infeasible)-1]
	return id, true
}

func (t *tableau) clearInfeasible() { t.infeasible = t.infeasible[:0] }

// sortedBasicIDs returns every currently basic variable identity in
// ascending creation order, the iteration order every Bland-rule-governed
// scan over the tableau uses.
func (t *tableau) sortedBasicIDs() []VarID {
	ids := make([]VarID, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids
}

// substituteAcrossRows replaces every occurrence of id, wherever it appears
// as a parametric term among basic rows, with repl. Any restricted basic
// row whose constant becomes negative as a result is pushed onto
// infeasible. It is the tableau-local half of the solver's global
// substitute step; the solver additionally substitutes id out of the
// objective and (if live) the artificial row, which the tableau does not
// know about.
func (t *tableau) substituteAcrossRows(id VarID, repl LinearExpression) {
	basics := t.columnOf(id)
	for _, basic := range basics {
		e := t.rows[basic]
		e.Substitute(id, repl)
		t.replaceRow(basic, e)
		if t.kind[basic].Restricted() && e.Constant() < -t.epsilon {
			t.pushInfeasible(basic)
		}
	}
}
