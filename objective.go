package cassowary

import "sort"

// weightedTerm is a SymbolicWeight-coefficient term, the objective row's
// analogue of Term.
type weightedTerm struct {
	ID     VarID
	Weight SymbolicWeight
}

// objectiveRow is the main cost row: constant + Σ wᵢ·vᵢ where coefficients
// are symbolic weights rather than scalars. Per the design notes, only this
// row (and not the artificial row used during two-phase optimization, which
// stays a plain scalar LinearExpression) carries symbolic-weighted terms.
// It mirrors LinearExpression's shape and keeps the same ascending-identity
// term order for deterministic Bland scans.
type objectiveRow struct {
	constant SymbolicWeight
	terms    []weightedTerm
}

func (o *objectiveRow) find(id VarID) (int, bool) {
	i := sort.Search(len(o.terms), func(i int) bool { return !o.terms[i].ID.Less(id) })
	if i < len(o.terms) && o.terms[i].ID == id {
		return i, true
	}
	return i, false
}

func (o *objectiveRow) deleteAt(idx int) {
	o.terms = append(o.terms[:idx], o.terms[idx+1:]...)
}

// Coefficient returns the symbolic weight attached to id, or the zero
// weight if id does not appear in the row.
func (o *objectiveRow) Coefficient(id VarID) SymbolicWeight {
	idx, ok := o.find(id)
	if !ok {
		return SymbolicWeight{}
	}
	return o.terms[idx].Weight
}

// AddVariable adds w to the weight of id, dropping the term if the result
// is approximately the zero vector.
func (o *objectiveRow) AddVariable(id VarID, w SymbolicWeight) {
	idx, ok := o.find(id)
	if ok {
		sum := o.terms[idx].Weight.Add(w)
		if sum.IsZero() {
			o.deleteAt(idx)
			return
		}
		o.terms[idx].Weight = sum
		return
	}
	if w.IsZero() {
		return
	}
	o.terms = append(o.terms, weightedTerm{})
	copy(o.terms[idx+1:], o.terms[idx:])
	o.terms[idx] = weightedTerm{ID: id, Weight: w}
}

// AddExpression adds k·other to o, constant included, term by term. Folding
// in other's constant matters when other is a basic variable's defining row
// being substituted in (or, with k negated, removed) wholesale: the row's
// constant carries part of the weighted contribution too.
func (o *objectiveRow) AddExpression(other LinearExpression, k SymbolicWeight) {
	o.constant = o.constant.Add(k.Scale(other.constant))
	for _, t := range other.terms {
		o.AddVariable(t.ID, k.Scale(t.Coeff))
	}
}

// Substitute replaces every occurrence of id in o with repl (a plain scalar
// row), i.e. o ← o + (o.weight[id])·repl − (o.weight[id])·id.
func (o *objectiveRow) Substitute(id VarID, repl LinearExpression) {
	idx, ok := o.find(id)
	if !ok {
		return
	}
	w := o.terms[idx].Weight
	o.deleteAt(idx)
	o.constant = o.constant.Add(w.Scale(repl.constant))
	for _, t := range repl.terms {
		o.AddVariable(t.ID, w.Scale(t.Coeff))
	}
}
