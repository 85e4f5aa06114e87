package cassowary

import (
	"fmt"
	"sort"
)

// Term is a single coefficient attached to a variable identity within a
// LinearExpression.
type Term struct {
	ID    VarID
	Coeff float64
}

// LinearExpression is a sparse linear form constant + Σ cᵢ·vᵢ. Terms are
// kept sorted by ascending VarID so that every scan over a row (entering-
// variable search, leaving-variable search, subject selection) can walk
// candidates in stable identity order without an extra sort at each call
// site; this is what lets Bland's rule tie-break deterministically instead
// of depending on map/slice insertion order.
//
// Invariant: no coefficient is approximately zero; zero coefficients are
// dropped as soon as they arise.
type LinearExpression struct {
	constant float64
	terms    []Term
}

// NewLinearExpression builds an expression from a constant and a set of
// terms, which need not be pre-sorted or pre-deduplicated.
func NewLinearExpression(constant float64, terms ...Term) LinearExpression {
	e := LinearExpression{constant: constant}
	for _, t := range terms {
		e.AddVariable(t.ID, t.Coeff)
	}
	return e
}

// Constant returns the expression's constant term.
func (e LinearExpression) Constant() float64 { return e.constant }

// SetConstant overwrites the expression's constant term.
func (e *LinearExpression) SetConstant(c float64) { e.constant = c }

// Terms returns the expression's terms in ascending identity order. The
// returned slice must not be mutated.
func (e LinearExpression) Terms() []Term { return e.terms }

// IsConstant reports whether the expression carries no variable terms.
func (e LinearExpression) IsConstant() bool { return len(e.terms) == 0 }

// Clone returns an independent copy of e.
func (e LinearExpression) Clone() LinearExpression {
	terms := make([]Term, len(e.terms))
	copy(terms, e.terms)
	return LinearExpression{constant: e.constant, terms: terms}
}

// find returns the index of id's term and true, or the insertion point and
// false if id is not present.
func (e *LinearExpression) find(id VarID) (int, bool) {
	i := sort.Search(len(e.terms), func(i int) bool { return !e.terms[i].ID.Less(id) })
	if i < len(e.terms) && e.terms[i].ID == id {
		return i, true
	}
	return i, false
}

// Coefficient returns the coefficient of id, or 0 if id does not appear.
func (e *LinearExpression) Coefficient(id VarID) float64 {
	idx, ok := e.find(id)
	if !ok {
		return 0
	}
	return e.terms[idx].Coeff
}

func (e *LinearExpression) deleteAt(idx int) {
	e.terms = append(e.terms[:idx], e.terms[idx+1:]...)
}

// AddVariable adds c to the coefficient of v, inserting a new term in
// identity order if v was absent. If the resulting coefficient is
// approximately zero, the term is removed entirely. It reports whether a
// term for v is now absent where one was previously present (removed),
// present where none was before (added), or neither (updated in place).
// The tableau does not consult these results: tableau.go re-indexes a
// row's columns whenever the row is registered or unregistered.
func (e *LinearExpression) AddVariable(id VarID, c float64) (added, removed bool) {
	idx, ok := e.find(id)
	if ok {
		newCoeff := e.terms[idx].Coeff + c
		if approxZero(newCoeff) {
			e.deleteAt(idx)
			return false, true
		}
		e.terms[idx].Coeff = newCoeff
		return false, false
	}
	if approxZero(c) {
		return false, false
	}
	e.terms = append(e.terms, Term{})
	copy(e.terms[idx+1:], e.terms[idx:])
	e.terms[idx] = Term{ID: id, Coeff: c}
	return true, false
}

// AddExpression adds k·other to e, term by term, and scales other's
// constant by k into e's constant.
func (e *LinearExpression) AddExpression(other LinearExpression, k float64) {
	e.constant += k * other.constant
	for _, t := range other.terms {
		e.AddVariable(t.ID, k*t.Coeff)
	}
}

// Negate flips the sign of every coefficient and the constant.
func (e *LinearExpression) Negate() {
	e.constant = -e.constant
	for i := range e.terms {
		e.terms[i].Coeff = -e.terms[i].Coeff
	}
}

// Plus returns e + other.
func (e LinearExpression) Plus(other LinearExpression) LinearExpression {
	r := e.Clone()
	r.AddExpression(other, 1)
	return r
}

// Minus returns e - other.
func (e LinearExpression) Minus(other LinearExpression) LinearExpression {
	r := e.Clone()
	r.AddExpression(other, -1)
	return r
}

// Scale returns k·e.
func (e LinearExpression) Scale(k float64) LinearExpression {
	r := e.Clone()
	r.constant *= k
	for i := range r.terms {
		r.terms[i].Coeff *= k
	}
	return r
}

// Times returns e * other. Multiplying two non-constant expressions is
// nonlinear and fails with NonLinearResult; one operand must reduce to a
// bare constant.
func (e LinearExpression) Times(other LinearExpression) (LinearExpression, error) {
	switch {
	case e.IsConstant():
		return other.Scale(e.constant), nil
	case other.IsConstant():
		return e.Scale(other.constant), nil
	default:
		return LinearExpression{}, newNonLinearResultError("multiplying two non-constant expressions")
	}
}

// Div returns e / other. Dividing by a non-constant expression is nonlinear
// and fails with NonLinearResult.
func (e LinearExpression) Div(other LinearExpression) (LinearExpression, error) {
	if !other.IsConstant() {
		return LinearExpression{}, newNonLinearResultError("dividing by a non-constant expression")
	}
	if approxZero(other.constant) {
		return LinearExpression{}, newNonLinearResultError("dividing by zero")
	}
	return e.Scale(1 / other.constant), nil
}

// SolveFor rewrites e, which is understood as the RHS of "subject = e", into
// the RHS of "id = e'" instead: it deletes id's term (whose coefficient must
// be nonzero) and divides every remaining coefficient and the constant by
// -coeff, the classic Gauss-Jordan pivot step. It is a no-op if id does not
// appear in e.
func (e *LinearExpression) SolveFor(id VarID) {
	idx, ok := e.find(id)
	if !ok {
		return
	}
	coeff := -1.0 / e.terms[idx].Coeff
	e.deleteAt(idx)
	if coeff == 1.0 {
		return
	}
	e.constant *= coeff
	for i := range e.terms {
		e.terms[i].Coeff *= coeff
	}
}

// ChangeSubject rewrites e from "old = c + Σ cᵢvᵢ" (where newSubject is one
// of the vᵢ) into "newSubject = ..." with old moved onto the RHS as a term
// of its own. The same rewrite with no pre-existing LHS is just SolveFor.
func (e *LinearExpression) ChangeSubject(oldSubject, newSubject VarID) {
	e.AddVariable(oldSubject, -1)
	e.SolveFor(newSubject)
}

// Substitute replaces every occurrence of id in e with repl, i.e. performs
// e ← e + (e.coeff[id])·repl − (e.coeff[id])·id.
func (e *LinearExpression) Substitute(id VarID, repl LinearExpression) {
	idx, ok := e.find(id)
	if !ok {
		return
	}
	coeff := e.terms[idx].Coeff
	e.deleteAt(idx)
	e.AddExpression(repl, coeff)
}

// Evaluate computes e's value given a lookup of variable values, for
// diagnostics and tests.
func (e LinearExpression) Evaluate(value func(VarID) float64) float64 {
	sum := e.constant
	for _, t := range e.terms {
		sum += t.Coeff * value(t.ID)
	}
	return sum
}

func (e LinearExpression) String() string {
	s := fmt.Sprintf("%g", e.constant)
	for _, t := range e.terms {
		s += fmt.Sprintf(" + %g*%s", t.Coeff, t.ID)
	}
	return s
}
