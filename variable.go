package cassowary

// Variable is a caller-owned external variable: the only kind of variable
// whose value is ever read back out of the solver. It is created by
// Solver.NewVariable and remains associated with that solver for its
// lifetime; using a Variable with a different Solver produces nonsense
// results rather than a reported error, since VarID alone does not carry
// enough information to detect the mismatch.
type Variable struct {
	id    VarID
	name  string
	value float64
}

// ID returns the variable's solver-scoped identity, for building
// LinearExpression terms directly.
func (v *Variable) ID() VarID { return v.id }

// Value returns the variable's value as of the most recent Solve, Resolve,
// AddConstraint or RemoveConstraint call on its solver.
func (v *Variable) Value() float64 { return v.value }

// Term builds a Term referencing v with the given coefficient.
func (v *Variable) Term(coeff float64) Term { return Term{ID: v.id, Coeff: coeff} }

// Name returns the caller-supplied label passed to NewVariable, or the
// empty string if none was given.
func (v *Variable) Name() string { return v.name }

func (v *Variable) String() string {
	if v.name != "" {
		return v.name
	}
	return v.id.String()
}
