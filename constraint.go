package cassowary

// ConstraintKind distinguishes the four constraint value-object shapes the
// data model describes.
type ConstraintKind uint8

const (
	// Equation constraints require expr == 0.
	Equation ConstraintKind = iota
	// Inequality constraints require expr >= 0.
	Inequality
	// EditKind marks a variable as dynamically suggestible; its
	// implicit expression is editValue - v == 0.
	EditKind
	// StayKind marks a variable as preferring to keep its prior
	// value; its implicit expression is stayValue - v == 0.
	StayKind
)

// Constraint is an immutable value object: an equality or inequality over a
// LinearExpression, or an edit/stay preference bound to a single variable,
// each carrying a Strength and a per-constraint weight multiplier.
//
// Equality/inequality constraints are built with NewEquation/NewInequality;
// edit/stay constraints are only ever constructed by the Solver itself (via
// AddEditVar/AddStay), since their implicit expression depends on solver
// state (the variable's current value, or the live edit target) rather than
// on anything the caller supplies directly.
type Constraint struct {
	kind     ConstraintKind
	expr     LinearExpression // Equation / Inequality
	variable VarID            // EditKind / StayKind
	target   float64          // EditKind / StayKind: the value v should equal
	strength Strength
	weight   float64
}

// NewEquation builds a required-by-default equality constraint `expr == 0`.
// Use WithStrength/WithWeight to adjust.
func NewEquation(expr LinearExpression, opts ...ConstraintOption) Constraint {
	return newConstraint(Equation, expr, opts...)
}

// NewInequality builds a required-by-default inequality constraint
// `expr >= 0`. Use WithStrength/WithWeight to adjust.
func NewInequality(expr LinearExpression, opts ...ConstraintOption) Constraint {
	return newConstraint(Inequality, expr, opts...)
}

func newConstraint(kind ConstraintKind, expr LinearExpression, opts ...ConstraintOption) Constraint {
	c := Constraint{kind: kind, expr: expr, strength: Required, weight: 1}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func newEditConstraint(v VarID, strength Strength, weight float64) Constraint {
	return Constraint{kind: EditKind, variable: v, strength: strength, weight: weight}
}

func newStayConstraint(v VarID, value float64, strength Strength, weight float64) Constraint {
	return Constraint{kind: StayKind, variable: v, target: value, strength: strength, weight: weight}
}

// ConstraintOption adjusts a Constraint at construction time.
type ConstraintOption func(*Constraint)

// WithStrength overrides a constraint's default Required strength.
func WithStrength(s Strength) ConstraintOption {
	return func(c *Constraint) { c.strength = s }
}

// WithWeight overrides a constraint's default weight of 1.
func WithWeight(w float64) ConstraintOption {
	return func(c *Constraint) { c.weight = w }
}

// Kind returns the constraint's value-object shape.
func (c Constraint) Kind() ConstraintKind { return c.kind }

// Strength returns the constraint's priority tier.
func (c Constraint) Strength() Strength { return c.strength }

// Weight returns the constraint's per-constraint scalar weight, combined
// with its Strength's symbolic weight when it contributes to the objective.
func (c Constraint) Weight() float64 { return c.weight }

// Expression returns the constraint's comparand-to-zero expression: the
// caller-supplied expression for Equation/Inequality, or the implicit
// `target - variable == 0` form for EditKind/StayKind.
func (c Constraint) Expression() LinearExpression {
	switch c.kind {
	case EditKind, StayKind:
		return NewLinearExpression(c.target, Term{ID: c.variable, Coeff: -1})
	default:
		return c.expr
	}
}

// Satisfied reports whether the constraint's expression, evaluated with the
// given value lookup, satisfies the constraint within epsilon: approximately
// zero for an equation, non-negative (down to -epsilon) for an inequality.
func (c Constraint) Satisfied(value func(VarID) float64) bool {
	v := c.Expression().Evaluate(value)
	switch c.kind {
	case Inequality:
		return v >= -epsilon
	default:
		return approxZero(v)
	}
}
