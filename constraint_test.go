package cassowary

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewEquationDefaultsToRequired(t *testing.T) {
	g := &idGenerator{}
	x := g.new(External)

	c := NewEquation(NewLinearExpression(0, Term{ID: x, Coeff: 1}))
	require.Equal(t, Equation, c.Kind())
	require.True(t, c.Strength().IsRequired())
	require.Equal(t, 1.0, c.Weight())
}

func TestConstraintOptionsOverrideStrengthAndWeight(t *testing.T) {
	g := &idGenerator{}
	x := g.new(External)

	c := NewInequality(
		NewLinearExpression(0, Term{ID: x, Coeff: 1}),
		WithStrength(StrongStrength),
		WithWeight(2.5),
	)
	require.Equal(t, Inequality, c.Kind())
	require.Equal(t, StrongStrength, c.Strength())
	require.Equal(t, 2.5, c.Weight())
}

func TestConstraintSatisfiedEquation(t *testing.T) {
	g := &idGenerator{}
	x := g.new(External)

	c := NewEquation(NewLinearExpression(-5, Term{ID: x, Coeff: 1}))
	require.True(t, c.Satisfied(func(VarID) float64 { return 5 }))
	require.False(t, c.Satisfied(func(VarID) float64 { return 4 }))
}

func TestConstraintSatisfiedInequality(t *testing.T) {
	g := &idGenerator{}
	x := g.new(External)

	c := NewInequality(NewLinearExpression(0, Term{ID: x, Coeff: 1}))
	require.True(t, c.Satisfied(func(VarID) float64 { return 0 }))
	require.True(t, c.Satisfied(func(VarID) float64 { return 1 }))
	require.False(t, c.Satisfied(func(VarID) float64 { return -1 }))
}

func TestEditAndStayConstraintExpression(t *testing.T) {
	g := &idGenerator{}
	x := g.new(External)

	edit := newEditConstraint(x, StrongStrength, 1)
	require.Equal(t, EditKind, edit.Kind())
	require.Equal(t, 0.0, edit.Expression().Evaluate(func(VarID) float64 { return 0 }))

	stay := newStayConstraint(x, 42, WeakStrength, 1)
	require.Equal(t, StayKind, stay.Kind())
	require.Equal(t, 42.0, stay.Expression().Evaluate(func(VarID) float64 { return 0 }))
	require.Equal(t, 0.0, stay.Expression().Evaluate(func(VarID) float64 { return 42 }))
}
