package cassowary

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSymbolicWeightLexicographicOrder(t *testing.T) {
	strong := NewSymbolicWeight(1, 0, 0)
	medium := NewSymbolicWeight(0, 1000, 0)
	weak := NewSymbolicWeight(0, 0, 1000000)

	require.Equal(t, 1, strong.Cmp(medium))
	require.Equal(t, 1, medium.Cmp(weak))
	require.Equal(t, -1, weak.Cmp(strong))
	require.Equal(t, 0, strong.Cmp(strong))
}

func TestSymbolicWeightArithmetic(t *testing.T) {
	a := NewSymbolicWeight(1, 2, 3)
	b := NewSymbolicWeight(0.5, 0.5, 0.5)

	require.Equal(t, NewSymbolicWeight(1.5, 2.5, 3.5), a.Add(b))
	require.Equal(t, NewSymbolicWeight(0.5, 1.5, 2.5), a.Sub(b))
	require.Equal(t, NewSymbolicWeight(2, 4, 6), a.Scale(2))
	require.Equal(t, NewSymbolicWeight(0.5, 1, 1.5), a.Div(2))
	require.Equal(t, NewSymbolicWeight(-1, -2, -3), a.Negate())
}

func TestSymbolicWeightDefinitelyNegative(t *testing.T) {
	require.True(t, NewSymbolicWeight(-1, 0, 0).DefinitelyNegative())
	require.True(t, NewSymbolicWeight(0, -1, 0).DefinitelyNegative())
	require.True(t, NewSymbolicWeight(0, 0, -1).DefinitelyNegative())
	require.False(t, NewSymbolicWeight(1, -1, -1).DefinitelyNegative())
	require.False(t, NewSymbolicWeight(0, 0, 0).DefinitelyNegative())
}

func TestStrengthRequiredHasZeroWeight(t *testing.T) {
	require.True(t, Required.IsRequired())
	require.True(t, Required.Weight().IsZero())

	require.False(t, StrongStrength.IsRequired())
	require.Equal(t, NewSymbolicWeight(1, 0, 0), StrongStrength.Weight())
	require.Equal(t, NewSymbolicWeight(0, 1, 0), MediumStrength.Weight())
	require.Equal(t, NewSymbolicWeight(0, 0, 1), WeakStrength.Weight())
}

func TestNewStrengthCustomWeight(t *testing.T) {
	s := NewStrength("custom", NewSymbolicWeight(2, 3, 4))
	require.False(t, s.IsRequired())
	require.Equal(t, "custom", s.String())
	require.Equal(t, NewSymbolicWeight(2, 3, 4), s.Weight())
}
