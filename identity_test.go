package cassowary

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVarIDKindCapabilities(t *testing.T) {
	g := &idGenerator{}
	ext := g.new(External)
	slack := g.new(Slack)
	dummy := g.new(Dummy)

	require.True(t, ext.External())
	require.False(t, ext.Pivotable())
	require.False(t, ext.Restricted())

	require.False(t, slack.External())
	require.True(t, slack.Pivotable())
	require.True(t, slack.Restricted())

	require.False(t, dummy.Pivotable())
	require.True(t, dummy.Restricted())
	require.True(t, dummy.Dummy())
}

func TestVarIDLessIgnoresKindTag(t *testing.T) {
	g := &idGenerator{}
	a := g.new(External)
	b := g.new(Dummy)
	c := g.new(Slack)

	require.True(t, a.Less(b))
	require.True(t, b.Less(c))
	require.False(t, c.Less(a))
}

func TestInvalidVarID(t *testing.T) {
	require.False(t, InvalidVarID.Valid())
	require.False(t, InvalidVarID.External())

	g := &idGenerator{}
	first := g.new(External)
	require.NotEqual(t, InvalidVarID, first)
}
