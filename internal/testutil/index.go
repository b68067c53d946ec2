package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/index"
	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/ir"
)

// FrozenIndex builds an index from cmds, runs conflict detection and fails
// the test if the fixture has conflicts.
func FrozenIndex(t testing.TB, cmds ...*ir.Command) *index.Index {
	t.Helper()
	ix := index.New()
	require.NoError(t, ix.AddCommands(cmds...))
	require.False(t, ix.FindConflicts(), "fixture must be conflict free: %v", ix.Err())
	return ix
}

// Command creates a Void command from library lib with one parameter per
// type. Its symbol is "<lib>_<name>".
func Command(t testing.TB, lib, name string, params ...ir.ParamType) *ir.Command {
	t.Helper()
	ps := make([]ir.Parameter, len(params))
	for i, p := range params {
		ps[i] = ir.Param(p, "value")
	}
	cmd, err := ir.NewCommand(name, lib+"_"+name, ir.Void, ps, ir.Provenance{Library: lib}, "")
	require.NoError(t, err)
	return cmd
}

// RandomizeFamily returns RANDOMIZE, RANDOMIZE MATRIX and RANDOMIZE MESH,
// the names whose shared prefixes exercise longest-match selection.
func RandomizeFamily() []*ir.Command {
	return []*ir.Command{
		ir.MustCommand("RANDOMIZE", "rnd", ir.Void),
		ir.MustCommand("RANDOMIZE MATRIX", "rndmatrix", ir.Void, ir.Param(ir.Integer, "id")),
		ir.MustCommand("RANDOMIZE MESH", "rndmesh", ir.Void, ir.Param(ir.Integer, "id")),
	}
}
