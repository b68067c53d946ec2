package resolver

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/ir"
	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/testutil"
)

func TestResolveSingleCandidate(t *testing.T) {
	cmd := testutil.Command(t, "matrix", "RANDOMIZE MATRIX", ir.Integer)
	ix := testutil.FrozenIndex(t, cmd)

	res := Resolve(ix, "randomize matrix", []ir.ParamType{ir.Integer})
	assert.Equal(t, Unique, res.Kind)
	assert.Same(t, cmd, res.Command)
	assert.NoError(t, res.Err())
}

func TestResolvePrefersExactOverload(t *testing.T) {
	fooInt := testutil.Command(t, "core", "FOO", ir.Integer)
	fooFloat := testutil.Command(t, "core", "FOO", ir.Float)
	ix := testutil.FrozenIndex(t, fooInt, fooFloat)

	tests := []struct {
		name string
		args []ir.ParamType
		want *ir.Command
	}{
		{"integer picks integer", []ir.ParamType{ir.Integer}, fooInt},
		{"float picks float", []ir.ParamType{ir.Float}, fooFloat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(ix, "foo", tt.args)
			require.Equal(t, Unique, res.Kind)
			assert.Same(t, tt.want, res.Command)
		})
	}
}

func TestResolveNoMatchCarriesAllOverloads(t *testing.T) {
	fooInt := testutil.Command(t, "core", "FOO", ir.Integer)
	fooFloat := testutil.Command(t, "core", "FOO", ir.Float)
	ix := testutil.FrozenIndex(t, fooInt, fooFloat)

	res := Resolve(ix, "FOO", []ir.ParamType{ir.String})
	assert.Equal(t, NoMatch, res.Kind)
	assert.Nil(t, res.Command)
	assert.Equal(t, []*ir.Command{fooInt, fooFloat}, res.Candidates)

	err := res.Err()
	require.Error(t, err)
	assert.True(t, IsNoMatch(err))
	assert.False(t, IsAmbiguous(err))
	assert.False(t, IsUnknownCommand(err))
}

func TestResolveAmbiguousWhenOnlyPromotionsSurvive(t *testing.T) {
	fooInt := testutil.Command(t, "one", "FOO", ir.Integer)
	fooDword := testutil.Command(t, "two", "FOO", ir.Dword)
	ix := testutil.FrozenIndex(t, fooInt, fooDword)

	res := Resolve(ix, "foo", []ir.ParamType{ir.Byte})
	assert.Equal(t, Ambiguous, res.Kind)
	assert.Equal(t, []*ir.Command{fooInt, fooDword}, res.Candidates)
	assert.True(t, IsAmbiguous(res.Err()))
}

func TestResolveLossyPromotionIsUniqueWhenAlone(t *testing.T) {
	cmd := testutil.Command(t, "core", "POSITION OBJECT", ir.Integer, ir.Float, ir.Float, ir.Float)
	ix := testutil.FrozenIndex(t, cmd)

	res := Resolve(ix, "position object", []ir.ParamType{ir.Integer, ir.Double, ir.Integer, ir.Float})
	assert.Equal(t, Unique, res.Kind)
	assert.Same(t, cmd, res.Command)
}

func TestResolveChecksEveryArgument(t *testing.T) {
	// The first argument binds to both; only the second tells them apart.
	a := testutil.Command(t, "core", "SET", ir.Integer, ir.String)
	b := testutil.Command(t, "core", "SET", ir.Integer, ir.Float)
	ix := testutil.FrozenIndex(t, a, b)

	res := Resolve(ix, "set", []ir.ParamType{ir.Integer, ir.Float})
	require.Equal(t, Unique, res.Kind)
	assert.Same(t, b, res.Command)

	res = Resolve(ix, "set", []ir.ParamType{ir.Integer, ir.Array})
	assert.Equal(t, NoMatch, res.Kind)
}

func TestResolveFiltersByArity(t *testing.T) {
	none := testutil.Command(t, "core", "RANDOMIZE")
	one := testutil.Command(t, "core", "RANDOMIZE", ir.Integer)
	ix := testutil.FrozenIndex(t, none, one)

	assert.Same(t, none, Resolve(ix, "randomize", nil).Command)
	assert.Same(t, one, Resolve(ix, "randomize", []ir.ParamType{ir.Integer}).Command)

	res := Resolve(ix, "randomize", []ir.ParamType{ir.Integer, ir.Integer})
	assert.Equal(t, NoMatch, res.Kind)
	assert.Len(t, res.Candidates, 2)
}

func TestResolveUnknownCommand(t *testing.T) {
	ix := testutil.FrozenIndex(t, testutil.Command(t, "core", "FOO"))

	res := Resolve(ix, "frob", nil)
	assert.Equal(t, NoMatch, res.Kind)
	assert.Empty(t, res.Candidates)

	err := res.Err()
	assert.True(t, IsUnknownCommand(err))
	assert.True(t, IsNoMatch(err))
	assert.EqualError(t, err, "[E204] unknown command frob")
}

func TestResolveIsDeterministic(t *testing.T) {
	cmds := []*ir.Command{
		testutil.Command(t, "a", "FOO", ir.Integer),
		testutil.Command(t, "b", "FOO", ir.Dword),
		testutil.Command(t, "c", "FOO", ir.Word),
	}
	ix := testutil.FrozenIndex(t, cmds...)
	args := []ir.ParamType{ir.Byte}

	first := Resolve(ix, "FOO", args)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Resolve(ix, "FOO", args))
	}
	assert.Equal(t, cmds, first.Candidates)
}

func TestResolveIsCaseInsensitive(t *testing.T) {
	cmd := testutil.Command(t, "core", "Make Object Cube", ir.Integer, ir.Float)
	ix := testutil.FrozenIndex(t, cmd)
	args := []ir.ParamType{ir.Integer, ir.Float}

	for _, name := range []string{"MAKE OBJECT CUBE", "make object cube", "mAkE oBjEcT cUbE"} {
		assert.Same(t, cmd, Resolve(ix, name, args).Command, name)
	}
}

func TestResolveCopiesArgs(t *testing.T) {
	ix := testutil.FrozenIndex(t, testutil.Command(t, "core", "FOO", ir.Integer))
	args := []ir.ParamType{ir.Integer}

	res := Resolve(ix, "foo", args)
	args[0] = ir.String
	assert.Equal(t, []ir.ParamType{ir.Integer}, res.Args)
}

func TestResolveNoMatchCandidatesAreACopy(t *testing.T) {
	fooInt := testutil.Command(t, "core", "FOO", ir.Integer)
	fooFloat := testutil.Command(t, "core", "FOO", ir.Float)
	ix := testutil.FrozenIndex(t, fooInt, fooFloat)

	res := Resolve(ix, "FOO", []ir.ParamType{ir.String})
	require.Equal(t, NoMatch, res.Kind)
	res.Candidates[0], res.Candidates[1] = res.Candidates[1], res.Candidates[0]

	assert.Equal(t, []*ir.Command{fooInt, fooFloat}, ix.Lookup("foo"))
}

func TestOverloadErrorUnwrapsThroughWrapping(t *testing.T) {
	ix := testutil.FrozenIndex(t, testutil.Command(t, "one", "FOO", ir.Integer), testutil.Command(t, "two", "FOO", ir.Dword))
	err := fmt.Errorf("line 12: %w", Resolve(ix, "foo", []ir.ParamType{ir.Byte}).Err())

	var oe *OverloadError
	require.True(t, errors.As(err, &oe))
	assert.Equal(t, ErrCodeAmbiguous, oe.Code)
	assert.True(t, IsAmbiguous(err))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "unique", Unique.String())
	assert.Equal(t, "ambiguous", Ambiguous.String())
	assert.Equal(t, "no_match", NoMatch.String())
}

func TestRenderGolden(t *testing.T) {
	named := func(lib, name string, params ...ir.Parameter) *ir.Command {
		cmd, err := ir.NewCommand(name, name, ir.Void, params, ir.Provenance{Library: lib}, "")
		require.NoError(t, err)
		return cmd
	}

	tests := []struct {
		golden string
		cmds   []*ir.Command
		call   string
		args   []ir.ParamType
	}{
		{
			golden: "no_match",
			cmds: []*ir.Command{
				named("core", "FOO", ir.Param(ir.Integer, "a")),
				named("core", "FOO", ir.Param(ir.Float, "a")),
			},
			call: "foo",
			args: []ir.ParamType{ir.String},
		},
		{
			golden: "ambiguous",
			cmds: []*ir.Command{
				named("one", "FOO", ir.Param(ir.Integer, "value")),
				named("two", "FOO", ir.Param(ir.Dword, "value")),
			},
			call: "FOO",
			args: []ir.ParamType{ir.Byte},
		},
		{
			golden: "arity",
			cmds: []*ir.Command{
				named("matrix", "RANDOMIZE MATRIX", ir.Param(ir.Integer, "matrixID")),
			},
			call: "randomize matrix",
			args: nil,
		},
		{
			golden: "unknown",
			cmds:   []*ir.Command{named("core", "FOO")},
			call:   "FROB",
		},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, tt := range tests {
		t.Run(tt.golden, func(t *testing.T) {
			ix := testutil.FrozenIndex(t, tt.cmds...)
			var oe *OverloadError
			require.True(t, errors.As(Resolve(ix, tt.call, tt.args).Err(), &oe))

			var buf bytes.Buffer
			require.NoError(t, oe.Render(&buf))
			g.Assert(t, tt.golden, buf.Bytes())
		})
	}
}
