package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/ir"
)

func TestPromoteIsReflexive(t *testing.T) {
	for _, pt := range ir.AllParamTypes() {
		assert.Equal(t, Allow, Promote(pt, pt), "%s -> %s", pt, pt)
	}
}

func TestVoidOnlyBindsToVoid(t *testing.T) {
	for _, pt := range ir.AllParamTypes() {
		if pt == ir.Void {
			continue
		}
		assert.Equal(t, Disallow, Promote(ir.Void, pt), "Void -> %s", pt)
		assert.Equal(t, Disallow, Promote(pt, ir.Void), "%s -> Void", pt)
	}
}

func TestUserDefinedOnlyBindsToItselfAndAny(t *testing.T) {
	for _, pt := range ir.AllParamTypes() {
		want := Disallow
		if pt == ir.UserDefined || pt == ir.Any {
			want = Allow
		}
		assert.Equal(t, want, Promote(ir.UserDefined, pt), "UserDefined -> %s", pt)
		assert.Equal(t, want, Promote(pt, ir.UserDefined), "%s -> UserDefined", pt)
	}
}

func TestAnyAcceptsEverythingButVoid(t *testing.T) {
	for _, pt := range ir.AllParamTypes() {
		if pt == ir.Void {
			continue
		}
		assert.Equal(t, Allow, Promote(pt, ir.Any), "%s -> Any", pt)
		assert.Equal(t, Allow, Promote(ir.Any, pt), "Any -> %s", pt)
	}
}

func TestPromoteGrades(t *testing.T) {
	tests := []struct {
		from, to ir.ParamType
		want     Promotion
	}{
		{ir.Integer, ir.Long, Allow},
		{ir.Float, ir.Double, Allow},
		{ir.Long, ir.Integer, LossOfInfo},
		{ir.Dword, ir.Byte, LossOfInfo},
		{ir.Double, ir.Float, LossOfInfo},
		{ir.Float, ir.Integer, LossOfInfo},
		{ir.Integer, ir.Float, LossOfInfo},
		{ir.Integer, ir.Dword, LossOfInfo},
		{ir.Dword, ir.Integer, LossOfInfo},
		{ir.Byte, ir.Integer, Strange},
		{ir.Byte, ir.Dword, Strange},
		{ir.Word, ir.Long, Strange},
		{ir.Integer, ir.Double, Strange},
		{ir.Boolean, ir.Integer, Strange},
		{ir.Integer, ir.Boolean, Strange},
		{ir.Label, ir.DynamicLabel, Strange},
		{ir.String, ir.Float, Disallow},
		{ir.Integer, ir.String, Disallow},
		{ir.Array, ir.Integer, Disallow},
		{ir.Label, ir.Integer, Disallow},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"_to_"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Promote(tt.from, tt.to))
		})
	}
}

// Unsigned narrowing truncates; the widening direction is always permitted.
func TestPromoteNarrowingIsLossy(t *testing.T) {
	widths := []ir.ParamType{ir.Byte, ir.Word, ir.Dword}
	for i, narrow := range widths {
		for _, wide := range widths[i+1:] {
			assert.Equal(t, LossOfInfo, Promote(wide, narrow), "%s -> %s", wide, narrow)
			assert.True(t, Promote(narrow, wide).Permitted(), "%s -> %s", narrow, wide)
		}
	}
}

func TestPromoteRejectsInvalidTypes(t *testing.T) {
	bogus := ir.ParamType(200)
	assert.Equal(t, Disallow, Promote(bogus, ir.Integer))
	assert.Equal(t, Disallow, Promote(ir.Integer, bogus))
}

func TestPromotionString(t *testing.T) {
	assert.Equal(t, "allow", Allow.String())
	assert.Equal(t, "disallow", Disallow.String())
	assert.Equal(t, "loss of information", LossOfInfo.String())
	assert.Equal(t, "strange", Strange.String())
	assert.Equal(t, "Promotion(9)", Promotion(9).String())
	assert.False(t, Disallow.Permitted())
}
