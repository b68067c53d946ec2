package resolver

import (
	"fmt"

	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/ir"
)

// Promotion grades how an argument of one type binds to a parameter of
// another. The zero value is Disallow.
type Promotion uint8

const (
	// Disallow: no conversion exists.
	Disallow Promotion = iota
	// Allow: same type, or one of the lossless promotions the runtime's
	// calling convention performs natively.
	Allow
	// LossOfInfo: legal, but some source values truncate or lose precision.
	LossOfInfo
	// Strange: legal and lossless, but not something a caller would expect
	// to happen silently (unsigned widening, Boolean <-> numeric, ...).
	Strange
)

func (p Promotion) String() string {
	switch p {
	case Disallow:
		return "disallow"
	case Allow:
		return "allow"
	case LossOfInfo:
		return "loss of information"
	case Strange:
		return "strange"
	default:
		return fmt.Sprintf("Promotion(%d)", uint8(p))
	}
}

// Permitted reports whether the conversion may happen at all.
func (p Promotion) Permitted() bool {
	return p != Disallow
}

const (
	dis = Disallow
	alw = Allow
	los = LossOfInfo
	odd = Strange
)

// promotions[from][to]. Every pair is spelled out: the table documents the
// plugin calling convention and must not be derived from rules.
//
// Allow beyond identity is limited to Integer -> Long, Float -> Double and
// anything <-> Any (raw reinterpretation). Void only binds to Void;
// UserDefined only to itself and Any.
var promotions = [ir.NumParamTypes][ir.NumParamTypes]Promotion{
	//                Void Long Dwrd Int  Word Byte Bool Flt  Dbl  Str  Arr  Lbl  DLbl Any  UDT
	ir.Void:         {alw, dis, dis, dis, dis, dis, dis, dis, dis, dis, dis, dis, dis, dis, dis},
	ir.Long:         {dis, alw, los, los, los, los, odd, los, los, dis, dis, dis, dis, alw, dis},
	ir.Dword:        {dis, odd, alw, los, los, los, odd, los, odd, dis, dis, dis, dis, alw, dis},
	ir.Integer:      {dis, alw, los, alw, los, los, odd, los, odd, dis, dis, dis, dis, alw, dis},
	ir.Word:         {dis, odd, odd, odd, alw, los, odd, odd, odd, dis, dis, dis, dis, alw, dis},
	ir.Byte:         {dis, odd, odd, odd, odd, alw, odd, odd, odd, dis, dis, dis, dis, alw, dis},
	ir.Boolean:      {dis, odd, odd, odd, odd, odd, alw, odd, odd, dis, dis, dis, dis, alw, dis},
	ir.Float:        {dis, los, los, los, los, los, odd, alw, alw, dis, dis, dis, dis, alw, dis},
	ir.Double:       {dis, los, los, los, los, los, odd, los, alw, dis, dis, dis, dis, alw, dis},
	ir.String:       {dis, dis, dis, dis, dis, dis, dis, dis, dis, alw, dis, dis, dis, alw, dis},
	ir.Array:        {dis, dis, dis, dis, dis, dis, dis, dis, dis, dis, alw, dis, dis, alw, dis},
	ir.Label:        {dis, dis, dis, dis, dis, dis, dis, dis, dis, dis, dis, alw, odd, alw, dis},
	ir.DynamicLabel: {dis, dis, dis, dis, dis, dis, dis, dis, dis, dis, dis, odd, alw, alw, dis},
	ir.Any:          {dis, alw, alw, alw, alw, alw, alw, alw, alw, alw, alw, alw, alw, alw, alw},
	ir.UserDefined:  {dis, dis, dis, dis, dis, dis, dis, dis, dis, dis, dis, dis, dis, alw, alw},
}

// Promote returns how an argument of type from binds to a parameter of
// type to. Out-of-range types never bind.
func Promote(from, to ir.ParamType) Promotion {
	if !from.Valid() || !to.Valid() {
		return Disallow
	}
	return promotions[from][to]
}
