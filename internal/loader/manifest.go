package loader

import (
	"fmt"

	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/ir"
)

// manifestCommand is one command in a YAML or CUE manifest. Either Entry
// (a string-table entry) or the structured fields are set, never both.
type manifestCommand struct {
	Name    string          `yaml:"name"`
	Symbol  string          `yaml:"symbol"`
	Returns string          `yaml:"returns"`
	Params  []manifestParam `yaml:"params"`
	Help    string          `yaml:"help"`
	Entry   string          `yaml:"entry"`
}

type manifestParam struct {
	Type      string `yaml:"type"`
	Name      string `yaml:"name"`
	Direction string `yaml:"direction"`
}

// record converts the manifest form into a RawRecord. Type names are
// resolved to their ABI codes so Decode stays the only interpreter.
func (mc manifestCommand) record() (RawRecord, error) {
	if mc.Entry != "" {
		if mc.Name != "" || mc.Symbol != "" || mc.Returns != "" || len(mc.Params) > 0 {
			return RawRecord{}, &LoadError{
				Code:    ErrCodeMalformedEntry,
				Field:   "entry",
				Message: "entry cannot be combined with name, symbol, returns or params",
			}
		}
		rec, err := ParseStringTableEntry(mc.Entry)
		rec.Help = mc.Help
		return rec, err
	}

	rec := RawRecord{Name: mc.Name, Symbol: mc.Symbol, Help: mc.Help}
	if mc.Returns != "" {
		t, err := ir.ParseParamType(mc.Returns)
		if err != nil {
			return rec, &LoadError{Code: ErrCodeUnknownType, Field: mc.Name + ": returns", Message: err.Error()}
		}
		rec.ReturnCode = t.Code()
	}
	for i, mp := range mc.Params {
		field := fmt.Sprintf("%s: param %d", mc.Name, i+1)
		t, err := ir.ParseParamType(mp.Type)
		if err != nil {
			return rec, &LoadError{Code: ErrCodeUnknownType, Field: field, Message: err.Error()}
		}
		var dir ir.Direction
		if err := dir.UnmarshalText([]byte(mp.Direction)); err != nil {
			return rec, &LoadError{Code: ErrCodeMalformedEntry, Field: field, Message: err.Error()}
		}
		rec.Params = append(rec.Params, RawParam{Code: t.Code(), Out: dir == ir.Out, Name: mp.Name})
	}
	return rec, nil
}

// collector accumulates decoded commands and errors under a LoadMode.
type collector struct {
	mode LoadMode
	cmds []*ir.Command
	errs []error
}

// fail records err and reports whether loading should continue.
func (c *collector) fail(err error) bool {
	c.errs = append(c.errs, err)
	return c.mode == LoadModeCollectAll
}
