package loader

import (
	"slices"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"

	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/ir"
)

// LoadCUE decodes a CUE manifest of the form
//
//	library: "matrix1"
//	commands: [
//		{name: "RANDOMIZE MATRIX", symbol: "RandomizeMatrix", params: [{type: "Integer", name: "matrixID"}]},
//		{entry: "GET MATRIX HEIGHT[%LL%GetMatrixHeight%matrixID"},
//	]
//
// Errors carry CUE source positions.
func LoadCUE(data []byte, source string, mode LoadMode) ([]*ir.Command, []error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(source))
	if err := v.Err(); err != nil {
		return nil, []error{formatCUEError(err)}
	}

	prov := ir.Provenance{Library: libraryName(source), Source: source}
	if lib, err := lookupString(v, "library"); err != nil {
		return nil, []error{err}
	} else if lib != "" {
		prov.Library = lib
	}

	cmdsVal := v.LookupPath(cue.ParsePath("commands"))
	if !cmdsVal.Exists() {
		return nil, []error{&LoadError{
			Code:    ErrCodeMalformedEntry,
			Field:   "commands",
			Message: "commands list is required",
			Pos:     v.Pos(),
		}}
	}
	iter, err := cmdsVal.List()
	if err != nil {
		return nil, []error{formatCUEError(err)}
	}

	c := &collector{mode: mode}
	for iter.Next() {
		item := iter.Value()
		cmd, err := decodeCUECommand(item, prov)
		if err != nil {
			if !c.fail(withPos(err, item.Pos())) {
				break
			}
			continue
		}
		c.cmds = append(c.cmds, cmd)
	}
	return c.cmds, c.errs
}

func decodeCUECommand(v cue.Value, prov ir.Provenance) (*ir.Command, error) {
	if err := checkFields(v, "name", "symbol", "returns", "help", "entry", "params"); err != nil {
		return nil, err
	}
	var mc manifestCommand
	fields := []struct {
		name string
		dst  *string
	}{
		{"name", &mc.Name},
		{"symbol", &mc.Symbol},
		{"returns", &mc.Returns},
		{"help", &mc.Help},
		{"entry", &mc.Entry},
	}
	for _, f := range fields {
		s, err := lookupString(v, f.name)
		if err != nil {
			return nil, err
		}
		*f.dst = s
	}

	paramsVal := v.LookupPath(cue.ParsePath("params"))
	if paramsVal.Exists() {
		iter, err := paramsVal.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			pv := iter.Value()
			if err := checkFields(pv, "type", "name", "direction"); err != nil {
				return nil, err
			}
			var mp manifestParam
			if mp.Type, err = lookupString(pv, "type"); err != nil {
				return nil, err
			}
			if mp.Name, err = lookupString(pv, "name"); err != nil {
				return nil, err
			}
			if mp.Direction, err = lookupString(pv, "direction"); err != nil {
				return nil, err
			}
			if mp.Type == "" {
				return nil, &LoadError{
					Code:    ErrCodeMalformedEntry,
					Field:   "type",
					Message: "parameter type is required",
					Pos:     pv.Pos(),
				}
			}
			mc.Params = append(mc.Params, mp)
		}
	}

	rec, err := mc.record()
	if err != nil {
		return nil, err
	}
	return Decode(rec, prov)
}

// checkFields rejects fields of struct v other than allowed.
func checkFields(v cue.Value, allowed ...string) error {
	iter, err := v.Fields()
	if err != nil {
		return &LoadError{
			Code:    ErrCodeMalformedEntry,
			Message: "must be a struct",
			Pos:     v.Pos(),
		}
	}
	for iter.Next() {
		label := iter.Selector().String()
		if !slices.Contains(allowed, label) {
			return &LoadError{
				Code:    ErrCodeMalformedEntry,
				Field:   label,
				Message: "unknown field",
				Pos:     iter.Value().Pos(),
			}
		}
	}
	return nil
}

// lookupString returns the string at field, or "" if it is absent.
func lookupString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", &LoadError{
			Code:    ErrCodeMalformedEntry,
			Field:   field,
			Message: "must be a string",
			Pos:     fv.Pos(),
		}
	}
	return s, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: ErrCodeSource, Message: err.Error()}
	}
	first := errs[0]
	le := &LoadError{Code: ErrCodeSource, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}
