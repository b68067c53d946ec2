package loader

import (
	"fmt"
	"strings"

	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/ir"
)

// RawParam is one parameter as a plugin describes it.
type RawParam struct {
	Code byte // ABI type code
	Out  bool
	Name string
}

// RawRecord is a command exactly as plugin introspection reports it,
// before any type code has been interpreted.
type RawRecord struct {
	Name       string
	Symbol     string
	ReturnCode byte // 0 is read as Void
	Params     []RawParam
	Help       string
}

// Decode validates rec and builds the command it describes.
func Decode(rec RawRecord, prov ir.Provenance) (*ir.Command, error) {
	name := strings.TrimSpace(rec.Name)
	if err := validateName(name); err != nil {
		return nil, err
	}

	ret := ir.Void
	if rec.ReturnCode != 0 {
		t, err := ir.ParseTypeCode(rec.ReturnCode)
		if err != nil {
			return nil, &LoadError{
				Code:    ErrCodeUnknownType,
				Field:   name + ": return",
				Message: err.Error(),
			}
		}
		ret = t
	}

	params := make([]ir.Parameter, len(rec.Params))
	for i, rp := range rec.Params {
		t, err := ir.ParseTypeCode(rp.Code)
		if err != nil {
			return nil, &LoadError{
				Code:    ErrCodeUnknownType,
				Field:   fmt.Sprintf("%s: param %d", name, i+1),
				Message: err.Error(),
			}
		}
		if t == ir.Void {
			return nil, &LoadError{
				Code:    ErrCodeVoidParam,
				Field:   fmt.Sprintf("%s: param %d", name, i+1),
				Message: "Void is only valid as a return type",
			}
		}
		params[i] = ir.Parameter{Type: t, Name: strings.TrimSpace(rp.Name)}
		if rp.Out {
			params[i].Direction = ir.Out
		}
	}

	return ir.NewCommand(name, strings.TrimSpace(rec.Symbol), ret, params, prov, strings.TrimSpace(rec.Help))
}

// validateName restricts names to printable ASCII starting with a letter.
// The matcher folds case byte by byte, which is only correct for ASCII.
func validateName(name string) error {
	if name == "" {
		return &LoadError{
			Code:    ErrCodeEmptyName,
			Field:   "name",
			Message: "command name is required",
		}
	}
	c := name[0]
	if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
		return &LoadError{
			Code:    ErrCodeInvalidName,
			Field:   "name",
			Message: fmt.Sprintf("command name %q must start with a letter", name),
		}
	}
	for i := 0; i < len(name); i++ {
		if name[i] < 0x20 || name[i] > 0x7e {
			return &LoadError{
				Code:    ErrCodeInvalidName,
				Field:   "name",
				Message: fmt.Sprintf("command name %q contains non-printable or non-ASCII byte at offset %d", name, i),
			}
		}
	}
	return nil
}
