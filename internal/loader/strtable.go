package loader

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/ir"
)

// ParseStringTableEntry parses one plugin string-table entry:
//
//	NAME[%TYPES%SYMBOL%ARGNAMES
//
// A '[' at the end of NAME marks a command that returns a value; the first
// code in TYPES is then its return type. A '*' after a code marks an Out
// parameter. TYPES of "0" (or empty) on a non-returning command means no
// parameters. ARGNAMES is optional and comma separated; when present it
// must name every parameter.
func ParseStringTableEntry(entry string) (RawRecord, error) {
	var rec RawRecord
	parts := strings.Split(strings.TrimSpace(entry), "%")
	if len(parts) < 3 || len(parts) > 4 {
		return rec, malformed("expected NAME%%TYPES%%SYMBOL[%%ARGNAMES], got %d fields", len(parts))
	}

	name := strings.TrimSpace(parts[0])
	returns := strings.HasSuffix(name, "[")
	if returns {
		name = strings.TrimSpace(strings.TrimSuffix(name, "["))
	}
	rec.Name = name

	rec.Symbol = strings.TrimSpace(parts[2])
	if rec.Symbol == "" {
		return rec, malformed("entry %q has no symbol", name)
	}

	types := strings.TrimSpace(parts[1])
	if !returns && types == "0" {
		types = ""
	}
	for i := 0; i < len(types); i++ {
		c := types[i]
		if c == '*' {
			if len(rec.Params) == 0 {
				return rec, malformed("'*' at offset %d does not follow a parameter code", i)
			}
			rec.Params[len(rec.Params)-1].Out = true
			continue
		}
		if returns && i == 0 {
			rec.ReturnCode = c
			continue
		}
		rec.Params = append(rec.Params, RawParam{Code: c})
	}
	if returns && rec.ReturnCode == 0 {
		return rec, malformed("entry %q returns a value but has no return type code", name)
	}

	if len(parts) == 4 && strings.TrimSpace(parts[3]) != "" {
		names := strings.Split(parts[3], ",")
		if len(names) != len(rec.Params) {
			return rec, malformed("entry %q names %d arguments but has %d parameters",
				name, len(names), len(rec.Params))
		}
		for i, n := range names {
			rec.Params[i].Name = strings.TrimSpace(n)
		}
	}
	return rec, nil
}

func malformed(format string, args ...any) *LoadError {
	return &LoadError{
		Code:    ErrCodeMalformedEntry,
		Field:   "entry",
		Message: fmt.Sprintf(format, args...),
	}
}

// LoadStringTable decodes a string table, one entry per line. Blank lines
// and lines starting with '#' or ';' are skipped. Every command is
// attributed to library.
func LoadStringTable(r io.Reader, source, library string, mode LoadMode) ([]*ir.Command, []error) {
	c := &collector{mode: mode}
	prov := ir.Provenance{Library: library, Source: source}

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || text[0] == '#' || text[0] == ';' {
			continue
		}
		rec, err := ParseStringTableEntry(text)
		if err != nil {
			if !c.fail(locate(err, source, line)) {
				return c.cmds, c.errs
			}
			continue
		}
		cmd, err := Decode(rec, prov)
		if err != nil {
			if !c.fail(locate(err, source, line)) {
				return c.cmds, c.errs
			}
			continue
		}
		c.cmds = append(c.cmds, cmd)
	}
	if err := sc.Err(); err != nil {
		c.fail(&LoadError{Code: ErrCodeSource, Message: err.Error(), Source: source})
	}
	return c.cmds, c.errs
}
