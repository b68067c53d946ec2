package index

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/ir"
)

// ErrFrozen is returned by AddCommand after FindConflicts has run.
var ErrFrozen = errors.New("command index is frozen")

// Index owns every command of a compilation and the name → overloads
// mapping derived from them.
type Index struct {
	commands  []*ir.Command            // insertion order, owned
	overloads map[string][]*ir.Command // canonical name -> overloads, insertion order
	version   uint64
	frozen    bool
	conflicts []Conflict
	logger    *log.Logger
}

// Option configures an Index.
type Option func(*Index)

// WithLogger sets the logger used for conflict reports.
func WithLogger(l *log.Logger) Option {
	return func(ix *Index) {
		if l != nil {
			ix.logger = l
		}
	}
}

// New creates an empty index.
func New(opts ...Option) *Index {
	ix := &Index{
		overloads: make(map[string][]*ir.Command),
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// AddCommand appends cmd and files it under its canonical name.
// Duplicates are kept; FindConflicts reports them.
func (ix *Index) AddCommand(cmd *ir.Command) error {
	if ix.frozen {
		return ErrFrozen
	}
	if cmd == nil {
		return errors.New("command is nil")
	}
	if strings.TrimSpace(cmd.CanonicalName) == "" {
		return fmt.Errorf("command %q: %w", cmd.Symbol, ir.ErrEmptyName)
	}

	ix.commands = append(ix.commands, cmd)
	ix.overloads[cmd.CanonicalName] = append(ix.overloads[cmd.CanonicalName], cmd)
	ix.version++
	return nil
}

// AddCommands adds each command in order, stopping at the first error.
func (ix *Index) AddCommands(cmds ...*ir.Command) error {
	for _, cmd := range cmds {
		if err := ix.AddCommand(cmd); err != nil {
			return err
		}
	}
	return nil
}

// FindConflicts compares every pair of commands sharing a canonical name
// and records a Conflict for each pair with an identical signature
// (arity, parameter types in order, return type). It returns true when at
// least one conflict exists.
//
// The first call freezes the index; later calls return the cached verdict.
// The check is quadratic per name, which is fine for real overload sets.
func (ix *Index) FindConflicts() bool {
	if ix.frozen {
		return len(ix.conflicts) > 0
	}
	ix.frozen = true

	// Walk names in first-insertion order so reports are deterministic.
	seen := make(map[string]bool, len(ix.overloads))
	for _, cmd := range ix.commands {
		if seen[cmd.CanonicalName] {
			continue
		}
		seen[cmd.CanonicalName] = true

		group := ix.overloads[cmd.CanonicalName]
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				if !group[i].SameSignature(group[j]) {
					continue
				}
				c := Conflict{First: group[i], Second: group[j]}
				ix.conflicts = append(ix.conflicts, c)
				ix.logger.Warn("conflicting command signature",
					"command", c.First.Signature(),
					"first", c.First.Provenance.String(),
					"second", c.Second.Provenance.String())
			}
		}
	}

	ix.logger.Debug("command index frozen",
		"commands", len(ix.commands),
		"names", len(ix.overloads),
		"conflicts", len(ix.conflicts))
	return len(ix.conflicts) > 0
}

// Conflicts returns the conflicts found by FindConflicts, in discovery order.
func (ix *Index) Conflicts() []Conflict {
	return slices.Clone(ix.conflicts)
}

// Err joins every conflict as a *ConflictError, or returns nil.
func (ix *Index) Err() error {
	errs := make([]error, len(ix.conflicts))
	for i, c := range ix.conflicts {
		errs[i] = c.Err()
	}
	return errors.Join(errs...)
}

// Lookup returns every overload of name in insertion order. The name is
// canonicalised first, so lookup is case-insensitive. The returned slice
// must not be modified.
func (ix *Index) Lookup(name string) []*ir.Command {
	return ix.overloads[ir.CanonicalName(name)]
}

// Commands returns all commands in insertion order. The slice must not be
// modified.
func (ix *Index) Commands() []*ir.Command {
	return ix.commands
}

// Names returns the distinct canonical names, sorted byte-wise.
func (ix *Index) Names() []string {
	names := make([]string, 0, len(ix.overloads))
	for name := range ix.overloads {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of commands, overloads included.
func (ix *Index) Len() int {
	return len(ix.commands)
}

// Version increases on every AddCommand.
func (ix *Index) Version() uint64 {
	return ix.version
}

// Frozen reports whether FindConflicts has run.
func (ix *Index) Frozen() bool {
	return ix.frozen
}
