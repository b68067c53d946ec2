package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/ir"
	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/resolver"
)

// ResolveOptions holds flags for the resolve command.
type ResolveOptions struct {
	*RootOptions
	Args []string // argument types, by name or ABI code
}

// CommandInfo describes one command in CLI output.
type CommandInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Symbol     string `json:"symbol"`
	Signature  string `json:"signature"`
	Provenance string `json:"provenance"`
	HelpRef    string `json:"help_ref,omitempty"`
}

// ResolveResult holds the outcome of the resolve command.
type ResolveResult struct {
	Name       string        `json:"name"`
	Args       []string      `json:"args"`
	Kind       string        `json:"kind"`
	Command    *CommandInfo  `json:"command,omitempty"`
	Candidates []CommandInfo `json:"candidates,omitempty"`
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResolveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "resolve <name>",
		Short: "Pick the overload a call with the given argument types binds to",
		Long: `Resolve a call to a command by the static types of its arguments.

Argument types are given with --arg, in order, by name (Integer, Float,
String, ...) or by one-character plugin type code (L, F, S, ...).

Exit codes:
  0 - Exactly one overload binds
  1 - No overload binds, the call is ambiguous, or the command is unknown
  2 - Command error

Examples:
  odbcmd resolve -s ./plugins "randomize matrix" --arg Integer
  odbcmd resolve -s ./plugins foo --arg L --arg F --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.Args, "arg", "a", nil, "argument type (repeatable, in order)")

	return cmd
}

func runResolve(opts *ResolveOptions, name string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	args, err := parseArgTypes(opts.Args)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid argument types", err)
	}

	set, err := loadCommandSet(cmd.Context(), opts.RootOptions, formatter, nil)
	if err != nil {
		return err
	}
	if err := requireNoConflicts(formatter, set); err != nil {
		return err
	}

	res := resolver.Resolve(set.Index, name, args)
	opts.log().Debug("resolved", "name", name, "args", ir.FormatTypes(args), "kind", res.Kind)

	result := ResolveResult{
		Name: name,
		Args: make([]string, len(args)),
		Kind: res.Kind.String(),
	}
	for i, a := range args {
		result.Args[i] = a.String()
	}
	if res.Command != nil {
		info := commandInfo(res.Command)
		result.Command = &info
	}
	for _, c := range res.Candidates {
		result.Candidates = append(result.Candidates, commandInfo(c))
	}

	resErr := res.Err()
	var oe *resolver.OverloadError
	errors.As(resErr, &oe)

	switch {
	case formatter.JSON() && oe != nil:
		if err := formatter.Error(string(oe.Code), oe.Error(), result); err != nil {
			return err
		}
	case formatter.JSON():
		if err := formatter.Success(result); err != nil {
			return err
		}
	case oe != nil:
		if err := oe.Render(cmd.OutOrStdout()); err != nil {
			return err
		}
	default:
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "✓ %s\n", result.Command.Signature)
		fmt.Fprintf(w, "  symbol: %s\n", result.Command.Symbol)
		fmt.Fprintf(w, "  from:   %s\n", result.Command.Provenance)
	}

	if resErr != nil {
		return WrapExitError(ExitFailure, "resolution failed", resErr)
	}
	return nil
}

// parseArgTypes parses argument types by name or code.
func parseArgTypes(names []string) ([]ir.ParamType, error) {
	types := make([]ir.ParamType, len(names))
	for i, n := range names {
		t, err := ir.ParseParamType(n)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		if t == ir.Void {
			return nil, fmt.Errorf("argument %d: Void is not an argument type", i+1)
		}
		types[i] = t
	}
	return types, nil
}

func commandInfo(c *ir.Command) CommandInfo {
	return CommandInfo{
		ID:         ir.MustCommandID(c),
		Name:       c.Name,
		Symbol:     c.Symbol,
		Signature:  c.Signature(),
		Provenance: c.Provenance.String(),
		HelpRef:    c.HelpRef,
	}
}
