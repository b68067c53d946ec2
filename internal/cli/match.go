package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/matcher"
)

// MatchResult holds the outcome of the match command.
type MatchResult struct {
	Input     string   `json:"input"`
	Length    int      `json:"length"`
	Exact     bool     `json:"exact"`
	Command   string   `json:"command,omitempty"`   // matched text, when exact
	Overloads []string `json:"overloads,omitempty"` // signatures of the matched name
}

// NewMatchCommand creates the match command.
func NewMatchCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match <text...>",
		Short: "Find the longest command name at the start of some source text",
		Long: `Find the longest command name that the given text starts with, the way
the lexer does when it meets a keyword. Arguments are joined with spaces.

Exit codes:
  0 - A command name matched
  1 - No command name matched
  2 - Command error

Examples:
  odbcmd match -s ./plugins "randomize matrix 1"
  odbcmd match -s ./plugins make object cube 1, 10`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(rootOpts, strings.Join(args, " "), cmd)
		},
	}
	return cmd
}

func runMatch(opts *RootOptions, input string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	set, err := loadCommandSet(cmd.Context(), opts, formatter, nil)
	if err != nil {
		return err
	}
	if err := requireNoConflicts(formatter, set); err != nil {
		return err
	}

	m := matcher.New(set.Index)
	match := m.FindLongestMatching(input)
	result := MatchResult{Input: input, Length: match.Length, Exact: match.Exact}
	if match.Exact {
		result.Command = input[:match.Length]
		for _, c := range set.Index.Lookup(result.Command) {
			result.Overloads = append(result.Overloads, c.Signature())
		}
	}
	opts.log().Debug("matched", "input", input, "length", match.Length, "exact", match.Exact)

	if formatter.JSON() {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		w := cmd.OutOrStdout()
		if result.Exact {
			fmt.Fprintf(w, "✓ %s (%d bytes)\n", result.Command, result.Length)
			for _, sig := range result.Overloads {
				fmt.Fprintf(w, "  %s\n", sig)
			}
		} else {
			fmt.Fprintf(w, "✗ no command; input agrees with a command name for %d byte(s)\n", result.Length)
		}
	}

	if !match.Exact {
		return NewExitError(ExitFailure, "no command matched")
	}
	return nil
}
