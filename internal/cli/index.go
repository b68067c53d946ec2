package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/store"
)

// IndexOptions holds flags for the index command.
type IndexOptions struct {
	*RootOptions
	Save  bool   // save the index to the catalog
	Label string // build label
}

// ConflictInfo describes one index conflict.
type ConflictInfo struct {
	Signature string `json:"signature"`
	First     string `json:"first"`
	Second    string `json:"second"`
	Message   string `json:"message"`
}

// IndexResult holds the outcome of the index command.
type IndexResult struct {
	Files     []string       `json:"files,omitempty"`
	Commands  int            `json:"commands"`
	Names     int            `json:"names"`
	Conflicts []ConflictInfo `json:"conflicts"`
	Build     *store.Build   `json:"build,omitempty"`
	Created   bool           `json:"created,omitempty"`
}

// NewIndexCommand creates the index command.
func NewIndexCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IndexOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "index [sources...]",
		Short: "Load command sources and check them for conflicts",
		Long: `Load command manifests and string tables, build the command index and
report every pair of commands exporting the same signature.

With --save a conflict-free index is stored in the catalog as a new build,
unless the latest build already holds the same commands.

Exit codes:
  0 - Index built without conflicts
  1 - One or more conflicts
  2 - Command error (unreadable sources, catalog errors, etc.)

Examples:
  odbcmd index ./plugins
  odbcmd index ./plugins --save --catalog odb.db --label nightly
  odbcmd index core.yaml matrix.cue --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Save, "save", false, "save the index to the catalog")
	cmd.Flags().StringVar(&opts.Label, "label", "", "label for the saved build")

	return cmd
}

func runIndex(opts *IndexOptions, args []string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := opts.formatter(cmd)

	set, err := loadCommandSet(ctx, opts.RootOptions, formatter, args)
	if err != nil {
		return err
	}
	ix := set.Index

	result := IndexResult{
		Files:     set.Files,
		Commands:  ix.Len(),
		Names:     len(ix.Names()),
		Conflicts: make([]ConflictInfo, 0, len(ix.Conflicts())),
		Build:     set.Build,
	}
	for _, c := range ix.Conflicts() {
		result.Conflicts = append(result.Conflicts, ConflictInfo{
			Signature: c.First.Signature(),
			First:     c.First.Provenance.String(),
			Second:    c.Second.Provenance.String(),
			Message:   c.Err().Error(),
		})
	}

	if len(result.Conflicts) == 0 && opts.Save {
		st, err := openCatalog(opts.Catalog, true)
		if err != nil {
			_ = formatter.Error(ErrCodeCatalog, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to open catalog", err)
		}
		defer st.Close()

		build, created, err := st.SaveBuild(ctx, ix.Commands(), opts.Label)
		if err != nil {
			_ = formatter.Error(ErrCodeCatalog, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to save build", err)
		}
		result.Build = &build
		result.Created = created
		opts.log().Info("saved build", "id", build.ID, "commands", build.CommandCount, "created", created)
	}

	if formatter.JSON() {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		printIndexResult(cmd, result, opts.Save)
	}

	if len(result.Conflicts) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("index has %d conflict(s)", len(result.Conflicts)))
	}
	return nil
}

func printIndexResult(cmd *cobra.Command, result IndexResult, save bool) {
	w := cmd.OutOrStdout()
	if len(result.Files) > 0 {
		fmt.Fprintf(w, "Indexed %d command(s), %d name(s), from %d file(s)\n",
			result.Commands, result.Names, len(result.Files))
	} else {
		fmt.Fprintf(w, "Indexed %d command(s), %d name(s)\n", result.Commands, result.Names)
	}

	if len(result.Conflicts) > 0 {
		fmt.Fprintf(w, "\n✗ %d conflict(s):\n", len(result.Conflicts))
		for _, c := range result.Conflicts {
			fmt.Fprintf(w, "  %s\n", c.Message)
		}
		return
	}
	fmt.Fprintln(w, "✓ No conflicts")

	if save && result.Build != nil {
		if result.Created {
			fmt.Fprintf(w, "✓ Saved build %s\n", result.Build.ID)
		} else {
			fmt.Fprintf(w, "✓ Catalog up to date (build %s)\n", result.Build.ID)
		}
	}
}
