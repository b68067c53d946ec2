package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/ir"
	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/store"
)

// BuildDetail is a build with its commands.
type BuildDetail struct {
	store.Build
	Commands []CommandInfo `json:"commands"`
}

// NewCatalogCommand creates the catalog command group.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect saved command builds",
		Long: `Inspect the SQLite command catalog written by "odbcmd index --save".

Examples:
  odbcmd catalog list --catalog odb.db
  odbcmd catalog show <build-id> --name "randomize matrix"
  odbcmd catalog delete <build-id>`,
	}

	cmd.AddCommand(newCatalogListCommand(rootOpts))
	cmd.AddCommand(newCatalogShowCommand(rootOpts))
	cmd.AddCommand(newCatalogDeleteCommand(rootOpts))

	return cmd
}

func newCatalogListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved builds, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := opts.formatter(cmd)
			st, err := openCatalogFor(opts, formatter)
			if err != nil {
				return err
			}
			defer st.Close()

			builds, err := st.Builds(cmd.Context())
			if err != nil {
				return catalogError(formatter, err)
			}
			if formatter.JSON() {
				return formatter.Success(builds)
			}

			w := cmd.OutOrStdout()
			if len(builds) == 0 {
				fmt.Fprintln(w, "No builds.")
				return nil
			}
			for _, b := range builds {
				fmt.Fprintf(w, "%4d  %s  %4d command(s)  %s\n", b.Seq, b.ID, b.CommandCount, b.Label)
			}
			return nil
		},
	}
}

func newCatalogShowCommand(opts *RootOptions) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "show <build-id>",
		Short: "Show the commands of a build",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			formatter := opts.formatter(cmd)
			st, err := openCatalogFor(opts, formatter)
			if err != nil {
				return err
			}
			defer st.Close()

			build, err := st.GetBuild(ctx, args[0])
			if err != nil {
				return catalogError(formatter, err)
			}

			var cmds []*ir.Command
			if name != "" {
				cmds, err = st.FindCommands(ctx, build.ID, name)
			} else {
				cmds, err = st.LoadCommands(ctx, build.ID)
			}
			if err != nil {
				return catalogError(formatter, err)
			}

			detail := BuildDetail{Build: build, Commands: make([]CommandInfo, 0, len(cmds))}
			for _, c := range cmds {
				detail.Commands = append(detail.Commands, commandInfo(c))
			}
			if formatter.JSON() {
				return formatter.Success(detail)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Build %s (seq %d) %s\n", build.ID, build.Seq, build.Label)
			fmt.Fprintf(w, "Fingerprint %s\n\n", build.Fingerprint)
			for _, c := range detail.Commands {
				fmt.Fprintf(w, "%-50s %-24s [%s]\n", c.Signature, c.Symbol, c.Provenance)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "only show overloads of this command name")

	return cmd
}

func newCatalogDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <build-id>",
		Short: "Delete a build and its commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := opts.formatter(cmd)
			st, err := openCatalogFor(opts, formatter)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.DeleteBuild(cmd.Context(), args[0]); err != nil {
				return catalogError(formatter, err)
			}
			opts.log().Info("deleted build", "id", args[0])
			if formatter.JSON() {
				return formatter.Success(map[string]string{"deleted": args[0]})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted build %s\n", args[0])
			return nil
		},
	}
}

func openCatalogFor(opts *RootOptions, formatter *OutputFormatter) (*store.Store, error) {
	st, err := openCatalog(opts.Catalog, false)
	if err != nil {
		_ = formatter.Error(ErrCodeCatalog, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "failed to open catalog", err)
	}
	return st, nil
}

// catalogError reports err. Unknown builds are lookup failures (exit 1);
// anything else is a command error.
func catalogError(formatter *OutputFormatter, err error) error {
	_ = formatter.Error(ErrCodeCatalog, err.Error(), nil)
	if errors.Is(err, store.ErrBuildNotFound) || errors.Is(err, store.ErrNoBuilds) {
		return WrapExitError(ExitFailure, "catalog lookup failed", err)
	}
	return WrapExitError(ExitCommandError, "catalog error", err)
}
