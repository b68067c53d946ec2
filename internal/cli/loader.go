package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/index"
	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/ir"
	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/loader"
	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/store"
)

// CommandSet is a frozen index together with where its commands came from.
type CommandSet struct {
	Index *index.Index
	Files []string     // sources read; empty when loaded from the catalog
	Build *store.Build // catalog build; nil when loaded from sources
}

// loadCommandSet builds a frozen index for a command.
//
// Sources win: explicit sources (arguments, then --source or config) are
// loaded from disk. With no sources the latest catalog build is used.
// Load and catalog failures are reported through f and returned as an
// ExitError with ExitCommandError. Conflicts are left for the caller; use
// requireNoConflicts before matching or resolving against the index.
func loadCommandSet(ctx context.Context, opts *RootOptions, f *OutputFormatter, sources []string) (*CommandSet, error) {
	if len(sources) == 0 {
		sources = opts.Sources
	}

	var (
		cmds []*ir.Command
		set  = &CommandSet{}
	)
	switch {
	case len(sources) > 0:
		l := loader.New(loader.WithMode(opts.LoadMode), loader.WithLogger(opts.log()))
		result, errs := l.Load(sources...)
		if len(errs) > 0 {
			return nil, reportLoadErrors(f, errs)
		}
		cmds = result.Commands
		set.Files = result.Files
		f.VerboseLog("Loaded %d command(s) from %d file(s)", len(cmds), len(result.Files))

	case opts.Catalog != "":
		build, loaded, err := loadLatestBuild(ctx, opts.Catalog)
		if err != nil {
			_ = f.Error(ErrCodeCatalog, err.Error(), nil)
			return nil, WrapExitError(ExitCommandError, "failed to read catalog", err)
		}
		cmds = loaded
		set.Build = &build
		f.VerboseLog("Loaded %d command(s) from catalog build %s", len(cmds), build.ID)

	default:
		msg := "no command sources: pass --source, set sources in odbcmd.yaml, or set --catalog"
		_ = f.Error(ErrCodeNoSources, msg, nil)
		return nil, NewExitError(ExitCommandError, msg)
	}

	set.Index = index.New(index.WithLogger(opts.log()))
	if err := set.Index.AddCommands(cmds...); err != nil {
		_ = f.Error(ErrCodeGeneric, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "failed to build index", err)
	}
	set.Index.FindConflicts()
	return set, nil
}

// requireNoConflicts rejects an index with conflicting commands. Such an
// index cannot be used for matching or resolution.
func requireNoConflicts(f *OutputFormatter, set *CommandSet) error {
	conflicts := set.Index.Conflicts()
	if len(conflicts) == 0 {
		return nil
	}
	details := make([]string, len(conflicts))
	for i, c := range conflicts {
		details[i] = c.Err().Error()
	}
	msg := fmt.Sprintf("%d conflicting command(s) in index", len(conflicts))
	if f.JSON() {
		_ = f.Error(index.ErrCodeConflict, msg, details)
	} else {
		_ = f.Error(index.ErrCodeConflict, msg, nil)
		for _, d := range details {
			fmt.Fprintf(f.Writer, "  %s\n", d)
		}
	}
	return WrapExitError(ExitFailure, "index has conflicts", set.Index.Err())
}

// loadLatestBuild reads the newest build from an existing catalog.
func loadLatestBuild(ctx context.Context, path string) (store.Build, []*ir.Command, error) {
	st, err := openCatalog(path, false)
	if err != nil {
		return store.Build{}, nil, err
	}
	defer st.Close()

	build, err := st.LatestBuild(ctx)
	if err != nil {
		return store.Build{}, nil, err
	}
	cmds, err := st.LoadCommands(ctx, build.ID)
	if err != nil {
		return store.Build{}, nil, err
	}
	return build, cmds, nil
}

// openCatalog opens the catalog at path. Unless create is set the file must
// already exist, so a mistyped path is not silently created empty.
func openCatalog(path string, create bool) (*store.Store, error) {
	if path == "" {
		return nil, errors.New("no catalog configured: pass --catalog or set catalog in odbcmd.yaml")
	}
	if !create {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("catalog not found: %s", path)
		}
	}
	return store.Open(path)
}

// reportLoadErrors prints every loader error and returns the exit error.
func reportLoadErrors(f *OutputFormatter, errs []error) error {
	details := make([]string, len(errs))
	for i, err := range errs {
		details[i] = err.Error()
	}

	code := loader.ErrorCode(errs[0])
	if code == "" {
		code = ErrCodeGeneric
	}
	if f.JSON() {
		_ = f.Error(code, fmt.Sprintf("%d source error(s)", len(errs)), details)
	} else {
		w := f.GetErrWriter()
		for _, d := range details {
			fmt.Fprintln(w, d)
		}
	}
	return WrapExitError(ExitCommandError, "failed to load sources", errors.Join(errs...))
}
