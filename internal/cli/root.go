package cli

import (
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/config"
	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/loader"
)

// RootOptions holds global flags for all commands, merged with the config
// file in PersistentPreRunE.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	Sources    []string
	Catalog    string
	LoadMode   loader.LoadMode

	// Logger writes diagnostics to stderr. Set by PersistentPreRunE.
	Logger *log.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{config.FormatText, config.FormatJSON}

// NewRootCommand creates the root command for the odbcmd CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "odbcmd",
		Short: "odbcmd - plugin command index for OpenDarkBASIC",
		Long: `Inspect the plugin commands an OpenDarkBASIC build can call.

Commands are loaded from YAML or CUE manifests and plugin string tables,
indexed by name, and resolved against argument types exactly as the
compiler does. A SQLite catalog can keep finalized builds between runs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", config.FormatText, "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ./odbcmd.yaml)")
	cmd.PersistentFlags().StringSliceVarP(&opts.Sources, "source", "s", nil, "command manifest file or directory (repeatable)")
	cmd.PersistentFlags().StringVar(&opts.Catalog, "catalog", "", "SQLite command catalog path")

	// Add subcommands
	cmd.AddCommand(NewIndexCommand(opts))
	cmd.AddCommand(NewMatchCommand(opts))
	cmd.AddCommand(NewResolveCommand(opts))
	cmd.AddCommand(NewDumpCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewCatalogCommand(opts))

	return cmd
}

// setup merges the config file under the flags and builds the logger.
// Flags explicitly set on the command line win over config values.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	cfg, path, err := config.Load(config.LoadOptions{ConfigFilePath: o.ConfigPath})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	flags := cmd.Flags()
	if !flags.Changed("format") {
		o.Format = cfg.Format
	}
	if !flags.Changed("source") {
		o.Sources = cfg.Sources
	}
	if !flags.Changed("catalog") {
		o.Catalog = cfg.Catalog
	}
	o.LoadMode = cfg.Mode()

	if !isValidFormat(o.Format) {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}

	level := cfg.Level()
	if o.Verbose {
		level = log.DebugLevel
	}
	o.Logger = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Prefix: "odbcmd",
		Level:  level,
	})
	if path != "" {
		o.Logger.Debug("using config file", "path", path)
	}
	return nil
}

// log returns the logger, or a discarding one when the command runs without
// the root command's PersistentPreRunE.
func (o *RootOptions) log() *log.Logger {
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o.Logger
}

// formatter returns an OutputFormatter writing to cmd's streams.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
