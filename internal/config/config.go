// Package config loads odbcmd settings using Viper.
//
// Settings come from, in increasing precedence: built-in defaults, an
// odbcmd.yaml (or .yml/.json/.toml) file, ODBCMD_* environment variables,
// and finally command-line flags applied by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/OpenDarkBASIC/OpenDarkBASIC-sub002/internal/loader"
)

const (
	// FileName is the config file base name searched for without an
	// explicit --config path.
	FileName = "odbcmd"
	// EnvPrefix prefixes environment overrides, e.g. ODBCMD_LOG_LEVEL.
	EnvPrefix = "ODBCMD"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Load modes, mirroring loader.LoadMode.
const (
	LoadModeFailFast   = "fail_fast"
	LoadModeCollectAll = "collect_all"
)

// Config holds odbcmd settings.
type Config struct {
	// Sources are plugin manifest files or directories. Relative paths in a
	// config file are relative to that file.
	Sources []string `mapstructure:"sources"`
	// Catalog is the SQLite command catalog path. Empty disables the catalog.
	Catalog  string `mapstructure:"catalog"`
	LogLevel string `mapstructure:"log_level"`
	Format   string `mapstructure:"format"`
	LoadMode string `mapstructure:"load_mode"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Sources:  []string{},
		LogLevel: "warn",
		Format:   FormatText,
		LoadMode: LoadModeFailFast,
	}
}

// LoadOptions controls where Load looks for a config file.
type LoadOptions struct {
	// ConfigFilePath, if set, is the only file considered and must exist.
	ConfigFilePath string
	// SearchDir is searched for FileName.* otherwise. Defaults to ".".
	SearchDir string
}

// Load reads settings and returns them with the path of the file used ("" if
// none was found).
func Load(opts LoadOptions) (*Config, string, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("sources", defaults.Sources)
	v.SetDefault("catalog", defaults.Catalog)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("format", defaults.Format)
	v.SetDefault("load_mode", defaults.LoadMode)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFilePath != "" {
		if _, err := os.Stat(opts.ConfigFilePath); err != nil {
			return nil, "", fmt.Errorf("config file not found: %s", opts.ConfigFilePath)
		}
		v.SetConfigFile(opts.ConfigFilePath)
	} else {
		dir := opts.SearchDir
		if dir == "" {
			dir = "."
		}
		v.SetConfigName(FileName)
		v.AddConfigPath(dir)
	}

	resolvedPath := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, "", fmt.Errorf("failed to read config: %w", err)
		}
		// No config file: defaults and environment only.
	} else {
		resolvedPath = v.ConfigFileUsed()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if resolvedPath != "" && v.InConfig("sources") && os.Getenv(EnvPrefix+"_SOURCES") == "" {
		base := filepath.Dir(resolvedPath)
		for i, src := range cfg.Sources {
			if !filepath.IsAbs(src) {
				cfg.Sources[i] = filepath.Join(base, src)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid config %s: %w", displayPath(resolvedPath), err)
	}
	return &cfg, resolvedPath, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	var errs []error
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	switch c.Format {
	case FormatText, FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("format: must be %q or %q, got %q", FormatText, FormatJSON, c.Format))
	}
	switch c.LoadMode {
	case LoadModeFailFast, LoadModeCollectAll:
	default:
		errs = append(errs, fmt.Errorf("load_mode: must be %q or %q, got %q", LoadModeFailFast, LoadModeCollectAll, c.LoadMode))
	}
	return errors.Join(errs...)
}

// Level returns the parsed log level. Call after Validate.
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.WarnLevel
	}
	return level
}

// Mode returns the loader mode for LoadMode.
func (c *Config) Mode() loader.LoadMode {
	if c.LoadMode == LoadModeCollectAll {
		return loader.LoadModeCollectAll
	}
	return loader.LoadModeFailFast
}

func displayPath(path string) string {
	if path == "" {
		return "(defaults)"
	}
	return path
}
