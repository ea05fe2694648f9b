package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/randalmurphal/tagbatch/pkg/tagbatch/config"
	"github.com/randalmurphal/tagbatch/pkg/tagbatch/env"
)

// Settings are the resolved CLI settings.
type Settings struct {
	Priority  bool
	LogLevel  string
	LogFormat string
	Filter    bool
	ImportEnv bool
}

// settingFlags maps setting keys to the flags that override them.
var settingFlags = map[string]string{
	"priority":   "priority",
	"log_level":  "log-level",
	"log_format": "log-format",
	"filter":     "filter",
	"import_env": "import-env",
}

// loadSettings resolves settings with
// CLI flags > TAGBATCH_* environment > settings file > defaults precedence.
func loadSettings(cmd *cobra.Command, configPath string) (Settings, error) {
	v := viper.New()

	v.SetDefault("priority", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("filter", false)
	v.SetDefault("import_env", false)

	v.SetEnvPrefix("TAGBATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("failed to read settings file: %w", err)
		}
	}

	for key, name := range settingFlags {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return Settings{}, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	s := Settings{
		Priority:  v.GetBool("priority"),
		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		Filter:    v.GetBool("filter"),
		ImportEnv: v.GetBool("import_env"),
	}
	if err := validateSettings(s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func validateSettings(s Settings) error {
	switch s.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("log_format must be json or text, got %q", s.LogFormat)
	}
	if _, err := parseLevel(s.LogLevel); err != nil {
		return err
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", s, err)
	}
	return level, nil
}

// newLogger builds the logger the settings describe.
func newLogger(w io.Writer, s Settings) *slog.Logger {
	level, _ := parseLevel(s.LogLevel)
	opts := &slog.HandlerOptions{Level: level}
	if s.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// envFlags are the flags that describe the environment.
type envFlags struct {
	envFile    string
	properties []string
}

func (f *envFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.envFile, "env", "", "environment file with properties and items (yaml or json)")
	cmd.Flags().StringArrayVarP(&f.properties, "property", "p", nil, "property as Name=Value (repeatable)")
	cmd.Flags().Bool("import-env", false, "import process environment variables as properties")
}

// build loads the environment file, then applies -p properties, then
// imports process environment variables when enabled.
func (f *envFlags) build(fallback *config.Config, importEnv bool) (*env.Environment, error) {
	e := env.New()
	switch {
	case f.envFile != "":
		cfg, err := config.FromFile(f.envFile)
		if err != nil {
			return nil, err
		}
		if e, err = env.FromConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load environment: %w", err)
		}
	case fallback != nil:
		var err error
		if e, err = env.FromConfig(*fallback); err != nil {
			return nil, fmt.Errorf("failed to load environment: %w", err)
		}
	}

	for _, p := range f.properties {
		name, value, ok := strings.Cut(p, "=")
		if !ok || !env.ValidName(name) {
			return nil, fmt.Errorf("invalid property %q: expected Name=Value", p)
		}
		e.SetProperty(name, value)
	}

	if importEnv {
		e.LoadEnvironmentVariables(os.Environ())
	}
	return e, nil
}
