// Package config loads cc-ext configuration.
//
// Precedence, lowest to highest: built-in defaults, the user file
// (~/.cc-ext/config.toml), the project file (.cc-ext/config.toml or
// --config), CCEXT_* environment variables, and flag overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// DirName is the per-user and per-project configuration directory.
const DirName = ".cc-ext"

// FileName is the configuration file inside DirName.
const FileName = "config.toml"

// Config is the full configuration.
type Config struct {
	General GeneralConfig `toml:"general" mapstructure:"general" json:"general"`
	Logging LoggingConfig `toml:"logging" mapstructure:"logging" json:"logging"`
	Rules   RulesConfig   `toml:"rules" mapstructure:"rules" json:"rules"`
}

// GeneralConfig holds display and hook settings.
type GeneralConfig struct {
	// Language is "auto", "en" or "ja".
	Language string `toml:"language" mapstructure:"language" json:"language"`
	// ShellTool is the tool name of the shell-execution tool.
	ShellTool string `toml:"shell_tool" mapstructure:"shell_tool" json:"shell_tool"`
}

// LoggingConfig controls the diagnostic logger.
type LoggingConfig struct {
	Level string `toml:"level" mapstructure:"level" json:"level"`
	// File receives log output; empty means stderr.
	File string `toml:"file" mapstructure:"file" json:"file"`
}

// RulesConfig controls which rule catalogs are loaded.
type RulesConfig struct {
	// File is a TOML rule catalog merged after the built-in rules.
	File string `toml:"file" mapstructure:"file" json:"file"`
	// Builtin includes the built-in catalog.
	Builtin bool `toml:"builtin" mapstructure:"builtin" json:"builtin"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Language:  "auto",
			ShellTool: "Bash",
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
		Rules: RulesConfig{
			Builtin: true,
		},
	}
}

// LoadOptions controls Load.
type LoadOptions struct {
	// ProjectDir is the project root; empty means the working directory.
	ProjectDir string
	// ConfigPath overrides the project config file path.
	ConfigPath string
	// FlagOverrides are applied last, keyed by dotted config key.
	FlagOverrides map[string]any
}

var envBindings = map[string]string{
	"general.language":   "CCEXT_LANGUAGE",
	"general.shell_tool": "CCEXT_SHELL_TOOL",
	"logging.level":      "CCEXT_LOG_LEVEL",
	"logging.file":       "CCEXT_LOG_FILE",
	"rules.file":         "CCEXT_RULES_FILE",
	"rules.builtin":      "CCEXT_RULES_BUILTIN",
}

// Load reads configuration with full precedence applied and validates it.
func Load(opts LoadOptions) (Config, error) {
	v := viper.New()
	setDefaults(v)

	project := opts.ProjectDir
	if project == "" {
		if wd, err := os.Getwd(); err == nil {
			project = wd
		}
	}

	userPath, projectPath := ConfigPaths(project, opts.ConfigPath)
	if err := mergeConfigFile(v, userPath); err != nil {
		return Config{}, err
	}
	if err := mergeConfigFile(v, projectPath); err != nil {
		return Config{}, err
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	for key, val := range opts.FlagOverrides {
		v.Set(key, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("general.language", d.General.Language)
	v.SetDefault("general.shell_tool", d.General.ShellTool)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("rules.file", d.Rules.File)
	v.SetDefault("rules.builtin", d.Rules.Builtin)
}

// mergeConfigFile merges a TOML file into v. Empty or missing paths are no-ops.
func mergeConfigFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("config path %s is a directory", path)
	}

	var values map[string]any
	if _, err := toml.DecodeFile(path, &values); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := v.MergeConfigMap(values); err != nil {
		return fmt.Errorf("merge config %s: %w", path, err)
	}
	return nil
}

// ConfigPaths returns the user and project config file paths.
func ConfigPaths(projectDir, override string) (string, string) {
	home, _ := os.UserHomeDir()
	userPath := ""
	if home != "" {
		userPath = filepath.Join(home, DirName, FileName)
	}
	return userPath, projectConfigPath(projectDir, override)
}

func projectConfigPath(projectDir, override string) string {
	if override != "" {
		return override
	}
	return filepath.Join(projectDir, DirName, FileName)
}

// Validate checks enum-valued settings.
func Validate(cfg Config) error {
	var problems []string

	switch strings.ToLower(cfg.General.Language) {
	case "auto", "en", "ja":
	default:
		problems = append(problems, fmt.Sprintf("general.language must be auto, en or ja (got %q)", cfg.General.Language))
	}
	if strings.TrimSpace(cfg.General.ShellTool) == "" {
		problems = append(problems, "general.shell_tool must not be empty")
	}
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("logging.level must be debug, info, warn or error (got %q)", cfg.Logging.Level))
	}

	if len(problems) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}
