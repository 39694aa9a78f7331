// Package config loads xish's ambient settings: prompt format, color
// toggle, the exit-confirmation toggle, and the debug-logging default.
// These are genuinely ambient (SPEC_FULL.md §6) — nothing here is shell
// *scripting*, which remains an explicit non-goal.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is xish's runtime configuration.
type Config struct {
	PromptFormat               string `mapstructure:"prompt_format"`
	Color                      bool   `mapstructure:"color"`
	ConfirmExitWithStoppedJobs bool   `mapstructure:"confirm_exit_with_stopped_jobs"`
	Debug                      bool   `mapstructure:"debug"`
}

// DefaultPromptFormat is substituted by internal/shellenv.Prompt when no
// override is configured; {user}, {host}, {cwd} are its placeholder tokens.
const DefaultPromptFormat = "{user}@{host} {cwd} $ "

// Load reads .xishrc.yaml from $HOME and then the current directory (cwd
// wins on conflicting keys), with XISH_-prefixed environment variable
// overrides, falling back to defaults when no file is present.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("prompt_format", DefaultPromptFormat)
	v.SetDefault("color", true)
	v.SetDefault("confirm_exit_with_stopped_jobs", true)
	v.SetDefault("debug", false)

	v.SetConfigName(".xishrc")
	v.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}

	v.SetEnvPrefix("XISH")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("xish: failed to read config file: %w", err)
		}
	}

	// A .xishrc.yaml in the current directory overrides the one in $HOME.
	if cwd, err := os.Getwd(); err == nil {
		local := filepath.Join(cwd, ".xishrc.yaml")
		if _, statErr := os.Stat(local); statErr == nil {
			v.SetConfigFile(local)
			if err := v.MergeInConfig(); err != nil {
				return nil, fmt.Errorf("xish: failed to read %s: %w", local, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("xish: failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
