// Package config loads producer settings with Viper: built-in defaults, then
// an optional YAML file, then PRODUCER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mj1618/producer/internal/apps"
	"github.com/mj1618/producer/internal/bridge"
	"github.com/mj1618/producer/internal/platform"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "producer"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// EnvPrefix prefixes environment overrides, e.g. PRODUCER_DEFAULT_APP.
	EnvPrefix = "PRODUCER"
)

// Size mirrors platform.Size with config tags.
type Size struct {
	Width  int `mapstructure:"width"  yaml:"width"  json:"width"`
	Height int `mapstructure:"height" yaml:"height" json:"height"`
}

func (s Size) Platform() platform.Size {
	return platform.Size{Width: s.Width, Height: s.Height}
}

// Config holds every producer setting.
type Config struct {
	DefaultApp         string        `mapstructure:"default_app"          yaml:"default_app"          json:"default_app"`
	Osascript          string        `mapstructure:"osascript"            yaml:"osascript"            json:"osascript"`
	LaunchDelay        time.Duration `mapstructure:"launch_delay"         yaml:"launch_delay"         json:"launch_delay"`
	SettleDelay        time.Duration `mapstructure:"settle_delay"         yaml:"settle_delay"         json:"settle_delay"`
	DefaultDuration    float64       `mapstructure:"default_duration"     yaml:"default_duration"     json:"default_duration"`
	FallbackScreen     Size          `mapstructure:"fallback_screen"      yaml:"fallback_screen"      json:"fallback_screen"`
	WindowSize         Size          `mapstructure:"window_size"          yaml:"window_size"          json:"window_size"`
	WarnOnFallback     bool          `mapstructure:"warn_on_fallback"     yaml:"warn_on_fallback"     json:"warn_on_fallback"`
	CloseClearsCurrent bool          `mapstructure:"close_clears_current" yaml:"close_clears_current" json:"close_clears_current"`
	EscapeText         bool          `mapstructure:"escape_text"          yaml:"escape_text"          json:"escape_text"`
	// Terminals are extra app names driven by the Terminal handler.
	Terminals []string `mapstructure:"terminals" yaml:"terminals,omitempty" json:"terminals,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DefaultApp:      apps.DefaultTerminal,
		Osascript:       bridge.DefaultPath,
		LaunchDelay:     2 * time.Second,
		SettleDelay:     time.Second,
		DefaultDuration: 0.5,
		FallbackScreen:  Size{Width: platform.FallbackScreen.Width, Height: platform.FallbackScreen.Height},
		WindowSize:      Size{Width: platform.DefaultWindow.Width, Height: platform.DefaultWindow.Height},
	}
}

// Dir returns $XDG_CONFIG_HOME/producer, defaulting to ~/.config/producer.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, AppName), nil
}

// Load reads the configuration. An explicit path must exist; otherwise the
// config directory is searched and a missing file means defaults. It returns
// the resolved file path, or "" when no file was read.
func Load(path string) (Config, string, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, "", fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		dir, err := Dir()
		if err != nil {
			return Config{}, "", err
		}
		v.SetConfigName(ConfigFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, "", fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, "", fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, "", err
	}
	return cfg, v.ConfigFileUsed(), nil
}

// Validate rejects values no run could use.
func (c Config) Validate() error {
	switch {
	case c.DefaultApp == "":
		return errors.New("config: default_app must not be empty")
	case c.LaunchDelay < 0 || c.SettleDelay < 0:
		return errors.New("config: delays must not be negative")
	case c.DefaultDuration < 0:
		return errors.New("config: default_duration must not be negative")
	case c.WindowSize.Width <= 0 || c.WindowSize.Height <= 0:
		return fmt.Errorf("config: invalid window_size %dx%d", c.WindowSize.Width, c.WindowSize.Height)
	case c.FallbackScreen.Width <= 0 || c.FallbackScreen.Height <= 0:
		return fmt.Errorf("config: invalid fallback_screen %dx%d", c.FallbackScreen.Width, c.FallbackScreen.Height)
	}
	return nil
}

// TerminalOptions maps the config onto handler options.
func (c Config) TerminalOptions() apps.TerminalOptions {
	return apps.TerminalOptions{
		LaunchDelay:    c.LaunchDelay,
		SettleDelay:    c.SettleDelay,
		FallbackScreen: c.FallbackScreen.Platform(),
		WindowSize:     c.WindowSize.Platform(),
		EscapeText:     c.EscapeText,
	}
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("default_app", d.DefaultApp)
	v.SetDefault("osascript", d.Osascript)
	v.SetDefault("launch_delay", d.LaunchDelay)
	v.SetDefault("settle_delay", d.SettleDelay)
	v.SetDefault("default_duration", d.DefaultDuration)
	v.SetDefault("fallback_screen.width", d.FallbackScreen.Width)
	v.SetDefault("fallback_screen.height", d.FallbackScreen.Height)
	v.SetDefault("window_size.width", d.WindowSize.Width)
	v.SetDefault("window_size.height", d.WindowSize.Height)
	v.SetDefault("warn_on_fallback", d.WarnOnFallback)
	v.SetDefault("close_clears_current", d.CloseClearsCurrent)
	v.SetDefault("escape_text", d.EscapeText)
}
