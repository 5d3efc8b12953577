package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrNoCredentials is returned when the config carries no token pair.
var ErrNoCredentials = errors.New("no stored credentials; run `examterm login` first")

// Config holds client configuration loaded from the config file and
// EXAMTERM_* environment variables.
type Config struct {
	API  API  `mapstructure:"api"`
	Test Test `mapstructure:"test"`
	Auth Auth `mapstructure:"auth"`
	Log  Log  `mapstructure:"log"`
}

// API is the gateway section.
type API struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Test configures the assessment session.
type Test struct {
	// Duration is the fixed countdown total per attempt. Every render of
	// an active attempt restarts from this value.
	Duration time.Duration `mapstructure:"duration"`
}

// Auth holds the stored token pair. Written by `examterm login`, cleared
// when the gateway forces a logout.
type Auth struct {
	AccessToken  string `mapstructure:"access_token"`
	RefreshToken string `mapstructure:"refresh_token"`
}

// Log configures the file logger.
type Log struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfigPath resolves the config file location:
// 1. EXAMTERM_CONFIG environment variable
// 2. $XDG_CONFIG_HOME/examterm/config.yaml
// 3. ~/.config/examterm/config.yaml
func DefaultConfigPath() (string, error) {
	if p := os.Getenv("EXAMTERM_CONFIG"); p != "" {
		return p, nil
	}
	confHome := os.Getenv("XDG_CONFIG_HOME")
	if confHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		confHome = filepath.Join(home, ".config")
	}
	return filepath.Join(confHome, "examterm", "config.yaml"), nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("api.base_url", "http://localhost:8000/api")
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("test.duration", "40m")
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix("EXAMTERM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the config file at path (missing file is fine: defaults and
// environment apply) and unmarshals it.
func Load(path string) (*Config, error) {
	v := newViper(path)

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(filepath.Dir(path), "examterm.log")
	}
	return &cfg, nil
}

// SaveTokens writes the token pair into the config file, creating it when
// missing. Other settings in the file are preserved.
func SaveTokens(path, access, refresh string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	v := newViper(path)
	_ = v.ReadInConfig() // best effort: keep existing keys

	v.Set("auth.access_token", access)
	v.Set("auth.refresh_token", refresh)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// ClearTokens removes the stored token pair. Used by the forced-logout hook.
func ClearTokens(path string) error {
	return SaveTokens(path, "", "")
}
