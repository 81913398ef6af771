// Package config loads the tool-level settings (~/.ccp4m/config.yaml plus
// CCP4M_* environment overrides). Project settings live in the descriptor.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Author struct {
	Name  string `mapstructure:"name"`
	Email string `mapstructure:"email"`
}

// Toolchain names the external programs the build drives.
type Toolchain struct {
	CC  string `mapstructure:"cc"`
	CXX string `mapstructure:"cxx"`
	AR  string `mapstructure:"ar"`
}

// Compiler returns the compiler driver for a project language.
func (t Toolchain) Compiler(lang string) string {
	if lang == "c" {
		return t.CC
	}
	return t.CXX
}

type Build struct {
	Jobs int `mapstructure:"jobs"`
}

type Log struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Author    Author    `mapstructure:"author"`
	Toolchain Toolchain `mapstructure:"toolchain"`
	Build     Build     `mapstructure:"build"`
	Log       Log       `mapstructure:"log"`
	Color     bool      `mapstructure:"color"`
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("author.name", "")
	v.SetDefault("author.email", "")
	v.SetDefault("toolchain.cc", envOr("CC", "cc"))
	v.SetDefault("toolchain.cxx", envOr("CXX", "c++"))
	v.SetDefault("toolchain.ar", envOr("AR", "ar"))
	v.SetDefault("build.jobs", 1)
	v.SetDefault("log.level", "info")
	v.SetDefault("color", true)
}

// LoadDotEnv loads dir/.env into the process environment without
// overriding variables that are already set. A missing file is fine.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load reads the config file at path, if present, and applies defaults and
// environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("CCP4M")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.Build.Jobs < 1 {
		cfg.Build.Jobs = 1
	}
	return &cfg, nil
}

// Exists reports whether a config file has been written (first-run setup
// done).
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// SaveAuthor sets the author in the config file at path, keeping the other
// values the file already holds. Defaults and environment overrides are not
// written.
func SaveAuthor(path string, author Author) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	v := viper.New()
	v.SetConfigType("yaml")
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	v.Set("author.name", author.Name)
	v.Set("author.email", author.Email)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}
