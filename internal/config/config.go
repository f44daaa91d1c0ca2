package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/importext/importext/internal/branding"
	"github.com/importext/importext/internal/pathext"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Setting keys.
const (
	KeyFormat    = "format"
	KeyCacheSize = "cache_size"
)

// Output formats accepted by the format setting.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Keys lists every recognized setting.
func Keys() []string {
	return []string{KeyCacheSize, KeyFormat}
}

// Dir returns the path to the config directory (~/.importext/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.importext/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
// A .env file in the working directory is loaded first; variables already
// set in the environment win.
func Load() {
	_ = godotenv.Load()

	viper.Reset()
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()
	viper.SetDefault(KeyFormat, FormatText)
	viper.SetDefault(KeyCacheSize, pathext.DefaultCacheSize)

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Format returns the default output format, falling back to text when the
// setting holds something else.
func Format() string {
	if f := viper.GetString(KeyFormat); f == FormatJSON {
		return f
	}
	return FormatText
}

// CacheSize returns the directory-check cache capacity.
func CacheSize() int {
	if n := viper.GetInt(KeyCacheSize); n > 0 {
		return n
	}
	return pathext.DefaultCacheSize
}

// Set validates and writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	var typed any
	switch key {
	case KeyFormat:
		if !slices.Contains([]string{FormatText, FormatJSON}, value) {
			return fmt.Errorf("invalid %s %q (want %s or %s)", key, value, FormatText, FormatJSON)
		}
		typed = value
	case KeyCacheSize:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid %s %q (want a positive integer)", key, value)
		}
		typed = n
	default:
		return fmt.Errorf("unknown config key %q (known: %v)", key, Keys())
	}

	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, typed)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
