package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ErrNotFound is returned by Find when no project file exists up to the
// filesystem root.
var ErrNotFound = errors.New("no " + FileName + " found")

// ConfigPath returns the full path to .importext.yaml for a directory.
func ConfigPath(dir string) string {
	return filepath.Join(dir, FileName)
}

// Find walks up from dir looking for .importext.yaml and returns its path.
func Find(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}
	for {
		candidate := ConfigPath(abs)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", ErrNotFound
		}
		abs = parent
	}
}

// Load reads and parses a project file. Unset list fields get defaults.
func Load(path string) (*Config, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	cfg, err := parse(data, path)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	cfg.Path = abs
	cfg.Dir = filepath.Dir(abs)
	return cfg, nil
}

// Open validates the project file at path against the schema and loads it.
// A file that fails validation yields an *InvalidError.
func Open(path string) (*Config, error) {
	result, err := ValidateFile(path)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, &InvalidError{Path: path, Issues: result.Issues}
	}
	return Load(path)
}

// Discover finds the project file above dir and opens it. When none exists
// it returns the defaults rooted at dir.
func Discover(dir string) (*Config, error) {
	path, err := Find(dir)
	if errors.Is(err, ErrNotFound) {
		cfg := Default()
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", dir, err)
		}
		cfg.Dir = abs
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	return Open(path)
}

// Init writes a default .importext.yaml into dir. It refuses to overwrite
// an existing file unless force is set.
func Init(dir string, force bool) (string, error) {
	path := ConfigPath(dir)
	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}
	if err := os.WriteFile(path, []byte(defaultFile), 0644); err != nil {
		return "", fmt.Errorf("writing project config: %w", err)
	}
	return path, nil
}

// RootDir returns the base for root-relative specifiers, or "" when the
// file does not set one.
func (c *Config) RootDir() string {
	if c.Root == "" {
		return ""
	}
	if filepath.IsAbs(c.Root) {
		return c.Root
	}
	return filepath.Join(c.Dir, c.Root)
}

func parse(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing project config %s: %w", path, err)
	}
	if cfg.Include == nil {
		cfg.Include = DefaultInclude
	}
	if cfg.Exclude == nil {
		cfg.Exclude = DefaultExclude
	}
	return &cfg, nil
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}

const defaultFile = `# importext project configuration.
# Uncomment "requires" to pin the tool version this project expects.
# requires: ">= 0.1.0"

include:
  - "**/*.{ts,tsx,mts,cts,js,jsx,mjs,cjs}"
exclude:
  - "**/node_modules/**"
  - "**/dist/**"
  - "**/build/**"
  - "**/*.d.ts"

rules:
  require-path-import-extension:
    enabled: true
    # extension: .js            # default derives from the file: .ts -> .js, .mts -> .mjs, .cts -> .cjs
    checkAlsoType: false
    knownExtensions: [".ts", ".mjs", ".mts", ".cts", ".cjs", ".js"]
  require-path-export-extension:
    enabled: true
    checkAlsoType: false
    knownExtensions: [".ts", ".mjs", ".mts", ".cts", ".cjs", ".js"]
`
