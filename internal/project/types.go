package project

import (
	"github.com/importext/importext/internal/pathext"
	"github.com/importext/importext/internal/rules"
)

// FileName is the project configuration file name.
const FileName = ".importext.yaml"

// Config represents the .importext.yaml structure.
type Config struct {
	// Requires is a semver constraint the running tool version must satisfy.
	Requires string                      `yaml:"requires,omitempty" json:"requires,omitempty"`
	Root     string                      `yaml:"root,omitempty" json:"root,omitempty"`
	Include  []string                    `yaml:"include,omitempty" json:"include,omitempty"`
	Exclude  []string                    `yaml:"exclude,omitempty" json:"exclude,omitempty"`
	Rules    map[rules.Name]*RuleOptions `yaml:"rules,omitempty" json:"rules,omitempty"`

	// Path is the file the config was loaded from, empty for defaults.
	Path string `yaml:"-" json:"-"`
	// Dir is the project directory: the file's directory, or where
	// discovery started when there is no file.
	Dir string `yaml:"-" json:"-"`
}

// RuleOptions configures one rule. Nil fields fall back to defaults.
type RuleOptions struct {
	Enabled          *bool    `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	Extension        *string  `yaml:"extension,omitempty" json:"extension,omitempty"`
	CheckAlsoType    *bool    `yaml:"checkAlsoType,omitempty" json:"checkAlsoType,omitempty"`
	KnownExtensions  []string `yaml:"knownExtensions,omitempty" json:"knownExtensions,omitempty"`
	IgnoreExtensions []string `yaml:"ignoreExtensions,omitempty" json:"ignoreExtensions,omitempty"`
}

// DefaultInclude matches the source files the rules apply to.
var DefaultInclude = []string{"**/*.{ts,tsx,mts,cts,js,jsx,mjs,cjs}"}

// DefaultExclude skips dependency and build output trees.
var DefaultExclude = []string{"**/node_modules/**", "**/dist/**", "**/build/**", "**/*.d.ts"}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Include: DefaultInclude,
		Exclude: DefaultExclude,
	}
}

// IsEnabled reports whether a rule runs. Rules are on unless disabled.
func (c *Config) IsEnabled(name rules.Name) bool {
	opts := c.Rules[name]
	return opts == nil || opts.Enabled == nil || *opts.Enabled
}

// Partial returns the engine configuration for a rule.
func (c *Config) Partial(name rules.Name) pathext.PartialConfiguration {
	return c.Rules[name].Partial()
}

// Partial converts rule options into engine configuration.
func (o *RuleOptions) Partial() pathext.PartialConfiguration {
	if o == nil {
		return pathext.PartialConfiguration{}
	}
	return pathext.PartialConfiguration{
		Extension:        o.Extension,
		CheckAlsoType:    o.CheckAlsoType,
		KnownExtensions:  o.KnownExtensions,
		IgnoreExtensions: o.IgnoreExtensions,
	}
}
