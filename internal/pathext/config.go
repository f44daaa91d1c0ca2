package pathext

import (
	"path/filepath"
	"slices"
)

// FallbackExtension is enforced when the analyzed file's own extension is
// not in the defaults table.
const FallbackExtension = ".js"

// defaultExtensions maps a source file's extension to the extension its
// path imports must carry.
var defaultExtensions = map[string]string{
	".ts":  ".js",
	".tsx": ".js",
	".js":  ".js",
	".jsx": ".js",
	".mts": ".mjs",
	".mjs": ".mjs",
	".cts": ".cjs",
	".cjs": ".cjs",
}

// DefaultKnownExtensions are stripped before the enforced extension is appended.
var DefaultKnownExtensions = []string{".ts", ".mjs", ".mts", ".cts", ".cjs", ".js"}

// Configuration is the fully resolved rule configuration for one file.
type Configuration struct {
	Extension        string   `json:"extension"`
	CheckAlsoType    bool     `json:"checkAlsoType"`
	KnownExtensions  []string `json:"knownExtensions"`
	IgnoreExtensions []string `json:"ignoreExtensions,omitempty"`
}

// PartialConfiguration is user-supplied configuration. Nil fields are absent.
type PartialConfiguration struct {
	Extension        *string  `json:"extension,omitempty"`
	CheckAlsoType    *bool    `json:"checkAlsoType,omitempty"`
	KnownExtensions  []string `json:"knownExtensions"`
	IgnoreExtensions []string `json:"ignoreExtensions"`
}

// DefaultExtensionFor returns the enforced extension for a file, based on
// the file's own extension.
func DefaultExtensionFor(containingFile string) string {
	if ext, ok := defaultExtensions[filepath.Ext(containingFile)]; ok {
		return ext
	}
	return FallbackExtension
}

// Resolve merges partial with the defaults for containingFile. It never fails.
func Resolve(containingFile string, partial PartialConfiguration) Configuration {
	cfg := Configuration{
		Extension:       DefaultExtensionFor(containingFile),
		KnownExtensions: slices.Clone(DefaultKnownExtensions),
	}
	if partial.Extension != nil && *partial.Extension != "" {
		cfg.Extension = *partial.Extension
	}
	if partial.CheckAlsoType != nil {
		cfg.CheckAlsoType = *partial.CheckAlsoType
	}
	if partial.KnownExtensions != nil {
		cfg.KnownExtensions = slices.Clone(partial.KnownExtensions)
	}
	if partial.IgnoreExtensions != nil {
		cfg.IgnoreExtensions = slices.Clone(partial.IgnoreExtensions)
	}
	return cfg
}

// Merge returns p with every field present in override replacing its own.
func (p PartialConfiguration) Merge(override PartialConfiguration) PartialConfiguration {
	if override.Extension != nil {
		p.Extension = override.Extension
	}
	if override.CheckAlsoType != nil {
		p.CheckAlsoType = override.CheckAlsoType
	}
	if override.KnownExtensions != nil {
		p.KnownExtensions = override.KnownExtensions
	}
	if override.IgnoreExtensions != nil {
		p.IgnoreExtensions = override.IgnoreExtensions
	}
	return p
}
