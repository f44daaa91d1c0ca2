package pathext

import (
	"path/filepath"
	"strings"
)

// Candidate is one string literal found in an import/export path position.
type Candidate struct {
	// RawText is the literal's value, without quotes.
	RawText string
	// Quote is the literal's opening quote character.
	Quote byte
	// IsTypeOnly marks type-only imports and exports.
	IsTypeOnly bool
	// ContainingFile is the path of the file being analyzed.
	ContainingFile string
	// RootDir, when set, is the base for root-relative specifiers like "/x".
	RootDir string
}

// Decision is the engine's verdict for a Candidate.
type Decision struct {
	ShouldFlag bool
	// Replacement is the full replacement literal, quotes included.
	// Empty unless ShouldFlag is true.
	Replacement string
}

// Engine decides candidates using a DirChecker for directory targets.
type Engine struct {
	dirs DirChecker
}

// NewEngine returns an Engine. A nil checker uses OSDirChecker.
func NewEngine(dirs DirChecker) *Engine {
	if dirs == nil {
		dirs = OSDirChecker{}
	}
	return &Engine{dirs: dirs}
}

// Decide runs a candidate through an Engine backed by the real filesystem.
func Decide(c Candidate, cfg Configuration) Decision {
	return NewEngine(nil).Decide(c, cfg)
}

// Decide reports whether c should be flagged under cfg and, if so, the
// replacement literal.
func (e *Engine) Decide(c Candidate, cfg Configuration) Decision {
	if !ShouldTrigger(c, cfg) {
		return Decision{}
	}
	return Decision{
		ShouldFlag:  true,
		Replacement: quote(c.Quote, e.fixedPath(c, cfg)),
	}
}

// ShouldTrigger reports whether c is a path reference missing cfg.Extension.
func ShouldTrigger(c Candidate, cfg Configuration) bool {
	if c.IsTypeOnly && !cfg.CheckAlsoType {
		return false
	}
	s := c.RawText
	if !IsPathReference(s) || strings.HasSuffix(s, cfg.Extension) {
		return false
	}
	return !hasAnySuffix(s, cfg.IgnoreExtensions)
}

func (e *Engine) fixedPath(c Candidate, cfg Configuration) string {
	if e.dirs.IsDir(resolveTarget(c)) {
		// "./src/" becomes "./src/index.js", not "./src//index.js".
		return strings.TrimRight(c.RawText, "/") + "/index" + cfg.Extension
	}
	return StripKnownExtension(c.RawText, cfg.KnownExtensions) + cfg.Extension
}

// resolveTarget returns the filesystem path a candidate points at.
func resolveTarget(c Candidate) string {
	base := filepath.Dir(c.ContainingFile)
	if strings.HasPrefix(c.RawText, "/") && c.RootDir != "" {
		base = c.RootDir
	}
	return filepath.Join(base, filepath.FromSlash(c.RawText))
}

// IsPathReference reports whether s is relative ("./x", "../x") or
// root-relative ("/x") rather than a bare package specifier.
func IsPathReference(s string) bool {
	return strings.HasPrefix(s, ".") || strings.HasPrefix(s, "/")
}

// StripKnownExtension drops the final extension of s when s ends with one
// of known. Comparison is by suffix only.
func StripKnownExtension(s string, known []string) string {
	if !hasAnySuffix(s, known) {
		return s
	}
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return s[:i]
	}
	return s
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if suffix != "" && strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

func quote(q byte, s string) string {
	if q == 0 {
		q = '"'
	}
	return string(q) + s + string(q)
}
