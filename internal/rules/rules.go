package rules

import (
	"github.com/importext/importext/internal/pathext"
	"github.com/importext/importext/internal/source"
)

// Name identifies a rule.
type Name string

const (
	RequirePathImportExtension Name = "require-path-import-extension"
	RequirePathExportExtension Name = "require-path-export-extension"
)

// Message IDs reported by the rules.
const (
	MessageImportMissingExtension = "message-import-missing-extension"
	MessageExportMissingExtension = "message-export-missing-extension"
)

// Fix replaces the bytes [Start, End) of a file with Text.
type Fix struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Diagnostic is one reported problem.
type Diagnostic struct {
	Rule      Name   `json:"rule"`
	MessageID string `json:"messageId"`
	Message   string `json:"message"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	Specifier string `json:"specifier"`
	Fix       *Fix   `json:"fix,omitempty"`
	Fixed     bool   `json:"fixed,omitempty"`
}

// Context is the per-file input a rule needs besides the node.
type Context struct {
	// File is the path of the file being linted.
	File string
	// RootDir is the base for root-relative specifiers; may be empty.
	RootDir string
	Config  pathext.Configuration
	Engine  *pathext.Engine
}

// Rule is a named check over source nodes.
type Rule struct {
	Name        Name
	Description string
	MessageID   string
	Message     string
	Fixable     bool
	// source returns the node's path literal and whether it is type-only.
	// ok is false for node kinds the rule does not handle.
	source func(n source.Node) (lit source.Literal, typeOnly bool, ok bool)
}

// Check runs the rule over one node.
func (r *Rule) Check(n source.Node, ctx Context) (Diagnostic, bool) {
	lit, typeOnly, ok := r.source(n)
	if !ok {
		return Diagnostic{}, false
	}
	decision := ctx.Engine.Decide(pathext.Candidate{
		RawText:        lit.Value,
		Quote:          lit.Quote,
		IsTypeOnly:     typeOnly,
		ContainingFile: ctx.File,
		RootDir:        ctx.RootDir,
	}, ctx.Config)
	if !decision.ShouldFlag {
		return Diagnostic{}, false
	}
	return Diagnostic{
		Rule:      r.Name,
		MessageID: r.MessageID,
		Message:   r.Message,
		Line:      lit.Line,
		Column:    lit.Column,
		Specifier: lit.Value,
		Fix:       &Fix{Start: lit.Start, End: lit.End, Text: decision.Replacement},
	}, true
}

var importRule = &Rule{
	Name:        RequirePathImportExtension,
	Description: "Enforce extension to path-based imports.",
	MessageID:   MessageImportMissingExtension,
	Message:     "Path-based import does not have extension.",
	Fixable:     true,
	source: func(n source.Node) (source.Literal, bool, bool) {
		switch n := n.(type) {
		case *source.ImportDeclaration:
			return n.Source, n.TypeOnly, true
		case *source.ImportExpression:
			return n.Source, false, true
		}
		return source.Literal{}, false, false
	},
}

var exportRule = &Rule{
	Name:        RequirePathExportExtension,
	Description: "Enforce extension to path-based exports.",
	MessageID:   MessageExportMissingExtension,
	Message:     "Path-based export does not have extension.",
	Fixable:     true,
	source: func(n source.Node) (source.Literal, bool, bool) {
		switch n := n.(type) {
		case *source.ExportAllDeclaration:
			return n.Source, n.TypeOnly, true
		case *source.ExportNamedDeclaration:
			if n.Source == nil {
				return source.Literal{}, false, false
			}
			return *n.Source, n.TypeOnly, true
		}
		return source.Literal{}, false, false
	},
}

// All returns every rule in a stable order.
func All() []*Rule {
	return []*Rule{exportRule, importRule}
}

// AllNames returns the names of every rule.
func AllNames() []Name {
	rules := All()
	names := make([]Name, len(rules))
	for i, r := range rules {
		names[i] = r.Name
	}
	return names
}

// Parse converts a string to a rule Name, returning false if unknown.
func Parse(s string) (Name, bool) {
	switch s {
	case string(RequirePathImportExtension):
		return RequirePathImportExtension, true
	case string(RequirePathExportExtension):
		return RequirePathExportExtension, true
	default:
		return "", false
	}
}

// Lookup returns the rule with the given name, or nil.
func Lookup(name Name) *Rule {
	for _, r := range All() {
		if r.Name == name {
			return r
		}
	}
	return nil
}
