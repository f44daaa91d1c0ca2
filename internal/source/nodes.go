package source

// Kind identifies the syntax form a Node was recognized from.
type Kind int

const (
	KindImportDeclaration Kind = iota
	KindImportExpression
	KindExportAllDeclaration
	KindExportNamedDeclaration
)

func (k Kind) String() string {
	switch k {
	case KindImportDeclaration:
		return "ImportDeclaration"
	case KindImportExpression:
		return "ImportExpression"
	case KindExportAllDeclaration:
		return "ExportAllDeclaration"
	case KindExportNamedDeclaration:
		return "ExportNamedDeclaration"
	default:
		return "Unknown"
	}
}

// Literal is a quoted string literal in the scanned text.
type Literal struct {
	// Value is the literal's content with quotes removed and simple escapes decoded.
	Value string
	// Raw is the literal exactly as written, quotes included.
	Raw   string
	Quote byte
	// Start and End are byte offsets of Raw in the source.
	Start int
	End   int
	// Line and Column are 1-based; Column counts runes.
	Line   int
	Column int
}

// Node is one import/export form. The set of implementations is closed:
// *ImportDeclaration, *ImportExpression, *ExportAllDeclaration and
// *ExportNamedDeclaration.
type Node interface {
	Kind() Kind
	// Offset is the byte offset of the introducing keyword.
	Offset() int
	node()
}

// ImportDeclaration is `import ... from "x"` or `import "x"`.
type ImportDeclaration struct {
	Source Literal
	// TypeOnly is set for `import type ...`. Inline `type` modifiers on
	// individual specifiers are not considered.
	TypeOnly bool
	Start    int
}

// ImportExpression is a dynamic `import("x")`.
type ImportExpression struct {
	Source Literal
	Start  int
}

// ExportAllDeclaration is `export * from "x"` or `export * as ns from "x"`.
type ExportAllDeclaration struct {
	Source   Literal
	TypeOnly bool
	Start    int
}

// ExportNamedDeclaration is `export { a } from "x"`. Source is nil for a
// local `export { a }`.
type ExportNamedDeclaration struct {
	Source   *Literal
	TypeOnly bool
	Start    int
}

func (*ImportDeclaration) Kind() Kind      { return KindImportDeclaration }
func (*ImportExpression) Kind() Kind       { return KindImportExpression }
func (*ExportAllDeclaration) Kind() Kind   { return KindExportAllDeclaration }
func (*ExportNamedDeclaration) Kind() Kind { return KindExportNamedDeclaration }

func (n *ImportDeclaration) Offset() int      { return n.Start }
func (n *ImportExpression) Offset() int       { return n.Start }
func (n *ExportAllDeclaration) Offset() int   { return n.Start }
func (n *ExportNamedDeclaration) Offset() int { return n.Start }

func (*ImportDeclaration) node()      {}
func (*ImportExpression) node()       {}
func (*ExportAllDeclaration) node()   {}
func (*ExportNamedDeclaration) node() {}
