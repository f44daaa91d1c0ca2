package source

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// summary flattens a node for comparison.
type summary struct {
	Kind     Kind
	Value    string
	TypeOnly bool
	HasSrc   bool
}

func summarize(t *testing.T, nodes []Node) []summary {
	t.Helper()
	var out []summary
	for _, n := range nodes {
		switch n := n.(type) {
		case *ImportDeclaration:
			out = append(out, summary{n.Kind(), n.Source.Value, n.TypeOnly, true})
		case *ImportExpression:
			out = append(out, summary{n.Kind(), n.Source.Value, false, true})
		case *ExportAllDeclaration:
			out = append(out, summary{n.Kind(), n.Source.Value, n.TypeOnly, true})
		case *ExportNamedDeclaration:
			s := summary{Kind: n.Kind(), TypeOnly: n.TypeOnly}
			if n.Source != nil {
				s.Value, s.HasSrc = n.Source.Value, true
			}
			out = append(out, s)
		default:
			t.Fatalf("unexpected node %T", n)
		}
	}
	return out
}

func scanOne(t *testing.T, code string) summary {
	t.Helper()
	nodes, err := Scan([]byte(code))
	require.NoError(t, err)
	got := summarize(t, nodes)
	require.Len(t, got, 1, "code: %s", code)
	return got[0]
}

func TestScan_ImportForms(t *testing.T) {
	tests := []struct {
		code string
		want summary
	}{
		{`import dummy from "dummy"`, summary{KindImportDeclaration, "dummy", false, true}},
		{`import dummy from './dummy'`, summary{KindImportDeclaration, "./dummy", false, true}},
		{`import "./side-effect"`, summary{KindImportDeclaration, "./side-effect", false, true}},
		{`import * as ns from "./ns";`, summary{KindImportDeclaration, "./ns", false, true}},
		{`import a, { b, c as d } from "./multi"`, summary{KindImportDeclaration, "./multi", false, true}},
		{`import { from } from "./kw"`, summary{KindImportDeclaration, "./kw", false, true}},
		{`import type dummy from "./dummy"`, summary{KindImportDeclaration, "./dummy", true, true}},
		{`import type { A } from "./types"`, summary{KindImportDeclaration, "./types", true, true}},
		{`import type * as T from "./types"`, summary{KindImportDeclaration, "./types", true, true}},
		{`import type from "./default-named-type"`, summary{KindImportDeclaration, "./default-named-type", false, true}},
		{`import type, { x } from "./default-named-type"`, summary{KindImportDeclaration, "./default-named-type", false, true}},
		{`import dummy, { something, type somethingElse } from "./dummy"`, summary{KindImportDeclaration, "./dummy", false, true}},
		{`import data from "./data.json" with { type: "json" }`, summary{KindImportDeclaration, "./data.json", false, true}},
		{`const m = await import("./lazy")`, summary{KindImportExpression, "./lazy", false, true}},
		{`import('./lazy', { with: { type: "json" } })`, summary{KindImportExpression, "./lazy", false, true}},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, scanOne(t, tt.code))
		})
	}
}

func TestScan_ExportForms(t *testing.T) {
	tests := []struct {
		code string
		want summary
	}{
		{`export * from "./all"`, summary{KindExportAllDeclaration, "./all", false, true}},
		{`export * as dummy from "./dummy"`, summary{KindExportAllDeclaration, "./dummy", false, true}},
		{`export type * from "./types"`, summary{KindExportAllDeclaration, "./types", true, true}},
		{`export type * as T from "./types"`, summary{KindExportAllDeclaration, "./types", true, true}},
		{`export { dummy } from "./dummy"`, summary{KindExportNamedDeclaration, "./dummy", false, true}},
		{`export { a as default, b } from './ab'`, summary{KindExportNamedDeclaration, "./ab", false, true}},
		{`export type { dummy } from "./dummy"`, summary{KindExportNamedDeclaration, "./dummy", true, true}},
		{`export { local }`, summary{KindExportNamedDeclaration, "", false, false}},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, scanOne(t, tt.code))
		})
	}
}

func TestScan_IgnoresNonModuleText(t *testing.T) {
	code := `
// import x from "./commented"
/* export * from "./block-commented" */
const s = "import y from './in-string'";
const tpl = ` + "`import z from \"./in-template\" ${value}`" + `;
const re = /import a from ".\/in-regex"/g;
const meta = import.meta.url;
obj.import("./member-call");
const o = { import: "./prop", export: "./prop" };
export const value = 1;
export default function main() {}
export type Alias = { a: string };
let half = total / 2; let other = "./after-division";
`
	nodes, err := Scan([]byte(code))
	require.NoError(t, err)
	assert.Empty(t, summarize(t, nodes))
}

func TestScan_TemplateSubstitutionNesting(t *testing.T) {
	code := "const a = `x ${ { k: `inner ${1}` }.k } y`;\nimport b from \"./after\";\n"
	nodes, err := Scan([]byte(code))
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "./after", nodes[0].(*ImportDeclaration).Source.Value)
}

func TestScan_ImportTypesSkipped(t *testing.T) {
	tests := []string{
		`let x: import("./foo").Bar;`,
		`type T = typeof import('./baz');`,
		`type M = import("./mod");`,
		`const m: import("./mod") = load();`,
		`function f(a: import("./a").A<string>): void {}`,
		`type Keys = keyof typeof import("./keys");`,
	}
	for _, code := range tests {
		t.Run(code, func(t *testing.T) {
			nodes, err := Scan([]byte(code))
			require.NoError(t, err)
			assert.Empty(t, summarize(t, nodes))
		})
	}
}

func TestScan_DynamicImportsKept(t *testing.T) {
	tests := []string{
		`import("./lazy").then((m) => m.run());`,
		`import("./lazy").catch(report);`,
		`const mod = import("./lazy");`,
		`const x = cond ? a : import("./lazy");`,
		`const o = { load: import("./lazy") };`,
	}
	for _, code := range tests {
		t.Run(code, func(t *testing.T) {
			got := scanOne(t, code)
			assert.Equal(t, summary{KindImportExpression, "./lazy", false, true}, got)
		})
	}
}

func TestScan_TemplateImportExpressionSkipped(t *testing.T) {
	nodes, err := Scan([]byte("import(`./dynamic`)"))
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestScan_LiteralPositions(t *testing.T) {
	code := "import a from './a';\n\texport * from \"./b\";\n"
	nodes, err := Scan([]byte(code))
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	a := nodes[0].(*ImportDeclaration).Source
	assert.Equal(t, "'./a'", a.Raw)
	assert.Equal(t, byte('\''), a.Quote)
	assert.Equal(t, "'./a'", code[a.Start:a.End])
	assert.Equal(t, 1, a.Line)
	assert.Equal(t, 15, a.Column)
	assert.Equal(t, 0, nodes[0].Offset())

	b := nodes[1].(*ExportAllDeclaration).Source
	assert.Equal(t, `"./b"`, code[b.Start:b.End])
	assert.Equal(t, 2, b.Line)
	assert.Equal(t, 16, b.Column)
}

func TestScan_SourceOrder(t *testing.T) {
	code := `export { x } from "./1"
import y from "./2"
const z = import("./3")
export * from "./4"
`
	nodes, err := Scan([]byte(code))
	require.NoError(t, err)

	var values []string
	for _, s := range summarize(t, nodes) {
		values = append(values, s.Value)
	}
	assert.Equal(t, []string{"./1", "./2", "./3", "./4"}, values)
}

func TestScan_MissingSemicolons(t *testing.T) {
	code := "import a from './a'\nimport b from './b'\n"
	nodes, err := Scan([]byte(code))
	require.NoError(t, err)
	assert.Len(t, nodes, 2)
}

func TestScan_EscapedSpecifier(t *testing.T) {
	got := scanOne(t, `import a from "./it\'s"`)
	assert.Equal(t, "./it's", got.Value)
}

func TestScan_ByteOrderMark(t *testing.T) {
	nodes, err := Scan(append([]byte{0xEF, 0xBB, 0xBF}, []byte(`import a from "./a"`)...))
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, 17, nodes[0].(*ImportDeclaration).Source.Start)
}

func TestScan_UnterminatedComment(t *testing.T) {
	_, err := Scan([]byte("import a from './a'\n/* never closed"))
	require.Error(t, err)

	var syntaxErr *SyntaxError
	require.True(t, errors.As(err, &syntaxErr))
	assert.Equal(t, 2, syntaxErr.Line)
	assert.Equal(t, 1, syntaxErr.Column)
}

func TestScan_UnterminatedTemplate(t *testing.T) {
	_, err := Scan([]byte("const a = `open ${b"))
	assert.Error(t, err)
}

func TestScan_UnterminatedStringDoesNotSwallowFile(t *testing.T) {
	code := "const jsx = <p>don't</p>;\nimport a from './a';\n"
	nodes, err := Scan([]byte(code))
	require.NoError(t, err)
	assert.Len(t, nodes, 1)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "ImportDeclaration", KindImportDeclaration.String())
	assert.Equal(t, "ExportNamedDeclaration", KindExportNamedDeclaration.String())
	assert.Equal(t, "Unknown", Kind(99).String())
}
