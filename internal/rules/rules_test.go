package rules

import (
	"testing"

	"github.com/importext/importext/internal/pathext"
	"github.com/importext/importext/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(checkAlsoType bool) Context {
	return Context{
		File:   "/proj/file.ts",
		Config: pathext.Configuration{Extension: ".js", CheckAlsoType: checkAlsoType, KnownExtensions: pathext.DefaultKnownExtensions},
		Engine: pathext.NewEngine(pathext.NewDirSet("/proj/src")),
	}
}

// fixes runs rule over code and returns each fix's replacement text.
func fixes(t *testing.T, rule *Rule, code string, ctx Context) []string {
	t.Helper()
	nodes, err := source.Scan([]byte(code))
	require.NoError(t, err)

	var out []string
	for _, n := range nodes {
		d, ok := rule.Check(n, ctx)
		if !ok {
			continue
		}
		require.NotNil(t, d.Fix)
		out = append(out, d.Fix.Text)
	}
	return out
}

func TestImportRule(t *testing.T) {
	rule := Lookup(RequirePathImportExtension)
	require.NotNil(t, rule)

	tests := []struct {
		name      string
		code      string
		checkType bool
		want      []string
	}{
		{"non-relative import", `import dummy from "dummy"`, false, nil},
		{"non-relative type import", `import type dummy from "dummy"`, false, nil},
		{"relative import without extension", `import dummy from "./dummy"`, false, []string{`"./dummy.js"`}},
		{"relative type import ignored", `import type dummy from "./dummy"`, false, nil},
		{"single quotes", `import dummy from './dummy'`, false, []string{`'./dummy.js'`}},
		{"correct extension", `import dummy from "./dummy.js"`, false, nil},
		{"incorrect extension", `import dummy from "./dummy.ts"`, false, []string{`"./dummy.js"`}},
		{"type import with incorrect extension ignored", `import type dummy from "./dummy.ts"`, false, nil},
		{"absolute import", `import dummy from "/dummy"`, false, []string{`"/dummy.js"`}},
		{"directory import", `import dummy from "./src"`, false, []string{`"./src/index.js"`}},
		{"mixed specifiers", `import dummy, { something, type somethingElse } from "./dummy"`, false, []string{`"./dummy.js"`}},
		{"type-only specifiers", `import type dummy, { type something } from "./dummy"`, false, nil},
		{"non-relative import expression", `import("dummy")`, false, nil},
		{"relative import expression", `import("./dummy")`, false, []string{`"./dummy.js"`}},
		{"non-relative type import when checking types", `import type dummy from "dummy"`, true, nil},
		{"type import when checking types", `import type dummy from "./dummy"`, true, []string{`"./dummy.js"`}},
		{"type import with incorrect extension when checking types", `import type dummy from "./dummy.ts"`, true, []string{`"./dummy.js"`}},
		{"exports are not this rule's concern", `export * from "./dummy"`, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fixes(t, rule, tt.code, testContext(tt.checkType)))
		})
	}
}

func TestExportRule(t *testing.T) {
	rule := Lookup(RequirePathExportExtension)
	require.NotNil(t, rule)

	tests := []struct {
		name      string
		code      string
		checkType bool
		want      []string
	}{
		{"non-relative export", `export * from "dummy"`, false, nil},
		{"non-relative type export", `export type * from "dummy"`, false, nil},
		{"relative export", `export * as dummy from "./dummy"`, false, []string{`"./dummy.js"`}},
		{"relative type export ignored", `export type * as dummy from "./dummy"`, false, nil},
		{"non-relative component export", `export { dummy } from "dummy"`, false, nil},
		{"non-relative component type export", `export type { dummy } from "dummy"`, false, nil},
		{"relative component export", `export { dummy } from "./dummy"`, false, []string{`"./dummy.js"`}},
		{"relative type component export ignored", `export type { dummy } from "./dummy"`, false, nil},
		{"local export has no source", `export { dummy }`, false, nil},
		{"non-relative type export when checking types", `export type * from "dummy"`, true, nil},
		{"relative type export when checking types", `export type * as dummy from "./dummy"`, true, []string{`"./dummy.js"`}},
		{"non-relative component type export when checking types", `export type { dummy } from "dummy"`, true, nil},
		{"relative type component export when checking types", `export type { dummy } from "./dummy"`, true, []string{`"./dummy.js"`}},
		{"imports are not this rule's concern", `import "./dummy"`, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fixes(t, rule, tt.code, testContext(tt.checkType)))
		})
	}
}

func TestCheck_DiagnosticFields(t *testing.T) {
	code := "\nimport a from './a';"
	nodes, err := source.Scan([]byte(code))
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	d, ok := Lookup(RequirePathImportExtension).Check(nodes[0], testContext(false))
	require.True(t, ok)
	assert.Equal(t, RequirePathImportExtension, d.Rule)
	assert.Equal(t, MessageImportMissingExtension, d.MessageID)
	assert.Equal(t, "Path-based import does not have extension.", d.Message)
	assert.Equal(t, 2, d.Line)
	assert.Equal(t, 15, d.Column)
	assert.Equal(t, "./a", d.Specifier)
	assert.Equal(t, &Fix{Start: 15, End: 20, Text: "'./a.js'"}, d.Fix)
}

func TestParse(t *testing.T) {
	for _, name := range AllNames() {
		got, ok := Parse(string(name))
		assert.True(t, ok)
		assert.Equal(t, name, got)
	}

	for _, input := range []string{"", "require-path-extension", "REQUIRE-PATH-IMPORT-EXTENSION"} {
		got, ok := Parse(input)
		assert.False(t, ok, input)
		assert.Empty(t, got)
	}
}

func TestAll(t *testing.T) {
	rules := All()
	require.Len(t, rules, 2)
	for _, r := range rules {
		assert.True(t, r.Fixable)
		assert.NotEmpty(t, r.Description)
		assert.Same(t, r, Lookup(r.Name))
	}
	assert.Nil(t, Lookup("missing"))
}
