package source

import (
	"strings"
)

// Scan finds the import/export forms in JavaScript or TypeScript source
// and returns them in source order. It fails only on an unterminated block
// comment or template literal.
func Scan(src []byte) ([]Node, error) {
	lines := newLineIndex(src)
	toks, err := tokenize(src, lines)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, lines: lines}
	return p.nodes(), nil
}

type parser struct {
	toks  []token
	lines *lineIndex
}

func (p *parser) at(i int) token {
	if i >= 0 && i < len(p.toks) {
		return p.toks[i]
	}
	return token{kind: tokPunct, text: ""}
}

func (p *parser) nodes() []Node {
	var nodes []Node
	for i, t := range p.toks {
		if t.kind != tokIdent || p.at(i-1).is(tokPunct, ".") {
			continue
		}
		var n Node
		switch t.text {
		case "import":
			n = p.importAt(i)
		case "export":
			n = p.exportAt(i)
		}
		if n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

func (p *parser) importAt(i int) Node {
	next := p.at(i + 1)
	switch {
	case next.is(tokPunct, "("):
		lit := p.at(i + 2)
		after := p.at(i + 3)
		if lit.kind != tokString || !(after.is(tokPunct, ")") || after.is(tokPunct, ",")) {
			return nil
		}
		if p.importType(i) {
			return nil
		}
		return &ImportExpression{Source: p.literal(lit), Start: p.toks[i].start}
	case next.kind == tokString:
		return &ImportDeclaration{Source: p.literal(next), Start: p.toks[i].start}
	case next.kind == tokPunct && next.text != "{" && next.text != "*":
		// import.meta, import = ..., and the like.
		return nil
	}

	lit, ok := p.fromClause(i + 1)
	if !ok {
		return nil
	}
	return &ImportDeclaration{
		Source:   lit,
		TypeOnly: p.typeModifier(i + 1),
		Start:    p.toks[i].start,
	}
}

func (p *parser) exportAt(i int) Node {
	k := i + 1
	typeOnly := false
	if p.at(k).is(tokIdent, "type") && (p.at(k+1).is(tokPunct, "*") || p.at(k+1).is(tokPunct, "{")) {
		typeOnly = true
		k++
	}

	switch {
	case p.at(k).is(tokPunct, "*"):
		lit, ok := p.fromClause(k + 1)
		if !ok {
			return nil
		}
		return &ExportAllDeclaration{Source: lit, TypeOnly: typeOnly, Start: p.toks[i].start}
	case p.at(k).is(tokPunct, "{"):
		end := p.matchBrace(k)
		n := &ExportNamedDeclaration{TypeOnly: typeOnly, Start: p.toks[i].start}
		if end < 0 {
			return n
		}
		if p.at(end+1).is(tokIdent, "from") && p.at(end+2).kind == tokString {
			lit := p.literal(p.at(end + 2))
			n.Source = &lit
		}
		return n
	}
	return nil
}

// importType reports whether the import( at i is a TypeScript import type,
// such as `typeof import("./x")`, `let v: import("./x").T` or
// `type M = import("./x")`, rather than a dynamic import. Import types load
// nothing at runtime and are never candidates.
func (p *parser) importType(i int) bool {
	prev := p.at(i - 1)
	switch {
	case prev.is(tokIdent, "typeof"):
		return true
	case prev.is(tokPunct, "=") && p.at(i-2).kind == tokIdent && p.at(i-3).is(tokIdent, "type"):
		return true
	case prev.is(tokPunct, ":") && p.at(i-2).kind == tokIdent && declKeywords[p.at(i-3).text]:
		return true
	}

	// A dynamic import yields a promise, so member access other than the
	// promise methods only makes sense on the module type.
	if p.at(i+3).is(tokPunct, ")") && p.at(i+4).is(tokPunct, ".") {
		member := p.at(i + 5)
		return member.kind == tokIdent && !promiseMethods[member.text]
	}
	return false
}

var declKeywords = map[string]bool{"let": true, "const": true, "var": true}

var promiseMethods = map[string]bool{"then": true, "catch": true, "finally": true}

// typeModifier reports whether the token at i is the `type` in
// `import type X`, `import type { X }` or `import type * as X`, as opposed to
// a default import binding named "type".
func (p *parser) typeModifier(i int) bool {
	if !p.at(i).is(tokIdent, "type") {
		return false
	}
	next := p.at(i + 1)
	switch next.kind {
	case tokIdent:
		return next.text != "from"
	case tokPunct:
		return next.text == "{" || next.text == "*"
	}
	return false
}

// fromClause looks for `from "x"` at brace depth zero starting at i. It
// stops at the end of the statement.
func (p *parser) fromClause(i int) (Literal, bool) {
	depth := 0
	for j := i; j < len(p.toks); j++ {
		t := p.toks[j]
		switch t.kind {
		case tokPunct:
			switch t.text {
			case "{":
				depth++
			case "}":
				depth--
				if depth < 0 {
					return Literal{}, false
				}
			case ";", "=", "(":
				if depth == 0 {
					return Literal{}, false
				}
			}
		case tokIdent:
			if depth > 0 {
				continue
			}
			if t.text == "from" && p.at(j+1).kind == tokString {
				return p.literal(p.at(j + 1)), true
			}
			if t.text == "import" || t.text == "export" {
				return Literal{}, false
			}
		case tokString:
			if depth == 0 {
				return Literal{}, false
			}
		}
	}
	return Literal{}, false
}

// matchBrace returns the index of the '}' closing the '{' at i, or -1.
func (p *parser) matchBrace(i int) int {
	depth := 0
	for j := i; j < len(p.toks); j++ {
		switch {
		case p.toks[j].is(tokPunct, "{"):
			depth++
		case p.toks[j].is(tokPunct, "}"):
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

func (p *parser) literal(t token) Literal {
	line, col := p.lines.position(t.start)
	return Literal{
		Value:  unquote(t.text),
		Raw:    t.text,
		Quote:  t.text[0],
		Start:  t.start,
		End:    t.end,
		Line:   line,
		Column: col,
	}
}

// unquote strips the quotes from a string literal and decodes the escapes
// that can appear in module specifiers.
func unquote(raw string) string {
	body := raw[1 : len(raw)-1]
	if !strings.ContainsRune(body, '\\') {
		return body
	}
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 == len(body) {
			b.WriteByte(c)
			continue
		}
		i++
		switch e := body[i]; e {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '0':
			b.WriteByte(0)
		case '\n':
			// line continuation
		default:
			b.WriteByte(e)
		}
	}
	return b.String()
}
