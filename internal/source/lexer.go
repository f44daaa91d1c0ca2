package source

import (
	"fmt"
	"slices"
)

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokString
	tokTemplate
	tokNumber
	tokRegex
	tokPunct
	// tokBroken is an unterminated string; it never forms a Literal.
	tokBroken
)

type token struct {
	kind  tokenKind
	text  string
	start int
	end   int
}

func (t token) is(kind tokenKind, text string) bool {
	return t.kind == kind && t.text == text
}

// SyntaxError reports text the scanner cannot get past.
type SyntaxError struct {
	Offset int
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
}

// keywords after which a '/' starts a regular expression.
var regexKeywords = map[string]bool{
	"return": true, "typeof": true, "instanceof": true, "in": true, "of": true,
	"new": true, "delete": true, "void": true, "throw": true, "case": true,
	"do": true, "else": true, "yield": true, "await": true,
}

type lexer struct {
	src  []byte
	pos  int
	toks []token
	// braces tracks open '{' and '${': true marks a template substitution.
	braces []bool
	lines  *lineIndex
}

func tokenize(src []byte, lines *lineIndex) ([]token, error) {
	lx := &lexer{src: src, lines: lines}
	if len(src) >= 3 && src[0] == 0xEF && src[1] == 0xBB && src[2] == 0xBF {
		lx.pos = 3
	}
	if err := lx.run(); err != nil {
		return nil, err
	}
	return lx.toks, nil
}

func (lx *lexer) errorf(offset int, format string, args ...any) error {
	line, col := lx.lines.position(offset)
	return &SyntaxError{Offset: offset, Line: line, Column: col, Msg: fmt.Sprintf(format, args...)}
}

func (lx *lexer) emit(kind tokenKind, start int) {
	lx.toks = append(lx.toks, token{kind: kind, text: string(lx.src[start:lx.pos]), start: start, end: lx.pos})
}

func (lx *lexer) peek(offset int) byte {
	if i := lx.pos + offset; i < len(lx.src) {
		return lx.src[i]
	}
	return 0
}

func (lx *lexer) run() error {
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		start := lx.pos
		switch {
		case isSpace(c):
			lx.pos++
		case c == '/' && lx.peek(1) == '/':
			lx.skipLine()
		case c == '/' && lx.peek(1) == '*':
			if err := lx.skipBlockComment(); err != nil {
				return err
			}
		case c == '/' && lx.regexAllowed():
			lx.scanRegex()
		case c == '\'' || c == '"':
			lx.scanString(c)
		case c == '`':
			lx.pos++
			if err := lx.scanTemplate(start); err != nil {
				return err
			}
		case c == '{':
			lx.braces = append(lx.braces, false)
			lx.pos++
			lx.emit(tokPunct, start)
		case c == '}':
			if n := len(lx.braces); n > 0 {
				inTemplate := lx.braces[n-1]
				lx.braces = lx.braces[:n-1]
				if inTemplate {
					lx.pos++
					if err := lx.scanTemplate(start); err != nil {
						return err
					}
					continue
				}
			}
			lx.pos++
			lx.emit(tokPunct, start)
		case isIdentStart(c):
			for lx.pos < len(lx.src) && isIdentPart(lx.src[lx.pos]) {
				lx.pos++
			}
			lx.emit(tokIdent, start)
		case isDigit(c) || (c == '.' && isDigit(lx.peek(1))):
			lx.pos++
			for lx.pos < len(lx.src) && (isIdentPart(lx.src[lx.pos]) || lx.src[lx.pos] == '.') {
				lx.pos++
			}
			lx.emit(tokNumber, start)
		default:
			lx.pos++
			lx.emit(tokPunct, start)
		}
	}
	if slices.Contains(lx.braces, true) {
		return lx.errorf(len(lx.src), "unterminated template literal")
	}
	return nil
}

func (lx *lexer) skipLine() {
	for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
		lx.pos++
	}
}

func (lx *lexer) skipBlockComment() error {
	start := lx.pos
	lx.pos += 2
	for lx.pos+1 < len(lx.src) {
		if lx.src[lx.pos] == '*' && lx.src[lx.pos+1] == '/' {
			lx.pos += 2
			return nil
		}
		lx.pos++
	}
	return lx.errorf(start, "unterminated block comment")
}

// scanString consumes a quoted string. A raw newline ends it as broken.
func (lx *lexer) scanString(q byte) {
	start := lx.pos
	lx.pos++
	for lx.pos < len(lx.src) {
		switch c := lx.src[lx.pos]; c {
		case '\\':
			lx.pos += 2
			if lx.pos <= len(lx.src) && lx.src[lx.pos-1] == '\r' && lx.peek(0) == '\n' {
				lx.pos++
			}
		case '\n':
			lx.emit(tokBroken, start)
			return
		case q:
			lx.pos++
			lx.emit(tokString, start)
			return
		default:
			lx.pos++
		}
	}
	lx.pos = len(lx.src)
	lx.emit(tokBroken, start)
}

// scanTemplate consumes template text up to the closing backtick or the
// next '${'. The opening delimiter has already been consumed.
func (lx *lexer) scanTemplate(start int) error {
	for lx.pos < len(lx.src) {
		switch lx.src[lx.pos] {
		case '\\':
			lx.pos += 2
		case '`':
			lx.pos++
			lx.emit(tokTemplate, start)
			return nil
		case '$':
			if lx.peek(1) == '{' {
				lx.pos += 2
				lx.braces = append(lx.braces, true)
				lx.emit(tokTemplate, start)
				return nil
			}
			lx.pos++
		default:
			lx.pos++
		}
	}
	return lx.errorf(start, "unterminated template literal")
}

// scanRegex consumes a regular expression literal with its flags. When the
// body runs into a newline the '/' is taken as a plain operator instead.
func (lx *lexer) scanRegex() {
	start := lx.pos
	lx.pos++
	inClass := false
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == '\\':
			lx.pos += 2
			continue
		case c == '\n':
			lx.pos = start + 1
			lx.emit(tokPunct, start)
			return
		case c == '[':
			inClass = true
		case c == ']':
			inClass = false
		case c == '/' && !inClass:
			lx.pos++
			for lx.pos < len(lx.src) && isIdentPart(lx.src[lx.pos]) {
				lx.pos++
			}
			lx.emit(tokRegex, start)
			return
		}
		lx.pos++
	}
	lx.pos = start + 1
	lx.emit(tokPunct, start)
}

// regexAllowed decides whether a '/' at the current position begins a
// regular expression rather than a division, from the previous token.
func (lx *lexer) regexAllowed() bool {
	if len(lx.toks) == 0 {
		return true
	}
	prev := lx.toks[len(lx.toks)-1]
	switch prev.kind {
	case tokIdent:
		return regexKeywords[prev.text]
	case tokPunct:
		return prev.text != ")" && prev.text != "]"
	default:
		return false
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || c == '#' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
