// Package source recognizes import and export forms in JavaScript and
// TypeScript text. It is a tokenizer-level scanner rather than a full parser:
// comments, strings, template literals and regular expressions are skipped so
// that only real module specifiers are reported, each with its exact byte span
// for rewriting.
package source
