// Package rules defines the lint rules that map import and export syntax onto
// the path-extension engine. Each rule accepts a subset of source node kinds,
// turns the node's path literal into a pathext.Candidate, and reports a
// Diagnostic with a fix when the engine flags it.
package rules
