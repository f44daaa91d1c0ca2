// Package lintcache remembers which files were clean under which options so
// repeated lint runs can skip them. The cache is a JSON file in the project
// root keyed by file path.
package lintcache
