// Package linter runs the path-extension rules over files on disk. It
// collects files by glob, scans each one for module specifiers, reports
// diagnostics, and optionally writes the fixes back.
package linter
