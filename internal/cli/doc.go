// Package cli defines the Cobra command tree for the importext CLI. Each file
// in this package registers one top-level command (lint, check, watch, etc.)
// with the root command. Command implementations delegate to internal packages
// for the linting itself and only handle flag parsing, I/O formatting, and
// exit status.
package cli
