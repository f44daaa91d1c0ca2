// Command importext checks that path imports and exports in JavaScript and
// TypeScript sources carry an explicit file extension.
package main

import (
	"errors"
	"os"

	"github.com/importext/importext/internal/cli"
)

// Set via -ldflags "-X main.version=..." at release time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Exit status 1 means problems were found; 2 means the run itself failed.
func main() {
	err := cli.Execute(version, commit, date)
	switch {
	case err == nil:
	case errors.Is(err, cli.ErrProblems):
		os.Exit(1)
	default:
		os.Exit(2)
	}
}
