package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Dev is the version string of an unreleased local build.
const Dev = "dev"

// Check reports an error when current does not satisfy constraint.
// An empty constraint and a dev build always pass.
func Check(current, constraint string) error {
	constraint = strings.TrimSpace(constraint)
	if constraint == "" || current == Dev || current == "" {
		return nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("parsing version constraint %q: %w", constraint, err)
	}
	v, err := parse(current)
	if err != nil {
		return fmt.Errorf("parsing version %q: %w", current, err)
	}
	if ok, errs := c.Validate(v); !ok {
		reason := constraint
		if len(errs) > 0 {
			reason = errs[0].Error()
		}
		return fmt.Errorf("version %s does not satisfy %q: %s", current, constraint, reason)
	}
	return nil
}

// parse strips a leading "v" and parses the version string.
func parse(version string) (*semver.Version, error) {
	return semver.NewVersion(strings.TrimPrefix(version, "v"))
}
