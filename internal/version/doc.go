// Package version compares tool versions and checks them against the
// "requires" constraint of a project file.
package version
