// Package project handles the per-project .importext.yaml file: locating it,
// parsing it into rule options, writing the default file, and validating it
// against the embedded JSON Schema.
package project
