// Package config manages user-level settings stored at ~/.importext/config.yaml.
// Values can be overridden with IMPORTEXT_* environment variables, which are
// also read from a .env file in the working directory.
package config
