// Package platform wraps the filesystem operations that differ between Unix
// and Windows: permission bits and durable in-place file replacement.
package platform
