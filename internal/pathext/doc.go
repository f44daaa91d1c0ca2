// Package pathext decides whether an import/export path string is missing
// its required file extension and computes the corrected string. Resolve
// fills in per-file defaults; Decide makes the single-pass decision. The only
// I/O is a directory check behind the DirChecker interface.
package pathext
