// Package watch reports batches of changed files under a set of directory
// trees using fsnotify.
package watch
