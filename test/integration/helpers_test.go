//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// setupProject writes files into a fresh project directory and returns it.
// HOME is pointed at a temp dir so user settings never leak in.
func setupProject(t *testing.T, files map[string]string) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if strings.HasSuffix(name, "/") {
			path += string(filepath.Separator)
		}
		writeFile(t, path, content)
	}
	return dir
}

// writeFile creates a file and its parent directories. A name ending in "/"
// creates only the directory.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if strings.HasSuffix(path, string(filepath.Separator)) {
		if err := os.MkdirAll(path, 0755); err != nil {
			t.Fatalf("creating %s: %v", path, err)
		}
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func assertFileContent(t *testing.T, path, want string) {
	t.Helper()
	if got := readFile(t, path); got != want {
		t.Errorf("%s:\n got: %q\nwant: %q", path, got, want)
	}
}
