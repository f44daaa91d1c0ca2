package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/importext/importext/internal/pathext"
)

// isolate points HOME and the working directory at fresh temp dirs so the
// user's real settings and .env never leak into a test.
func isolate(t *testing.T) (home, work string) {
	t.Helper()
	home = t.TempDir()
	work = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("IMPORTEXT_FORMAT", "")
	t.Setenv("IMPORTEXT_CACHE_SIZE", "")
	os.Unsetenv("IMPORTEXT_FORMAT")
	os.Unsetenv("IMPORTEXT_CACHE_SIZE")
	t.Chdir(work)
	return home, work
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	Load()

	if got := Format(); got != FormatText {
		t.Errorf("Format() = %q, want %q", got, FormatText)
	}
	if got := CacheSize(); got != pathext.DefaultCacheSize {
		t.Errorf("CacheSize() = %d, want %d", got, pathext.DefaultCacheSize)
	}
}

func TestSet_RoundTrip(t *testing.T) {
	home, _ := isolate(t)
	Load()

	if err := Set(KeyFormat, FormatJSON); err != nil {
		t.Fatalf("Set format: %v", err)
	}
	if err := Set(KeyCacheSize, "128"); err != nil {
		t.Fatalf("Set cache_size: %v", err)
	}

	if _, err := os.Stat(filepath.Join(home, ".importext", "config.yaml")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	Load()
	if got := Format(); got != FormatJSON {
		t.Errorf("Format() = %q, want %q", got, FormatJSON)
	}
	if got := CacheSize(); got != 128 {
		t.Errorf("CacheSize() = %d, want 128", got)
	}
	if got := Get(KeyCacheSize); got != "128" {
		t.Errorf("Get(cache_size) = %q, want %q", got, "128")
	}
}

func TestSet_Rejects(t *testing.T) {
	isolate(t)
	Load()

	tests := []struct {
		key   string
		value string
	}{
		{KeyFormat, "xml"},
		{KeyCacheSize, "zero"},
		{KeyCacheSize, "-1"},
		{"mirror", "https://example.com"},
	}
	for _, tt := range tests {
		if err := Set(tt.key, tt.value); err == nil {
			t.Errorf("Set(%q, %q) = nil, want error", tt.key, tt.value)
		}
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("IMPORTEXT_FORMAT", "json")
	Load()

	if got := Format(); got != FormatJSON {
		t.Errorf("Format() = %q, want %q", got, FormatJSON)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	_, work := isolate(t)
	if err := os.WriteFile(filepath.Join(work, ".env"), []byte("IMPORTEXT_CACHE_SIZE=64\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("IMPORTEXT_CACHE_SIZE") })
	Load()

	if got := CacheSize(); got != 64 {
		t.Errorf("CacheSize() = %d, want 64", got)
	}
}

func TestFormat_UnknownFallsBackToText(t *testing.T) {
	isolate(t)
	t.Setenv("IMPORTEXT_FORMAT", "yaml")
	Load()

	if got := Format(); got != FormatText {
		t.Errorf("Format() = %q, want %q", got, FormatText)
	}
}
