//go:build integration

package integration_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/importext/importext/internal/project"
	"github.com/importext/importext/internal/rules"
	"github.com/importext/importext/internal/version"
)

func TestProjectFileLifecycle(t *testing.T) {
	dir := setupProject(t, map[string]string{"packages/app/src/": ""})
	nested := filepath.Join(dir, "packages", "app", "src")

	path, err := project.Init(dir, false)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	result, err := project.ValidateFile(path)
	if err != nil {
		t.Fatalf("ValidateFile: %v", err)
	}
	if !result.Valid {
		t.Fatalf("generated project file is invalid: %v", result.Issues)
	}

	cfg, err := project.Discover(nested)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if cfg.Dir != dir {
		t.Errorf("Dir = %q, want %q", cfg.Dir, dir)
	}
	if err := version.Check("1.0.0", cfg.Requires); err != nil {
		t.Errorf("generated requires %q rejects 1.0.0: %v", cfg.Requires, err)
	}

	writeFile(t, path, `rules:
  require-path-export-extension:
    enabled: false
`)
	reloaded, err := project.Discover(nested)
	if err != nil {
		t.Fatalf("Discover after edit: %v", err)
	}
	if reloaded.IsEnabled(rules.RequirePathExportExtension) {
		t.Error("export rule should be disabled after edit")
	}
	if !reloaded.IsEnabled(rules.RequirePathImportExtension) {
		t.Error("import rule should still be enabled")
	}
}

func TestProjectFileRejectsBadOptions(t *testing.T) {
	dir := setupProject(t, map[string]string{
		".importext.yaml": "rules:\n  require-path-import-extension:\n    extension: js\n",
	})

	_, err := project.Discover(dir)
	var invalid *project.InvalidError
	if !errors.As(err, &invalid) {
		t.Fatalf("Discover error = %v, want *project.InvalidError", err)
	}
	if len(invalid.Issues) != 1 || invalid.Issues[0].Keyword != "pattern" {
		t.Errorf("issues = %v, want one pattern violation", invalid.Issues)
	}
}
