package linter

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar"
)

// CollectFiles expands paths into the sorted list of files to lint.
// Directories are walked and their files kept when they match include and
// no exclude pattern. Explicit file arguments skip the include check but
// are still subject to exclude. Patterns are matched against slash-separated
// paths relative to root. With no paths, root itself is walked.
func CollectFiles(root string, paths, include, exclude []string) ([]string, error) {
	if err := checkPatterns(include); err != nil {
		return nil, err
	}
	if err := checkPatterns(exclude); err != nil {
		return nil, err
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", root, err)
	}
	if len(paths) == 0 {
		paths = []string{absRoot}
	}

	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}

		if !info.IsDir() {
			if !matchAny(exclude, relSlash(absRoot, abs)) {
				add(abs)
			}
			continue
		}

		err = filepath.WalkDir(abs, func(walked string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel := relSlash(absRoot, walked)
			if d.IsDir() {
				if walked != abs && (d.Name() == ".git" || prunes(exclude, rel)) {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			if matchAny(include, rel) && !matchAny(exclude, rel) {
				add(walked)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", p, err)
		}
	}

	slices.Sort(files)
	return files, nil
}

// relSlash returns target relative to root with forward slashes. Targets
// outside root keep their "../" prefix.
func relSlash(root, target string) string {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return filepath.ToSlash(target)
	}
	return filepath.ToSlash(rel)
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		// Patterns were checked up front, so err is always nil here.
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

// prunes reports whether an exclude pattern of the form "<dir>/**" covers
// the whole directory rel, so the walk need not descend into it.
func prunes(patterns []string, rel string) bool {
	for _, p := range patterns {
		prefix, ok := strings.CutSuffix(p, "/**")
		if !ok {
			continue
		}
		if matched, _ := doublestar.Match(prefix, rel); matched {
			return true
		}
	}
	return false
}

// checkPatterns reports malformed globs up front. doublestar only notices a
// bad pattern when matching reaches it, so each pattern is matched against
// its own text.
func checkPatterns(patterns []string) error {
	for _, p := range patterns {
		if _, err := doublestar.Match(p, p); err != nil {
			return fmt.Errorf("invalid glob %q: %w", p, err)
		}
	}
	return nil
}
