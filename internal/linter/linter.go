package linter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/importext/importext/internal/lintcache"
	"github.com/importext/importext/internal/pathext"
	"github.com/importext/importext/internal/platform"
	"github.com/importext/importext/internal/rules"
	"github.com/importext/importext/internal/source"
)

// Options configures a Linter.
type Options struct {
	// Root is the project directory. Globs, cache keys and reported paths
	// are relative to it.
	Root string
	// RootDir is the base for root-relative specifiers such as "/lib/a".
	// Empty resolves them against the containing file's directory.
	RootDir string
	Include []string
	Exclude []string
	// Rules holds the enabled rules and their options.
	Rules map[rules.Name]pathext.PartialConfiguration
	Fix   bool
	// Engine decides single specifiers. Nil uses the real filesystem
	// without caching.
	Engine *pathext.Engine
	// Cache skips files that were clean under the same options. Optional.
	Cache *lintcache.Cache
	// Jobs bounds how many files are linted at once. Zero means GOMAXPROCS.
	Jobs int
	// Verbose receives per-file trace lines. Nil discards them.
	Verbose io.Writer
}

// FileResult is the outcome of linting one file.
type FileResult struct {
	// Path is relative to Options.Root, slash-separated.
	Path        string             `json:"path"`
	Diagnostics []rules.Diagnostic `json:"diagnostics"`
	// Fixed is set when fixes were written back.
	Fixed bool `json:"fixed,omitempty"`
	// Output is the file content after fixes. Nil when nothing changed.
	Output []byte `json:"-"`
	// ParseError is set when the file could not be scanned; it was skipped.
	ParseError string `json:"parseError,omitempty"`
	// Cached is set when the file was skipped as unchanged and clean.
	Cached bool `json:"cached,omitempty"`
}

// Problems returns the number of diagnostics that were not fixed.
func (r FileResult) Problems() int {
	n := 0
	for _, d := range r.Diagnostics {
		if !d.Fixed {
			n++
		}
	}
	return n
}

// Report summarizes a lint run.
type Report struct {
	Files           []FileResult `json:"files"`
	ErrorCount      int          `json:"errorCount"`
	FixedCount      int          `json:"fixedCount"`
	ParseErrorCount int          `json:"parseErrorCount"`
	CachedCount     int          `json:"cachedCount"`
}

func (r *Report) add(fr FileResult) {
	r.Files = append(r.Files, fr)
	for _, d := range fr.Diagnostics {
		if d.Fixed {
			r.FixedCount++
		} else {
			r.ErrorCount++
		}
	}
	if fr.ParseError != "" {
		r.ParseErrorCount++
	}
	if fr.Cached {
		r.CachedCount++
	}
}

// Linter lints files with a fixed set of options.
type Linter struct {
	opts        Options
	root        string
	rules       []*rules.Rule
	fingerprint string

	logMu sync.Mutex
}

// New validates opts and returns a Linter.
func New(opts Options) (*Linter, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", opts.Root, err)
	}
	if err := checkPatterns(opts.Include); err != nil {
		return nil, err
	}
	if err := checkPatterns(opts.Exclude); err != nil {
		return nil, err
	}
	if opts.Engine == nil {
		opts.Engine = pathext.NewEngine(nil)
	}
	if opts.Verbose == nil {
		opts.Verbose = io.Discard
	}
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.GOMAXPROCS(0)
	}

	l := &Linter{opts: opts, root: root}
	for _, r := range rules.All() {
		if _, ok := opts.Rules[r.Name]; ok {
			l.rules = append(l.rules, r)
		}
	}

	if opts.Cache != nil {
		l.fingerprint, err = lintcache.Fingerprint(struct {
			RootDir string
			Rules   map[rules.Name]pathext.PartialConfiguration
		}{opts.RootDir, opts.Rules})
		if err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Root returns the absolute project directory.
func (l *Linter) Root() string {
	return l.root
}

// Collect expands paths using the configured include and exclude globs.
func (l *Linter) Collect(paths []string) ([]string, error) {
	return CollectFiles(l.root, paths, l.opts.Include, l.opts.Exclude)
}

// Matches reports whether path would be linted when its directory is walked:
// it is a regular file matching include and no exclude pattern.
func (l *Linter) Matches(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	info, err := os.Stat(abs)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	rel := relSlash(l.root, abs)
	return matchAny(l.opts.Include, rel) && !matchAny(l.opts.Exclude, rel)
}

// Run collects the files under paths and lints them. Results are in file
// order regardless of how many run at once.
func (l *Linter) Run(ctx context.Context, paths []string) (*Report, error) {
	files, err := l.Collect(paths)
	if err != nil {
		return nil, err
	}
	return l.LintFiles(ctx, files)
}

// LintFiles lints an explicit list of files.
func (l *Linter) LintFiles(ctx context.Context, files []string) (*Report, error) {
	results := make([]FileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.opts.Jobs)
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fr, err := l.LintFile(f)
			if err != nil {
				return err
			}
			results[i] = fr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Files: make([]FileResult, 0, len(files))}
	for _, fr := range results {
		report.add(fr)
	}

	if l.opts.Cache != nil {
		if err := l.opts.Cache.Save(); err != nil {
			return report, err
		}
	}
	return report, nil
}

// LintFile lints one file. A file that cannot be scanned is reported through
// FileResult.ParseError, not the error return, which is for I/O failures.
func (l *Linter) LintFile(path string) (FileResult, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return FileResult{}, fmt.Errorf("resolving %s: %w", path, err)
	}
	rel := relSlash(l.root, abs)
	result := FileResult{Path: rel}

	src, err := os.ReadFile(abs)
	if err != nil {
		return result, fmt.Errorf("reading %s: %w", rel, err)
	}

	if l.opts.Cache != nil && l.opts.Cache.Fresh(rel, src, l.fingerprint) {
		result.Cached = true
		l.tracef("%s: cached\n", rel)
		return result, nil
	}

	diags, err := l.Check(abs, src)
	if err != nil {
		var syntaxErr *source.SyntaxError
		if !errors.As(err, &syntaxErr) {
			return result, err
		}
		result.ParseError = syntaxErr.Error()
		l.tracef("%s: skipped: %v\n", rel, syntaxErr)
		l.forget(rel)
		return result, nil
	}
	result.Diagnostics = diags

	final := src
	if l.opts.Fix && len(diags) > 0 {
		out, applied := ApplyFixes(src, diags)
		for _, i := range applied {
			result.Diagnostics[i].Fixed = true
		}
		if len(applied) > 0 {
			if err := writePreservingMode(abs, out); err != nil {
				return result, err
			}
			result.Output = out
			result.Fixed = true
			final = out
		}
	}

	l.tracef("%s: %d problem(s), %d fixed\n", rel, len(result.Diagnostics), countFixed(result.Diagnostics))

	if result.Problems() == 0 {
		if l.opts.Cache != nil {
			l.opts.Cache.Record(rel, final, l.fingerprint)
		}
	} else {
		l.forget(rel)
	}
	return result, nil
}

// Check runs the enabled rules over src, which was read from file, and
// returns diagnostics ordered by position. Errors come only from scanning.
func (l *Linter) Check(file string, src []byte) ([]rules.Diagnostic, error) {
	nodes, err := source.Scan(src)
	if err != nil {
		return nil, err
	}

	contexts := make([]rules.Context, len(l.rules))
	for i, r := range l.rules {
		contexts[i] = rules.Context{
			File:    file,
			RootDir: l.opts.RootDir,
			Config:  pathext.Resolve(file, l.opts.Rules[r.Name]),
			Engine:  l.opts.Engine,
		}
	}

	var diags []rules.Diagnostic
	for _, n := range nodes {
		for i, r := range l.rules {
			if d, ok := r.Check(n, contexts[i]); ok {
				diags = append(diags, d)
			}
		}
	}
	slices.SortStableFunc(diags, func(a, b rules.Diagnostic) int {
		return fixStart(a) - fixStart(b)
	})
	return diags, nil
}

// ApplyFixes splices the fixes of diags into src from the back so earlier
// offsets stay valid. A fix overlapping one already applied is skipped.
// It returns the new content and the indexes of the diagnostics applied.
func ApplyFixes(src []byte, diags []rules.Diagnostic) ([]byte, []int) {
	order := make([]int, 0, len(diags))
	for i, d := range diags {
		if d.Fix != nil && d.Fix.Start >= 0 && d.Fix.Start <= d.Fix.End && d.Fix.End <= len(src) {
			order = append(order, i)
		}
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return diags[b].Fix.Start - diags[a].Fix.Start
	})

	out := slices.Clone(src)
	var applied []int
	limit := len(src) + 1
	for _, i := range order {
		fix := diags[i].Fix
		if fix.End > limit {
			continue
		}
		out = slices.Concat(out[:fix.Start], []byte(fix.Text), out[fix.End:])
		applied = append(applied, i)
		limit = fix.Start
	}
	slices.Sort(applied)
	return out, applied
}

func writePreservingMode(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := platform.WriteFileAtomic(path, data, info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing fixes to %s: %w", path, err)
	}
	return nil
}

func (l *Linter) forget(rel string) {
	if l.opts.Cache != nil {
		l.opts.Cache.Forget(rel)
	}
}

func (l *Linter) tracef(format string, args ...any) {
	l.logMu.Lock()
	defer l.logMu.Unlock()
	fmt.Fprintf(l.opts.Verbose, format, args...)
}

func fixStart(d rules.Diagnostic) int {
	if d.Fix == nil {
		return 0
	}
	return d.Fix.Start
}

func countFixed(diags []rules.Diagnostic) int {
	n := 0
	for _, d := range diags {
		if d.Fixed {
			n++
		}
	}
	return n
}
