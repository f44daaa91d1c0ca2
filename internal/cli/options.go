package cli

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/importext/importext/internal/config"
	"github.com/importext/importext/internal/lintcache"
	"github.com/importext/importext/internal/linter"
	"github.com/importext/importext/internal/pathext"
	"github.com/importext/importext/internal/project"
	"github.com/importext/importext/internal/rules"
	"github.com/importext/importext/internal/version"
)

// ruleFlags holds the engine overrides shared by lint, watch and check.
type ruleFlags struct {
	extension string
	checkType bool
	knownExt  []string
	ignoreExt []string
}

func (f *ruleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.extension, "extension", "", "Extension to enforce (default derives from each file: .ts -> .js, .mts -> .mjs, .cts -> .cjs)")
	cmd.Flags().BoolVar(&f.checkType, "check-type", false, "Also check type-only imports and exports")
	cmd.Flags().StringSliceVar(&f.knownExt, "known-ext", nil, "Extensions stripped before the enforced one is appended (comma-separated)")
	cmd.Flags().StringSliceVar(&f.ignoreExt, "ignore-ext", nil, "Specifiers ending in these extensions are never flagged (comma-separated)")
}

// partial returns only the overrides the user actually passed.
func (f *ruleFlags) partial(cmd *cobra.Command) (pathext.PartialConfiguration, error) {
	var p pathext.PartialConfiguration
	flags := cmd.Flags()
	if flags.Changed("extension") {
		if err := checkExtension(f.extension); err != nil {
			return p, err
		}
		ext := f.extension
		p.Extension = &ext
	}
	if flags.Changed("check-type") {
		v := f.checkType
		p.CheckAlsoType = &v
	}
	if flags.Changed("known-ext") {
		p.KnownExtensions = nonNil(f.knownExt)
	}
	if flags.Changed("ignore-ext") {
		p.IgnoreExtensions = nonNil(f.ignoreExt)
	}
	return p, nil
}

func checkExtension(ext string) error {
	if !strings.HasPrefix(ext, ".") || len(ext) < 2 || strings.ContainsAny(ext, "/\\") {
		return fmt.Errorf("invalid extension %q (want something like .js)", ext)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}

// loadProject opens the project file at path, or the one found above the
// working directory when path is empty, and enforces its version
// constraint. Without a project file the defaults apply.
func loadProject(path string) (*project.Config, error) {
	var cfg *project.Config
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
		if cfg, err = project.Discover(cwd); err != nil {
			return nil, err
		}
	} else {
		var err error
		if cfg, err = project.Open(path); err != nil {
			return nil, err
		}
	}

	if err := version.Check(buildVersion, cfg.Requires); err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Path, err)
	}
	return cfg, nil
}

// enabledRules resolves which rules run and with what options. Rules named
// in only run even when the project file disables them; otherwise the
// project file decides.
func enabledRules(cfg *project.Config, only []string, overrides pathext.PartialConfiguration) (map[rules.Name]pathext.PartialConfiguration, error) {
	selected := make(map[rules.Name]bool)
	for _, s := range only {
		name, ok := rules.Parse(s)
		if !ok {
			return nil, fmt.Errorf("unknown rule %q (known: %v)", s, rules.AllNames())
		}
		selected[name] = true
	}

	out := make(map[rules.Name]pathext.PartialConfiguration)
	for _, name := range rules.AllNames() {
		if len(selected) > 0 {
			if !selected[name] {
				continue
			}
		} else if !cfg.IsEnabled(name) {
			continue
		}
		out[name] = cfg.Partial(name).Merge(overrides)
	}
	return out, nil
}

// lintSetup is what lint and watch share: a linter plus the caches behind it.
type lintSetup struct {
	linter *linter.Linter
	dirs   *pathext.CachedDirChecker
	cache  *lintcache.Cache
}

type lintSetupOptions struct {
	configPath string
	only       []string
	fix        bool
	useCache   bool
	verbose    bool
	flags      *ruleFlags
}

func newLintSetup(cmd *cobra.Command, o lintSetupOptions) (*lintSetup, error) {
	cfg, err := loadProject(o.configPath)
	if err != nil {
		return nil, err
	}

	overrides, err := o.flags.partial(cmd)
	if err != nil {
		return nil, err
	}
	enabled, err := enabledRules(cfg, o.only, overrides)
	if err != nil {
		return nil, err
	}
	if len(enabled) == 0 {
		return nil, fmt.Errorf("every rule is disabled in %s", project.ConfigPath(cfg.Dir))
	}

	dirs, err := pathext.NewCachedDirChecker(pathext.OSDirChecker{}, config.CacheSize())
	if err != nil {
		return nil, err
	}

	setup := &lintSetup{dirs: dirs}
	opts := linter.Options{
		Root:    cfg.Dir,
		RootDir: cfg.RootDir(),
		Include: cfg.Include,
		Exclude: cfg.Exclude,
		Rules:   enabled,
		Fix:     o.fix,
		Engine:  pathext.NewEngine(dirs),
	}
	if o.verbose {
		opts.Verbose = cmd.ErrOrStderr()
	}
	if o.useCache {
		cache, err := lintcache.Load(cfg.Dir)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: ignoring lint cache: %v\n", err)
		}
		setup.cache = cache
		opts.Cache = cache
	}

	setup.linter, err = linter.New(opts)
	if err != nil {
		return nil, err
	}
	return setup, nil
}
