package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the tree must be quiet before a batch is
// delivered.
const DefaultDebounce = 300 * time.Millisecond

// Watcher delivers debounced batches of changed paths.
type Watcher struct {
	Debounce time.Duration
	// OnError receives watcher errors. Nil ignores them.
	OnError func(error)
}

// Run watches every directory under roots, skipping node_modules and dot
// directories, and calls onChange with the sorted set of paths written,
// created, removed or renamed since the last call. Directories created while
// running are watched too, and the files already inside them when they are
// picked up count as changed. onChange runs on the watching goroutine, so
// events that arrive meanwhile are batched for the next call. Run returns
// nil when ctx is cancelled.
func (w *Watcher) Run(ctx context.Context, roots []string, onChange func(context.Context, []string)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer fw.Close()

	for _, root := range roots {
		if err := addRecursive(fw, root, nil); err != nil {
			return fmt.Errorf("watching %s: %w", root, err)
		}
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	pending := make(map[string]bool)
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			if Skipped(filepath.Base(ev.Name)) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					// Files may have landed before the directory was watched,
					// or arrived with it in a move.
					err := addRecursive(fw, ev.Name, func(path string) {
						pending[path] = true
					})
					if err != nil {
						w.report(err)
					}
					if len(pending) > 0 {
						timer.Reset(debounce)
					}
					continue
				}
			}
			pending[ev.Name] = true
			timer.Reset(debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.report(err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			batch := make([]string, 0, len(pending))
			for p := range pending {
				batch = append(batch, p)
			}
			slices.Sort(batch)
			clear(pending)
			onChange(ctx, batch)
		}
	}
}

func (w *Watcher) report(err error) {
	if w.OnError != nil {
		w.OnError(err)
	}
}

// Skipped reports whether a directory or file name is never watched:
// node_modules and anything starting with a dot.
func Skipped(name string) bool {
	return name == "node_modules" || (strings.HasPrefix(name, ".") && name != "." && name != "..")
}

// addRecursive watches root and the directories below it. onFile, when set,
// receives every regular file found on the way.
func addRecursive(fw *fsnotify.Watcher, root string, onFile func(string)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// A directory removed mid-walk is not worth failing over.
			if path != root && os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			if onFile != nil && d.Type().IsRegular() && !Skipped(d.Name()) {
				onFile(path)
			}
			return nil
		}
		if path != root && Skipped(d.Name()) {
			return filepath.SkipDir
		}
		return fw.Add(path)
	})
}
