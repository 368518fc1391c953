package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
)

// Watcher reports batches of changed source files. Events are debounced so
// an editor's write-rename-chmod burst yields a single callback.
type Watcher struct {
	fsWatcher   *fsnotify.Watcher
	debounce    time.Duration
	patterns    []glob.Glob
	excludeDirs []glob.Glob
	onChange    func([]string)
	callbackMu  sync.Mutex
	logger      *slog.Logger

	dirs  map[string]struct{} // watched as a whole
	files map[string]struct{} // named on their own

	pending   map[string]struct{}
	pendingMu sync.Mutex
	timer     *time.Timer
}

type Option func(*Watcher)

func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// NewWatcher builds a watcher that calls onChange with every file whose
// base name matches one of patterns.
func NewWatcher(debounce time.Duration, patterns, excludeDirs []string, onChange func([]string), opts ...Option) (*Watcher, error) {
	w := &Watcher{
		debounce: debounce,
		onChange: onChange,
		logger:   slog.New(slog.DiscardHandler),
		dirs:     make(map[string]struct{}),
		files:    make(map[string]struct{}),
		pending:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	var err error
	if w.patterns, err = compileAll(patterns); err != nil {
		return nil, err
	}
	if w.excludeDirs, err = compileAll(excludeDirs); err != nil {
		return nil, err
	}

	w.fsWatcher, err = fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return w, nil
}

func compileAll(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

// Watch registers every path (recursively for directories) and starts the
// event loop. The loop exits when ctx is done or the watcher is closed.
func (w *Watcher) Watch(ctx context.Context, paths []string) error {
	for _, path := range paths {
		if err := w.watchRecursive(path); err != nil {
			return err
		}
	}

	go w.run(ctx)
	return nil
}

func (w *Watcher) watchRecursive(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		// Single files are watched through their directory; siblings are
		// filtered out by matches.
		w.files[absPath(root)] = struct{}{}
		return w.fsWatcher.Add(filepath.Dir(root))
	}

	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && w.shouldExcludeDir(path) {
			return filepath.SkipDir
		}
		w.dirs[absPath(path)] = struct{}{}
		return w.fsWatcher.Add(path)
	})
}

func (w *Watcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			if event.Has(fsnotify.Create) {
				info, err := os.Stat(event.Name)
				if err == nil && info.IsDir() {
					if w.inWatchedDir(event.Name) && !w.shouldExcludeDir(event.Name) {
						if err := w.watchRecursive(event.Name); err != nil {
							w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
						}
					}
					continue
				}
			}

			if !w.matches(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.scheduleChange(event.Name)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) scheduleChange(path string) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending[path] = struct{}{}

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flushChanges)
}

func (w *Watcher) flushChanges() {
	w.pendingMu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]struct{})
	w.pendingMu.Unlock()

	if len(paths) == 0 {
		return
	}
	slices.Sort(paths)
	w.logger.Debug("files changed", "count", len(paths))

	w.callbackMu.Lock()
	defer w.callbackMu.Unlock()
	w.onChange(paths)
}

func (w *Watcher) shouldExcludeDir(path string) bool {
	base := filepath.Base(path)
	for _, g := range w.excludeDirs {
		if g.Match(base) {
			return true
		}
	}
	return false
}

// matches reports whether a change to path should be reported: either the
// file was named to Watch, or it sits in a watched directory and matches a
// pattern.
func (w *Watcher) matches(path string) bool {
	if _, ok := w.files[absPath(path)]; ok {
		return true
	}
	return w.inWatchedDir(path) && w.matchesPattern(path)
}

func (w *Watcher) inWatchedDir(path string) bool {
	_, ok := w.dirs[filepath.Dir(absPath(path))]
	return ok
}

func (w *Watcher) matchesPattern(path string) bool {
	base := filepath.Base(path)
	for _, g := range w.patterns {
		if g.Match(base) {
			return true
		}
	}
	return false
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

func (w *Watcher) Close() error {
	w.pendingMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pendingMu.Unlock()
	return w.fsWatcher.Close()
}
