// Package watch post-processes G-code files as a slicer exports them into a
// directory. Events are debounced per file so a file is handled once its
// writer has gone quiet.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/yaklabco/gobricklayer/pkg/runner"
)

// Default timings.
const (
	DefaultDebounce = 500 * time.Millisecond
	defaultTick     = 100 * time.Millisecond
)

// ErrNoDirectories is returned when there is nothing to watch.
var ErrNoDirectories = errors.New("no directories to watch")

// Handler receives a batch of settled files in sorted order.
type Handler func(ctx context.Context, paths []string)

// Options configures a Watcher.
type Options struct {
	// Dirs are watched recursively; hidden subdirectories are skipped.
	Dirs []string

	// Extensions limits which files are handled. Empty means
	// runner.DefaultExtensions.
	Extensions []string

	// Ignore excludes files and directories, matched relative to the
	// watched directory they were found under.
	Ignore runner.Globs

	// Debounce is how long a file must stay quiet before it is handled.
	Debounce time.Duration

	Logger *log.Logger
}

// Stats counts watcher activity.
type Stats struct {
	Events  int
	Batches int
	Files   int
	Errors  int
}

// Watcher turns filesystem events into debounced handler calls.
type Watcher struct {
	opts    Options
	handle  Handler
	fsw     *fsnotify.Watcher
	roots   []string
	tick    time.Duration
	logger  *log.Logger
	mu      sync.Mutex
	pending map[string]time.Time
	stats   Stats
}

// New creates a watcher over opts.Dirs. Call Run to start it.
func New(opts Options, handle Handler) (*Watcher, error) {
	if len(opts.Dirs) == 0 {
		return nil, ErrNoDirectories
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = runner.DefaultExtensions()
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		opts:    opts,
		handle:  handle,
		fsw:     fsw,
		tick:    min(defaultTick, opts.Debounce),
		logger:  logger,
		pending: make(map[string]time.Time),
	}

	for _, dir := range opts.Dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("resolve %s: %w", dir, err)
		}
		w.roots = append(w.roots, abs)
		if err := w.addTree(abs); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}

	return w, nil
}

// addTree watches root and every non-hidden, non-ignored directory below it.
func (w *Watcher) addTree(root string) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (isHidden(d.Name()) || w.opts.Ignore.MatchDir(w.rel(path))) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		w.logger.Debug("watching directory", "path", path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	return nil
}

// Dirs returns the directories currently watched.
func (w *Watcher) Dirs() []string {
	dirs := w.fsw.WatchList()
	slices.Sort(dirs)
	return dirs
}

// Stats returns a snapshot of the watcher counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// Run processes events until ctx is cancelled, then releases the watcher.
// Files still inside their debounce window when ctx ends are dropped.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", "error", err)
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case now := <-ticker.C:
			if batch := w.settled(now); len(batch) > 0 {
				w.mu.Lock()
				w.stats.Batches++
				w.stats.Files += len(batch)
				w.mu.Unlock()
				w.handle(ctx, batch)
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if isHidden(info.Name()) || w.opts.Ignore.MatchDir(w.rel(event.Name)) {
				return
			}
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn("cannot watch new directory", "path", event.Name, "error", err)
			}
			return
		}
	}

	if !w.wanted(event.Name) {
		return
	}

	w.logger.Debug("file event", "path", event.Name, "op", event.Op.String())

	w.mu.Lock()
	w.stats.Events++
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
}

// settled removes and returns the files quiet for at least the debounce window.
func (w *Watcher) settled(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var batch []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.opts.Debounce {
			batch = append(batch, path)
			delete(w.pending, path)
		}
	}
	slices.Sort(batch)
	return batch
}

func (w *Watcher) wanted(path string) bool {
	base := filepath.Base(path)
	if isHidden(base) {
		return false
	}
	if !hasExtension(base, w.opts.Extensions) {
		return false
	}
	return !w.opts.Ignore.Match(w.rel(path))
}

// rel returns path relative to the watched root containing it.
func (w *Watcher) rel(path string) string {
	for _, root := range w.roots {
		if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(path)
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

func hasExtension(name string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range extensions {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}
