package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

// DefaultDebounce is the quiet period after the last filesystem event before
// a rebuild starts.
const DefaultDebounce = 300 * time.Millisecond

// Rebuild performs one build. Errors are logged; watching continues.
type Rebuild func(ctx context.Context) error

// Options configures Run.
type Options struct {
	// Interval forces a rebuild periodically when positive.
	Interval time.Duration
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
}

// Run builds once, then rebuilds on changes below root until ctx is done.
func Run(ctx context.Context, root string, rebuild Rebuild, opts Options) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	runBuild(ctx, rebuild)

	watcher, err := newWatcher(root)
	if err != nil {
		return err
	}
	defer func() {
		_ = watcher.Close()
	}()

	deb := newDebouncer(opts.Debounce)

	if opts.Interval > 0 {
		sched, err := NewScheduler()
		if err != nil {
			return err
		}
		if err := sched.Every(opts.Interval, deb.Trigger); err != nil {
			return err
		}
		sched.Start()
		defer func() {
			if err := sched.Stop(); err != nil {
				slog.Warn("Scheduler shutdown failed", logfields.Error(err))
			}
		}()
	}

	done := startWorker(ctx, rebuild, deb.C())
	slog.Info("Watching for changes", logfields.Path(root))
	err = loop(ctx, watcher, deb.Trigger)
	deb.Stop()
	<-done
	return err
}

func loop(ctx context.Context, watcher *fsnotify.Watcher, trigger func()) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			handleEvent(watcher, ev, trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func runBuild(ctx context.Context, rebuild Rebuild) {
	if err := rebuild(ctx); err != nil {
		slog.Error("Build failed", logfields.Error(err))
	}
}

func newWatcher(root string) (*fsnotify.Watcher, error) {
	if fi, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("watch root: %w", err)
	} else if !fi.IsDir() {
		return nil, fmt.Errorf("watch root %s: not a directory", root)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	if err := addDirsRecursive(watcher, root); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	return watcher, nil
}

// startWorker serializes rebuilds. A request arriving mid-build runs once the
// build finishes.
func startWorker(ctx context.Context, rebuild Rebuild, requests <-chan struct{}) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-requests:
				if !ok {
					return
				}
				slog.Info("Change detected; rebuilding site")
				runBuild(ctx, rebuild)
			}
		}
	}()
	return done
}

func handleEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(watcher, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			if err := w.Add(path); err != nil {
				slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent reports events for hidden, editor swap and OS metadata files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db":
		return true
	}
	return false
}
