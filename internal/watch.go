package internal

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	tt "github.com/gnolang/rangelint/internal/types"
)

// watchDelay groups the bursts of write events editors produce on save.
const watchDelay = 100 * time.Millisecond

// ReportFunc receives the result of re-linting a changed file.
type ReportFunc func(filename string, issues []tt.Issue, err error)

// Watch re-lints .go files below paths whenever they are written, until ctx
// is cancelled.
func (e *Engine) Watch(ctx context.Context, paths []string, report ReportFunc) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}
	defer watcher.Close()

	for _, p := range paths {
		if err := addWatchDirs(watcher, p); err != nil {
			return fmt.Errorf("error adding %s to watcher: %w", p, err)
		}
	}
	e.logger.Info("watching for changes", zap.Strings("paths", paths))

	var (
		mu      sync.Mutex
		pending = make(map[string]*time.Timer)
		wg      sync.WaitGroup
	)
	defer func() {
		mu.Lock()
		for _, t := range pending {
			if t.Stop() {
				wg.Done()
			}
		}
		mu.Unlock()
		wg.Wait()
	}()

	schedule := func(name string) {
		mu.Lock()
		defer mu.Unlock()
		if t, ok := pending[name]; ok && t.Stop() {
			wg.Done()
		}
		wg.Add(1)
		pending[name] = time.AfterFunc(watchDelay, func() {
			defer wg.Done()
			mu.Lock()
			delete(pending, name)
			mu.Unlock()

			issues, err := e.Run(name)
			report(name, issues, err)
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			e.handleFileEvent(watcher, event, schedule)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.logger.Error("watch error", zap.Error(err))
		}
	}
}

func (e *Engine) handleFileEvent(watcher *fsnotify.Watcher, event fsnotify.Event, schedule func(string)) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := addWatchDirs(watcher, event.Name); err != nil {
				e.logger.Warn("cannot watch new directory", zap.String("dir", event.Name), zap.Error(err))
			}
			return
		}
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if !strings.HasSuffix(event.Name, ".go") || e.IsIgnoredPath(event.Name) {
		return
	}
	e.logger.Debug("file changed", zap.String("file", event.Name), zap.Stringer("op", event.Op))
	schedule(event.Name)
}

func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return watcher.Add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
