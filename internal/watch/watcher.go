// Package watch recompiles resolver handlers when their sources change.
package watch

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

	"github.com/resolverkit/resolverkit/internal/utils"
)

// DefaultDelay is the quiet period before a batch of changes is reported
const DefaultDelay = 100 * time.Millisecond

// Options configures a FileWatcher
type Options struct {
	// Root is the handler source directory, watched recursively
	Root string
	// Extensions selects handler files; empty uses utils.DefaultHandlerExtensions
	Extensions []string
	// Ignored directories are never watched, e.g. the output directory
	Ignored []string
	Delay   time.Duration
}

// FileWatcher monitors handler sources and reports debounced changes
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	opts      Options
	ignored   []string
	onChange  func([]string) error
	logger    *zap.Logger
	stopChan  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// NewFileWatcher creates a new file watcher instance
func NewFileWatcher(opts Options, onChange func([]string) error, logger *zap.Logger) (*FileWatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = utils.DefaultHandlerExtensions
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	fw := &FileWatcher{
		watcher:   watcher,
		debouncer: NewDebouncer(opts.Delay),
		opts:      opts,
		onChange:  onChange,
		logger:    logger,
		stopChan:  make(chan struct{}),
	}
	for _, dir := range opts.Ignored {
		if abs, err := filepath.Abs(dir); err == nil {
			fw.ignored = append(fw.ignored, abs)
		}
	}

	fw.debouncer.SetCallback(func(files []string) {
		if err := fw.onChange(files); err != nil {
			fw.logger.Error("handling file changes", zap.Strings("files", files), zap.Error(err))
		}
	})

	return fw, nil
}

// Start watches Root and every directory below it
func (fw *FileWatcher) Start() error {
	if err := fw.addTree(fw.opts.Root); err != nil {
		return err
	}

	fw.wg.Add(1)
	go fw.watch()

	return nil
}

// Run starts the watcher and blocks until ctx is done
func (fw *FileWatcher) Run(ctx context.Context) error {
	if err := fw.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	return fw.Stop()
}

// Stop stops the file watcher; calling it again is a no-op
func (fw *FileWatcher) Stop() error {
	var err error
	fw.stopOnce.Do(func() {
		close(fw.stopChan)
		fw.wg.Wait()
		fw.debouncer.Stop()
		err = fw.watcher.Close()
	})
	return err
}

// watch is the main event loop
func (fw *FileWatcher) watch() {
	defer fw.wg.Done()

	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handle(event)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("watcher error", zap.Error(err))

		case <-fw.stopChan:
			return
		}
	}
}

func (fw *FileWatcher) handle(event fsnotify.Event) {
	if fw.shouldIgnore(event.Name) {
		return
	}

	if event.Has(fsnotify.Create) && isDir(event.Name) {
		if err := fw.addTree(event.Name); err != nil {
			fw.logger.Warn("watching new directory", zap.String("dir", event.Name), zap.Error(err))
		}
		return
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	if !utils.HasExtension(event.Name, fw.opts.Extensions) {
		return
	}

	fw.logger.Debug("handler changed", zap.String("file", event.Name), zap.String("op", event.Op.String()))
	fw.debouncer.Add(event.Name)
}

// addTree watches dir and its subdirectories, skipping ignored ones
func (fw *FileWatcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && fw.shouldIgnore(path) {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", path, err)
		}
		fw.logger.Debug("watching directory", zap.String("dir", path))
		return nil
	})
}

// shouldIgnore reports hidden entries, node_modules and anything under an ignored directory
func (fw *FileWatcher) shouldIgnore(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") && base != "." && base != ".." {
		return true
	}
	if base == "node_modules" {
		return true
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, dir := range fw.ignored {
		if abs == dir || strings.HasPrefix(abs, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
