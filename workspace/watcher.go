package workspace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
)

// DefaultDebounce is how long the watcher waits for a burst of file
// events to settle before re-parsing.
const DefaultDebounce = 100 * time.Millisecond

// FileWatcher re-parses documents of a Workspace when their files change
// on disk.
type FileWatcher struct {
	ws       *Workspace
	fsw      *fsnotify.Watcher
	debounce time.Duration
	onUpdate func(*Document)
	onRemove func(path string)
	stopCh   chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

type WatcherOption func(*FileWatcher)

func WithDebounce(d time.Duration) WatcherOption {
	return func(w *FileWatcher) { w.debounce = d }
}

// OnUpdate sets a function called with every re-parsed document.
func OnUpdate(f func(*Document)) WatcherOption {
	return func(w *FileWatcher) { w.onUpdate = f }
}

// OnRemove sets a function called with the path of every deleted file.
func OnRemove(f func(path string)) WatcherOption {
	return func(w *FileWatcher) { w.onRemove = f }
}

func NewFileWatcher(ws *Workspace, opts ...WatcherOption) (*FileWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &FileWatcher{
		ws:       ws,
		fsw:      fsw,
		debounce: DefaultDebounce,
		onUpdate: func(*Document) {},
		onRemove: func(string) {},
		stopCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Add watches path. A directory is watched with all its subdirectories
// except hidden ones.
func (w *FileWatcher) Add(path string) error {
	info, err := w.ws.fs.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.fsw.Add(filepath.Dir(path))
	}
	return afero.Walk(w.ws.fs, path, func(p string, info os.FileInfo, err error) error {
		if err != nil || !info.IsDir() {
			return nil
		}
		if p != path && strings.HasPrefix(info.Name(), ".") {
			return filepath.SkipDir
		}
		return w.fsw.Add(p)
	})
}

// Start runs the watcher until ctx is done or Stop is called.
func (w *FileWatcher) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.run(ctx)
}

// Stop ends the watcher and waits for it to finish.
func (w *FileWatcher) Stop() error {
	w.stopOnce.Do(func() { close(w.stopCh) })
	w.wg.Wait()
	return w.fsw.Close()
}

func (w *FileWatcher) run(ctx context.Context) {
	defer w.wg.Done()

	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) {
				if info, err := w.ws.fs.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.Add(ev.Name); err != nil {
						log.Warningf("watch %s: %s", ev.Name, err)
					}
					continue
				}
			}
			if ev.Has(fsnotify.Chmod) || !w.ws.Handles(ev.Name) {
				continue
			}
			pending[ev.Name] = true
			timer.Reset(w.debounce)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Errorf("watch: %s", err)
		case <-timer.C:
			for path := range pending {
				w.refresh(path)
			}
			clear(pending)
		}
	}
}

func (w *FileWatcher) refresh(path string) {
	if _, err := w.ws.fs.Stat(path); errors.Is(err, os.ErrNotExist) {
		w.ws.RemoveFile(path)
		w.onRemove(path)
		return
	}
	doc, err := w.ws.ScanFile(path)
	if doc == nil {
		log.Warningf("rescan %s: %s", path, err)
		return
	}
	w.onUpdate(doc)
}

