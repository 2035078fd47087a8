package i18n

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const debounceWindow = 500 * time.Millisecond

// watcher re-reads locale files when they change on disk. Repeated change
// events for the same file are coalesced over a 500ms window, which covers
// partial-write races while files are being edited.
type watcher struct {
	catalog *Catalog
	fs      *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer

	done chan struct{}
}

// Watch enables auto-reload for the catalog directory. Call Close to stop.
func (c *Catalog) Watch() error {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fs.Add(c.dir); err != nil {
		_ = fs.Close()
		return err
	}

	w := &watcher{
		catalog: c,
		fs:      fs,
		pending: make(map[string]struct{}),
		done:    make(chan struct{}),
	}
	c.watcher = w
	go w.run()
	return nil
}

// Close stops the auto-reload watcher, if enabled.
func (c *Catalog) Close() {
	if c.watcher == nil {
		return
	}
	close(c.watcher.done)
	_ = c.watcher.fs.Close()
	c.watcher = nil
}

func (w *watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			name := filepath.Base(event.Name)
			if !strings.HasSuffix(name, ".json") {
				continue
			}
			w.mark(strings.TrimSuffix(name, ".json"))
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.catalog.log.Warn("locale watch error", zap.Error(err))
		}
	}
}

func (w *watcher) mark(locale string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[locale] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(debounceWindow, w.flush)
}

func (w *watcher) flush() {
	w.mu.Lock()
	locales := make([]string, 0, len(w.pending))
	for locale := range w.pending {
		locales = append(locales, locale)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	c := w.catalog
	c.mu.Lock()
	for _, locale := range locales {
		c.readLocked(locale)
	}
	c.mu.Unlock()
	for _, locale := range locales {
		c.log.Info("reloaded locale file", zap.String("locale", locale))
	}
}
