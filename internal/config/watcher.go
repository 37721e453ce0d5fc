package config

import (
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/kite/internal/logging"
)

// Watcher flags changes to configuration files. It never touches editor
// state; the main loop polls Changed.
type Watcher struct {
	fs      *fsnotify.Watcher
	files   map[string]struct{}
	changed atomic.Bool
	done    chan struct{}
	logger  *logging.Logger
}

// NewWatcher watches the given files. Their directories are watched so that
// editors replacing files by rename are noticed. Directories that do not
// exist are skipped.
func NewWatcher(logger *logging.Logger, files ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Nop()
	}
	w := &Watcher{
		fs:     fw,
		files:  make(map[string]struct{}),
		done:   make(chan struct{}),
		logger: logger.WithComponent("config-watcher"),
	}

	dirs := make(map[string]struct{})
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			continue
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			w.logger.Debug("not watching %s: %v", dir, err)
		}
	}

	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if _, watched := w.files[filepath.Clean(ev.Name)]; !watched {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				w.logger.Debug("%s: %s", ev.Op, ev.Name)
				w.changed.Store(true)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error: %v", err)
		}
	}
}

// Changed reports whether a watched file changed since the last call.
func (w *Watcher) Changed() bool {
	return w.changed.Swap(false)
}

// Close stops watching.
func (w *Watcher) Close() error {
	err := w.fs.Close()
	<-w.done
	return err
}
