package server

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// Watcher monitors a set of files and invokes a callback after they change.
// It watches each file's parent directory so that editors which save by
// renaming a temporary file are still noticed. Bursts of events are
// coalesced into a single callback after the debounce interval.
type Watcher struct {
	files    map[string]struct{}
	onChange func()
	debounce time.Duration
	done     chan struct{}
	once     sync.Once
}

// NewWatcher creates a Watcher for the given files.
func NewWatcher(files []string, debounce time.Duration, onChange func()) *Watcher {
	set := make(map[string]struct{}, len(files))
	for _, f := range files {
		if abs, err := filepath.Abs(f); err == nil {
			set[abs] = struct{}{}
		}
	}
	return &Watcher{
		files:    set,
		onChange: onChange,
		debounce: debounce,
		done:     make(chan struct{}),
	}
}

// Start begins watching. It blocks until Stop is called or the underlying
// watcher fails.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	dirs := make(map[string]struct{})
	for f := range w.files {
		dirs[filepath.Dir(f)] = struct{}{}
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			log.WithError(err).WithField("path", dir).Warn("cannot watch directory")
		}
	}

	var timer *time.Timer
	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			log.WithFields(log.Fields{"path": event.Name, "op": event.Op.String()}).Debug("change detected")

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, w.onChange)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("watcher error")

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return nil
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	_, ok := w.files[abs]
	return ok
}

// Stop signals the watcher to stop monitoring files.
func (w *Watcher) Stop() {
	w.once.Do(func() {
		close(w.done)
	})
}
