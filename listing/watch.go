package listing

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

const DefaultWatchDelay = 250 * time.Millisecond

// Watcher reports changes to the entries of one directory. Bursts of events
// (a copy of many files, an editor's save dance) are coalesced into a single
// onChange call once the directory has been quiet for the delay.
type Watcher struct {
	fs       *fsnotify.Watcher
	delay    time.Duration
	onChange func()
	log      *logrus.Entry

	mu     sync.Mutex
	dir    string
	timer  *time.Timer
	closed bool

	done chan struct{}
	wg   sync.WaitGroup
}

// NewWatcher starts the event loop. Call Watch to pick the directory.
func NewWatcher(delay time.Duration, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if delay <= 0 {
		delay = DefaultWatchDelay
	}
	w := &Watcher{
		fs:       fsw,
		delay:    delay,
		onChange: onChange,
		log:      logrus.WithField("component", "watcher"),
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Watch replaces the watched directory with dir.
func (w *Watcher) Watch(dir string) error {
	dir = filepath.Clean(dir)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return fmt.Errorf("watcher closed")
	}
	if w.dir == dir {
		return nil
	}
	if w.dir != "" {
		if err := w.fs.Remove(w.dir); err != nil {
			w.log.WithError(err).WithField("directory", w.dir).Debug("remove watch")
		}
	}
	if err := w.fs.Add(dir); err != nil {
		w.dir = ""
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.dir = dir
	w.log.WithField("directory", dir).Debug("watching directory")
	return nil
}

// Dir returns the watched directory, or "".
func (w *Watcher) Dir() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dir
}

// Close stops the watcher. A pending onChange is dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	err := w.fs.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			// Permission changes do not alter the listing.
			if event.Op == fsnotify.Chmod {
				continue
			}
			w.schedule()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Error("fsnotify watcher error")

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || w.onChange == nil {
		return
	}
	if w.timer == nil {
		w.timer = time.AfterFunc(w.delay, w.fire)
		return
	}
	w.timer.Reset(w.delay)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if !closed {
		w.onChange()
	}
}
