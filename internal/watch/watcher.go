// Package watch re-indexes stations when files appear or disappear under
// their ROM directories.
package watch

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"romcat/internal/errors"
	"romcat/internal/log"

	"github.com/fsnotify/fsnotify"
)

// Change is a filesystem event under a watched directory.
type Change struct {
	Path      string
	Op        fsnotify.Op
	Timestamp time.Time
}

// Watcher monitors directory trees with fsnotify. A Watcher is single use:
// once stopped it cannot be started again.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	changes   chan Change
	stopChan  chan struct{}
	loopDone  chan struct{}

	mutex       sync.RWMutex
	directories []string
	running     bool
	stopped     bool
}

// New creates a watcher.
func New() (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	return &Watcher{
		fsWatcher: fsWatcher,
		changes:   make(chan Change, 64),
		stopChan:  make(chan struct{}),
		loopDone:  make(chan struct{}),
	}, nil
}

// AddDirectory watches a single directory.
func (w *Watcher) AddDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return errors.NewFileError("error accessing directory", dir, errors.FileNotFound, err)
	}
	if !info.IsDir() {
		return errors.NewFileError("not a directory", dir, errors.InvalidPath, nil)
	}

	if err := w.fsWatcher.Add(dir); err != nil {
		return errors.NewFileError("failed to add directory to watcher", dir, errors.IOFailure, err)
	}

	w.mutex.Lock()
	found := false
	for _, existing := range w.directories {
		if existing == dir {
			found = true
			break
		}
	}
	if !found {
		w.directories = append(w.directories, dir)
	}
	w.mutex.Unlock()
	log.LogWithFields(log.F("directory", dir)).Debug("Watching directory")
	return nil
}

// AddTree watches root and every non-hidden directory below it.
func (w *Watcher) AddTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && hidden(path) {
			return filepath.SkipDir
		}
		return w.AddDirectory(path)
	})
}

// Changes delivers events until the watcher is stopped, then closes.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Start begins delivering events.
func (w *Watcher) Start() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.running {
		return errors.New("watcher already running")
	}
	if w.stopped {
		return errors.New("watcher was stopped")
	}
	w.running = true

	go w.loop()
	return nil
}

func (w *Watcher) loop() {
	defer close(w.loopDone)
	defer close(w.changes)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handle(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithFields(log.F("error", err)).Error("fsnotify watcher error")

		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return
	}
	if hidden(event.Name) {
		return
	}

	// new subdirectories need their own watch
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.AddTree(event.Name); err != nil {
				log.LogWithFields(log.F("directory", event.Name), log.F("error", err)).Warn("Failed to watch new directory")
			}
		}
	}

	change := Change{Path: event.Name, Op: event.Op, Timestamp: time.Now()}
	select {
	case w.changes <- change:
	default:
		log.LogWithFields(log.F("file", event.Name)).Warn("Event channel is full, dropped event")
	}
}

// Stop halts the watcher and closes the Changes channel.
func (w *Watcher) Stop() {
	w.mutex.Lock()
	if !w.running {
		w.stopped = true
		w.mutex.Unlock()
		w.fsWatcher.Close()
		return
	}
	w.running = false
	w.stopped = true
	close(w.stopChan)
	w.mutex.Unlock()

	<-w.loopDone
	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("Error closing fsnotify watcher")
	}
}

// IsRunning reports whether events are being delivered.
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}

// Directories returns the watched directories.
func (w *Watcher) Directories() []string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return append([]string(nil), w.directories...)
}

func hidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
