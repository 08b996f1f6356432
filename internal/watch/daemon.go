package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"romcat/internal/catalog"
	"romcat/internal/config"
	"romcat/internal/errors"
	"romcat/internal/log"
)

// DaemonStatus represents the current status of the daemon
type DaemonStatus struct {
	Running          bool      // Whether the daemon is currently active
	WatchDirectories []string  // Directories being watched
	LastActivity     time.Time // Time of last file activity
	Rescans          int       // Station rescans run so far
}

// RescanFunc is told about every rescan the daemon runs.
type RescanFunc func(stationID, entries int, err error)

// Daemon watches the ROM directories of every enabled station and rescans
// a station once its directories have been quiet for the debounce period.
type Daemon struct {
	config   *config.Config
	catalog  *catalog.Service
	watcher  *Watcher
	debounce time.Duration
	logger   log.Logging

	mutex        sync.RWMutex
	timers       map[int]*time.Timer
	lastActivity time.Time
	rescans      int
	callback     RescanFunc
	running      bool

	pending chan int
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewDaemon creates a daemon rescanning stations of svc.
func NewDaemon(cfg *config.Config, svc *catalog.Service) (*Daemon, error) {
	watcher, err := New()
	if err != nil {
		return nil, err
	}
	debounce := time.Duration(cfg.WatchMode.DebounceMS) * time.Millisecond
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Daemon{
		config:   cfg,
		catalog:  svc,
		watcher:  watcher,
		debounce: debounce,
		logger:   log.Default(),
		timers:   make(map[int]*time.Timer),
		pending:  make(chan int, config.MaxStations),
	}, nil
}

// SetDebounce overrides the quiet period. It must be called before Start.
func (d *Daemon) SetDebounce(debounce time.Duration) {
	d.debounce = debounce
}

// SetCallback sets a function called after every rescan.
func (d *Daemon) SetCallback(cb RescanFunc) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.callback = cb
}

// Start watches the station directories that exist on disk. A failed Start
// releases the underlying watcher; the daemon cannot be started again.
func (d *Daemon) Start(ctx context.Context) error {
	d.mutex.Lock()
	if d.running {
		d.mutex.Unlock()
		return errors.New("daemon is already running")
	}
	d.mutex.Unlock()

	for _, dir := range d.stationDirs() {
		if err := d.watcher.AddTree(dir.path); err != nil {
			d.watcher.Stop()
			return errors.Wrapf(err, "error adding watch directory %s", dir.path)
		}
	}
	if len(d.watcher.Directories()) == 0 {
		d.watcher.Stop()
		return errors.New("no directories to watch")
	}
	if err := d.watcher.Start(); err != nil {
		d.watcher.Stop()
		return errors.Wrap(err, "error starting watcher")
	}

	ctx, cancel := context.WithCancel(ctx)
	d.mutex.Lock()
	d.running = true
	d.cancel = cancel
	d.mutex.Unlock()

	d.wg.Add(2)
	go d.processEvents()
	go d.rescanLoop(ctx)

	d.logger.With(log.F("directories", len(d.watcher.Directories())), log.F("debounce", d.debounce)).Info("watch started")
	return nil
}

// Stop halts the daemon and waits for a running rescan to finish.
func (d *Daemon) Stop() {
	d.mutex.Lock()
	if !d.running {
		d.mutex.Unlock()
		return
	}
	d.running = false
	for id, t := range d.timers {
		t.Stop()
		delete(d.timers, id)
	}
	cancel := d.cancel
	d.mutex.Unlock()

	cancel()
	d.watcher.Stop()
	d.wg.Wait()
	d.logger.Info("watch stopped")
}

// Status returns the current status of the daemon
func (d *Daemon) Status() DaemonStatus {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	return DaemonStatus{
		Running:          d.running,
		WatchDirectories: d.watcher.Directories(),
		LastActivity:     d.lastActivity,
		Rescans:          d.rescans,
	}
}

// StationFor returns the enabled station whose ROM directory holds path.
func (d *Daemon) StationFor(path string) (int, bool) {
	path = filepath.Clean(path)
	for _, dir := range d.stationDirs() {
		if path == dir.path || strings.HasPrefix(path, dir.path+string(filepath.Separator)) {
			return dir.station, true
		}
	}
	return 0, false
}

type stationDir struct {
	station int
	path    string
}

// stationDirs lists the existing ROM directories of enabled stations.
func (d *Daemon) stationDirs() []stationDir {
	var dirs []stationDir
	for _, st := range d.catalog.Stations() {
		if !st.Enabled {
			continue
		}
		for _, root := range d.config.Roots() {
			path := filepath.Clean(filepath.Join(root, st.RomPath))
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				dirs = append(dirs, stationDir{station: st.ID, path: path})
			}
		}
	}
	return dirs
}

func (d *Daemon) processEvents() {
	defer d.wg.Done()
	for change := range d.watcher.Changes() {
		id, ok := d.StationFor(change.Path)
		if !ok {
			continue
		}
		d.schedule(id, change.Timestamp)
	}
}

// schedule (re)arms the debounce timer of station id.
func (d *Daemon) schedule(id int, at time.Time) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if !d.running {
		return
	}
	d.lastActivity = at
	d.armLocked(id)
}

// retry re-arms station id without counting it as file activity.
func (d *Daemon) retry(id int) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if !d.running {
		return
	}
	d.armLocked(id)
}

func (d *Daemon) armLocked(id int) {
	if t, ok := d.timers[id]; ok {
		t.Reset(d.debounce)
		return
	}
	d.timers[id] = time.AfterFunc(d.debounce, func() {
		d.mutex.Lock()
		delete(d.timers, id)
		d.mutex.Unlock()
		select {
		case d.pending <- id:
		default:
		}
	})
}

func (d *Daemon) rescanLoop(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case id := <-d.pending:
			d.rescan(ctx, id)
		}
	}
}

func (d *Daemon) rescan(ctx context.Context, id int) {
	logger := d.logger.With(log.F("station_id", id))
	n, err := d.catalog.ScanStation(ctx, id)
	if errors.Is(err, catalog.ErrScanBusy) {
		logger.Debug("catalog busy, rescan postponed")
		d.retry(id)
		return
	}
	if err != nil && !errors.Is(err, catalog.ErrScanCancelled) {
		logger.With(log.F("error", err)).Warn("rescan failed")
	} else {
		logger.With(log.F("entries", n)).Info("station rescanned")
	}

	d.mutex.Lock()
	d.rescans++
	cb := d.callback
	d.mutex.Unlock()

	if cb != nil {
		cb(id, n, err)
	}
}
