package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"romcat/internal/errors"
	"romcat/internal/log"

	"github.com/charlievieth/fastwalk"
)

// ErrScanCancelled is returned when CancelScan or the context stopped a scan.
var ErrScanCancelled = errors.New("scan cancelled")

// ErrScanBusy is returned when a scan is requested while another one runs.
var ErrScanBusy = errors.New("scan already in progress")

// beginScan claims the single scan slot. Only the winner resets the cancel
// flag, so a pending CancelScan is not lost to a rejected caller.
func (s *Service) beginScan() error {
	if !s.scanning.CompareAndSwap(false, true) {
		return ErrScanBusy
	}
	s.cancelScan.Store(false)
	s.progress.Store(0)
	return nil
}

// ScanStation re-indexes one station and returns the number of entries found.
// It fails with ErrScanBusy while another scan is running.
func (s *Service) ScanStation(ctx context.Context, id int) (int, error) {
	if err := s.beginScan(); err != nil {
		return 0, err
	}
	defer s.scanning.Store(false)

	n, err := s.scanStation(ctx, id)
	if err != nil {
		if errors.Is(err, ErrScanCancelled) {
			s.setStatus("Scan cancelled")
		}
		return n, err
	}
	s.progress.Store(100)
	s.setStatus("Scan complete")
	return n, nil
}

// ScanAll re-indexes every enabled station in slot order and returns the
// total number of entries found. It fails with ErrScanBusy while another
// scan is running.
func (s *Service) ScanAll(ctx context.Context) (int, error) {
	if err := s.beginScan(); err != nil {
		return 0, err
	}
	defer s.scanning.Store(false)

	stations := s.Stations()
	total := 0
	for i, st := range stations {
		if s.stopped(ctx) {
			s.setStatus("Scan cancelled")
			return total, ErrScanCancelled
		}
		s.progress.Store(int32(i * 100 / len(stations)))

		n, err := s.scanStation(ctx, st.ID)
		total += n
		if err != nil {
			if errors.Is(err, ErrScanCancelled) {
				s.setStatus("Scan cancelled")
				return total, err
			}
			log.LogWithError(err).Warn("skipping station")
		}
	}

	s.progress.Store(100)
	s.setStatus("Scan complete")
	s.logger.With(log.F("stations", len(stations)), log.F("entries", total)).Info("scan complete")
	return total, nil
}

// CancelScan asks a running scan to stop at its next directory entry.
func (s *Service) CancelScan() {
	s.cancelScan.Store(true)
}

// ScanProgress returns overall progress in percent.
func (s *Service) ScanProgress() int {
	return int(s.progress.Load())
}

// ScanStatus returns a human readable description of the current scan.
func (s *Service) ScanStatus() string {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	return s.status
}

// Scanning reports whether a scan is in progress.
func (s *Service) Scanning() bool {
	return s.scanning.Load()
}

func (s *Service) setStatus(status string) {
	s.statusMu.Lock()
	s.status = status
	s.statusMu.Unlock()
}

func (s *Service) stopped(ctx context.Context) bool {
	return s.cancelScan.Load() || ctx.Err() != nil
}

func (s *Service) scanStation(ctx context.Context, id int) (int, error) {
	s.mu.Lock()
	if !validSlot(id) || !s.stations[id].Enabled {
		s.mu.Unlock()
		return 0, errors.ErrStationNotFound.ForStation(id)
	}
	st := s.stations[id]
	s.dropStationLocked(id)
	s.rebuildLocked(false)
	room := s.capacityLocked()
	s.mu.Unlock()

	s.setStatus(fmt.Sprintf("Scanning %s...", st.Name))
	logger := s.logger.With(log.F("station_id", id), log.F("station", st.ShortName))

	matcher, err := NewExtensionMatcher(st.Extensions)
	if err != nil {
		return 0, errors.NewStationError("invalid extension list", id, errors.InvalidConfig, err)
	}

	var found []Entry
	var walkErr error
	for _, root := range s.cfg.Roots() {
		dir := filepath.Join(root, st.RomPath)
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			logger.Debugf("root %s not present", dir)
			continue
		}

		entries, err := s.walkStation(ctx, st, dir, matcher, room-len(found))
		found = append(found, entries...)
		if err != nil {
			walkErr = err
			break
		}
	}

	s.mu.Lock()
	s.appendLocked(id, found)
	s.rebuildLocked(false)
	s.mu.Unlock()
	s.notify()

	switch {
	case errors.Is(walkErr, errors.ErrCatalogFull):
		logger.With(log.F("max_entries", s.cfg.Limits.MaxEntries)).Warn("catalog full, stopped admitting entries")
	case errors.Is(walkErr, ErrScanCancelled):
		logger.With(log.F("entries", len(found))).Info("scan cancelled")
		return len(found), ErrScanCancelled
	case walkErr != nil:
		logger.With(log.F("error", walkErr)).Debug("walk stopped early")
	}

	logger.With(log.F("entries", len(found))).Debug("station scanned")
	return len(found), nil
}

// walkStation collects admitted files under dir, at most room of them.
// The result is ordered by path.
func (s *Service) walkStation(ctx context.Context, st Station, dir string, matcher *ExtensionMatcher, room int) ([]Entry, error) {
	var (
		mu      sync.Mutex
		results []Entry
	)
	maxDepth := s.cfg.Limits.MaxDepth

	conf := &fastwalk.Config{
		Follow: false,
	}

	err := fastwalk.Walk(conf, dir, func(fullPath string, d fs.DirEntry, err error) error {
		if s.stopped(ctx) {
			return ErrScanCancelled
		}
		if err != nil {
			// unreadable entries are skipped
			return nil
		}
		if fullPath == dir {
			return nil
		}

		name := d.Name()
		if strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if fastwalk.DirEntryDepth(d) > maxDepth {
				return fastwalk.SkipDir
			}
			return nil
		}

		if !matcher.Match(name) {
			return nil
		}

		info, err := fastwalk.StatDirEntry(fullPath, d)
		if err != nil || !info.Mode().IsRegular() {
			return nil
		}

		display := DisplayName(name)
		entry := Entry{
			Name:      display,
			Filename:  name,
			Path:      fullPath,
			StationID: st.ID,
			Size:      info.Size(),
			ModTime:   info.ModTime(),
			Preview:   s.probePreview(st, display),
		}

		mu.Lock()
		defer mu.Unlock()
		if len(results) >= room {
			return errors.ErrCatalogFull
		}
		results = append(results, entry)
		return nil
	})

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results, err
}

// probePreview looks for artwork shipped next to the ROMs.
func (s *Service) probePreview(st Station, name string) PreviewState {
	candidates := []string{
		filepath.Join(s.cfg.Paths.GamesRoot, "previews", name+".png"),
		filepath.Join(s.cfg.Paths.GamesRoot, st.ShortName, "previews", name+".png"),
	}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return PreviewState{Exists: true, Path: p}
		}
	}
	return PreviewState{}
}
