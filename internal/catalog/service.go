// Package catalog indexes ROM files per console station and exposes a
// filtered, sorted, paginated view over them.
package catalog

import (
	"sync"
	"sync/atomic"
	"time"

	"romcat/internal/config"
	"romcat/internal/errors"
	"romcat/internal/log"
)

// AllStations is the view filter that admits every enabled station.
const AllStations = -1

// Station is one console profile in the registry.
type Station struct {
	ID         int
	Name       string
	ShortName  string
	RomPath    string
	CorePath   string
	Extensions string
	Enabled    bool
	RomCount   int
}

// PreviewState records whether artwork was found next to the ROMs.
type PreviewState struct {
	Exists bool
	Path   string
}

// Entry is one discovered ROM file.
type Entry struct {
	Name      string
	Filename  string
	Path      string
	StationID int
	Size      int64
	ModTime   time.Time
	Preview   PreviewState
}

// Service owns the station registry, the catalog store and the filtered view.
// All methods are safe for concurrent use; scans are expected to be issued
// by one caller at a time.
type Service struct {
	mu sync.RWMutex

	cfg      *config.Config
	logger   log.Logging
	stations [config.MaxStations]Station
	entries  []Entry

	view     []int
	filter   int
	search   string
	first    int
	selected int
	sortMode SortMode

	cancelScan atomic.Bool
	scanning   atomic.Bool
	progress   atomic.Int32
	statusMu   sync.Mutex
	status     string

	onChange []func()
}

// Option configures a Service.
type Option func(*Service)

// WithLogger overrides the package logger.
func WithLogger(l log.Logging) Option {
	return func(s *Service) { s.logger = l }
}

// New creates a Service and loads the persisted registry.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.NewConfigError("invalid configuration", "", errors.InvalidConfig, err)
	}

	mode, err := ParseSortMode(cfg.Browse.DefaultSort)
	if err != nil {
		return nil, errors.NewConfigError("invalid configuration", "default_sort", errors.InvalidConfig, err)
	}

	s := &Service{
		cfg:      cfg,
		logger:   log.Default(),
		filter:   AllStations,
		sortMode: mode,
	}
	for _, opt := range opts {
		opt(s)
	}

	reg, err := config.LoadRegistry(cfg.Paths.RegistryFile)
	if err != nil {
		return nil, errors.NewFileError("failed to load registry", cfg.Paths.RegistryFile, errors.IOFailure, err)
	}
	for i, rec := range reg {
		s.stations[i] = Station{
			ID:         i,
			Name:       rec.Name,
			ShortName:  rec.ShortName,
			RomPath:    rec.RomPath,
			CorePath:   rec.CorePath,
			Extensions: rec.Extensions,
			Enabled:    rec.Enabled,
		}
	}

	return s, nil
}

// Config returns the configuration the service was built with.
func (s *Service) Config() *config.Config {
	return s.cfg
}

// OnChange registers fn to run after every view rebuild. fn is called
// without the service lock held.
func (s *Service) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

func (s *Service) notify() {
	s.mu.RLock()
	fns := append([]func(){}, s.onChange...)
	s.mu.RUnlock()
	for _, fn := range fns {
		fn()
	}
}

// persistLocked writes the registry. Caller holds s.mu.
func (s *Service) persistLocked() error {
	var reg config.Registry
	for i, st := range s.stations {
		reg[i] = config.StationRecord{
			Name:       st.Name,
			ShortName:  st.ShortName,
			RomPath:    st.RomPath,
			CorePath:   st.CorePath,
			Extensions: st.Extensions,
			Enabled:    st.Enabled,
		}
	}
	if err := config.SaveRegistry(s.cfg.Paths.RegistryFile, reg); err != nil {
		return errors.NewFileError("failed to save registry", s.cfg.Paths.RegistryFile, errors.IOFailure, err)
	}
	return nil
}

// EntryCount returns the number of entries in the store.
func (s *Service) EntryCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// StationEntryCount returns the number of stored entries for station id.
func (s *Service) StationEntryCount(id int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !validSlot(id) {
		return 0
	}
	return s.stations[id].RomCount
}

// Entry returns the i-th entry of the store.
func (s *Service) Entry(i int) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.entries) {
		return Entry{}, false
	}
	return s.entries[i], true
}

// StationEntry returns the i-th stored entry belonging to station id.
func (s *Service) StationEntry(id, i int) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, e := range s.entries {
		if e.StationID != id {
			continue
		}
		if n == i {
			return e, true
		}
		n++
	}
	return Entry{}, false
}

// StationEntries returns a copy of every stored entry for station id, in
// store order.
func (s *Service) StationEntries(id int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Entry
	for _, e := range s.entries {
		if e.StationID == id {
			out = append(out, e)
		}
	}
	return out
}

// StationName returns the display name of station id, or "" when unknown.
func (s *Service) StationName(id int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !validSlot(id) || !s.stations[id].Enabled {
		return ""
	}
	return s.stations[id].Name
}

func validSlot(id int) bool {
	return id >= 0 && id < config.MaxStations
}
