package catalog

import (
	"strings"

	"romcat/internal/errors"
	"romcat/internal/log"
)

// AddStation stores a new station in the first free slot and returns its id.
func (s *Service) AddStation(name, shortName, romPath, corePath, extensions string) (int, error) {
	if _, err := NewExtensionMatcher(extensions); err != nil {
		return -1, errors.NewInvalidInputError("invalid extension list", err).WithContext("extensions", extensions)
	}

	s.mu.Lock()
	id := -1
	for i := range s.stations {
		if !s.stations[i].Enabled {
			id = i
			break
		}
	}
	if id < 0 {
		s.mu.Unlock()
		return -1, errors.ErrRegistryFull
	}

	// a reused slot must not inherit entries of its previous station
	s.dropStationLocked(id)
	s.stations[id] = Station{
		ID:         id,
		Name:       name,
		ShortName:  shortName,
		RomPath:    romPath,
		CorePath:   corePath,
		Extensions: extensions,
		Enabled:    true,
	}
	s.rebuildLocked(false)
	err := s.persistLocked()
	s.mu.Unlock()

	s.logger.With(log.F("station_id", id), log.F("station", shortName)).Info("station added")
	s.notify()
	return id, err
}

// RemoveStation disables slot id and drops every entry it owns.
func (s *Service) RemoveStation(id int) error {
	s.mu.Lock()
	if !validSlot(id) || !s.stations[id].Enabled {
		s.mu.Unlock()
		return errors.ErrStationNotFound.ForStation(id)
	}

	dropped := s.dropStationLocked(id)
	s.stations[id] = Station{ID: id}
	s.rebuildLocked(false)
	err := s.persistLocked()
	s.mu.Unlock()

	s.logger.With(log.F("station_id", id), log.F("dropped", dropped)).Info("station removed")
	s.notify()
	return err
}

// UpdateStation replaces slot id with st. The id and rom count are derived
// from the slot and the store, not from st. Disabling a slot drops its entries.
func (s *Service) UpdateStation(id int, st Station) error {
	if !validSlot(id) {
		return errors.ErrStationNotFound.ForStation(id)
	}
	if _, err := NewExtensionMatcher(st.Extensions); err != nil {
		return errors.NewInvalidInputError("invalid extension list", err).WithContext("extensions", st.Extensions)
	}

	s.mu.Lock()
	if !st.Enabled {
		s.dropStationLocked(id)
	}
	st.ID = id
	st.RomCount = s.countLocked(id)
	s.stations[id] = st
	s.rebuildLocked(false)
	err := s.persistLocked()
	s.mu.Unlock()

	s.logger.With(log.F("station_id", id)).Debug("station updated")
	s.notify()
	return err
}

// Station returns slot id. Disabled slots are returned with Enabled false.
func (s *Service) Station(id int) (Station, error) {
	if !validSlot(id) {
		return Station{}, errors.ErrStationNotFound.ForStation(id)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stations[id], nil
}

// StationByOrdinal returns the n-th enabled station in slot order.
func (s *Service) StationByOrdinal(n int) (Station, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.stations {
		if !st.Enabled {
			continue
		}
		if n == 0 {
			return st, true
		}
		n--
	}
	return Station{}, false
}

// StationCount returns the number of enabled stations.
func (s *Service) StationCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, st := range s.stations {
		if st.Enabled {
			n++
		}
	}
	return n
}

// Stations returns every enabled station in slot order.
func (s *Service) Stations() []Station {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Station
	for _, st := range s.stations {
		if st.Enabled {
			out = append(out, st)
		}
	}
	return out
}

// FindStation resolves a short name (case-insensitive) to an enabled station.
func (s *Service) FindStation(shortName string) (Station, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.stations {
		if st.Enabled && strings.EqualFold(st.ShortName, shortName) {
			return st, true
		}
	}
	return Station{}, false
}
