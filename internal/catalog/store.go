package catalog

// countLocked counts stored entries for station id.
func (s *Service) countLocked(id int) int {
	n := 0
	for i := range s.entries {
		if s.entries[i].StationID == id {
			n++
		}
	}
	return n
}

// dropStationLocked compacts the store in place, removing station id's
// entries, and returns how many were removed.
func (s *Service) dropStationLocked(id int) int {
	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.StationID != id {
			kept = append(kept, e)
		}
	}
	dropped := len(s.entries) - len(kept)
	// clear the tail so dropped entries can be collected
	for i := len(kept); i < len(s.entries); i++ {
		s.entries[i] = Entry{}
	}
	s.entries = kept
	if validSlot(id) {
		s.stations[id].RomCount = 0
	}
	return dropped
}

// capacityLocked returns how many more entries the store accepts.
func (s *Service) capacityLocked() int {
	room := s.cfg.Limits.MaxEntries - len(s.entries)
	if room < 0 {
		return 0
	}
	return room
}

// appendLocked adds entries for station id and bumps its rom count.
func (s *Service) appendLocked(id int, entries []Entry) {
	s.entries = append(s.entries, entries...)
	if validSlot(id) {
		s.stations[id].RomCount += len(entries)
	}
}

// orphanedLocked reports whether e belongs to a station that is not enabled.
func (s *Service) orphanedLocked(e *Entry) bool {
	return !validSlot(e.StationID) || !s.stations[e.StationID].Enabled
}
