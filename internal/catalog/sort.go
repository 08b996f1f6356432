package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// SortMode selects the order of the filtered view.
type SortMode int

const (
	NameAsc SortMode = iota
	NameDesc
	StationAsc
	StationDesc
	DateAsc
	DateDesc
	SizeAsc
	SizeDesc
)

var sortModeNames = [...]string{
	NameAsc:     "name_asc",
	NameDesc:    "name_desc",
	StationAsc:  "station_asc",
	StationDesc: "station_desc",
	DateAsc:     "date_asc",
	DateDesc:    "date_desc",
	SizeAsc:     "size_asc",
	SizeDesc:    "size_desc",
}

func (m SortMode) String() string {
	if m < 0 || int(m) >= len(sortModeNames) {
		return fmt.Sprintf("SortMode(%d)", int(m))
	}
	return sortModeNames[m]
}

// SortModes lists every mode in declaration order.
func SortModes() []SortMode {
	return []SortMode{NameAsc, NameDesc, StationAsc, StationDesc, DateAsc, DateDesc, SizeAsc, SizeDesc}
}

// ParseSortMode accepts names such as "name_asc" or "size-desc".
func ParseSortMode(s string) (SortMode, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for i, name := range sortModeNames {
		if name == key {
			return SortMode(i), nil
		}
	}
	return NameAsc, fmt.Errorf("unknown sort mode %q", s)
}

// Sort orders the filtered view by mode and remembers the mode so later
// rebuilds apply it again. The cursor returns to the top.
func (s *Service) Sort(mode SortMode) {
	s.mu.Lock()
	s.sortMode = mode
	s.sortLocked()
	s.first, s.selected = 0, 0
	s.mu.Unlock()
	s.notify()
}

// CurrentSort returns the mode applied after every rebuild.
func (s *Service) CurrentSort() SortMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortMode
}

func (s *Service) sortLocked() {
	less := s.lessFunc(s.sortMode)
	sort.SliceStable(s.view, func(i, j int) bool {
		return less(&s.entries[s.view[i]], &s.entries[s.view[j]])
	})
}

func compareNames(a, b *Entry) int {
	return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
}

func (s *Service) lessFunc(mode SortMode) func(a, b *Entry) bool {
	switch mode {
	case NameDesc:
		return func(a, b *Entry) bool { return compareNames(a, b) > 0 }
	case StationAsc:
		return func(a, b *Entry) bool {
			if a.StationID != b.StationID {
				return a.StationID < b.StationID
			}
			return compareNames(a, b) < 0
		}
	case StationDesc:
		return func(a, b *Entry) bool {
			if a.StationID != b.StationID {
				return a.StationID > b.StationID
			}
			return compareNames(a, b) > 0
		}
	case DateAsc:
		return func(a, b *Entry) bool { return a.ModTime.Before(b.ModTime) }
	case DateDesc:
		return func(a, b *Entry) bool { return a.ModTime.After(b.ModTime) }
	case SizeAsc:
		return func(a, b *Entry) bool { return a.Size < b.Size }
	case SizeDesc:
		return func(a, b *Entry) bool { return a.Size > b.Size }
	default:
		return func(a, b *Entry) bool { return compareNames(a, b) < 0 }
	}
}
