package catalog

import (
	"strings"

	"romcat/internal/errors"
)

// Intent is a browser navigation request.
type Intent int

const (
	First Intent = iota
	Last
	Next
	Prev
	NextPage
	PrevPage
)

// Row is one visible line of the browser.
type Row struct {
	Index    int // position in the view
	Label    string
	Selected bool
	Entry    Entry
}

// Page is the visible window of the view.
type Page struct {
	Rows      []Row
	First     int
	Selected  int
	Total     int
	MoreAbove bool
	MoreBelow bool
}

// Selection is what the host launches when the user picks an entry.
type Selection struct {
	Path  string
	Core  string
	Label string
}

// Browse sets the station filter (a station id or AllStations), clears the
// search and puts the cursor at the top.
func (s *Service) Browse(filter int) {
	s.mu.Lock()
	s.filter = filter
	s.search = ""
	s.rebuildLocked(true)
	s.mu.Unlock()
	s.notify()
}

// SetSearch filters the view by a case-insensitive substring of the name.
func (s *Service) SetSearch(text string) {
	s.mu.Lock()
	s.search = text
	s.rebuildLocked(true)
	s.mu.Unlock()
	s.notify()
}

// ClearSearch drops the search text and keeps the cursor where it can.
func (s *Service) ClearSearch() {
	s.mu.Lock()
	s.search = ""
	s.rebuildLocked(false)
	s.mu.Unlock()
	s.notify()
}

// SearchActive reports whether a search text is set.
func (s *Service) SearchActive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.search != ""
}

// Search returns the current search text.
func (s *Service) Search() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.search
}

// Filter returns the station filter of the view.
func (s *Service) Filter() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// ViewLen returns the number of entries in the view.
func (s *Service) ViewLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.view)
}

// Cursor returns the first visible and the selected view positions.
func (s *Service) Cursor() (first, selected int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.first, s.selected
}

// ViewEntries returns a copy of the whole view in order.
func (s *Service) ViewEntries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.view))
	for i, idx := range s.view {
		out[i] = s.entries[idx]
	}
	return out
}

// rebuildLocked recomputes the view from the store and re-applies the sort
// mode. Caller holds s.mu for writing.
func (s *Service) rebuildLocked(resetCursor bool) {
	needle := strings.ToLower(s.search)
	view := s.view[:0]
	for i := range s.entries {
		e := &s.entries[i]
		if s.orphanedLocked(e) {
			continue
		}
		if s.filter != AllStations && e.StationID != s.filter {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(e.Name), needle) {
			continue
		}
		view = append(view, i)
	}
	s.view = view
	s.sortLocked()

	if resetCursor {
		s.first, s.selected = 0, 0
		return
	}
	s.clampLocked()
}

func (s *Service) clampLocked() {
	n := len(s.view)
	if n == 0 {
		s.first, s.selected = 0, 0
		return
	}
	p := s.pageSize()
	if s.selected >= n {
		s.selected = n - 1
	}
	if s.selected < 0 {
		s.selected = 0
	}
	if s.first > s.selected {
		s.first = s.selected
	}
	if s.selected > s.first+p-1 {
		s.first = s.selected - p + 1
	}
	if s.first < 0 {
		s.first = 0
	}
}

func (s *Service) pageSize() int {
	if s.cfg.Browse.PageSize < 1 {
		return 1
	}
	return s.cfg.Browse.PageSize
}

// Navigate moves the cursor. Next wraps to the top; Prev at the top jumps to
// the last entry.
func (s *Service) Navigate(intent Intent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.view)
	if n == 0 {
		return
	}
	p := s.pageSize()

	switch intent {
	case First:
		s.first, s.selected = 0, 0
	case Last:
		s.toLastLocked(n, p)
	case Next:
		if s.selected+1 < n {
			s.selected++
			if s.selected > s.first+p-1 {
				s.first = s.selected - p + 1
			}
		} else {
			s.first, s.selected = 0, 0
		}
	case Prev:
		if s.selected <= 0 {
			s.toLastLocked(n, p)
			return
		}
		s.selected--
		if s.selected < s.first {
			s.first = s.selected
		}
	case NextPage:
		if s.selected < s.first+p-1 {
			s.selected = min(s.first+p-1, n-1)
			return
		}
		s.selected += p
		s.first += p
		if s.selected >= n {
			s.selected = n - 1
			s.first = max(0, s.selected-p+1)
		} else if s.first+p > n {
			s.first = max(0, n-p)
		}
	case PrevPage:
		if s.selected != s.first {
			s.selected = s.first
			return
		}
		s.first = max(0, s.first-p)
		s.selected = s.first
	}
}

func (s *Service) toLastLocked(n, p int) {
	s.selected = n - 1
	s.first = max(0, s.selected-p+1)
}

// Rows returns the visible window with its scroll indicators.
func (s *Service) Rows() Page {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.view)
	p := s.pageSize()
	page := Page{
		First:     s.first,
		Selected:  s.selected,
		Total:     n,
		MoreAbove: s.first > 0,
		MoreBelow: s.first+p < n,
	}

	all := s.filter == AllStations
	for i := s.first; i < n && i < s.first+p; i++ {
		e := s.entries[s.view[i]]
		page.Rows = append(page.Rows, Row{
			Index:    i,
			Label:    rowLabel(e.Name, s.stations[e.StationID].ShortName, all),
			Selected: i == s.selected,
			Entry:    e,
		})
	}
	return page
}

// Selected returns the entry under the cursor.
func (s *Service) Selected() (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected < 0 || s.selected >= len(s.view) {
		return Entry{}, false
	}
	return s.entries[s.view[s.selected]], true
}

// Select resolves the entry under the cursor into a launch request.
func (s *Service) Select() (Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected < 0 || s.selected >= len(s.view) {
		return Selection{}, errors.NewStationError("nothing selected", -1, errors.NotFound, nil)
	}

	e := s.entries[s.view[s.selected]]
	sel := Selection{Path: e.Path, Label: e.Name}
	if core := s.stations[e.StationID].CorePath; core != "" {
		sel.Core = "_" + core
	}
	return sel, nil
}

// SelectEntry moves the cursor onto the view position holding path.
func (s *Service) SelectEntry(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, idx := range s.view {
		if s.entries[idx].Path == path {
			s.selected = i
			s.clampLocked()
			return true
		}
	}
	return false
}
