package catalog

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gobwas/glob"
)

// LabelWidth is the number of columns a browser row label may use.
const LabelWidth = 28

// ExtensionMatcher admits filenames whose extension is in a space separated
// allow-list. Matching is case-insensitive; an empty list admits everything.
type ExtensionMatcher struct {
	g   glob.Glob
	all bool
}

// NewExtensionMatcher compiles list, e.g. "nes fds", into a matcher.
func NewExtensionMatcher(list string) (*ExtensionMatcher, error) {
	exts := strings.Fields(strings.ToLower(list))
	if len(exts) == 0 {
		return &ExtensionMatcher{all: true}, nil
	}

	quoted := make([]string, 0, len(exts))
	for _, ext := range exts {
		quoted = append(quoted, glob.QuoteMeta(strings.TrimPrefix(ext, ".")))
	}

	pattern := "*.{" + strings.Join(quoted, ",") + "}"
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid extension list %q: %w", list, err)
	}
	return &ExtensionMatcher{g: g}, nil
}

// Match reports whether filename is admitted.
func (m *ExtensionMatcher) Match(filename string) bool {
	if m.all {
		return true
	}
	name := strings.ToLower(filepath.Base(filename))
	if !strings.Contains(name, ".") {
		return false
	}
	return m.g.Match(name)
}

// MatchExtension is a one-shot form of ExtensionMatcher.Match.
func MatchExtension(filename, list string) bool {
	m, err := NewExtensionMatcher(list)
	if err != nil {
		return false
	}
	return m.Match(filename)
}

// DisplayName strips the extension and turns underscores into spaces.
func DisplayName(filename string) string {
	name := filepath.Base(filename)
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	return strings.ReplaceAll(name, "_", " ")
}

// FormatSize renders a byte count for listings, e.g. "4.0 KiB".
func FormatSize(size int64) string {
	if size < 0 {
		size = 0
	}
	return humanize.IBytes(uint64(size))
}

func rowLabel(name, shortName string, allStations bool) string {
	var label string
	if allStations {
		short := []rune(shortName)
		if len(short) > 4 {
			short = short[:4]
		}
		label = fmt.Sprintf("[%s] %s", string(short), name)
	} else {
		label = " " + name
	}

	r := []rune(label)
	if len(r) > LabelWidth {
		return string(r[:LabelWidth-1]) + "~"
	}
	return label
}
