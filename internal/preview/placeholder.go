package preview

import "strings"

// PlaceholderWidth is the text width of a placeholder line.
const PlaceholderWidth = 28

// Placeholder returns the two centred lines shown when no artwork exists:
// the ROM name and the station name.
func Placeholder(name, station string) [2]string {
	return [2]string{center(name, PlaceholderWidth), center(station, PlaceholderWidth)}
}

func center(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	pad := (width - len(r)) / 2
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", width-len(r)-pad)
}
