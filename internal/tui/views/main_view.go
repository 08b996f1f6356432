package views

import (
	"strings"

	"romcat/internal/tui/common"
	"romcat/internal/tui/components"
	"romcat/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// RenderMainView draws the browser: title, search line, the ROM list next to
// the preview pane, then status and key help.
func RenderMainView(m common.ModelReader, st styles.Styles) string {
	var sb strings.Builder

	sb.WriteString(st.Title.Render(m.Title()))
	sb.WriteString("\n")

	switch {
	case m.Mode() == common.Search:
		sb.WriteString(m.SearchInput())
	case m.Search() != "":
		sb.WriteString(st.SearchText.Render("search: " + m.Search() + "  (esc to clear)"))
	}
	sb.WriteString("\n")

	res := m.Preview()
	list := components.RenderList(m.Page(), st)
	art := components.RenderPreview(res, stationOf(m), st)
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, art))
	sb.WriteString("\n\n")

	if err := m.Err(); err != nil {
		sb.WriteString(st.Error.Render(err.Error()) + "\n")
	} else if status := m.Status(); status != "" {
		sb.WriteString(status + "\n")
	}
	sb.WriteString(m.HelpView())

	return st.App.Render(sb.String())
}

// stationOf returns the short name of the selected row's station.
func stationOf(m common.ModelReader) string {
	for _, row := range m.Page().Rows {
		if row.Selected {
			return m.StationName(row.Entry.StationID)
		}
	}
	return ""
}
