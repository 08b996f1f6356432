package components

import (
	"strings"

	"romcat/internal/catalog"
	"romcat/internal/tui/styles"
)

// RenderList draws the visible page of the browser with scroll markers.
func RenderList(page catalog.Page, st styles.Styles) string {
	var sb strings.Builder

	if page.MoreAbove {
		sb.WriteString(st.Indicator.Render("  ▲ more") + "\n")
	} else {
		sb.WriteString("\n")
	}

	if page.Total == 0 {
		sb.WriteString(st.Row.Render("  (no games)") + "\n")
	}
	for _, row := range page.Rows {
		if row.Selected {
			sb.WriteString(st.Selected.Render("> "+row.Label) + "\n")
			continue
		}
		sb.WriteString(st.Row.Render("  "+row.Label) + "\n")
	}

	if page.MoreBelow {
		sb.WriteString(st.Indicator.Render("  ▼ more"))
	}
	return sb.String()
}
