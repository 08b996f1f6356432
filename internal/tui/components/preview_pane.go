package components

import (
	"fmt"
	"image"
	"strings"

	"romcat/internal/preview"
	"romcat/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// PreviewColumns is the width of the art pane in terminal cells.
const PreviewColumns = preview.PlaceholderWidth

// RenderPreview draws the current preview, or a placeholder naming the ROM
// and its station when there is no image to show.
func RenderPreview(res preview.Result, stationName string, st styles.Styles) string {
	var body string
	switch res.Status {
	case preview.Ready:
		body = strings.Join(HalfBlocks(res.Image, PreviewColumns), "\n")
	case preview.Loading:
		body = placeholder(res.Name, "loading art...")
	case preview.NoInternet:
		body = placeholder(res.Name, "no internet")
	case preview.None:
		body = placeholder("", "")
	default:
		body = placeholder(res.Name, stationName)
	}
	return st.Preview.Render(body)
}

func placeholder(name, detail string) string {
	lines := preview.Placeholder(name, detail)
	return "\n" + lines[0] + "\n" + lines[1] + "\n"
}

// HalfBlocks renders img as rows of upper half block characters, two image
// rows per terminal row, cols cells wide.
func HalfBlocks(img image.Image, cols int) []string {
	if img == nil || cols < 1 {
		return nil
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil
	}
	rows := max(1, cols*b.Dy()/b.Dx()/2)

	out := make([]string, 0, rows)
	for row := 0; row < rows; row++ {
		var sb strings.Builder
		for col := 0; col < cols; col++ {
			x := b.Min.X + col*b.Dx()/cols
			top := b.Min.Y + (2*row)*b.Dy()/(2*rows)
			bottom := b.Min.Y + (2*row+1)*b.Dy()/(2*rows)
			sb.WriteString(lipgloss.NewStyle().
				Foreground(hexColor(img, x, top)).
				Background(hexColor(img, x, bottom)).
				Render("▀"))
		}
		out = append(out, sb.String())
	}
	return out
}

func hexColor(img image.Image, x, y int) lipgloss.Color {
	r, g, b, _ := img.At(x, y).RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8))
}
