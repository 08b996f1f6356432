package components

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"romcat/internal/catalog"
	"romcat/internal/config"
	"romcat/internal/preview"
	"romcat/internal/tui/styles"
	"romcat/pkg/testutils"

	"github.com/stretchr/testify/assert"
)

func testStyles(t *testing.T) styles.Styles {
	return styles.FromTheme(config.NewTestConfig(t.TempDir()))
}

func TestHalfBlocks(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 5), A: 255})
		}
	}

	lines := HalfBlocks(img, 28)
	assert.Len(t, lines, 10)
	for _, l := range lines {
		assert.Equal(t, 28, strings.Count(testutils.StripANSI(l), "▀"))
	}

	assert.Nil(t, HalfBlocks(nil, 28))
	assert.Nil(t, HalfBlocks(image.NewRGBA(image.Rect(0, 0, 0, 0)), 28))
}

func TestRenderPreview(t *testing.T) {
	st := testStyles(t)

	out := testutils.StripANSI(RenderPreview(preview.Result{Status: preview.NotFound, Name: "Zelda II"}, "NES", st))
	assert.Contains(t, out, "Zelda II")
	assert.Contains(t, out, "NES")

	out = testutils.StripANSI(RenderPreview(preview.Result{Status: preview.NoInternet, Name: "Zelda II"}, "NES", st))
	assert.Contains(t, out, "no internet")

	out = testutils.StripANSI(RenderPreview(preview.Result{Status: preview.Loading, Name: "Zelda II"}, "NES", st))
	assert.Contains(t, out, "loading art")

	ready := preview.Result{Status: preview.Ready, Image: image.NewRGBA(image.Rect(0, 0, 56, 42))}
	out = testutils.StripANSI(RenderPreview(ready, "NES", st))
	assert.Contains(t, out, "▀")
}

func TestRenderList(t *testing.T) {
	st := testStyles(t)

	page := catalog.Page{
		Rows: []catalog.Row{
			{Index: 4, Label: "[NES] Metroid"},
			{Index: 5, Label: "[NES] Zelda II", Selected: true},
		},
		First:     4,
		Selected:  5,
		Total:     9,
		MoreAbove: true,
		MoreBelow: true,
	}
	out := testutils.StripANSI(RenderList(page, st))
	assert.Contains(t, out, "▲ more")
	assert.Contains(t, out, "▼ more")
	assert.Contains(t, out, "  [NES] Metroid")
	assert.Contains(t, out, "> [NES] Zelda II")

	empty := testutils.StripANSI(RenderList(catalog.Page{}, st))
	assert.Contains(t, empty, "(no games)")
	assert.NotContains(t, empty, "more")
}

func TestStatusBar(t *testing.T) {
	sb := NewStatusBar(testStyles(t).Status)
	assert.Empty(t, sb.View())

	sb.SetText("Scanning...")
	assert.NotNil(t, sb.SetLoading(true))
	assert.Nil(t, sb.SetLoading(true), "already spinning")
	assert.True(t, sb.Loading())
	assert.Contains(t, testutils.StripANSI(sb.View()), "Scanning...")

	assert.Nil(t, sb.SetLoading(false))
	assert.Equal(t, "Scanning...", testutils.StripANSI(sb.View()))
	assert.Nil(t, sb.Update(errors.New("ignored")))
}
