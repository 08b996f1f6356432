package preview_test

import (
	"context"
	"image"
	"image/jpeg"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"romcat/internal/catalog"
	"romcat/internal/preview"
	"romcat/pkg/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJPEG(t *testing.T, path string, w, h int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, jpeg.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h)), nil))
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "none", preview.None.String())
	assert.Equal(t, "ready", preview.Ready.String())
	assert.Equal(t, "not_found", preview.NotFound.String())
	assert.Equal(t, "no_internet", preview.NoInternet.String())
	assert.Equal(t, "Status(99)", preview.Status(99).String())
}

func TestLoadLocal(t *testing.T) {
	cat := newFakeCatalog("Zelda II")
	entry := cat.entries[0]

	t.Run("cached png is scaled to fit", func(t *testing.T) {
		p, cfg := newTestPipeline(t, cat, nil)
		path := testutils.WritePNG(t, filepath.Join(cfg.Paths.CacheDir, "NES", "Zelda II.png"), 512, 384)

		assert.Equal(t, preview.Ready, p.LoadLocal(entry))
		cur := p.Current()
		assert.Equal(t, "Zelda II", cur.Name)
		assert.Equal(t, path, cur.Source)
		assert.Equal(t, 256, cur.Width)
		assert.Equal(t, 192, cur.Height)
		require.NotNil(t, cur.Image)
	})

	t.Run("recorded preview wins over cache", func(t *testing.T) {
		p, cfg := newTestPipeline(t, cat, nil)
		testutils.WritePNG(t, filepath.Join(cfg.Paths.CacheDir, "NES", "Zelda II.png"), 100, 100)
		recorded := testutils.WritePNG(t, filepath.Join(t.TempDir(), "zelda.png"), 64, 48)

		e := entry
		e.Preview = catalog.PreviewState{Exists: true, Path: recorded}
		assert.Equal(t, preview.Ready, p.LoadLocal(e))
		assert.Equal(t, recorded, p.Current().Source)
		assert.Equal(t, 64, p.Current().Width)
	})

	t.Run("undecodable png falls through to jpg", func(t *testing.T) {
		p, cfg := newTestPipeline(t, cat, nil)
		testutils.CreateTestFilesWithContent(t, cfg.Paths.CacheDir, map[string]string{
			"NES/Zelda II.png": "not an image",
		})
		jpg := filepath.Join(cfg.Paths.CacheDir, "NES", "Zelda II.jpg")
		writeJPEG(t, jpg, 40, 30)

		assert.Equal(t, preview.Ready, p.LoadLocal(entry))
		assert.Equal(t, jpg, p.Current().Source)
		assert.Equal(t, 40, p.Current().Width)
	})

	t.Run("nothing on disk", func(t *testing.T) {
		p, _ := newTestPipeline(t, cat, nil)
		assert.Equal(t, preview.NotFound, p.LoadLocal(entry))
		cur := p.Current()
		assert.Equal(t, preview.NotFound, cur.Status)
		assert.Equal(t, "Zelda II", cur.Name)
		assert.Nil(t, cur.Image)
	})

	t.Run("unknown station", func(t *testing.T) {
		p, _ := newTestPipeline(t, cat, nil)
		assert.Equal(t, preview.NotFound, p.LoadLocal(catalog.Entry{Name: "Ghost", StationID: 7}))
	})
}

func TestClear(t *testing.T) {
	cat := newFakeCatalog("Zelda II")
	p, cfg := newTestPipeline(t, cat, nil)
	testutils.WritePNG(t, filepath.Join(cfg.Paths.CacheDir, "NES", "Zelda II.png"), 10, 10)

	require.Equal(t, preview.Ready, p.LoadLocal(cat.entries[0]))
	p.Clear()
	assert.Equal(t, preview.Result{}, p.Current())
}

func TestFit(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"exact ratio", 512, 384, 256, 192},
		{"already fits", 100, 50, 100, 50},
		{"wide", 1024, 128, 256, 32},
		{"tall", 96, 768, 24, 192},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := preview.Fit(image.NewRGBA(image.Rect(0, 0, tt.w, tt.h)), 256, 192)
			assert.Equal(t, tt.wantW, out.Bounds().Dx())
			assert.Equal(t, tt.wantH, out.Bounds().Dy())
		})
	}
}

func TestDecodeFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := preview.DecodeFile(filepath.Join(dir, "missing.png"), 10, 10)
	assert.Error(t, err)

	testutils.CreateTestFilesWithContent(t, dir, map[string]string{"bad.png": "<html>"})
	_, err = preview.DecodeFile(filepath.Join(dir, "bad.png"), 10, 10)
	assert.Error(t, err)
}

func TestPlaceholder(t *testing.T) {
	lines := preview.Placeholder("Zelda", "NES")
	for _, l := range lines {
		assert.Len(t, []rune(l), preview.PlaceholderWidth)
	}
	assert.Equal(t, "Zelda", strings.TrimSpace(lines[0]))
	assert.Equal(t, strings.Repeat(" ", 12)+"NES"+strings.Repeat(" ", 13), lines[1])

	long := preview.Placeholder("A Very Long Game Name That Overflows", "NES")
	assert.Equal(t, "A Very Long Game Name That O", long[0])
}

func newImage(w, h int) image.Image {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func TestLibretroSystem(t *testing.T) {
	assert.Equal(t, "Nintendo_-_Nintendo_Entertainment_System", preview.LibretroSystem("NES"))
	assert.Equal(t, "Sega_-_Mega_Drive_-_Genesis", preview.LibretroSystem("genesis"))
	assert.Equal(t, "Custom", preview.LibretroSystem("Custom"))
}

func TestDialProber(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			c.Close()
		}
	}()

	ctx := context.Background()
	assert.NoError(t, preview.DialProber(addr, time.Second)(ctx))

	require.NoError(t, ln.Close())
	assert.Error(t, preview.DialProber(addr, time.Second)(ctx))
}
