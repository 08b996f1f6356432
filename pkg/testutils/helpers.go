package testutils

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// CreateTestFilesWithContent creates files relative to dir, making parent
// directories as needed.
func CreateTestFilesWithContent(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

// CreateSizedFile writes size zero bytes to path and returns it.
func CreateSizedFile(t *testing.T, path string, size int) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0644))
	return path
}

// CreateROMTree lays out a small games root:
//
//	NES/Zelda_II.nes, NES/Metroid.NES, NES/readme.txt, NES/.hidden/Skip.nes,
//	NES/Hacks/Deep_Hack.nes, SNES/Super_Metroid.sfc
func CreateROMTree(t *testing.T, gamesRoot string) {
	t.Helper()
	CreateSizedFile(t, filepath.Join(gamesRoot, "NES", "Zelda_II.nes"), 4096)
	CreateSizedFile(t, filepath.Join(gamesRoot, "NES", "Metroid.NES"), 2048)
	CreateSizedFile(t, filepath.Join(gamesRoot, "NES", "readme.txt"), 10)
	CreateSizedFile(t, filepath.Join(gamesRoot, "NES", ".hidden", "Skip.nes"), 10)
	CreateSizedFile(t, filepath.Join(gamesRoot, "NES", "Hacks", "Deep_Hack.nes"), 1024)
	CreateSizedFile(t, filepath.Join(gamesRoot, "SNES", "Super_Metroid.sfc"), 8192)
}

// SetModTime changes the modification time of path.
func SetModTime(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

// EncodePNG returns a w x h PNG filled with c.
func EncodePNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// WritePNG writes a w x h PNG to path.
func WritePNG(t *testing.T, path string, w, h int) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, EncodePNG(t, w, h, color.RGBA{R: 200, G: 40, B: 40, A: 255}), 0644))
	return path
}

// StripANSI removes ANSI escape sequences from a string
func StripANSI(str string) string {
	var result []rune
	inEscape := false
	for _, r := range str {
		if r == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEscape = false
			}
			continue
		}
		result = append(result, r)
	}
	return string(result)
}
