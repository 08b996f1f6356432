package preview

import (
	"image"
	_ "image/jpeg" // register JPEG decoder
	"image/png"
	"os"
	"path/filepath"

	"romcat/internal/errors"

	"golang.org/x/image/draw"
)

// DecodeFile decodes the PNG or JPEG at path and scales it down to fit
// inside maxW x maxH, keeping the aspect ratio.
func DecodeFile(path string, maxW, maxH int) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewFileError("failed to open image", path, errors.IOFailure, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.NewPreviewError("failed to decode image", filepath.Base(path), errors.DecodeFailure, err)
	}
	return Fit(img, maxW, maxH), nil
}

// Fit scales src down so it fits inside maxW x maxH. Images that already fit
// are returned as is.
func Fit(src image.Image, maxW, maxH int) image.Image {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= maxW && height <= maxH {
		return src
	}

	scale := min(float64(maxW)/float64(width), float64(maxH)/float64(height))
	newWidth := max(1, int(float64(width)*scale))
	newHeight := max(1, int(float64(height)*scale))

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}

// EncodeFile writes img as PNG to path, creating parent directories.
func EncodeFile(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewFileError("failed to create cache directory", filepath.Dir(path), errors.IOFailure, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.NewFileError("failed to create image", path, errors.IOFailure, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return errors.NewFileError("failed to encode image", path, errors.IOFailure, err)
	}
	return f.Close()
}
