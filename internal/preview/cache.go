package preview

import (
	"image"
	"os"
	"path/filepath"

	"romcat/internal/catalog"
	"romcat/internal/errors"
	"romcat/internal/log"
)

// CacheExists reports whether the cache holds an image for entry.
func (p *Pipeline) CacheExists(e catalog.Entry) bool {
	st, err := p.catalog.Station(e.StationID)
	if err != nil {
		return false
	}
	for _, ext := range []string{".png", ".jpg"} {
		if info, err := os.Stat(p.cachePath(st.ShortName, e.Name, ext)); err == nil && info.Size() > 0 {
			return true
		}
	}
	return false
}

// SaveToCache encodes img as PNG under the cache path of entry.
func (p *Pipeline) SaveToCache(e catalog.Entry, img image.Image) error {
	st, err := p.station(e.StationID)
	if err != nil {
		return err
	}
	return EncodeFile(p.cachePath(st.ShortName, e.Name, ".png"), img)
}

// ClearCache removes every cached image. The catalog is not touched.
func (p *Pipeline) ClearCache() error {
	entries, err := os.ReadDir(p.cfg.Paths.CacheDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.NewFileError("failed to read cache", p.cfg.Paths.CacheDir, errors.IOFailure, err)
	}
	for _, de := range entries {
		path := filepath.Join(p.cfg.Paths.CacheDir, de.Name())
		if err := os.RemoveAll(path); err != nil {
			return errors.NewFileError("failed to clear cache", path, errors.IOFailure, err)
		}
	}
	log.LogWithFields(log.F("dir", p.cfg.Paths.CacheDir)).Info("preview cache cleared")
	return nil
}

// ClearStationCache removes the cached images of station id.
func (p *Pipeline) ClearStationCache(id int) error {
	st, err := p.station(id)
	if err != nil {
		return err
	}
	dir := filepath.Join(p.cfg.Paths.CacheDir, st.ShortName)
	if err := os.RemoveAll(dir); err != nil {
		return errors.NewFileError("failed to clear cache", dir, errors.IOFailure, err)
	}
	log.LogWithFields(log.F("dir", dir)).Info("station preview cache cleared")
	return nil
}
