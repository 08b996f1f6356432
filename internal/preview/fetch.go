package preview

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"romcat/internal/catalog"
	"romcat/internal/errors"
	"romcat/internal/log"
	"romcat/internal/store"
)

// FetchOnline makes entry current and downloads its artwork. It blocks until
// the download finished or every category failed.
func (p *Pipeline) FetchOnline(ctx context.Context, e catalog.Entry) (Status, error) {
	gen := p.begin(e, Loading)
	res, err := p.fetch(ctx, e)
	p.finish(gen, res)
	return res.Status, err
}

// fetch downloads the first available category into the cache and decodes
// it. It does not touch the current preview.
func (p *Pipeline) fetch(ctx context.Context, e catalog.Entry) (Result, error) {
	failed := Result{Status: Error, Name: e.Name, StationID: e.StationID}

	st, err := p.station(e.StationID)
	if err != nil {
		return failed, err
	}
	logger := p.logger.With(log.F("rom", e.Name), log.F("station", st.ShortName))

	if err := p.probe(ctx); err != nil {
		logger.With(log.F("error", err)).Debug("connectivity probe failed")
		failed.Status = NoInternet
		return failed, errors.ErrNoConnectivity.ForRom(e.Name, err)
	}

	dest := p.cachePath(st.ShortName, e.Name, ".png")
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return failed, errors.NewFileError("failed to create cache directory", filepath.Dir(dest), errors.IOFailure, err)
	}

	system := LibretroSystem(st.ShortName)
	for _, category := range Categories {
		if err := ctx.Err(); err != nil {
			return failed, err
		}

		remote := p.remoteURL(system, category, e.Name)
		n, err := p.download(ctx, remote, dest)
		if err != nil || n == 0 {
			os.Remove(dest)
			logger.With(log.F("url", remote), log.F("bytes", n), log.F("error", err)).Debug("download failed")
			continue
		}

		res, err := p.decode(e, dest)
		if err != nil {
			os.Remove(dest)
			logger.With(log.F("url", remote), log.F("error", err)).Debug("downloaded file is not an image")
			continue
		}

		p.record(ctx, st, e, category, Ready)
		logger.With(log.F("category", category)).Info("preview downloaded")
		return res, nil
	}

	p.record(ctx, st, e, "", NotFound)
	res := Result{Status: NotFound, Name: e.Name, StationID: e.StationID}
	return res, errors.ErrPreviewNotFound.ForRom(e.Name, nil)
}

func (p *Pipeline) remoteURL(system, category, name string) string {
	return fmt.Sprintf("%s/%s/%s/%s.png",
		p.cfg.Preview.BaseURL,
		url.PathEscape(system),
		category,
		url.PathEscape(thumbnailName(name)))
}

// download GETs remote into dest and returns the number of bytes written.
func (p *Pipeline) download(ctx context.Context, remote, dest string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, remote, nil)
	if err != nil {
		return 0, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %s", resp.Status)
	}

	f, err := os.Create(dest)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return n, err
}

func (p *Pipeline) record(ctx context.Context, st catalog.Station, e catalog.Entry, category string, status Status) {
	if p.ledger == nil {
		return
	}
	rec := store.FetchRecord{
		Name:     e.Name,
		Station:  st.ShortName,
		Category: category,
		Status:   status.String(),
	}
	// the fetch may have been cancelled; the outcome is still worth keeping
	if err := p.ledger.RecordFetch(context.WithoutCancel(ctx), rec); err != nil {
		log.LogWithError(err).Warn("failed to record preview fetch")
	}
}
