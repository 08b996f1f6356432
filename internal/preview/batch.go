package preview

import (
	"context"
	"time"

	"romcat/internal/errors"
	"romcat/internal/log"
)

// ProgressFunc is told about every entry a batch visits, cached or not.
type ProgressFunc func(current, total int, name string)

// BatchFetch downloads artwork for every entry of station id that has none
// cached yet, in store order, and returns how many images were downloaded.
// It runs on the caller's goroutine and must not overlap with FetchAsync.
// The first failed connectivity probe ends the batch with a NoConnectivity error.
func (p *Pipeline) BatchFetch(ctx context.Context, id int, progress ProgressFunc) (int, error) {
	p.cancelBatch.Store(false)

	st, err := p.station(id)
	if err != nil {
		return 0, err
	}

	entries := p.catalog.StationEntries(id)
	total := len(entries)
	delay := time.Duration(p.cfg.Preview.BatchDelayMS) * time.Millisecond
	logger := p.logger.With(log.F("station", st.ShortName), log.F("total", total))
	logger.Info("batch fetch started")

	downloaded := 0
	for i, e := range entries {
		if p.cancelBatch.Load() || ctx.Err() != nil {
			logger.With(log.F("downloaded", downloaded)).Info("batch fetch cancelled")
			return downloaded, nil
		}

		if p.CacheExists(e) {
			if progress != nil {
				progress(i+1, total, e.Name)
			}
			continue
		}

		res, err := p.fetch(ctx, e)
		if res.Status == Ready {
			downloaded++
		}
		if progress != nil {
			progress(i+1, total, e.Name)
		}
		if errors.IsNoConnectivity(err) {
			logger.Warn("no internet connectivity, stopping batch")
			return downloaded, err
		}

		if delay > 0 && i < total-1 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
			}
		}
	}

	logger.With(log.F("downloaded", downloaded)).Info("batch fetch finished")
	return downloaded, nil
}

// CancelBatch asks a running BatchFetch to stop before its next entry.
func (p *Pipeline) CancelBatch() {
	p.cancelBatch.Store(true)
}
