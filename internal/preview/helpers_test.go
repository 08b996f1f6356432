package preview_test

import (
	"context"
	"image/color"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"romcat/internal/catalog"
	"romcat/internal/config"
	"romcat/internal/errors"
	"romcat/internal/preview"
	"romcat/internal/store"
	"romcat/pkg/testutils"
)

const nesSystem = "/Nintendo_-_Nintendo_Entertainment_System"

type fakeCatalog struct {
	stations map[int]catalog.Station
	entries  []catalog.Entry
}

func (f *fakeCatalog) Station(id int) (catalog.Station, error) {
	st, ok := f.stations[id]
	if !ok {
		return catalog.Station{}, errors.NewStationError("station not found", id, errors.NotFound, nil)
	}
	return st, nil
}

func (f *fakeCatalog) StationEntries(id int) []catalog.Entry {
	var out []catalog.Entry
	for _, e := range f.entries {
		if e.StationID == id {
			out = append(out, e)
		}
	}
	return out
}

func newFakeCatalog(names ...string) *fakeCatalog {
	f := &fakeCatalog{stations: map[int]catalog.Station{
		0: {ID: 0, Name: "NES", ShortName: "NES", RomPath: "NES", Extensions: "nes", Enabled: true},
	}}
	for _, name := range names {
		f.entries = append(f.entries, catalog.Entry{Name: name, Filename: name + ".nes", StationID: 0})
	}
	return f
}

type fakeLedger struct {
	mu      sync.Mutex
	records []store.FetchRecord
}

func (l *fakeLedger) RecordFetch(_ context.Context, rec store.FetchRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, rec)
	return nil
}

func (l *fakeLedger) all() []store.FetchRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]store.FetchRecord(nil), l.records...)
}

// thumbServer serves routes by decoded URL path; anything else is a 404.
type thumbServer struct {
	*httptest.Server
	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	hits   []string
}

func newThumbServer(t *testing.T) *thumbServer {
	t.Helper()
	ts := &thumbServer{routes: map[string]http.HandlerFunc{}}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.mu.Lock()
		ts.hits = append(ts.hits, r.URL.Path)
		h := ts.routes[r.URL.Path]
		ts.mu.Unlock()
		if h == nil {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func (ts *thumbServer) handle(path string, h http.HandlerFunc) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.routes[path] = h
}

func (ts *thumbServer) servePNG(t *testing.T, path string, w, h int) {
	data := testutils.EncodePNG(t, w, h, color.RGBA{G: 255, A: 255})
	ts.handle(path, func(rw http.ResponseWriter, _ *http.Request) {
		rw.Header().Set("Content-Type", "image/png")
		rw.Write(data)
	})
}

func (ts *thumbServer) requests() []string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return append([]string(nil), ts.hits...)
}

func online(context.Context) error { return nil }

func newTestPipeline(t *testing.T, cat preview.Catalog, srv *thumbServer, opts ...preview.Option) (*preview.Pipeline, *config.Config) {
	t.Helper()
	cfg := config.NewTestConfig(t.TempDir())
	if srv != nil {
		cfg.Preview.BaseURL = srv.URL
	}
	opts = append([]preview.Option{preview.WithProber(online)}, opts...)
	p := preview.New(cfg, cat, opts...)
	t.Cleanup(p.Close)
	return p, cfg
}
