// Package preview resolves box art for catalog entries, from the local cache
// first and from the libretro thumbnail service otherwise.
package preview

import (
	"context"
	"fmt"
	"image"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"romcat/internal/catalog"
	"romcat/internal/config"
	"romcat/internal/errors"
	"romcat/internal/log"
	"romcat/internal/store"
)

// Status is the state of the current preview.
type Status int

const (
	None Status = iota
	Loading
	Ready
	NotFound
	Error
	NoInternet
)

var statusNames = [...]string{
	None:       "none",
	Loading:    "loading",
	Ready:      "ready",
	NotFound:   "not_found",
	Error:      "error",
	NoInternet: "no_internet",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// Result is the preview for one entry. Image, Width and Height are only
// meaningful when Status is Ready.
type Result struct {
	Status    Status
	Image     image.Image
	Width     int
	Height    int
	Name      string
	StationID int
	Source    string // file the image was decoded from
}

// Catalog is the part of catalog.Service the pipeline reads.
type Catalog interface {
	Station(id int) (catalog.Station, error)
	StationEntries(id int) []catalog.Entry
}

// Ledger records online fetch outcomes.
type Ledger interface {
	RecordFetch(ctx context.Context, rec store.FetchRecord) error
}

// Prober checks that the thumbnail service is reachable.
type Prober func(ctx context.Context) error

// Pipeline holds the current preview, the async worker slot and the batch
// cancel flag.
type Pipeline struct {
	cfg     *config.Config
	catalog Catalog
	client  *http.Client
	probe   Prober
	ledger  Ledger
	logger  log.Logging

	mu      sync.Mutex
	current Result
	gen     uint64

	slotMu sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	cancelBatch atomic.Bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithHTTPClient replaces the download client.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Pipeline) { p.client = c }
}

// WithProber replaces the connectivity check.
func WithProber(probe Prober) Option {
	return func(p *Pipeline) { p.probe = probe }
}

// WithLedger records every online fetch in l.
func WithLedger(l Ledger) Option {
	return func(p *Pipeline) { p.ledger = l }
}

// WithLogger overrides the package logger.
func WithLogger(l log.Logging) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New creates a pipeline reading stations and entries from cat.
func New(cfg *config.Config, cat Catalog, opts ...Option) *Pipeline {
	timeout := time.Duration(cfg.Preview.TimeoutSeconds) * time.Second
	p := &Pipeline{
		cfg:     cfg,
		catalog: cat,
		client:  &http.Client{Timeout: timeout},
		logger:  log.Default(),
	}
	p.probe = DialProber(cfg.Preview.ProbeHost, 3*time.Second)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DialProber resolves and connects to hostport within timeout.
func DialProber(hostport string, timeout time.Duration) Prober {
	return func(ctx context.Context) error {
		d := net.Dialer{Timeout: timeout}
		conn, err := d.DialContext(ctx, "tcp", hostport)
		if err != nil {
			return err
		}
		return conn.Close()
	}
}

// Current returns a snapshot of the current preview.
func (p *Pipeline) Current() Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// begin makes entry the current preview in the given status and returns
// the generation that owns it.
func (p *Pipeline) begin(e catalog.Entry, status Status) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.current = Result{Status: status, Name: e.Name, StationID: e.StationID}
	return p.gen
}

// finish publishes res unless a newer request took over since gen.
func (p *Pipeline) finish(gen uint64, res Result) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return false
	}
	p.current = res
	return true
}

// Clear stops any async fetch and resets the current preview.
func (p *Pipeline) Clear() {
	p.slotMu.Lock()
	p.stopWorkerLocked()
	p.slotMu.Unlock()

	p.mu.Lock()
	p.gen++
	p.current = Result{}
	p.mu.Unlock()
}

// LoadLocal makes entry current and resolves it from disk only.
func (p *Pipeline) LoadLocal(e catalog.Entry) Status {
	gen := p.begin(e, Loading)
	res := p.loadLocal(e)
	p.finish(gen, res)
	return res.Status
}

func (p *Pipeline) loadLocal(e catalog.Entry) Result {
	res := Result{Status: NotFound, Name: e.Name, StationID: e.StationID}

	var candidates []string
	if e.Preview.Exists && e.Preview.Path != "" {
		candidates = append(candidates, e.Preview.Path)
	}
	if st, err := p.catalog.Station(e.StationID); err == nil {
		candidates = append(candidates,
			p.cachePath(st.ShortName, e.Name, ".png"),
			p.cachePath(st.ShortName, e.Name, ".jpg"),
		)
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		ready, err := p.decode(e, path)
		if err != nil {
			p.logger.With(log.F("path", path), log.F("error", err)).Debug("skipping undecodable preview")
			continue
		}
		return ready
	}
	return res
}

func (p *Pipeline) decode(e catalog.Entry, path string) (Result, error) {
	img, err := DecodeFile(path, p.cfg.Preview.Width, p.cfg.Preview.Height)
	if err != nil {
		return Result{}, err
	}
	b := img.Bounds()
	return Result{
		Status:    Ready,
		Image:     img,
		Width:     b.Dx(),
		Height:    b.Dy(),
		Name:      e.Name,
		StationID: e.StationID,
		Source:    path,
	}, nil
}

func (p *Pipeline) cachePath(shortName, name, ext string) string {
	return filepath.Join(p.cfg.Paths.CacheDir, shortName, name+ext)
}

func (p *Pipeline) station(id int) (catalog.Station, error) {
	st, err := p.catalog.Station(id)
	if err != nil {
		return st, err
	}
	if !st.Enabled {
		return st, errors.ErrStationNotFound.ForStation(id)
	}
	return st, nil
}
