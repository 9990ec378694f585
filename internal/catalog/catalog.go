// Package catalog holds the current festival snapshot and answers queries
// against it. A snapshot is built by reading the source table and deriving
// the festival fields; it is immutable once published.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/festival-guide/internal/adapter/csvfile"
	"github.com/couchcryptid/festival-guide/internal/adapter/xlsx"
	"github.com/couchcryptid/festival-guide/internal/domain"
	"github.com/couchcryptid/festival-guide/internal/observability"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// ErrNotLoaded is returned while no snapshot is held.
var ErrNotLoaded = errors.New("festival catalog has not been loaded")

// Source reads the raw festival table.
type Source interface {
	Load(ctx context.Context) (domain.Table, error)
}

// Publisher receives every snapshot after a successful reload.
type Publisher interface {
	Publish(ctx context.Context, s *Snapshot) error
}

// OpenSource picks the table reader for path by extension: .xlsx files are
// read as workbooks, anything else as CSV with the given encodings.
func OpenSource(path string, encodings []string) Source {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return xlsx.NewReader(path)
	}
	return csvfile.NewReader(path, encodings)
}

// Snapshot is one loaded and derived dataset.
type Snapshot struct {
	ID         string
	Generation uint64
	Source     string
	Encoding   string
	LoadedAt   time.Time
	Dataset    domain.Dataset
}

// Meta summarizes a snapshot for status endpoints.
type Meta struct {
	ID         string         `json:"id"`
	Generation uint64         `json:"generation"`
	Source     string         `json:"source"`
	Encoding   string         `json:"encoding"`
	LoadedAt   time.Time      `json:"loaded_at"`
	Rows       int            `json:"rows"`
	HasMonth   bool           `json:"has_month"`
	Quality    domain.Quality `json:"quality"`
}

// Meta returns the snapshot summary.
func (s *Snapshot) Meta() Meta {
	return Meta{
		ID:         s.ID,
		Generation: s.Generation,
		Source:     s.Source,
		Encoding:   s.Encoding,
		LoadedAt:   s.LoadedAt,
		Rows:       len(s.Dataset.Festivals),
		HasMonth:   s.Dataset.HasMonth,
		Quality:    s.Dataset.Quality,
	}
}

// Options tunes a Catalog. Zero values fall back to defaults.
type Options struct {
	SourceName     string
	JitterSigma    float64
	JitterSeed     *uint64 // nil draws a fresh seed per load
	QueryCacheSize int
	ReloadInterval time.Duration
	Clock          clockwork.Clock
	Publisher      Publisher

	// LoadOnDemand lets Get read the source when no snapshot is held.
	// Leave it off when Run owns loading; Get then returns ErrNotLoaded.
	LoadOnDemand bool
}

// Catalog is the explicit cache of the festival table. Reads go through an
// atomic pointer; reloads are serialized and only replace the snapshot on
// success.
type Catalog struct {
	source    Source
	opts      Options
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics
	publisher Publisher

	mu         sync.Mutex
	generation uint64
	current    atomic.Pointer[Snapshot]
	queries    *queryCache
}

// New creates a Catalog. Nothing is read until Get, Reload or Run is called.
func New(source Source, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Catalog {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.QueryCacheSize <= 0 {
		opts.QueryCacheSize = 256
	}
	return &Catalog{
		source:    source,
		opts:      opts,
		clock:     opts.Clock,
		logger:    logger,
		metrics:   metrics,
		publisher: opts.Publisher,
		queries:   newQueryCache(opts.QueryCacheSize),
	}
}

// Current returns the held snapshot or nil. It never loads.
func (c *Catalog) Current() *Snapshot {
	return c.current.Load()
}

// Get returns the current snapshot. With LoadOnDemand it loads the source
// on first use; otherwise it returns ErrNotLoaded until a load succeeds.
func (c *Catalog) Get(ctx context.Context) (*Snapshot, error) {
	if s := c.current.Load(); s != nil {
		return s, nil
	}
	if !c.opts.LoadOnDemand {
		return nil, ErrNotLoaded
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if s := c.current.Load(); s != nil {
		return s, nil
	}
	return c.reloadLocked(ctx)
}

// Reload reads and derives a new snapshot and swaps it in. On failure the
// previous snapshot, if any, keeps being served and the error is returned.
func (c *Catalog) Reload(ctx context.Context) (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reloadLocked(ctx)
}

// Invalidate drops the current snapshot. The next Get reloads when
// LoadOnDemand is set; otherwise Run or Reload must load again.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current.Store(nil)
	c.queries.purge()
	c.metrics.CatalogReady.Set(0)
	c.logger.Info("catalog invalidated")
}

// CheckReadiness returns nil once a snapshot is held.
func (c *Catalog) CheckReadiness(_ context.Context) error {
	if c.current.Load() == nil {
		return ErrNotLoaded
	}
	return nil
}

func (c *Catalog) reloadLocked(ctx context.Context) (*Snapshot, error) {
	start := c.clock.Now()

	tbl, err := c.source.Load(ctx)
	if err != nil {
		c.metrics.Loads.WithLabelValues("error").Inc()
		c.logger.Error("festival load failed", "source", c.opts.SourceName, "error", err)
		return nil, fmt.Errorf("load festivals: %w", err)
	}

	ds := domain.Derive(tbl, c.jitterSource(), c.opts.JitterSigma)

	c.generation++
	s := &Snapshot{
		ID:         uuid.NewString(),
		Generation: c.generation,
		Source:     c.opts.SourceName,
		Encoding:   tbl.Encoding,
		LoadedAt:   c.clock.Now(),
		Dataset:    ds,
	}
	c.current.Store(s)
	c.queries.purge()

	c.recordLoad(s, c.clock.Since(start))
	c.logger.Info("festival snapshot loaded",
		"snapshot_id", s.ID,
		"generation", s.Generation,
		"rows", len(ds.Festivals),
		"encoding", s.Encoding,
		"missing_columns", ds.Quality.MissingColumns,
	)

	if c.publisher != nil {
		if err := c.publisher.Publish(ctx, s); err != nil {
			c.metrics.PublishErrors.Inc()
			c.logger.Warn("snapshot publish failed", "snapshot_id", s.ID, "error", err)
		}
	}
	return s, nil
}

// jitterSource returns the random source for one load. A configured seed
// yields identical coordinates on every load.
func (c *Catalog) jitterSource() *rand.Rand {
	if c.opts.JitterSeed != nil {
		seed := *c.opts.JitterSeed
		return rand.New(rand.NewPCG(seed, seed))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func (c *Catalog) recordLoad(s *Snapshot, elapsed time.Duration) {
	q := s.Dataset.Quality
	c.metrics.Loads.WithLabelValues("success").Inc()
	c.metrics.LoadDuration.Observe(elapsed.Seconds())
	c.metrics.RowsLoaded.Set(float64(len(s.Dataset.Festivals)))
	c.metrics.CatalogReady.Set(1)
	c.metrics.SnapshotLoaded.Set(float64(s.LoadedAt.Unix()))

	for status, n := range q.VisitorStatus {
		if status == domain.CountReported || n == 0 {
			continue
		}
		c.metrics.DegradedCells.WithLabelValues("visitors", string(status)).Add(float64(n))
	}
	if q.UnknownMonth > 0 {
		c.metrics.DegradedCells.WithLabelValues("month", "unknown").Add(float64(q.UnknownMonth))
	}
	if q.CentroidMisses > 0 {
		c.metrics.DegradedCells.WithLabelValues("region", "centroid_miss").Add(float64(q.CentroidMisses))
	}
}
