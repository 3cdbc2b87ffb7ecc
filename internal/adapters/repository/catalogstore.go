package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/okian/fixturepick/internal/domain/lookup"
	"github.com/okian/fixturepick/internal/domain/model"
	"github.com/okian/fixturepick/pkg/logger"
	"github.com/okian/fixturepick/pkg/metrics"
)

const loadKey = "catalog"

// CatalogStore memoizes the catalog parsed from its Source. Concurrent Load
// calls share a single read-and-parse.
type CatalogStore struct {
	source Source
	logger logger.Logger
	group  singleflight.Group

	mu      sync.RWMutex
	catalog model.Catalog
	loaded  bool
	gen     uint64 // bumped by Reset; a flight only stores into its own generation
}

// NewCatalogStore creates a store reading the embedded resource unless
// WithSource says otherwise.
func NewCatalogStore(opts ...Option) *CatalogStore {
	s := &CatalogStore{
		source: Embedded(),
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns a copy of the memoized catalog, parsing the source on first use.
func (s *CatalogStore) Load(ctx context.Context) (model.Catalog, error) {
	if c, ok := s.Cached(); ok {
		return c.Clone(), nil
	}
	if err := ctx.Err(); err != nil {
		return model.Catalog{}, err
	}

	// The parse runs detached from the first caller's cancellation so that a
	// caller giving up does not fail the waiters sharing the same flight.
	ch := s.group.DoChan(loadKey, func() (any, error) {
		return s.load(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return model.Catalog{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return model.Catalog{}, res.Err
		}
		return res.Val.(model.Catalog).Clone(), nil
	}
}

// LoadAsync runs Load in a goroutine.
func (s *CatalogStore) LoadAsync(ctx context.Context) <-chan LoadResult {
	out := make(chan LoadResult, 1)
	go func() {
		defer close(out)
		c, err := s.Load(ctx)
		out <- LoadResult{Catalog: c, Err: err}
	}()
	return out
}

// Cached returns the memoized catalog, if any. It is shared and must not be
// modified.
func (s *CatalogStore) Cached() (model.Catalog, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog, s.loaded
}

// Reset drops the memoized catalog; the next Load re-reads the source. A
// flight still running when Reset is called is not stored.
func (s *CatalogStore) Reset() {
	s.mu.Lock()
	s.catalog = model.Catalog{}
	s.loaded = false
	s.gen++
	s.mu.Unlock()
	s.group.Forget(loadKey)
}

// SourceName reports where the catalog is read from.
func (s *CatalogStore) SourceName() string { return s.source.Name() }

func (s *CatalogStore) load(ctx context.Context) (model.Catalog, error) {
	s.mu.RLock()
	c, loaded, gen := s.catalog, s.loaded, s.gen
	s.mu.RUnlock()
	// A flight may start right after another one stored its result.
	if loaded {
		return c, nil
	}

	start := time.Now()
	name := s.source.Name()
	s.logger.Debug(ctx, "loading catalog", logger.String("source", name))

	c, err := s.readAndDecode(ctx, name)
	durationMs := float64(time.Since(start).Milliseconds())
	metrics.RecordCatalogLoadDuration(durationMs)
	if err != nil {
		metrics.RecordCatalogLoad("error")
		s.logger.Error(ctx, "catalog load failed", logger.String("source", name), logger.Error(err))
		return model.Catalog{}, err
	}

	s.mu.Lock()
	stale := s.gen != gen
	if !stale {
		s.catalog = c
		s.loaded = true
	}
	s.mu.Unlock()
	if stale {
		s.logger.Debug(ctx, "discarding catalog parsed before reset", logger.String("source", name))
		return c, nil
	}

	countries := len(lookup.Countries(c))
	metrics.RecordCatalogLoad("ok")
	metrics.UpdateCatalogSize(c.Len(), countries)
	s.logger.Info(ctx, "catalog loaded",
		logger.String("source", name),
		logger.Int("leagues", c.Len()),
		logger.Int("countries", countries),
		logger.Float64("durationMs", durationMs),
	)
	return c, nil
}

func (s *CatalogStore) readAndDecode(ctx context.Context, name string) (model.Catalog, error) {
	raw, err := s.source.Read(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return model.Catalog{}, err
		}
		return model.Catalog{}, &FormatError{Source: name, Err: err}
	}
	return Decode(name, raw)
}
