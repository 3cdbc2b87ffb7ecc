// Package service composes the catalog store, the selection controller and
// the session store into the operations the HTTP API exposes.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/fixturepick/internal/adapters/repository"
	"github.com/okian/fixturepick/internal/adapters/session"
	"github.com/okian/fixturepick/internal/domain/lookup"
	"github.com/okian/fixturepick/internal/domain/model"
	"github.com/okian/fixturepick/internal/domain/selection"
	"github.com/okian/fixturepick/internal/domain/types"
	"github.com/okian/fixturepick/pkg/logger"
	"github.com/okian/fixturepick/pkg/metrics"
)

// ErrSessionNotFound is returned for unknown, discarded or expired sessions.
var ErrSessionNotFound = session.ErrNotFound

// Service implements the API dependencies for the picker.
type Service struct {
	mu sync.RWMutex

	// Core components
	catalog  repository.Store
	sessions *session.Store

	// Configuration
	sessionSize int
	sessionTTL  time.Duration
	now         func() time.Time

	// State
	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCatalogStore sets the catalog store. The default reads the bundled
// resource.
func WithCatalogStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.catalog = store
		}
	}
}

// WithSessionSize bounds the number of live sessions.
func WithSessionSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.sessionSize = size
		}
	}
}

// WithSessionTTL sets how long an untouched session survives.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithClock overrides the clock date labels are resolved against.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service. Nothing is loaded until Start or the first lookup.
func New(opts ...Option) *Service {
	s := &Service{
		sessionSize: 10_000,
		sessionTTL:  30 * time.Minute,
		now:         time.Now,
		logger:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.catalog == nil {
		s.catalog = repository.NewCatalogStore(repository.WithLogger(s.logger.Named("catalog")))
	}
	s.sessions = session.NewStore(
		session.WithSize(s.sessionSize),
		session.WithTTL(s.sessionTTL),
		session.WithClock(s.now),
	)
	return s
}

// Start begins loading the catalog in the background. A load failure is
// logged, not returned: lookups retry the load and report it per request.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting picker service...",
		logger.Int("sessionSize", s.sessionSize),
		logger.String("sessionTTL", s.sessionTTL.String()),
	)

	results := s.catalog.LoadAsync(ctx)
	go func() {
		res := <-results
		if res.Err != nil {
			s.logger.Warn(ctx, "initial catalog load failed", logger.Error(res.Err))
			return
		}
		s.logger.Info(ctx, "catalog ready", logger.Int("leagues", res.Catalog.Len()))
	}()

	s.started = true
	return nil
}

// Stop discards every session.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.sessions.Purge()
	s.started = false
	s.logger.Info(context.Background(), "picker service stopped")
}

// Ready reports whether the catalog has been loaded.
func (s *Service) Ready() bool {
	_, ok := s.catalog.Cached()
	return ok
}

// Countries returns the distinct countries of the catalog.
func (s *Service) Countries(ctx context.Context) ([]string, error) {
	c, err := s.catalog.Load(ctx)
	if err != nil {
		return nil, err
	}
	return lookup.Countries(c), nil
}

// Leagues returns the leagues of country.
func (s *Service) Leagues(ctx context.Context, country string) ([]string, error) {
	c, err := s.catalog.Load(ctx)
	if err != nil {
		return nil, err
	}
	return lookup.LeaguesFor(c, country), nil
}

// Teams returns the teams of league.
func (s *Service) Teams(ctx context.Context, league string) ([]string, error) {
	c, err := s.catalog.Load(ctx)
	if err != nil {
		return nil, err
	}
	return lookup.TeamsFor(c, league), nil
}

// Dates returns the fixed date options.
func (s *Service) Dates() []string {
	return selection.DateOptions()
}

// NewSession starts a picker visit.
func (s *Service) NewSession(ctx context.Context) (types.SessionView, error) {
	c, err := s.catalog.Load(ctx)
	if err != nil {
		return types.SessionView{}, err
	}
	sess := s.sessions.Create()
	s.logger.Debug(ctx, "session created", logger.String("sessionID", sess.ID))
	return s.view(c, sess), nil
}

// Session returns the current view of session id.
func (s *Service) Session(ctx context.Context, id string) (types.SessionView, error) {
	c, err := s.catalog.Load(ctx)
	if err != nil {
		return types.SessionView{}, err
	}
	sess, err := s.sessions.Get(id)
	if err != nil {
		return types.SessionView{}, err
	}
	return s.view(c, sess), nil
}

// Apply sets field to value on session id and returns the resulting view.
func (s *Service) Apply(ctx context.Context, id, field, value string) (types.SessionView, error) {
	f, ok := model.ParseField(field)
	if !ok {
		metrics.RecordSelectionChange("unknown", "error")
		return types.SessionView{}, fmt.Errorf("%q: %w", field, selection.ErrUnknownField)
	}
	c, err := s.catalog.Load(ctx)
	if err != nil {
		return types.SessionView{}, err
	}

	sess, err := s.sessions.Update(id, func(sel model.Selection) (model.Selection, error) {
		return selection.ApplyChange(sel, f, value)
	})
	switch {
	case errors.Is(err, selection.ErrInvalidSelection):
		metrics.RecordSelectionChange(string(f), "rejected")
		s.logger.Debug(ctx, "selection rejected",
			logger.String("sessionID", id),
			logger.String("field", string(f)),
			logger.String("value", value),
		)
		return types.SessionView{}, err
	case err != nil:
		metrics.RecordSelectionChange(string(f), "error")
		return types.SessionView{}, err
	}

	metrics.RecordSelectionChange(string(f), "ok")
	s.logger.Debug(ctx, "selection changed",
		logger.String("sessionID", id),
		logger.String("field", string(f)),
		logger.String("value", value),
	)
	return s.view(c, sess), nil
}

// Discard ends a picker visit.
func (s *Service) Discard(ctx context.Context, id string) error {
	if !s.sessions.Delete(id) {
		return ErrSessionNotFound
	}
	s.logger.Debug(ctx, "session discarded", logger.String("sessionID", id))
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, loaded := s.catalog.Cached()
	stats := map[string]interface{}{
		"started":       s.started,
		"catalogLoaded": loaded,
		"sessions":      s.sessions.Len(),
		"sessionSize":   s.sessionSize,
	}
	if named, ok := s.catalog.(interface{ SourceName() string }); ok {
		stats["catalogSource"] = named.SourceName()
	}
	if loaded {
		stats["leagues"] = c.Len()
		stats["countries"] = len(lookup.Countries(c))
	}
	metrics.UpdateSessionsActive(s.sessions.Len())
	return stats
}

func (s *Service) view(c model.Catalog, sess session.Session) types.SessionView {
	v := types.SessionView{
		ID:        sess.ID,
		Selection: sess.Selection,
		Options:   selection.Options(c, sess.Selection),
		Complete:  sess.Selection.Complete(),
		CreatedAt: sess.CreatedAt,
		UpdatedAt: sess.UpdatedAt,
	}
	// Free-text dates have no calendar day.
	if day, err := selection.ResolveDate(sess.Selection.Date, s.now()); err == nil {
		v.Day = day.Format(types.DayLayout)
	}
	return v
}
