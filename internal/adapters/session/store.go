// Package session keeps the per-visit picker selections of the HTTP service.
//
// A session is one visit of the "Add" screen. It is never persisted: it is
// dropped when the client discards it, when it was not touched for the TTL,
// or when the store is full and it is the least recently written.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/okian/fixturepick/internal/domain/model"
	"github.com/okian/fixturepick/pkg/metrics"
)

// Default store bounds.
const (
	defaultSize = 10_000
	defaultTTL  = 30 * time.Minute
)

// ErrNotFound is returned for unknown, discarded or expired sessions.
var ErrNotFound = errors.New("session not found")

// Session is a snapshot of one picker visit.
type Session struct {
	ID        string          `json:"id"`
	Selection model.Selection `json:"selection"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Store holds sessions in an expiring LRU.
type Store struct {
	mu  sync.Mutex // serializes read-modify-write on a session
	lru *expirable.LRU[string, Session]
	now func() time.Time
}

// Option applies a configuration option to the Store.
type Option func(*options)

type options struct {
	size int
	ttl  time.Duration
	now  func() time.Time
}

// WithSize bounds the number of live sessions.
func WithSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.size = size
		}
	}
}

// WithTTL sets how long an untouched session survives.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// NewStore creates an empty session store.
func NewStore(opts ...Option) *Store {
	o := options{size: defaultSize, ttl: defaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	onEvict := func(string, Session) { metrics.RecordSessionClosed() }
	return &Store{
		lru: expirable.NewLRU[string, Session](o.size, onEvict, o.ttl),
		now: o.now,
	}
}

// Create starts a session with an empty selection.
func (s *Store) Create() Session {
	now := s.now()
	sess := Session{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}

	s.mu.Lock()
	s.lru.Add(sess.ID, sess)
	s.mu.Unlock()

	metrics.RecordSessionCreated()
	metrics.UpdateSessionsActive(s.Len())
	return sess
}

// Get returns the session with id.
func (s *Store) Get(id string) (Session, error) {
	sess, ok := s.lru.Get(id)
	if !ok {
		return Session{}, ErrNotFound
	}
	return sess, nil
}

// Update applies fn to the session's selection and stores the result,
// refreshing its TTL. When fn fails the session is left untouched and the
// current snapshot is returned with the error.
func (s *Store) Update(id string, fn func(model.Selection) (model.Selection, error)) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.lru.Get(id)
	if !ok {
		return Session{}, ErrNotFound
	}
	next, err := fn(sess.Selection)
	if err != nil {
		return sess, err
	}
	sess.Selection = next
	sess.UpdatedAt = s.now()
	s.lru.Add(id, sess)
	return sess, nil
}

// Delete discards a session. It reports whether the session existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	ok := s.lru.Remove(id)
	s.mu.Unlock()

	metrics.UpdateSessionsActive(s.Len())
	return ok
}

// Len returns the number of live sessions.
func (s *Store) Len() int { return s.lru.Len() }

// Purge discards every session.
func (s *Store) Purge() {
	s.mu.Lock()
	s.lru.Purge()
	s.mu.Unlock()

	metrics.UpdateSessionsActive(0)
}
