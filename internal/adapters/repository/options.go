package repository

import "github.com/okian/fixturepick/pkg/logger"

// Option applies a configuration option to the CatalogStore.
type Option func(*CatalogStore)

// WithSource replaces the embedded resource.
func WithSource(src Source) Option {
	return func(s *CatalogStore) {
		if src != nil {
			s.source = src
		}
	}
}

// WithLogger sets the logger used for load events.
func WithLogger(l logger.Logger) Option {
	return func(s *CatalogStore) {
		if l != nil {
			s.logger = l
		}
	}
}
