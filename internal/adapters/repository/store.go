// Package repository loads and memoizes the static league catalog.
package repository

import (
	"context"

	"github.com/okian/fixturepick/internal/domain/model"
)

// LoadResult is the single value delivered by Store.LoadAsync.
type LoadResult struct {
	Catalog model.Catalog
	Err     error
}

// Store provides access to the catalog.
type Store interface {
	// Load parses the resource on first use and returns the memoized catalog
	// afterwards. Failures are not memoized; calling Load again retries.
	Load(ctx context.Context) (model.Catalog, error)

	// LoadAsync runs Load off the caller's goroutine. The channel yields
	// exactly one result and is then closed.
	LoadAsync(ctx context.Context) <-chan LoadResult

	// Cached returns the memoized catalog without loading.
	Cached() (model.Catalog, bool)
}
