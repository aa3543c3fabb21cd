package ports

import "meshbridge/internal/domain"

// MaterialCatalog provides cached, queryable access to the last material scan
type MaterialCatalog interface {
	// Lifecycle
	Open(materialsRoot string) error
	Close() error

	// NeedsFullRebuild reports whether the cache was built for another root or schema
	NeedsFullRebuild() bool

	// Replace swaps the whole catalog content for records
	Replace(records []domain.MaterialRecord) (*domain.SyncStats, error)

	// Queries
	Lookup(name string) (*domain.CatalogEntry, error)
	Search(query string) ([]domain.CatalogEntry, error)
	Count() (int, error)
}
