package ports

import (
	"context"

	"meshbridge/internal/domain"
)

// MaterialSource extracts material records from a tree of definition files
type MaterialSource interface {
	// Scan walks root and returns records in walk order.
	// Per-file failures are skipped; only an unreadable root is an error.
	Scan(ctx context.Context, root string) ([]domain.MaterialRecord, *domain.ScanStats, error)
}

// MappingStore persists a GuidMapping as a flat text file
type MappingStore interface {
	// Save overwrites path with the full mapping
	Save(mapping *domain.GuidMapping, path string) error

	// Load reads the mapping at path. A missing file yields an empty mapping.
	Load(path string) (*domain.GuidMapping, error)
}
