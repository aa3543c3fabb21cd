package domain

import "time"

// CatalogEntry is a cached material record as stored by the catalog
type CatalogEntry struct {
	Name       string // Material name (primary key)
	GUID       string
	SourcePath string // Path relative to the materials root
	Mtime      int64  // Unix timestamp of the source file
}

// SyncStats holds statistics from a catalog sync
type SyncStats struct {
	EntriesAdded   int
	EntriesDeleted int
	Duration       time.Duration
}
