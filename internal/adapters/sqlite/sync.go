package sqlite

import (
	"path/filepath"
	"strconv"
	"time"

	"meshbridge/internal/domain"
)

// Replace swaps the catalog content for records inside one transaction.
// Records are applied in order, so later duplicates win as in the mapping.
func (c *Catalog) Replace(records []domain.MaterialRecord) (*domain.SyncStats, error) {
	start := time.Now()
	stats := &domain.SyncStats{}

	tx, err := c.beginTx()
	if err != nil {
		return nil, err
	}

	deleted, err := tx.deleteAll()
	if err != nil {
		tx.rollback()
		return nil, err
	}
	stats.EntriesDeleted = deleted

	added := make(map[string]bool, len(records))
	for _, r := range records {
		entry := &domain.CatalogEntry{
			Name:       r.Name,
			GUID:       r.GUID,
			SourcePath: c.relativePath(r.SourcePath),
			Mtime:      r.ModTime.Unix(),
		}
		if r.ModTime.IsZero() {
			entry.Mtime = 0
		}
		if err := tx.upsertEntry(entry); err != nil {
			tx.rollback()
			return nil, err
		}
		added[r.Name] = true
	}
	stats.EntriesAdded = len(added)

	for key, value := range map[string]string{
		"schema_version": schemaVersion,
		"root_hash":      hashRoot(c.materialsRoot),
		"last_sync_time": strconv.FormatInt(time.Now().Unix(), 10),
	} {
		if err := tx.setMeta(key, value); err != nil {
			tx.rollback()
			return nil, err
		}
	}

	if err := tx.commit(); err != nil {
		return nil, err
	}

	stats.Duration = time.Since(start)
	return stats, nil
}

// relativePath returns path relative to the materials root when possible
func (c *Catalog) relativePath(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(c.materialsRoot, abs)
	if err != nil || len(rel) >= 2 && rel[:2] == ".." {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
