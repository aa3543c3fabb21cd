package sqlite

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"

	"meshbridge/internal/domain"
	"meshbridge/internal/ports"

	_ "github.com/mattn/go-sqlite3"
)

const schemaVersion = "1"

// Catalog implements ports.MaterialCatalog using SQLite
type Catalog struct {
	db            *sql.DB
	materialsRoot string
	dbPath        string
}

// Ensure Catalog implements MaterialCatalog
var _ ports.MaterialCatalog = (*Catalog)(nil)

// NewCatalog creates a new SQLite material catalog
func NewCatalog() *Catalog {
	return &Catalog{}
}

// Open initializes the catalog for the given materials root
func (c *Catalog) Open(materialsRoot string) error {
	root, err := homedir.Expand(materialsRoot)
	if err != nil {
		return fmt.Errorf("failed to expand materials root: %w", err)
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}

	c.materialsRoot = root
	c.dbPath = databasePath(root)

	if err := os.MkdirAll(filepath.Dir(c.dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite3", c.dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	c.db = db

	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA temp_store = MEMORY;

		CREATE TABLE IF NOT EXISTS materials (
			name TEXT PRIMARY KEY,
			guid TEXT NOT NULL,
			source_path TEXT NOT NULL,
			mtime INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_materials_guid ON materials(guid);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	return nil
}

// OpenOptional opens the catalog for materialsRoot. When that fails it logs a
// warning and returns nil so callers can work from the mapping file alone.
func OpenOptional(materialsRoot string, logger *slog.Logger) ports.MaterialCatalog {
	if logger == nil {
		logger = slog.Default()
	}
	c := NewCatalog()
	if err := c.Open(materialsRoot); err != nil {
		logger.Warn("material catalog unavailable, continuing without it", "root", materialsRoot, "error", err)
		return nil
	}
	return c
}

// Close closes the database connection
func (c *Catalog) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Path returns the database file location
func (c *Catalog) Path() string {
	return c.dbPath
}

// NeedsFullRebuild returns true if the catalog was never synced for this root
// or was written by another schema version
func (c *Catalog) NeedsFullRebuild() bool {
	var version, rootHash string

	c.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&version)
	c.db.QueryRow("SELECT value FROM meta WHERE key = 'root_hash'").Scan(&rootHash)

	return version != schemaVersion || rootHash != hashRoot(c.materialsRoot)
}

// databasePath returns the path for the SQLite database
func databasePath(materialsRoot string) string {
	// XDG data directory
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataHome, "meshbridge", hashRoot(materialsRoot)+".db")
}

// hashRoot returns a short hash of the materials root path
func hashRoot(root string) string {
	h := sha256.Sum256([]byte(root))
	return hex.EncodeToString(h[:8])
}

// Lookup retrieves a catalog entry by material name
func (c *Catalog) Lookup(name string) (*domain.CatalogEntry, error) {
	var e domain.CatalogEntry

	err := c.db.QueryRow(`
		SELECT name, guid, source_path, mtime
		FROM materials WHERE name = ?
	`, name).Scan(&e.Name, &e.GUID, &e.SourcePath, &e.Mtime)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Search returns entries whose name, guid or source path contains query
func (c *Catalog) Search(query string) ([]domain.CatalogEntry, error) {
	pattern := "%" + query + "%"
	rows, err := c.db.Query(`
		SELECT name, guid, source_path, mtime
		FROM materials
		WHERE name LIKE ? OR guid LIKE ? OR source_path LIKE ?
		ORDER BY name
	`, pattern, pattern, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.CatalogEntry
	for rows.Next() {
		var e domain.CatalogEntry
		if err := rows.Scan(&e.Name, &e.GUID, &e.SourcePath, &e.Mtime); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// All returns every entry ordered by name
func (c *Catalog) All() ([]domain.CatalogEntry, error) {
	return c.Search("")
}

// Count returns the number of cataloged materials
func (c *Catalog) Count() (int, error) {
	var n int
	err := c.db.QueryRow(`SELECT COUNT(*) FROM materials`).Scan(&n)
	return n, err
}
