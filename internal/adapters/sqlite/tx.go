package sqlite

import (
	"database/sql"

	"meshbridge/internal/domain"
)

// catalogTx groups catalog writes into one transaction
type catalogTx struct {
	tx *sql.Tx
}

func (c *Catalog) beginTx() (*catalogTx, error) {
	tx, err := c.db.Begin()
	if err != nil {
		return nil, err
	}
	return &catalogTx{tx: tx}, nil
}

// upsertEntry inserts or replaces an entry
func (t *catalogTx) upsertEntry(e *domain.CatalogEntry) error {
	_, err := t.tx.Exec(`
		INSERT OR REPLACE INTO materials (name, guid, source_path, mtime)
		VALUES (?, ?, ?, ?)
	`, e.Name, e.GUID, e.SourcePath, e.Mtime)
	return err
}

// deleteAll removes every entry and returns how many were removed
func (t *catalogTx) deleteAll() (int, error) {
	res, err := t.tx.Exec(`DELETE FROM materials`)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// setMeta stores a metadata value
func (t *catalogTx) setMeta(key, value string) error {
	_, err := t.tx.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, key, value)
	return err
}

func (t *catalogTx) commit() error {
	return t.tx.Commit()
}

func (t *catalogTx) rollback() error {
	return t.tx.Rollback()
}
