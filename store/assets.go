package store

import (
	"database/sql"
	"errors"
	"fmt"

	"yardcore/asset"
)

// execer lets the per-table helpers run against the pool or an open
// transaction.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

func (db *DB) UpsertAsset(a *asset.Asset) error {
	return db.upsertAsset(db.DB, a)
}

func (db *DB) upsertAsset(e execer, a *asset.Asset) error {
	_, err := e.Exec(db.Q(`INSERT INTO assets
		(id, asset_type, name, description, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
		asset_type=excluded.asset_type, name=excluded.name,
		description=excluded.description, status=excluded.status,
		created_at=excluded.created_at, updated_at=excluded.updated_at`),
		a.ID, string(a.Type), a.Name, a.Description, string(a.Status),
		fmtTime(a.CreatedAt), fmtTime(a.UpdatedAt))
	if err != nil {
		return fmt.Errorf("upsert asset %s: %w", a.ID, err)
	}
	return nil
}

func (db *DB) GetAsset(id string) (asset.Asset, error) {
	row := db.QueryRow(db.Q(`SELECT id, asset_type, name, description, status,
		created_at, updated_at FROM assets WHERE id = ?`), id)
	a, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return asset.Asset{}, asset.ErrNotFound
	}
	return a, err
}

func (db *DB) ListAssets() ([]asset.Asset, error) {
	rows, err := db.Query(`SELECT id, asset_type, name, description, status,
		created_at, updated_at FROM assets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()
	var out []asset.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(r rowScanner) (asset.Asset, error) {
	var a asset.Asset
	var typ, status string
	var created, updated any
	if err := r.Scan(&a.ID, &typ, &a.Name, &a.Description, &status, &created, &updated); err != nil {
		return asset.Asset{}, err
	}
	a.Type = asset.Type(typ)
	a.Status = asset.Status(status)
	a.CreatedAt = parseTime(created)
	a.UpdatedAt = parseTime(updated)
	return a, nil
}
