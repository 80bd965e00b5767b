package store

import (
	"fmt"

	"yardcore/asset"
)

func (db *DB) UpsertInventoryItem(it *asset.InventoryItem) error {
	return db.upsertInventoryItem(db.DB, it)
}

func (db *DB) upsertInventoryItem(e execer, it *asset.InventoryItem) error {
	_, err := e.Exec(db.Q(`INSERT INTO inventory
		(asset_id, name, location, quantity, last_updated)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (asset_id) DO UPDATE SET
		name=excluded.name, location=excluded.location,
		quantity=excluded.quantity, last_updated=excluded.last_updated`),
		it.AssetID, it.Name, it.Location, it.Quantity, fmtTime(it.LastUpdated))
	if err != nil {
		return fmt.Errorf("upsert inventory item %s: %w", it.AssetID, err)
	}
	return nil
}

func (db *DB) loadInventory() (map[string]*asset.InventoryItem, error) {
	rows, err := db.Query(`SELECT asset_id, name, location, quantity, last_updated
		FROM inventory`)
	if err != nil {
		return nil, fmt.Errorf("load inventory: %w", err)
	}
	defer rows.Close()
	out := make(map[string]*asset.InventoryItem)
	for rows.Next() {
		var it asset.InventoryItem
		var updated any
		if err := rows.Scan(&it.AssetID, &it.Name, &it.Location, &it.Quantity, &updated); err != nil {
			return nil, err
		}
		it.LastUpdated = parseTime(updated)
		out[it.AssetID] = &it
	}
	return out, rows.Err()
}
