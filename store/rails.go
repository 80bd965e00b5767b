package store

import (
	"fmt"

	"yardcore/asset"
)

func (db *DB) UpsertRail(r *asset.Rail) error {
	return db.upsertRail(db.DB, r)
}

func (db *DB) upsertRail(e execer, r *asset.Rail) error {
	_, err := e.Exec(db.Q(`INSERT INTO rails
		(asset_id, rail_name, length, capacity, last_inspection_date,
		 next_inspection_due, operational_since, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (asset_id) DO UPDATE SET
		rail_name=excluded.rail_name, length=excluded.length,
		capacity=excluded.capacity,
		last_inspection_date=excluded.last_inspection_date,
		next_inspection_due=excluded.next_inspection_due,
		operational_since=excluded.operational_since, notes=excluded.notes`),
		r.AssetID, r.RailName, r.Length, r.Capacity,
		fmtTime(r.LastInspectionDate), fmtTime(r.NextInspectionDue),
		fmtTime(r.OperationalSince), r.Notes)
	if err != nil {
		return fmt.Errorf("upsert rail %s: %w", r.AssetID, err)
	}
	return nil
}

func (db *DB) loadRails() (map[string]*asset.Rail, error) {
	rows, err := db.Query(`SELECT asset_id, rail_name, length, capacity,
		last_inspection_date, next_inspection_due, operational_since, notes
		FROM rails`)
	if err != nil {
		return nil, fmt.Errorf("load rails: %w", err)
	}
	defer rows.Close()
	out := make(map[string]*asset.Rail)
	for rows.Next() {
		var r asset.Rail
		var lastInsp, nextInsp, opSince any
		if err := rows.Scan(&r.AssetID, &r.RailName, &r.Length, &r.Capacity,
			&lastInsp, &nextInsp, &opSince, &r.Notes); err != nil {
			return nil, err
		}
		r.LastInspectionDate = parseTime(lastInsp)
		r.NextInspectionDue = parseTime(nextInsp)
		r.OperationalSince = parseTime(opSince)
		out[r.AssetID] = &r
	}
	return out, rows.Err()
}
