package store

import (
	"fmt"

	"yardcore/asset"
)

func (db *DB) UpsertCradle(c *asset.Cradle) error {
	return db.upsertCradle(db.DB, c)
}

func (db *DB) upsertCradle(e execer, c *asset.Cradle) error {
	_, err := e.Exec(db.Q(`INSERT INTO cradles
		(asset_id, cradle_name, capacity, max_ship_length, location,
		 last_maintenance_date, next_maintenance_due, operational_since, notes,
		 occupancy, current_load, structural_stress, wear_level)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (asset_id) DO UPDATE SET
		cradle_name=excluded.cradle_name, capacity=excluded.capacity,
		max_ship_length=excluded.max_ship_length, location=excluded.location,
		last_maintenance_date=excluded.last_maintenance_date,
		next_maintenance_due=excluded.next_maintenance_due,
		operational_since=excluded.operational_since, notes=excluded.notes,
		occupancy=excluded.occupancy, current_load=excluded.current_load,
		structural_stress=excluded.structural_stress, wear_level=excluded.wear_level`),
		c.AssetID, c.CradleName, c.Capacity, c.MaxShipLength, c.Location,
		fmtTime(c.LastMaintenanceDate), fmtTime(c.NextMaintenanceDue),
		fmtTime(c.OperationalSince), c.Notes,
		c.Occupancy, c.CurrentLoad, c.StructuralStress, c.WearLevel)
	if err != nil {
		return fmt.Errorf("upsert cradle %s: %w", c.AssetID, err)
	}
	return nil
}

func (db *DB) loadCradles() (map[string]*asset.Cradle, error) {
	rows, err := db.Query(`SELECT asset_id, cradle_name, capacity, max_ship_length,
		location, last_maintenance_date, next_maintenance_due, operational_since,
		notes, occupancy, current_load, structural_stress, wear_level FROM cradles`)
	if err != nil {
		return nil, fmt.Errorf("load cradles: %w", err)
	}
	defer rows.Close()
	out := make(map[string]*asset.Cradle)
	for rows.Next() {
		var c asset.Cradle
		var lastMaint, nextDue, opSince any
		if err := rows.Scan(&c.AssetID, &c.CradleName, &c.Capacity, &c.MaxShipLength,
			&c.Location, &lastMaint, &nextDue, &opSince,
			&c.Notes, &c.Occupancy, &c.CurrentLoad, &c.StructuralStress, &c.WearLevel); err != nil {
			return nil, err
		}
		c.LastMaintenanceDate = parseTime(lastMaint)
		c.NextMaintenanceDue = parseTime(nextDue)
		c.OperationalSince = parseTime(opSince)
		out[c.AssetID] = &c
	}
	return out, rows.Err()
}
