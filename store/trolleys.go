package store

import (
	"fmt"

	"yardcore/asset"
)

func (db *DB) UpsertTrolley(t *asset.Trolley) error {
	return db.upsertTrolley(db.DB, t)
}

func (db *DB) upsertTrolley(e execer, t *asset.Trolley) error {
	_, err := e.Exec(db.Q(`INSERT INTO trolleys
		(asset_id, trolley_name, wheel_count, max_capacity, location,
		 last_maintenance_date, next_maintenance_due, notes, rail_id,
		 assigned_vessel_id, current_load, speed, utilization_rate,
		 average_transfer_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (asset_id) DO UPDATE SET
		trolley_name=excluded.trolley_name, wheel_count=excluded.wheel_count,
		max_capacity=excluded.max_capacity, location=excluded.location,
		last_maintenance_date=excluded.last_maintenance_date,
		next_maintenance_due=excluded.next_maintenance_due, notes=excluded.notes,
		rail_id=excluded.rail_id, assigned_vessel_id=excluded.assigned_vessel_id,
		current_load=excluded.current_load, speed=excluded.speed,
		utilization_rate=excluded.utilization_rate,
		average_transfer_time=excluded.average_transfer_time`),
		t.AssetID, t.TrolleyName, t.WheelCount, t.MaxCapacity, t.Location,
		fmtTime(t.LastMaintenanceDate), fmtTime(t.NextMaintenanceDue), t.Notes,
		t.RailID, t.AssignedVesselID, t.CurrentLoad, t.Speed,
		t.UtilizationRate, t.AverageTransferTime)
	if err != nil {
		return fmt.Errorf("upsert trolley %s: %w", t.AssetID, err)
	}
	return nil
}

func (db *DB) loadTrolleys() (map[string]*asset.Trolley, error) {
	rows, err := db.Query(`SELECT asset_id, trolley_name, wheel_count, max_capacity,
		location, last_maintenance_date, next_maintenance_due, notes, rail_id,
		assigned_vessel_id, current_load, speed, utilization_rate,
		average_transfer_time FROM trolleys`)
	if err != nil {
		return nil, fmt.Errorf("load trolleys: %w", err)
	}
	defer rows.Close()
	out := make(map[string]*asset.Trolley)
	for rows.Next() {
		var t asset.Trolley
		var lastMaint, nextDue any
		if err := rows.Scan(&t.AssetID, &t.TrolleyName, &t.WheelCount, &t.MaxCapacity,
			&t.Location, &lastMaint, &nextDue, &t.Notes, &t.RailID,
			&t.AssignedVesselID, &t.CurrentLoad, &t.Speed, &t.UtilizationRate,
			&t.AverageTransferTime); err != nil {
			return nil, err
		}
		t.LastMaintenanceDate = parseTime(lastMaint)
		t.NextMaintenanceDue = parseTime(nextDue)
		out[t.AssetID] = &t
	}
	return out, rows.Err()
}
