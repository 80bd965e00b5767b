package store

import (
	"fmt"

	"yardcore/asset"
)

func (db *DB) UpsertLift(l *asset.Lift) error {
	return db.upsertLift(db.DB, l)
}

func (db *DB) upsertLift(e execer, l *asset.Lift) error {
	_, err := e.Exec(db.Q(`INSERT INTO lifts
		(asset_id, lift_name, platform_length, platform_width, max_ship_draft,
		 max_capacity, location, last_maintenance_date, next_maintenance_due,
		 operational_since, notes, assigned_vessel_id, current_load,
		 historical_usage_hours, utilization_rate, average_transfer_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (asset_id) DO UPDATE SET
		lift_name=excluded.lift_name, platform_length=excluded.platform_length,
		platform_width=excluded.platform_width,
		max_ship_draft=excluded.max_ship_draft,
		max_capacity=excluded.max_capacity, location=excluded.location,
		last_maintenance_date=excluded.last_maintenance_date,
		next_maintenance_due=excluded.next_maintenance_due,
		operational_since=excluded.operational_since, notes=excluded.notes,
		assigned_vessel_id=excluded.assigned_vessel_id,
		current_load=excluded.current_load,
		historical_usage_hours=excluded.historical_usage_hours,
		utilization_rate=excluded.utilization_rate,
		average_transfer_time=excluded.average_transfer_time`),
		l.AssetID, l.LiftName, l.PlatformLength, l.PlatformWidth, l.MaxShipDraft,
		l.MaxCapacity, l.Location, fmtTime(l.LastMaintenanceDate),
		fmtTime(l.NextMaintenanceDue), fmtTime(l.OperationalSince), l.Notes,
		l.AssignedVesselID, l.CurrentLoad, l.HistoricalUsageHours,
		l.UtilizationRate, l.AverageTransferTime)
	if err != nil {
		return fmt.Errorf("upsert lift %s: %w", l.AssetID, err)
	}
	return nil
}

func (db *DB) loadLifts() (map[string]*asset.Lift, error) {
	rows, err := db.Query(`SELECT asset_id, lift_name, platform_length,
		platform_width, max_ship_draft, max_capacity, location,
		last_maintenance_date, next_maintenance_due, operational_since, notes,
		assigned_vessel_id, current_load, historical_usage_hours,
		utilization_rate, average_transfer_time FROM lifts`)
	if err != nil {
		return nil, fmt.Errorf("load lifts: %w", err)
	}
	defer rows.Close()
	out := make(map[string]*asset.Lift)
	for rows.Next() {
		var l asset.Lift
		var lastMaint, nextDue, opSince any
		if err := rows.Scan(&l.AssetID, &l.LiftName, &l.PlatformLength,
			&l.PlatformWidth, &l.MaxShipDraft, &l.MaxCapacity, &l.Location,
			&lastMaint, &nextDue, &opSince, &l.Notes,
			&l.AssignedVesselID, &l.CurrentLoad, &l.HistoricalUsageHours,
			&l.UtilizationRate, &l.AverageTransferTime); err != nil {
			return nil, err
		}
		l.LastMaintenanceDate = parseTime(lastMaint)
		l.NextMaintenanceDue = parseTime(nextDue)
		l.OperationalSince = parseTime(opSince)
		out[l.AssetID] = &l
	}
	return out, rows.Err()
}
