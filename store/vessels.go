package store

import (
	"fmt"

	"yardcore/asset"
)

func (db *DB) UpsertVessel(v *asset.Vessel) error {
	return db.upsertVessel(db.DB, v)
}

func (db *DB) upsertVessel(e execer, v *asset.Vessel) error {
	_, err := e.Exec(db.Q(`INSERT INTO vessels
		(asset_id, vessel_name, vessel_type, weight, length, width, draft,
		 last_maintenance_date, next_maintenance_due, birthing_area,
		 operational_since, owner_company, notes, assigned_cradle,
		 transfer_completed, estimated_time_to_destination, bearing_temperature)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (asset_id) DO UPDATE SET
		vessel_name=excluded.vessel_name, vessel_type=excluded.vessel_type,
		weight=excluded.weight, length=excluded.length, width=excluded.width,
		draft=excluded.draft,
		last_maintenance_date=excluded.last_maintenance_date,
		next_maintenance_due=excluded.next_maintenance_due,
		birthing_area=excluded.birthing_area,
		operational_since=excluded.operational_since,
		owner_company=excluded.owner_company, notes=excluded.notes,
		assigned_cradle=excluded.assigned_cradle,
		transfer_completed=excluded.transfer_completed,
		estimated_time_to_destination=excluded.estimated_time_to_destination,
		bearing_temperature=excluded.bearing_temperature`),
		v.AssetID, v.VesselName, v.VesselType, v.Weight, v.Length, v.Width, v.Draft,
		fmtTime(v.LastMaintenanceDate), fmtTime(v.NextMaintenanceDue), v.BirthingArea,
		fmtTime(v.OperationalSince), v.OwnerCompany, v.Notes, v.AssignedCradle,
		v.TransferCompleted, v.EstimatedTimeToDestination, v.BearingTemperature)
	if err != nil {
		return fmt.Errorf("upsert vessel %s: %w", v.AssetID, err)
	}
	return nil
}

func (db *DB) loadVessels() (map[string]*asset.Vessel, error) {
	rows, err := db.Query(`SELECT asset_id, vessel_name, vessel_type, weight, length,
		width, draft, last_maintenance_date, next_maintenance_due, birthing_area,
		operational_since, owner_company, notes, assigned_cradle,
		transfer_completed, estimated_time_to_destination, bearing_temperature
		FROM vessels`)
	if err != nil {
		return nil, fmt.Errorf("load vessels: %w", err)
	}
	defer rows.Close()
	out := make(map[string]*asset.Vessel)
	for rows.Next() {
		var v asset.Vessel
		var lastMaint, nextDue, opSince, completed any
		if err := rows.Scan(&v.AssetID, &v.VesselName, &v.VesselType, &v.Weight,
			&v.Length, &v.Width, &v.Draft, &lastMaint, &nextDue, &v.BirthingArea,
			&opSince, &v.OwnerCompany, &v.Notes, &v.AssignedCradle,
			&completed, &v.EstimatedTimeToDestination, &v.BearingTemperature); err != nil {
			return nil, err
		}
		v.LastMaintenanceDate = parseTime(lastMaint)
		v.NextMaintenanceDue = parseTime(nextDue)
		v.OperationalSince = parseTime(opSince)
		v.TransferCompleted = parseBool(completed)
		out[v.AssetID] = &v
	}
	return out, rows.Err()
}
