package store

import (
	"fmt"

	"yardcore/asset"
)

func (db *DB) UpsertMaintenance(m *asset.Maintenance) error {
	return db.upsertMaintenance(db.DB, m)
}

func (db *DB) upsertMaintenance(e execer, m *asset.Maintenance) error {
	_, err := e.Exec(db.Q(`INSERT INTO assets_maintenance
		(asset_id, asset_name, description, date_performed, performed_by,
		 next_due_date, historical_usage_hours, remaining_lifespan_hours,
		 status_summary, ships_in_transfer, operational_lifts,
		 operational_trolleys, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (asset_id) DO UPDATE SET
		asset_name=excluded.asset_name, description=excluded.description,
		date_performed=excluded.date_performed, performed_by=excluded.performed_by,
		next_due_date=excluded.next_due_date,
		historical_usage_hours=excluded.historical_usage_hours,
		remaining_lifespan_hours=excluded.remaining_lifespan_hours,
		status_summary=excluded.status_summary,
		ships_in_transfer=excluded.ships_in_transfer,
		operational_lifts=excluded.operational_lifts,
		operational_trolleys=excluded.operational_trolleys,
		updated_at=excluded.updated_at`),
		m.AssetID, m.AssetName, m.Description, fmtTime(m.DatePerformed),
		m.PerformedBy, fmtTime(m.NextDueDate), m.HistoricalUsageHours,
		m.RemainingLifespanHours, m.StatusSummary, m.ShipsInTransfer,
		m.OperationalLifts, m.OperationalTrolleys, fmtTime(m.UpdatedAt))
	if err != nil {
		return fmt.Errorf("upsert maintenance %s: %w", m.AssetID, err)
	}
	return nil
}

func (db *DB) LoadMaintenance() ([]asset.Maintenance, error) {
	rows, err := db.Query(`SELECT asset_id, asset_name, description, date_performed,
		performed_by, next_due_date, historical_usage_hours,
		remaining_lifespan_hours, status_summary, ships_in_transfer,
		operational_lifts, operational_trolleys, updated_at
		FROM assets_maintenance ORDER BY asset_id`)
	if err != nil {
		return nil, fmt.Errorf("load maintenance: %w", err)
	}
	defer rows.Close()
	var out []asset.Maintenance
	for rows.Next() {
		var m asset.Maintenance
		var performed, nextDue, updated any
		if err := rows.Scan(&m.AssetID, &m.AssetName, &m.Description, &performed,
			&m.PerformedBy, &nextDue, &m.HistoricalUsageHours,
			&m.RemainingLifespanHours, &m.StatusSummary, &m.ShipsInTransfer,
			&m.OperationalLifts, &m.OperationalTrolleys, &updated); err != nil {
			return nil, err
		}
		m.DatePerformed = parseTime(performed)
		m.NextDueDate = parseTime(nextDue)
		m.UpdatedAt = parseTime(updated)
		out = append(out, m)
	}
	return out, rows.Err()
}
