package store

import (
	"fmt"

	"yardcore/asset"
)

func (db *DB) UpsertWorkOrder(wo *asset.WorkOrder) error {
	return db.upsertWorkOrder(db.DB, wo)
}

func (db *DB) upsertWorkOrder(e execer, wo *asset.WorkOrder) error {
	_, err := e.Exec(db.Q(`INSERT INTO work_orders
		(id, work_type, assigned_to, start_date, end_date, status, notes,
		 vessel_name, vessel_id, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
		work_type=excluded.work_type, assigned_to=excluded.assigned_to,
		start_date=excluded.start_date, end_date=excluded.end_date,
		status=excluded.status, notes=excluded.notes,
		vessel_name=excluded.vessel_name, vessel_id=excluded.vessel_id,
		updated_at=excluded.updated_at`),
		wo.ID, wo.WorkType, wo.AssignedTo, fmtTime(wo.StartDate),
		fmtTime(wo.EndDate), wo.Status, wo.Notes, wo.VesselName, wo.VesselID,
		fmtTime(wo.UpdatedAt))
	if err != nil {
		return fmt.Errorf("upsert work order %s: %w", wo.ID, err)
	}
	return nil
}

func (db *DB) LoadWorkOrders() ([]asset.WorkOrder, error) {
	rows, err := db.Query(`SELECT id, work_type, assigned_to, start_date, end_date,
		status, notes, vessel_name, vessel_id, updated_at
		FROM work_orders ORDER BY start_date, id`)
	if err != nil {
		return nil, fmt.Errorf("load work orders: %w", err)
	}
	defer rows.Close()
	var out []asset.WorkOrder
	for rows.Next() {
		var wo asset.WorkOrder
		var start, end, updated any
		if err := rows.Scan(&wo.ID, &wo.WorkType, &wo.AssignedTo, &start, &end,
			&wo.Status, &wo.Notes, &wo.VesselName, &wo.VesselID, &updated); err != nil {
			return nil, err
		}
		wo.StartDate = parseTime(start)
		wo.EndDate = parseTime(end)
		wo.UpdatedAt = parseTime(updated)
		out = append(out, wo)
	}
	return out, rows.Err()
}
