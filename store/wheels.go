package store

import (
	"fmt"

	"github.com/google/uuid"

	"yardcore/asset"
)

// AppendReading persists one wheel sample into its per-kind ledger table.
// The tables are append-only; the aggregator owns latest-value semantics.
func (db *DB) AppendReading(rd asset.WheelReading) error {
	var table, column string
	switch rd.Kind {
	case asset.ReadingLoad:
		table, column = "wheels_load", "current_load"
	case asset.ReadingTemperature:
		table, column = "wheels_temperature", "bearing_temperature"
	default:
		return fmt.Errorf("append reading: %w", asset.ErrTypeMismatch)
	}
	_, err := db.Exec(db.Q(fmt.Sprintf(`INSERT INTO %s
		(id, trolley, wheel, %s, recorded_at) VALUES (?, ?, ?, ?, ?)`, table, column)),
		uuid.NewString(), rd.TrolleyID, rd.Wheel, rd.Value, fmtTime(rd.Timestamp))
	if err != nil {
		return fmt.Errorf("append %s reading for trolley %s: %w", rd.Kind, rd.TrolleyID, err)
	}
	return nil
}

// ReadingsForTrolley returns samples for one trolley and kind, newest first.
func (db *DB) ReadingsForTrolley(trolleyID string, kind asset.ReadingKind, limit int) ([]asset.WheelReading, error) {
	var table, column string
	switch kind {
	case asset.ReadingLoad:
		table, column = "wheels_load", "current_load"
	case asset.ReadingTemperature:
		table, column = "wheels_temperature", "bearing_temperature"
	default:
		return nil, fmt.Errorf("readings for trolley: %w", asset.ErrTypeMismatch)
	}
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.Query(db.Q(fmt.Sprintf(`SELECT trolley, wheel, %s, recorded_at
		FROM %s WHERE trolley = ? ORDER BY recorded_at DESC LIMIT ?`, column, table)),
		trolleyID, limit)
	if err != nil {
		return nil, fmt.Errorf("readings for trolley %s: %w", trolleyID, err)
	}
	defer rows.Close()
	var out []asset.WheelReading
	for rows.Next() {
		rd := asset.WheelReading{Kind: kind}
		var at any
		if err := rows.Scan(&rd.TrolleyID, &rd.Wheel, &rd.Value, &at); err != nil {
			return nil, err
		}
		rd.Timestamp = parseTime(at)
		out = append(out, rd)
	}
	return out, rows.Err()
}
