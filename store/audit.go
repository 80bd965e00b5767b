package store

import (
	"fmt"
	"time"
)

type AuditEntry struct {
	ID       int64     `json:"id"`
	At       time.Time `json:"at"`
	Actor    string    `json:"actor"`
	Action   string    `json:"action"`
	Entity   string    `json:"entity"`
	EntityID string    `json:"entityId"`
	Detail   string    `json:"detail"`
}

// AppendAudit records one mutation in the audit trail. Failures here should
// be logged by the caller, never surfaced to the operation that triggered it.
func (db *DB) AppendAudit(actor, action, entity, entityID, detail string) error {
	_, err := db.Exec(db.Q(`INSERT INTO audit_log (actor, action, entity, entity_id, detail)
		VALUES (?, ?, ?, ?, ?)`),
		actor, action, entity, entityID, detail)
	if err != nil {
		return fmt.Errorf("append audit: %w", err)
	}
	return nil
}

func (db *DB) RecentAudit(limit int) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.Query(db.Q(`SELECT id, at, actor, action, entity, entity_id, detail
		FROM audit_log ORDER BY id DESC LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("recent audit: %w", err)
	}
	defer rows.Close()
	var out []AuditEntry
	for rows.Next() {
		var e AuditEntry
		var at any
		if err := rows.Scan(&e.ID, &at, &e.Actor, &e.Action, &e.Entity, &e.EntityID, &e.Detail); err != nil {
			return nil, err
		}
		e.At = parseTime(at)
		out = append(out, e)
	}
	return out, rows.Err()
}
