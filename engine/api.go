package engine

import (
	"fmt"

	"yardcore/asset"
	"yardcore/registry"
	"yardcore/rollup"
	"yardcore/store"
)

// CreateAsset installs a new identity with its typed extension.
func (e *Engine) CreateAsset(n registry.NewAsset) (string, error) {
	id, err := e.registry.Create(n)
	if err != nil {
		return "", err
	}
	e.Events.Emit(Event{Type: EventAssetCreated, Payload: AssetCreatedEvent{
		AssetID:   id,
		AssetType: string(n.Type),
		Name:      n.Name,
	}})
	return id, nil
}

// UpdateExtension applies a partial update to an asset's identity fields or
// its extension. Relationship fields are not reachable this way.
func (e *Engine) UpdateExtension(id string, patch any) error {
	if err := e.registry.Update(id, patch); err != nil {
		return err
	}
	e.Events.Emit(Event{Type: EventAssetUpdated, Payload: AssetUpdatedEvent{AssetID: id}})
	return nil
}

// SetReference points a relationship at a new target, or clears it when
// toID is empty. A retained temperature aggregate on the trolley is pushed
// to the vessel right after a transport assignment lands.
func (e *Engine) SetReference(fromID string, rel registry.Relation, toID string) error {
	if err := e.registry.SetReference(fromID, rel, toID); err != nil {
		return err
	}
	if rel == registry.RelTrolleyVessel && toID != "" {
		e.aggregator.Flush(fromID)
	}
	evt := EventReferenceSet
	if toID == "" {
		evt = EventReferenceCleared
	}
	e.Events.Emit(Event{Type: evt, Payload: ReferenceEvent{
		FromID:   fromID,
		Relation: string(rel),
		ToID:     toID,
	}})
	return nil
}

// Transition moves an asset through its lifecycle. Retirement cascades,
// clearing every reference to and from the asset atomically.
func (e *Engine) Transition(id string, newStatus asset.Status) error {
	before, _, err := e.registry.Get(id)
	if err != nil {
		return err
	}
	cleared, err := e.registry.Transition(id, newStatus)
	if err != nil {
		return err
	}
	if before.Status != newStatus {
		e.Events.Emit(Event{Type: EventStatusChanged, Payload: StatusChangedEvent{
			AssetID:   id,
			OldStatus: string(before.Status),
			NewStatus: string(newStatus),
		}})
	}
	if newStatus == asset.StatusRetired {
		edges := make([]string, 0, len(cleared))
		for _, edge := range cleared {
			edges = append(edges, fmt.Sprintf("%s %s %s", edge.From, edge.Rel, edge.To))
		}
		e.Events.Emit(Event{Type: EventAssetRetired, Payload: AssetRetiredEvent{
			AssetID:      id,
			ClearedEdges: edges,
		}})
	}
	return nil
}

// RecordWheelReading ingests one sensor sample into the aggregator.
func (e *Engine) RecordWheelReading(rd asset.WheelReading) error {
	if err := e.aggregator.Record(rd); err != nil {
		return err
	}
	e.Events.Emit(Event{Type: EventReadingRecorded, Payload: ReadingRecordedEvent{
		TrolleyID: rd.TrolleyID,
		Wheel:     rd.Wheel,
		Kind:      string(rd.Kind),
		Value:     rd.Value,
	}})
	return nil
}

func (e *Engine) GetAsset(id string) (asset.Asset, any, error) {
	return e.registry.Get(id)
}

func (e *Engine) QueryByType(t asset.Type) []asset.Asset {
	return e.registry.QueryByType(t)
}

// GetRollup returns the maintenance rollup for one asset, recompiling it
// first if the asset is marked dirty.
func (e *Engine) GetRollup(id string) (asset.Maintenance, error) {
	return e.compiler.Get(id)
}

// FleetRollup returns the yard-wide aggregate row.
func (e *Engine) FleetRollup() (asset.Maintenance, error) {
	return e.compiler.Get(rollup.FleetID)
}

// OpenWorkOrder opens a ledger entry. A vessel reference, when present,
// must resolve to a live vessel.
func (e *Engine) OpenWorkOrder(wo asset.WorkOrder) (string, error) {
	if wo.VesselID != "" {
		a, _, err := e.registry.Get(wo.VesselID)
		if err != nil || a.Type != asset.TypeVessel {
			return "", fmt.Errorf("work order vessel %q: %w", wo.VesselID, asset.ErrUnknownVessel)
		}
	}
	id, err := e.orders.Open(wo)
	if err != nil {
		return "", err
	}
	e.Events.Emit(Event{Type: EventWorkOrderOpened, Payload: WorkOrderEvent{
		OrderID:  id,
		VesselID: wo.VesselID,
		Status:   asset.WorkOrderOpen,
	}})
	return id, nil
}

// TransitionWorkOrder advances a work order along open, in_progress, closed.
func (e *Engine) TransitionWorkOrder(id, newStatus string) error {
	if err := e.orders.Transition(id, newStatus); err != nil {
		return err
	}
	wo, err := e.orders.Get(id)
	if err != nil {
		return err
	}
	e.Events.Emit(Event{Type: EventWorkOrderChanged, Payload: WorkOrderEvent{
		OrderID:  id,
		VesselID: wo.VesselID,
		Status:   newStatus,
	}})
	return nil
}

func (e *Engine) GetWorkOrder(id string) (asset.WorkOrder, error) {
	return e.orders.Get(id)
}

func (e *Engine) WorkOrders() []asset.WorkOrder {
	return e.orders.List()
}

// RecentAudit exposes the persisted audit trail, newest first.
func (e *Engine) RecentAudit(limit int) ([]store.AuditEntry, error) {
	if e.db == nil {
		return nil, nil
	}
	return e.db.RecentAudit(limit)
}
