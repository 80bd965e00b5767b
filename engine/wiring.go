package engine

import (
	"fmt"
)

// wireEventHandlers connects the bus to the audit trail and the Kafka
// publisher. Both are best-effort: a dead store or broker never fails the
// operation that emitted the event.
func (e *Engine) wireEventHandlers() {
	if e.db != nil {
		e.Events.SubscribeTypes(e.auditEvent,
			EventAssetCreated, EventAssetUpdated, EventReferenceSet,
			EventReferenceCleared, EventStatusChanged, EventAssetRetired,
			EventWorkOrderOpened, EventWorkOrderChanged)
	}
	if e.msgClient != nil {
		e.Events.SubscribeTypes(e.publishEvent,
			EventAssetCreated, EventAssetUpdated, EventReferenceSet,
			EventReferenceCleared, EventStatusChanged, EventAssetRetired,
			EventReadingRecorded, EventWorkOrderOpened, EventWorkOrderChanged)
	}
}

func (e *Engine) auditEvent(evt Event) {
	var action, entity, entityID, detail string
	switch p := evt.Payload.(type) {
	case AssetCreatedEvent:
		action, entity, entityID = "create", "asset", p.AssetID
		detail = fmt.Sprintf("%s %q", p.AssetType, p.Name)
	case AssetUpdatedEvent:
		action, entity, entityID = "update", "asset", p.AssetID
	case ReferenceEvent:
		entity, entityID = "reference", p.FromID
		if evt.Type == EventReferenceCleared {
			action = "clear"
			detail = p.Relation
		} else {
			action = "set"
			detail = fmt.Sprintf("%s -> %s", p.Relation, p.ToID)
		}
	case StatusChangedEvent:
		action, entity, entityID = "transition", "asset", p.AssetID
		detail = fmt.Sprintf("%s -> %s", p.OldStatus, p.NewStatus)
	case AssetRetiredEvent:
		action, entity, entityID = "retire", "asset", p.AssetID
		detail = fmt.Sprintf("cleared %d references", len(p.ClearedEdges))
	case WorkOrderEvent:
		entity, entityID = "work_order", p.OrderID
		if evt.Type == EventWorkOrderOpened {
			action = "open"
		} else {
			action = "transition"
		}
		detail = p.Status
	default:
		return
	}
	if err := e.db.AppendAudit("engine", action, entity, entityID, detail); err != nil {
		e.logFn("engine: audit %s %s: %v", action, entityID, err)
	}
}

func (e *Engine) publishEvent(evt Event) {
	if !e.msgClient.IsConnected() {
		return
	}
	kind := evt.Type.KafkaKind()
	if kind == "" {
		return
	}
	if err := e.msgClient.PublishEvent(kind, evt.Payload); err != nil {
		e.logFn("engine: publish %s: %v", kind, err)
	}
}
