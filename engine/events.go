package engine

const (
	EventAssetCreated EventType = iota + 1
	EventAssetUpdated
	EventReferenceSet
	EventReferenceCleared
	EventStatusChanged
	EventAssetRetired
	EventReadingRecorded
	EventWorkOrderOpened
	EventWorkOrderChanged
	EventMessagingConnected
	EventMessagingDisconnected
)

// KafkaKind maps an event type to the kind string used on the wire.
func (t EventType) KafkaKind() string {
	switch t {
	case EventAssetCreated:
		return "asset.created"
	case EventAssetUpdated:
		return "asset.updated"
	case EventReferenceSet:
		return "reference.set"
	case EventReferenceCleared:
		return "reference.cleared"
	case EventStatusChanged:
		return "asset.status_changed"
	case EventAssetRetired:
		return "asset.retired"
	case EventReadingRecorded:
		return "telemetry.reading"
	case EventWorkOrderOpened:
		return "work_order.opened"
	case EventWorkOrderChanged:
		return "work_order.changed"
	}
	return ""
}

// --- Event payloads ---

type AssetCreatedEvent struct {
	AssetID   string `json:"assetId"`
	AssetType string `json:"assetType"`
	Name      string `json:"name"`
}

type AssetUpdatedEvent struct {
	AssetID string `json:"assetId"`
}

type ReferenceEvent struct {
	FromID   string `json:"fromId"`
	Relation string `json:"relation"`
	ToID     string `json:"toId"`
}

type StatusChangedEvent struct {
	AssetID   string `json:"assetId"`
	OldStatus string `json:"oldStatus"`
	NewStatus string `json:"newStatus"`
}

type AssetRetiredEvent struct {
	AssetID      string   `json:"assetId"`
	ClearedEdges []string `json:"clearedEdges"`
}

type ReadingRecordedEvent struct {
	TrolleyID string  `json:"trolleyId"`
	Wheel     int     `json:"wheel"`
	Kind      string  `json:"kind"`
	Value     float64 `json:"value"`
}

type WorkOrderEvent struct {
	OrderID  string `json:"orderId"`
	VesselID string `json:"vesselId"`
	Status   string `json:"status"`
}

type ConnectionEvent struct {
	Detail string `json:"detail"`
}
