// Package asset defines the identity and extension records shared by every
// physical object in the yard, plus the telemetry and ledger row types that
// reference them.
package asset

import "time"

type Type string

const (
	TypeCradle    Type = "cradle"
	TypeVessel    Type = "vessel"
	TypeRail      Type = "rail"
	TypeTrolley   Type = "trolley"
	TypeLift      Type = "lift"
	TypeInventory Type = "inventory"
)

// Types lists all asset types in a stable order.
var Types = []Type{TypeCradle, TypeVessel, TypeRail, TypeTrolley, TypeLift, TypeInventory}

func (t Type) Valid() bool {
	switch t {
	case TypeCradle, TypeVessel, TypeRail, TypeTrolley, TypeLift, TypeInventory:
		return true
	}
	return false
}

type Status string

const (
	StatusOperational Status = "operational"
	StatusMaintenance Status = "maintenance"
	StatusRetired     Status = "retired"
)

// Asset is the identity root. Exactly one extension record exists per asset,
// and its concrete type matches Type.
type Asset struct {
	ID          string    `json:"id"`
	Type        Type      `json:"assetType"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Cradle struct {
	AssetID             string    `json:"assetId"`
	CradleName          string    `json:"cradleName"`
	Capacity            float64   `json:"capacity"`
	MaxShipLength       float64   `json:"maxShipLength"`
	Location            string    `json:"location"`
	LastMaintenanceDate time.Time `json:"lastMaintenanceDate"`
	NextMaintenanceDue  time.Time `json:"nextMaintenanceDue"`
	OperationalSince    time.Time `json:"operationalSince"`
	Notes               string    `json:"notes"`

	// Derived occupancy and stress metrics.
	Occupancy        string  `json:"occupancy"` // vessel id currently held, empty if free
	CurrentLoad      float64 `json:"currentLoad"`
	StructuralStress string  `json:"structuralStress"`
	WearLevel        string  `json:"wearLevel"`
}

type Vessel struct {
	AssetID             string    `json:"assetId"`
	VesselName          string    `json:"vesselName"`
	VesselType          string    `json:"vesselType"`
	Weight              float64   `json:"weight"`
	Length              float64   `json:"length"`
	Width               float64   `json:"width"`
	Draft               float64   `json:"draft"`
	LastMaintenanceDate time.Time `json:"lastMaintenanceDate"`
	NextMaintenanceDue  time.Time `json:"nextMaintenanceDue"`
	BirthingArea        string    `json:"birthingArea"`
	OperationalSince    time.Time `json:"operationalSince"`
	OwnerCompany        string    `json:"ownerCompany"`
	Notes               string    `json:"notes"`

	// Relationship: cradle currently holding this vessel (empty if none).
	AssignedCradle string `json:"assignedCradle"`

	// Derived transfer/telemetry metrics.
	TransferCompleted          bool    `json:"transferCompleted"`
	EstimatedTimeToDestination string  `json:"estimatedTimeToDestination"`
	BearingTemperature         float64 `json:"bearingTemperature"`
}

type Rail struct {
	AssetID            string    `json:"assetId"`
	RailName           string    `json:"railName"`
	Length             float64   `json:"length"`
	Capacity           float64   `json:"capacity"`
	LastInspectionDate time.Time `json:"lastInspectionDate"`
	NextInspectionDue  time.Time `json:"nextInspectionDue"`
	OperationalSince   time.Time `json:"operationalSince"`
	Notes              string    `json:"notes"`
}

type Trolley struct {
	AssetID             string    `json:"assetId"`
	TrolleyName         string    `json:"trolleyName"`
	WheelCount          int       `json:"wheelCount"`
	MaxCapacity         float64   `json:"maxCapacity"`
	Location            string    `json:"location"`
	LastMaintenanceDate time.Time `json:"lastMaintenanceDate"`
	NextMaintenanceDue  time.Time `json:"nextMaintenanceDue"`
	Notes               string    `json:"notes"`

	// Relationships (empty if unset).
	RailID           string `json:"railId"`
	AssignedVesselID string `json:"assignedVesselId"`

	// Derived telemetry/utilization metrics.
	CurrentLoad         float64 `json:"currentLoad"`
	Speed               float64 `json:"speed"`
	UtilizationRate     string  `json:"utilizationRate"`
	AverageTransferTime string  `json:"averageTransferTime"`
}

type Lift struct {
	AssetID             string    `json:"assetId"`
	LiftName            string    `json:"liftName"`
	PlatformLength      float64   `json:"platformLength"`
	PlatformWidth       float64   `json:"platformWidth"`
	MaxShipDraft        float64   `json:"maxShipDraft"`
	MaxCapacity         float64   `json:"maxCapacity"`
	Location            string    `json:"location"`
	LastMaintenanceDate time.Time `json:"lastMaintenanceDate"`
	NextMaintenanceDue  time.Time `json:"nextMaintenanceDue"`
	OperationalSince    time.Time `json:"operationalSince"`
	Notes               string    `json:"notes"`

	// Relationship (empty if unset).
	AssignedVesselID string `json:"assignedVesselId"`

	// Derived metrics.
	CurrentLoad          float64 `json:"currentLoad"`
	HistoricalUsageHours float64 `json:"historicalUsageHours"`
	UtilizationRate      string  `json:"utilizationRate"`
	AverageTransferTime  string  `json:"averageTransferTime"`
}

type InventoryItem struct {
	AssetID     string    `json:"assetId"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	Quantity    float64   `json:"quantity"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// WorkOrder statuses.
const (
	WorkOrderOpen       = "open"
	WorkOrderInProgress = "in_progress"
	WorkOrderClosed     = "closed"
)

// WorkOrder is an append-only ledger entry referencing a vessel. Closed
// work-order durations feed usage-hour accumulation in the rollup.
type WorkOrder struct {
	ID         string    `json:"id"`
	WorkType   string    `json:"workType"`
	AssignedTo string    `json:"assignedTo"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	Status     string    `json:"status"`
	Notes      string    `json:"notes"`
	VesselName string    `json:"vesselName"`
	VesselID   string    `json:"vesselId"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Maintenance is the per-asset rollup row. It is recomputed from live state,
// never independently authored.
type Maintenance struct {
	AssetID                string    `json:"assetId"`
	AssetName              string    `json:"assetName"`
	Description            string    `json:"description"`
	DatePerformed          time.Time `json:"datePerformed"`
	PerformedBy            string    `json:"performedBy"`
	NextDueDate            time.Time `json:"nextDueDate"`
	HistoricalUsageHours   float64   `json:"historicalUsageHours"`
	RemainingLifespanHours float64   `json:"remainingLifespanHours"`
	StatusSummary          string    `json:"statusSummary"`
	ShipsInTransfer        int       `json:"shipsInTransfer"`
	OperationalLifts       int       `json:"operationalLifts"`
	OperationalTrolleys    int       `json:"operationalTrolleys"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

// ReadingKind distinguishes the two wheel sensor streams.
type ReadingKind string

const (
	ReadingLoad        ReadingKind = "load"
	ReadingTemperature ReadingKind = "temperature"
)

// WheelReading is a single per-wheel sensor sample.
type WheelReading struct {
	TrolleyID string      `json:"trolleyId"`
	Wheel     int         `json:"wheel"`
	Kind      ReadingKind `json:"kind"`
	Value     float64     `json:"value"`
	Timestamp time.Time   `json:"timestamp"`
}
