package asset

import "time"

// Patch structs carry partial extension updates. Nil fields are left
// untouched. UpdateExtension rejects a patch whose concrete type does not
// match the asset's type.
//
// Relationship fields (AssignedCradle, RailID, AssignedVesselID) are absent
// on purpose: references move only through the relationship graph.

type AssetPatch struct {
	Name        *string
	Description *string
}

type CradlePatch struct {
	CradleName          *string
	Capacity            *float64
	MaxShipLength       *float64
	Location            *string
	LastMaintenanceDate *time.Time
	NextMaintenanceDue  *time.Time
	OperationalSince    *time.Time
	Notes               *string
	StructuralStress    *string
	WearLevel           *string
}

type VesselPatch struct {
	VesselName                 *string
	VesselType                 *string
	Weight                     *float64
	Length                     *float64
	Width                      *float64
	Draft                      *float64
	LastMaintenanceDate        *time.Time
	NextMaintenanceDue         *time.Time
	BirthingArea               *string
	OperationalSince           *time.Time
	OwnerCompany               *string
	Notes                      *string
	TransferCompleted          *bool
	EstimatedTimeToDestination *string
}

type RailPatch struct {
	RailName           *string
	Length             *float64
	Capacity           *float64
	LastInspectionDate *time.Time
	NextInspectionDue  *time.Time
	OperationalSince   *time.Time
	Notes              *string
}

type TrolleyPatch struct {
	TrolleyName         *string
	WheelCount          *int
	MaxCapacity         *float64
	Location            *string
	LastMaintenanceDate *time.Time
	NextMaintenanceDue  *time.Time
	Notes               *string
	Speed               *float64
}

type LiftPatch struct {
	LiftName             *string
	PlatformLength       *float64
	PlatformWidth        *float64
	MaxShipDraft         *float64
	MaxCapacity          *float64
	Location             *string
	LastMaintenanceDate  *time.Time
	NextMaintenanceDue   *time.Time
	OperationalSince     *time.Time
	Notes                *string
	CurrentLoad          *float64
	HistoricalUsageHours *float64
}

type InventoryPatch struct {
	Name     *string
	Location *string
	Quantity *float64
}
