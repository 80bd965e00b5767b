package registry

import (
	"fmt"
	"time"

	"yardcore/asset"
)

// newExtension returns a zero-value extension record for the given type.
func newExtension(t asset.Type) any {
	switch t {
	case asset.TypeCradle:
		return &asset.Cradle{}
	case asset.TypeVessel:
		return &asset.Vessel{}
	case asset.TypeRail:
		return &asset.Rail{}
	case asset.TypeTrolley:
		return &asset.Trolley{}
	case asset.TypeLift:
		return &asset.Lift{}
	case asset.TypeInventory:
		return &asset.InventoryItem{}
	}
	return nil
}

// extensionType reports the asset type a concrete extension value belongs to.
func extensionType(ext any) (asset.Type, bool) {
	switch ext.(type) {
	case *asset.Cradle:
		return asset.TypeCradle, true
	case *asset.Vessel:
		return asset.TypeVessel, true
	case *asset.Rail:
		return asset.TypeRail, true
	case *asset.Trolley:
		return asset.TypeTrolley, true
	case *asset.Lift:
		return asset.TypeLift, true
	case *asset.InventoryItem:
		return asset.TypeInventory, true
	}
	return "", false
}

func setExtAssetID(ext any, id string) {
	switch e := ext.(type) {
	case *asset.Cradle:
		e.AssetID = id
	case *asset.Vessel:
		e.AssetID = id
	case *asset.Rail:
		e.AssetID = id
	case *asset.Trolley:
		e.AssetID = id
	case *asset.Lift:
		e.AssetID = id
	case *asset.InventoryItem:
		e.AssetID = id
	}
}

// copyExt returns a shallow copy so callers never see live engine state.
func copyExt(ext any) any {
	switch e := ext.(type) {
	case *asset.Cradle:
		c := *e
		return &c
	case *asset.Vessel:
		c := *e
		return &c
	case *asset.Rail:
		c := *e
		return &c
	case *asset.Trolley:
		c := *e
		return &c
	case *asset.Lift:
		c := *e
		return &c
	case *asset.InventoryItem:
		c := *e
		return &c
	}
	return nil
}

// patchType reports the asset type a patch struct targets.
func patchType(patch any) (asset.Type, bool) {
	switch patch.(type) {
	case asset.CradlePatch, *asset.CradlePatch:
		return asset.TypeCradle, true
	case asset.VesselPatch, *asset.VesselPatch:
		return asset.TypeVessel, true
	case asset.RailPatch, *asset.RailPatch:
		return asset.TypeRail, true
	case asset.TrolleyPatch, *asset.TrolleyPatch:
		return asset.TypeTrolley, true
	case asset.LiftPatch, *asset.LiftPatch:
		return asset.TypeLift, true
	case asset.InventoryPatch, *asset.InventoryPatch:
		return asset.TypeInventory, true
	}
	return "", false
}

// applyPatch copies non-nil patch fields onto the extension record. The
// caller has already verified the patch and extension types agree.
func applyPatch(ext, patch any) error {
	switch p := deref(patch).(type) {
	case asset.CradlePatch:
		e := ext.(*asset.Cradle)
		setStr(&e.CradleName, p.CradleName)
		setF64(&e.Capacity, p.Capacity)
		setF64(&e.MaxShipLength, p.MaxShipLength)
		setStr(&e.Location, p.Location)
		setTime(&e.LastMaintenanceDate, p.LastMaintenanceDate)
		setTime(&e.NextMaintenanceDue, p.NextMaintenanceDue)
		setTime(&e.OperationalSince, p.OperationalSince)
		setStr(&e.Notes, p.Notes)
		setStr(&e.StructuralStress, p.StructuralStress)
		setStr(&e.WearLevel, p.WearLevel)
	case asset.VesselPatch:
		e := ext.(*asset.Vessel)
		setStr(&e.VesselName, p.VesselName)
		setStr(&e.VesselType, p.VesselType)
		setF64(&e.Weight, p.Weight)
		setF64(&e.Length, p.Length)
		setF64(&e.Width, p.Width)
		setF64(&e.Draft, p.Draft)
		setTime(&e.LastMaintenanceDate, p.LastMaintenanceDate)
		setTime(&e.NextMaintenanceDue, p.NextMaintenanceDue)
		setStr(&e.BirthingArea, p.BirthingArea)
		setTime(&e.OperationalSince, p.OperationalSince)
		setStr(&e.OwnerCompany, p.OwnerCompany)
		setStr(&e.Notes, p.Notes)
		if p.TransferCompleted != nil {
			e.TransferCompleted = *p.TransferCompleted
		}
		setStr(&e.EstimatedTimeToDestination, p.EstimatedTimeToDestination)
	case asset.RailPatch:
		e := ext.(*asset.Rail)
		setStr(&e.RailName, p.RailName)
		setF64(&e.Length, p.Length)
		setF64(&e.Capacity, p.Capacity)
		setTime(&e.LastInspectionDate, p.LastInspectionDate)
		setTime(&e.NextInspectionDue, p.NextInspectionDue)
		setTime(&e.OperationalSince, p.OperationalSince)
		setStr(&e.Notes, p.Notes)
	case asset.TrolleyPatch:
		e := ext.(*asset.Trolley)
		setStr(&e.TrolleyName, p.TrolleyName)
		if p.WheelCount != nil {
			if *p.WheelCount < 0 {
				return fmt.Errorf("wheel count %d: %w", *p.WheelCount, asset.ErrOutOfRange)
			}
			e.WheelCount = *p.WheelCount
		}
		setF64(&e.MaxCapacity, p.MaxCapacity)
		setStr(&e.Location, p.Location)
		setTime(&e.LastMaintenanceDate, p.LastMaintenanceDate)
		setTime(&e.NextMaintenanceDue, p.NextMaintenanceDue)
		setStr(&e.Notes, p.Notes)
		setF64(&e.Speed, p.Speed)
	case asset.LiftPatch:
		e := ext.(*asset.Lift)
		setStr(&e.LiftName, p.LiftName)
		setF64(&e.PlatformLength, p.PlatformLength)
		setF64(&e.PlatformWidth, p.PlatformWidth)
		setF64(&e.MaxShipDraft, p.MaxShipDraft)
		setF64(&e.MaxCapacity, p.MaxCapacity)
		setStr(&e.Location, p.Location)
		setTime(&e.LastMaintenanceDate, p.LastMaintenanceDate)
		setTime(&e.NextMaintenanceDue, p.NextMaintenanceDue)
		setTime(&e.OperationalSince, p.OperationalSince)
		setStr(&e.Notes, p.Notes)
		setF64(&e.CurrentLoad, p.CurrentLoad)
		setF64(&e.HistoricalUsageHours, p.HistoricalUsageHours)
	case asset.InventoryPatch:
		e := ext.(*asset.InventoryItem)
		setStr(&e.Name, p.Name)
		setStr(&e.Location, p.Location)
		setF64(&e.Quantity, p.Quantity)
	default:
		return fmt.Errorf("unsupported patch %T: %w", patch, asset.ErrTypeMismatch)
	}
	return nil
}

func deref(patch any) any {
	switch p := patch.(type) {
	case *asset.CradlePatch:
		return *p
	case *asset.VesselPatch:
		return *p
	case *asset.RailPatch:
		return *p
	case *asset.TrolleyPatch:
		return *p
	case *asset.LiftPatch:
		return *p
	case *asset.InventoryPatch:
		return *p
	case *asset.AssetPatch:
		return *p
	}
	return patch
}

func setStr(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setF64(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func setTime(dst *time.Time, src *time.Time) {
	if src != nil {
		*dst = *src
	}
}
