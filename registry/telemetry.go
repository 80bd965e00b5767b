package registry

import (
	"fmt"

	"yardcore/asset"
)

// Telemetry apply hooks. The aggregator owns the latest-value reduction;
// these methods publish its results onto the owning records, taking only the
// one record lock involved so ingestion for different trolleys never
// serializes.

// TrolleyWheelCount validates a trolley id for ingestion.
func (r *Registry) TrolleyWheelCount(id string) (int, error) {
	rec := r.record(id)
	if rec == nil {
		return 0, fmt.Errorf("trolley %s: %w", id, asset.ErrUnknownTrolley)
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	t, ok := rec.ext.(*asset.Trolley)
	if !ok {
		return 0, fmt.Errorf("asset %s is %s: %w", id, rec.asset.Type, asset.ErrUnknownTrolley)
	}
	return t.WheelCount, nil
}

// ApplyTrolleyLoad writes the summed latest per-wheel load onto the trolley.
func (r *Registry) ApplyTrolleyLoad(id string, load float64) error {
	rec := r.record(id)
	if rec == nil {
		return fmt.Errorf("trolley %s: %w", id, asset.ErrUnknownTrolley)
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	t, ok := rec.ext.(*asset.Trolley)
	if !ok {
		return fmt.Errorf("asset %s is %s: %w", id, rec.asset.Type, asset.ErrUnknownTrolley)
	}
	if t.CurrentLoad == load {
		return nil
	}
	t.CurrentLoad = load
	rec.asset.UpdatedAt = r.now()
	r.markDirty(id)
	return nil
}

// TrolleyAssignedVessel reports the vessel currently carried, empty if none.
func (r *Registry) TrolleyAssignedVessel(id string) (string, error) {
	rec := r.record(id)
	if rec == nil {
		return "", fmt.Errorf("trolley %s: %w", id, asset.ErrUnknownTrolley)
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	t, ok := rec.ext.(*asset.Trolley)
	if !ok {
		return "", fmt.Errorf("asset %s is %s: %w", id, rec.asset.Type, asset.ErrUnknownTrolley)
	}
	return t.AssignedVesselID, nil
}

// ApplyVesselBearingTemperature writes the propagated per-wheel maximum onto
// the vessel.
func (r *Registry) ApplyVesselBearingTemperature(id string, temp float64) error {
	rec := r.record(id)
	if rec == nil {
		return fmt.Errorf("vessel %s: %w", id, asset.ErrUnknownVessel)
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	v, ok := rec.ext.(*asset.Vessel)
	if !ok {
		return fmt.Errorf("asset %s is %s: %w", id, rec.asset.Type, asset.ErrUnknownVessel)
	}
	if v.BearingTemperature == temp {
		return nil
	}
	v.BearingTemperature = temp
	rec.asset.UpdatedAt = r.now()
	r.markDirty(id)
	return nil
}
