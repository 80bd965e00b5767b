package registry

import "yardcore/asset"

// Policy carries the domain rules the schema leaves unspecified: per-type
// design life for lifespan projection, and whether a vessel may occupy two
// transport slots at once (lift-to-trolley handoff) or keep its cradle
// assignment while in transport.
type Policy struct {
	DesignLifeHours map[asset.Type]float64 `yaml:"design_life_hours"`

	// AllowLiftTrolleyOverlap permits a vessel to be referenced by a lift
	// and a trolley simultaneously during a handoff.
	AllowLiftTrolleyOverlap bool `yaml:"allow_lift_trolley_overlap"`

	// AllowCradleTransportOverlap permits a vessel to stay assigned to a
	// cradle while a trolley or lift carries it.
	AllowCradleTransportOverlap bool `yaml:"allow_cradle_transport_overlap"`
}

// DefaultPolicy is strict: every occupancy slot is mutually exclusive.
func DefaultPolicy() Policy {
	return Policy{
		DesignLifeHours: map[asset.Type]float64{
			asset.TypeCradle:    87600,  // 10 years
			asset.TypeVessel:    175200, // 20 years
			asset.TypeRail:      262800, // 30 years
			asset.TypeTrolley:   131400, // 15 years
			asset.TypeLift:      131400,
			asset.TypeInventory: 0,
		},
	}
}

func (p Policy) DesignLife(t asset.Type) float64 {
	return p.DesignLifeHours[t]
}
