package registry

import (
	"fmt"
	"sort"
	"time"

	"yardcore/asset"
)

// Relation names the four directed reference classes in the graph. The name
// encodes the owning side's column.
type Relation string

const (
	RelVesselCradle  Relation = "vessel.assignedCradle"
	RelTrolleyRail   Relation = "trolley.railId"
	RelTrolleyVessel Relation = "trolley.assignedVesselId"
	RelLiftVessel    Relation = "lift.assignedVesselId"
)

// Edge is a directed reference From -> To of class Rel.
type Edge struct {
	From string
	Rel  Relation
	To   string
}

type relSpec struct {
	from, to asset.Type
	// exclusive targets accept at most one inbound edge of this relation.
	exclusive bool
	get       func(ext any) string
	set       func(ext any, to string)
}

var relSpecs = map[Relation]relSpec{
	RelVesselCradle: {
		from: asset.TypeVessel, to: asset.TypeCradle, exclusive: true,
		get: func(ext any) string { return ext.(*asset.Vessel).AssignedCradle },
		set: func(ext any, to string) { ext.(*asset.Vessel).AssignedCradle = to },
	},
	RelTrolleyRail: {
		from: asset.TypeTrolley, to: asset.TypeRail,
		get: func(ext any) string { return ext.(*asset.Trolley).RailID },
		set: func(ext any, to string) { ext.(*asset.Trolley).RailID = to },
	},
	RelTrolleyVessel: {
		from: asset.TypeTrolley, to: asset.TypeVessel, exclusive: true,
		get: func(ext any) string { return ext.(*asset.Trolley).AssignedVesselID },
		set: func(ext any, to string) { ext.(*asset.Trolley).AssignedVesselID = to },
	},
	RelLiftVessel: {
		from: asset.TypeLift, to: asset.TypeVessel, exclusive: true,
		get: func(ext any) string { return ext.(*asset.Lift).AssignedVesselID },
		set: func(ext any, to string) { ext.(*asset.Lift).AssignedVesselID = to },
	},
}

// outboundEdges reads the relationship fields of an extension record. The
// caller holds the record lock (or owns the record exclusively).
func outboundEdges(id string, ext any) []Edge {
	var out []Edge
	for rel, spec := range relSpecs {
		switch e := ext.(type) {
		case *asset.Vessel:
			if spec.from != asset.TypeVessel {
				continue
			}
			if to := spec.get(e); to != "" {
				out = append(out, Edge{From: id, Rel: rel, To: to})
			}
		case *asset.Trolley:
			if spec.from != asset.TypeTrolley {
				continue
			}
			if to := spec.get(e); to != "" {
				out = append(out, Edge{From: id, Rel: rel, To: to})
			}
		case *asset.Lift:
			if spec.from != asset.TypeLift {
				continue
			}
			if to := spec.get(e); to != "" {
				out = append(out, Edge{From: id, Rel: rel, To: to})
			}
		}
	}
	sortEdges(out)
	return out
}

func sortEdges(edges []Edge) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		if edges[i].Rel != edges[j].Rel {
			return edges[i].Rel < edges[j].Rel
		}
		return edges[i].To < edges[j].To
	})
}

// addInbound / removeInbound maintain the reverse index. Callers hold r.mu.
func (r *Registry) addInbound(e Edge) {
	set, ok := r.inbound[e.To]
	if !ok {
		set = make(map[Edge]struct{})
		r.inbound[e.To] = set
	}
	set[e] = struct{}{}
}

func (r *Registry) removeInbound(e Edge) {
	if set, ok := r.inbound[e.To]; ok {
		delete(set, e)
		if len(set) == 0 {
			delete(r.inbound, e.To)
		}
	}
}

// inboundOf copies the inbound edges of the given target, optionally
// filtered by relation.
func (r *Registry) inboundOf(id string) []Edge {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Edge
	for e := range r.inbound[id] {
		out = append(out, e)
	}
	sortEdges(out)
	return out
}

// ReferencesOf returns the outbound edges of an asset.
func (r *Registry) ReferencesOf(id string) ([]Edge, error) {
	rec := r.record(id)
	if rec == nil {
		return nil, fmt.Errorf("asset %s: %w", id, asset.ErrNotFound)
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return outboundEdges(id, rec.ext), nil
}

// ReferencedBy returns the inbound edges of an asset.
func (r *Registry) ReferencedBy(id string) ([]Edge, error) {
	if r.record(id) == nil {
		return nil, fmt.Errorf("asset %s: %w", id, asset.ErrNotFound)
	}
	return r.inboundOf(id), nil
}

// Reachable returns the transitive closure of an asset over edges in both
// directions, including the asset itself, sorted by id.
func (r *Registry) Reachable(id string) []string {
	seen := map[string]struct{}{id: {}}
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		var peers []string
		if refs, err := r.ReferencesOf(cur); err == nil {
			for _, e := range refs {
				peers = append(peers, e.To)
			}
		}
		for _, e := range r.inboundOf(cur) {
			peers = append(peers, e.From)
		}
		for _, p := range peers {
			if _, ok := seen[p]; !ok {
				seen[p] = struct{}{}
				queue = append(queue, p)
			}
		}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// SetReference sets or clears (toID == "") a directed reference. A target
// already claimed by another source of the same relation class, or occupying
// a slot the policy declares exclusive, is rejected with
// ErrConflictingAssignment; the caller must clear the existing claim first.
// Clearing is idempotent.
func (r *Registry) SetReference(fromID string, rel Relation, toID string) error {
	spec, ok := relSpecs[rel]
	if !ok {
		return fmt.Errorf("relation %q: %w", rel, asset.ErrTypeMismatch)
	}
	from := r.record(fromID)
	if from == nil {
		return fmt.Errorf("asset %s: %w", fromID, asset.ErrNotFound)
	}

	var to *record
	if toID != "" {
		if to = r.record(toID); to == nil {
			if spec.to == asset.TypeVessel {
				return fmt.Errorf("vessel %s: %w", toID, asset.ErrUnknownVessel)
			}
			return fmt.Errorf("asset %s: %w", toID, asset.ErrNotFound)
		}
	}

	// The current target may differ from toID; it must be locked too so the
	// overwrite releases its claim consistently. Read it without the lock,
	// then re-check once locked (it may have changed in between).
	for {
		from.mu.Lock()
		oldID := ""
		if from.asset.Type == spec.from {
			oldID = spec.get(from.ext)
		}
		from.mu.Unlock()

		var old *record
		if oldID != "" && oldID != toID {
			old = r.record(oldID)
		}
		unlock := lockOrdered(from, to, old)

		if from.asset.Type != spec.from {
			unlock()
			return fmt.Errorf("relation %s on %s asset %s: %w", rel, from.asset.Type, fromID, asset.ErrTypeMismatch)
		}
		if cur := spec.get(from.ext); cur != oldID {
			unlock() // raced with another writer, retry with the right lock set
			continue
		}
		err := r.setReferenceLocked(spec, rel, from, to, old, toID)
		unlock()
		return err
	}
}

// setReferenceLocked performs the validated swap. All involved records are
// locked by the caller.
func (r *Registry) setReferenceLocked(spec relSpec, rel Relation, from, to, old *record, toID string) error {
	oldID := spec.get(from.ext)
	if oldID == toID {
		return nil // idempotent
	}

	if toID != "" {
		if from.asset.Status == asset.StatusRetired {
			return fmt.Errorf("asset %s is retired: %w", from.id, asset.ErrConflictingAssignment)
		}
		if to.asset.Type != spec.to {
			return fmt.Errorf("relation %s target %s is %s: %w", rel, to.id, to.asset.Type, asset.ErrTypeMismatch)
		}
		if to.asset.Status == asset.StatusRetired {
			return fmt.Errorf("asset %s is retired: %w", to.id, asset.ErrConflictingAssignment)
		}
		if err := r.checkExclusivity(spec, rel, from, to); err != nil {
			return err
		}
	}

	now := r.now()
	dirty := []string{from.id}

	// Release the previous claim first. old is nil when the previous target
	// record no longer exists.
	if oldID != "" {
		prev := old
		r.applyEdgeSideEffects(Edge{From: from.id, Rel: rel, To: oldID}, from, prev, false, now)
		spec.set(from.ext, "")
		r.mu.Lock()
		r.removeInbound(Edge{From: from.id, Rel: rel, To: oldID})
		r.mu.Unlock()
		if prev != nil {
			prev.asset.UpdatedAt = now
			dirty = append(dirty, prev.id)
		}
	}

	if toID != "" {
		spec.set(from.ext, toID)
		r.applyEdgeSideEffects(Edge{From: from.id, Rel: rel, To: toID}, from, to, true, now)
		r.mu.Lock()
		r.addInbound(Edge{From: from.id, Rel: rel, To: toID})
		r.mu.Unlock()
		to.asset.UpdatedAt = now
		dirty = append(dirty, to.id)
	}
	from.asset.UpdatedAt = now

	r.markDirty(dirty...)
	return nil
}

// checkExclusivity enforces single-claim targets plus the configured
// occupancy-slot exclusion between cradle, trolley and lift.
func (r *Registry) checkExclusivity(spec relSpec, rel Relation, from, to *record) error {
	if spec.exclusive {
		for _, e := range r.inboundOf(to.id) {
			if e.Rel == rel && e.From != from.id {
				return fmt.Errorf("%s %s already claimed by %s: %w", to.asset.Type, to.id, e.From, asset.ErrConflictingAssignment)
			}
		}
	}

	switch rel {
	case RelVesselCradle:
		// The vessel entering a cradle must not be on a trolley or lift.
		if !r.policy.AllowCradleTransportOverlap {
			for _, e := range r.inboundOf(from.id) {
				if e.Rel == RelTrolleyVessel || e.Rel == RelLiftVessel {
					return fmt.Errorf("vessel %s is in transport on %s: %w", from.id, e.From, asset.ErrConflictingAssignment)
				}
			}
		}
	case RelTrolleyVessel, RelLiftVessel:
		other := RelLiftVessel
		if rel == RelLiftVessel {
			other = RelTrolleyVessel
		}
		if !r.policy.AllowLiftTrolleyOverlap {
			for _, e := range r.inboundOf(to.id) {
				if e.Rel == other {
					return fmt.Errorf("vessel %s already in transport on %s: %w", to.id, e.From, asset.ErrConflictingAssignment)
				}
			}
		}
		if !r.policy.AllowCradleTransportOverlap {
			if v, ok := to.ext.(*asset.Vessel); ok && v.AssignedCradle != "" {
				return fmt.Errorf("vessel %s is in cradle %s: %w", to.id, v.AssignedCradle, asset.ErrConflictingAssignment)
			}
		}
	}
	return nil
}

// applyEdgeSideEffects maintains the derived occupancy, transfer and
// utilization fields when an edge appears (set) or disappears (clear).
// Records involved are locked by the caller; target may be nil when the
// peer record is gone.
func (r *Registry) applyEdgeSideEffects(e Edge, from, to *record, set bool, now time.Time) {
	switch e.Rel {
	case RelVesselCradle:
		if to == nil {
			return
		}
		cradle, ok := to.ext.(*asset.Cradle)
		if !ok {
			return
		}
		if set {
			cradle.Occupancy = e.From
			if v, ok := from.ext.(*asset.Vessel); ok {
				cradle.CurrentLoad = v.Weight
			}
		} else if cradle.Occupancy == e.From {
			cradle.Occupancy = ""
			cradle.CurrentLoad = 0
		}

	case RelTrolleyVessel:
		t, ok := from.ext.(*asset.Trolley)
		if !ok {
			return
		}
		if set {
			from.usage.start(now)
			r.setVesselInTransfer(to, false)
		} else {
			from.usage.stop(now)
			t.UtilizationRate, t.AverageTransferTime = from.usage.rates(now)
			r.clearVesselTransfer(e, to)
		}

	case RelLiftVessel:
		l, ok := from.ext.(*asset.Lift)
		if !ok {
			return
		}
		if set {
			from.usage.start(now)
			if v, ok := to.ext.(*asset.Vessel); ok {
				l.CurrentLoad = v.Weight
			}
			r.setVesselInTransfer(to, false)
		} else {
			hours := from.usage.stop(now)
			l.HistoricalUsageHours += hours
			l.CurrentLoad = 0
			l.UtilizationRate, l.AverageTransferTime = from.usage.rates(now)
			r.clearVesselTransfer(e, to)
		}
	}
}

func (r *Registry) setVesselInTransfer(rec *record, completed bool) {
	if rec == nil {
		return
	}
	if v, ok := rec.ext.(*asset.Vessel); ok {
		v.TransferCompleted = completed
	}
}

// clearVesselTransfer marks the transfer complete once no other transport
// still references the vessel.
func (r *Registry) clearVesselTransfer(cleared Edge, rec *record) {
	if rec == nil {
		return
	}
	for _, e := range r.inboundOf(rec.id) {
		if e == cleared {
			continue
		}
		if e.Rel == RelTrolleyVessel || e.Rel == RelLiftVessel {
			return
		}
	}
	r.setVesselInTransfer(rec, true)
}

func (m *usageMeter) start(now time.Time) {
	if m.trackedFrom.IsZero() {
		m.trackedFrom = now
	}
	m.busySince = now
}

// stop closes the current busy interval and returns its length in hours.
func (m *usageMeter) stop(now time.Time) float64 {
	if m.busySince.IsZero() {
		return 0
	}
	hours := now.Sub(m.busySince).Hours()
	m.busyHours += hours
	m.transfers++
	m.busySince = time.Time{}
	return hours
}

func (m *usageMeter) rates(now time.Time) (utilization, avgTransfer string) {
	tracked := now.Sub(m.trackedFrom).Hours()
	if tracked <= 0 || m.transfers == 0 {
		return "0%", ""
	}
	busy := m.busyHours
	if busy > tracked {
		busy = tracked
	}
	return fmt.Sprintf("%.0f%%", busy/tracked*100),
		fmt.Sprintf("%.1f min", m.busyHours*60/float64(m.transfers))
}
