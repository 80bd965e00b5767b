package registry

import (
	"fmt"

	"yardcore/asset"
)

// allowedTransitions is the lifecycle graph shared by every asset type:
// operational and maintenance swap freely, retirement is terminal.
var allowedTransitions = map[asset.Status][]asset.Status{
	asset.StatusOperational: {asset.StatusMaintenance, asset.StatusRetired},
	asset.StatusMaintenance: {asset.StatusOperational, asset.StatusRetired},
	asset.StatusRetired:     {},
}

func canTransition(from, to asset.Status) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Transition moves an asset to a new lifecycle status. Entering retired
// clears every reference touching the asset, atomically with respect to
// concurrent readers: all affected records are locked before the first clear
// and held until the last. The cleared edges are returned so callers can
// audit and republish them.
func (r *Registry) Transition(id string, newStatus asset.Status) ([]Edge, error) {
	switch newStatus {
	case asset.StatusOperational, asset.StatusMaintenance, asset.StatusRetired:
	default:
		return nil, fmt.Errorf("status %q: %w", newStatus, asset.ErrInvalidTransition)
	}
	rec := r.record(id)
	if rec == nil {
		return nil, fmt.Errorf("asset %s: %w", id, asset.ErrNotFound)
	}

	if newStatus != asset.StatusRetired {
		rec.mu.Lock()
		if rec.asset.Status == newStatus {
			rec.mu.Unlock()
			return nil, nil
		}
		if !canTransition(rec.asset.Status, newStatus) {
			from := rec.asset.Status
			rec.mu.Unlock()
			return nil, fmt.Errorf("asset %s: %s -> %s: %w", id, from, newStatus, asset.ErrInvalidTransition)
		}
		rec.asset.Status = newStatus
		rec.asset.UpdatedAt = r.now()
		rec.mu.Unlock()
		// Dependents' statusSummary must reflect the change.
		r.markDirty(r.Reachable(id)...)
		return nil, nil
	}

	return r.retire(rec)
}

// retire transitions a record to the terminal status and cascades: every
// inbound and outbound reference of the asset is cleared under the full lock
// set. On failure the captured snapshots are restored, leaving state
// unchanged.
func (r *Registry) retire(rec *record) ([]Edge, error) {
	for {
		// Plan the lock set from an unlocked read; re-validate after locking
		// and retry if the edge set moved underneath us.
		planned := r.edgesTouching(rec.id)
		recs := map[string]*record{rec.id: rec}
		for _, e := range planned {
			for _, peer := range []string{e.From, e.To} {
				if _, ok := recs[peer]; ok {
					continue
				}
				if pr := r.record(peer); pr != nil {
					recs[peer] = pr
				}
			}
		}
		all := make([]*record, 0, len(recs))
		for _, pr := range recs {
			all = append(all, pr)
		}
		unlock := lockOrdered(all...)

		if rec.asset.Status == asset.StatusRetired {
			unlock()
			return nil, fmt.Errorf("asset %s is retired: %w", rec.id, asset.ErrInvalidTransition)
		}
		current := r.edgesTouchingLocked(rec.id, recs)
		if !edgesEqual(planned, current) {
			unlock()
			continue
		}

		cleared, err := r.applyRetirement(rec, current, recs)
		unlock()
		if err != nil {
			return nil, err
		}
		dirty := make([]string, 0, len(recs))
		for id := range recs {
			dirty = append(dirty, id)
		}
		r.markDirty(dirty...)
		return cleared, nil
	}
}

// edgesTouching collects inbound and outbound edges of an asset without
// holding its lock (planning pass).
func (r *Registry) edgesTouching(id string) []Edge {
	var edges []Edge
	if refs, err := r.ReferencesOf(id); err == nil {
		edges = append(edges, refs...)
	}
	edges = append(edges, r.inboundOf(id)...)
	sortEdges(edges)
	return edges
}

// edgesTouchingLocked re-reads the edge set while every involved record is
// locked.
func (r *Registry) edgesTouchingLocked(id string, recs map[string]*record) []Edge {
	var edges []Edge
	if rec, ok := recs[id]; ok {
		edges = append(edges, outboundEdges(id, rec.ext)...)
	}
	edges = append(edges, r.inboundOf(id)...)
	sortEdges(edges)
	return edges
}

func edgesEqual(a, b []Edge) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// applyRetirement clears every edge and flips the status. All records in
// recs are locked by the caller. Snapshots taken up front make the operation
// all-or-nothing.
func (r *Registry) applyRetirement(rec *record, edges []Edge, recs map[string]*record) (cleared []Edge, err error) {
	type snap struct {
		asset asset.Asset
		ext   any
	}
	snaps := make(map[string]snap, len(recs))
	for id, pr := range recs {
		snaps[id] = snap{asset: pr.asset, ext: copyExt(pr.ext)}
	}
	defer func() {
		if err == nil {
			return
		}
		for id, s := range snaps {
			pr := recs[id]
			pr.asset = s.asset
			pr.ext = s.ext
		}
		r.mu.Lock()
		for _, e := range cleared {
			r.addInbound(e)
		}
		r.mu.Unlock()
		cleared = nil
	}()

	now := r.now()
	for _, e := range edges {
		from, ok := recs[e.From]
		if !ok {
			return cleared, fmt.Errorf("cascade on %s: source %s vanished: %w", rec.id, e.From, asset.ErrNotFound)
		}
		spec, ok := relSpecs[e.Rel]
		if !ok || spec.get(from.ext) != e.To {
			return cleared, fmt.Errorf("cascade on %s: edge %s/%s inconsistent: %w", rec.id, e.From, e.Rel, asset.ErrTypeMismatch)
		}
		r.applyEdgeSideEffects(e, from, recs[e.To], false, now)
		spec.set(from.ext, "")
		r.mu.Lock()
		r.removeInbound(e)
		r.mu.Unlock()
		from.asset.UpdatedAt = now
		if to, ok := recs[e.To]; ok {
			to.asset.UpdatedAt = now
		}
		cleared = append(cleared, e)
	}

	rec.asset.Status = asset.StatusRetired
	rec.asset.UpdatedAt = now
	return cleared, nil
}
