// Package registry owns the canonical asset records and their type-specific
// extensions, the relationship graph between them, and the lifecycle state
// machine. All mutation goes through per-record exclusive locks; operations
// touching several records lock them in ascending id order.
package registry

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"yardcore/asset"
)

// DirtyFunc is notified with every asset id whose rollup entry must be
// recomputed.
type DirtyFunc func(ids ...string)

type Registry struct {
	mu      sync.RWMutex // guards records map and the inbound reference index
	records map[string]*record
	inbound map[string]map[Edge]struct{} // target id -> inbound edges

	policy  Policy
	onDirty DirtyFunc
	now     func() time.Time
}

// record pairs an identity row with its extension. The record mutex protects
// both, plus the usage meter. Lock ordering rule: a record mutex is never
// acquired while holding the registry mutex.
type record struct {
	mu    sync.Mutex
	id    string
	asset asset.Asset
	ext   any
	usage usageMeter
}

// usageMeter accumulates transport busy time for trolleys and lifts. It
// backs the utilizationRate / averageTransferTime derived fields and the
// usage-hour figure the rollup uses for assets without an operationalSince.
type usageMeter struct {
	busySince   time.Time // zero when idle
	trackedFrom time.Time // first assignment observed
	busyHours   float64
	transfers   int
}

func New(policy Policy) *Registry {
	return &Registry{
		records: make(map[string]*record),
		inbound: make(map[string]map[Edge]struct{}),
		policy:  policy,
		now:     time.Now,
	}
}

// OnDirty registers the rollup invalidation callback.
func (r *Registry) OnDirty(fn DirtyFunc) { r.onDirty = fn }

// SetClock overrides the time source. Tests use a fixed clock.
func (r *Registry) SetClock(now func() time.Time) { r.now = now }

func (r *Registry) Policy() Policy { return r.policy }

func (r *Registry) markDirty(ids ...string) {
	if r.onDirty != nil && len(ids) > 0 {
		r.onDirty(ids...)
	}
}

func (r *Registry) record(id string) *record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.records[id]
}

// lockOrdered locks the given records in ascending id order, skipping
// duplicates. Returns the unlock function.
func lockOrdered(recs ...*record) func() {
	uniq := make([]*record, 0, len(recs))
	seen := make(map[string]struct{}, len(recs))
	for _, rec := range recs {
		if rec == nil {
			continue
		}
		if _, ok := seen[rec.id]; ok {
			continue
		}
		seen[rec.id] = struct{}{}
		uniq = append(uniq, rec)
	}
	sort.Slice(uniq, func(i, j int) bool { return uniq[i].id < uniq[j].id })
	for _, rec := range uniq {
		rec.mu.Lock()
	}
	return func() {
		for i := len(uniq) - 1; i >= 0; i-- {
			uniq[i].mu.Unlock()
		}
	}
}

// NewAsset describes an asset to create. Extension is optional; when nil a
// zero-value extension of the right type is installed.
type NewAsset struct {
	ID          string
	Type        asset.Type
	Name        string
	Description string
	Extension   any
}

// Create installs the identity record and its extension atomically.
func (r *Registry) Create(n NewAsset) (string, error) {
	if !n.Type.Valid() {
		return "", fmt.Errorf("asset type %q: %w", n.Type, asset.ErrTypeMismatch)
	}
	ext := n.Extension
	if ext == nil {
		ext = newExtension(n.Type)
	} else {
		et, ok := extensionType(ext)
		if !ok {
			return "", fmt.Errorf("extension %T: %w", ext, asset.ErrTypeMismatch)
		}
		if et != n.Type {
			return "", fmt.Errorf("extension %T for asset type %q: %w", ext, n.Type, asset.ErrTypeMismatch)
		}
		ext = copyExt(ext)
	}

	id := n.ID
	if id == "" {
		id = uuid.NewString()
	}
	setExtAssetID(ext, id)
	ts := r.now()

	rec := &record{
		id: id,
		asset: asset.Asset{
			ID:          id,
			Type:        n.Type,
			Name:        n.Name,
			Description: n.Description,
			Status:      asset.StatusOperational,
			CreatedAt:   ts,
			UpdatedAt:   ts,
		},
		ext: ext,
	}

	r.mu.Lock()
	if _, exists := r.records[id]; exists {
		r.mu.Unlock()
		return "", fmt.Errorf("asset %s: %w", id, asset.ErrDuplicateIdentity)
	}
	r.records[id] = rec
	r.mu.Unlock()

	r.markDirty(id)
	return id, nil
}

// Get returns copies of the identity record and its extension.
func (r *Registry) Get(id string) (asset.Asset, any, error) {
	rec := r.record(id)
	if rec == nil {
		return asset.Asset{}, nil, fmt.Errorf("asset %s: %w", id, asset.ErrNotFound)
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.asset, copyExt(rec.ext), nil
}

// Update applies an AssetPatch or a typed extension patch. Nil patch fields
// leave the current values untouched.
func (r *Registry) Update(id string, patch any) error {
	rec := r.record(id)
	if rec == nil {
		return fmt.Errorf("asset %s: %w", id, asset.ErrNotFound)
	}

	if ap, ok := deref(patch).(asset.AssetPatch); ok {
		rec.mu.Lock()
		setStr(&rec.asset.Name, ap.Name)
		setStr(&rec.asset.Description, ap.Description)
		rec.asset.UpdatedAt = r.now()
		rec.mu.Unlock()
		r.markDirty(id)
		return nil
	}

	pt, ok := patchType(patch)
	if !ok {
		return fmt.Errorf("patch %T: %w", patch, asset.ErrTypeMismatch)
	}

	rec.mu.Lock()
	if pt != rec.asset.Type {
		rec.mu.Unlock()
		return fmt.Errorf("patch %T for %s asset %s: %w", patch, rec.asset.Type, id, asset.ErrTypeMismatch)
	}
	if err := applyPatch(rec.ext, patch); err != nil {
		rec.mu.Unlock()
		return err
	}
	rec.asset.UpdatedAt = r.now()
	rec.mu.Unlock()

	r.markDirty(id)
	return nil
}

// QueryByType returns identity copies for every asset of the given type,
// sorted by id.
func (r *Registry) QueryByType(t asset.Type) []asset.Asset {
	r.mu.RLock()
	recs := make([]*record, 0, len(r.records))
	for _, rec := range r.records {
		recs = append(recs, rec)
	}
	r.mu.RUnlock()

	var out []asset.Asset
	for _, rec := range recs {
		rec.mu.Lock()
		if rec.asset.Type == t {
			out = append(out, rec.asset)
		}
		rec.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// IDs returns every asset id, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.records))
	for id := range r.records {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// Snapshot returns copies of every record, sorted by id. Used for store
// checkpointing.
func (r *Registry) Snapshot() []Pair {
	ids := r.IDs()
	out := make([]Pair, 0, len(ids))
	for _, id := range ids {
		a, ext, err := r.Get(id)
		if err != nil {
			continue
		}
		out = append(out, Pair{Asset: a, Extension: ext})
	}
	return out
}

type Pair struct {
	Asset     asset.Asset
	Extension any
}

// Restore installs a record loaded from the persistence layer, preserving
// its ids, status and timestamps, and rebuilds the inbound reference index
// from the extension's relationship fields.
func (r *Registry) Restore(a asset.Asset, ext any) error {
	if !a.Type.Valid() || a.ID == "" {
		return fmt.Errorf("restore asset %q: %w", a.ID, asset.ErrTypeMismatch)
	}
	if ext == nil {
		ext = newExtension(a.Type)
	} else {
		et, ok := extensionType(ext)
		if !ok || et != a.Type {
			return fmt.Errorf("restore asset %s extension %T: %w", a.ID, ext, asset.ErrTypeMismatch)
		}
		ext = copyExt(ext)
	}
	setExtAssetID(ext, a.ID)

	rec := &record{id: a.ID, asset: a, ext: ext}

	r.mu.Lock()
	if _, exists := r.records[a.ID]; exists {
		r.mu.Unlock()
		return fmt.Errorf("asset %s: %w", a.ID, asset.ErrDuplicateIdentity)
	}
	r.records[a.ID] = rec
	for _, e := range outboundEdges(a.ID, ext) {
		r.addInbound(e)
	}
	r.mu.Unlock()
	return nil
}

// UsageHours reports accumulated transport busy time for a trolley or lift,
// including the in-flight assignment.
func (r *Registry) UsageHours(id string) float64 {
	rec := r.record(id)
	if rec == nil {
		return 0
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	h := rec.usage.busyHours
	if !rec.usage.busySince.IsZero() {
		h += r.now().Sub(rec.usage.busySince).Hours()
	}
	return h
}
