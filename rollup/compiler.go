// Package rollup recomputes the per-asset maintenance summary rows from the
// live registry and work-order ledger. Rows are derived, never authored:
// recomputation is idempotent and side-effect-free beyond the row itself.
package rollup

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"yardcore/asset"
	"yardcore/ledger"
	"yardcore/registry"
)

// FleetID keys the system-wide rollup row.
const FleetID = "fleet"

type Compiler struct {
	reg    *registry.Registry
	orders *ledger.Ledger
	cache  *Cache // optional

	mu    sync.Mutex
	dirty map[string]struct{}
	rows  map[string]asset.Maintenance

	logf func(format string, args ...any)
	now  func() time.Time
}

func New(reg *registry.Registry, orders *ledger.Ledger) *Compiler {
	return &Compiler{
		reg:    reg,
		orders: orders,
		dirty:  map[string]struct{}{},
		rows:   map[string]asset.Maintenance{},
		logf:   log.Printf,
		now:    time.Now,
	}
}

func (c *Compiler) SetCache(cache *Cache)         { c.cache = cache }
func (c *Compiler) SetClock(now func() time.Time) { c.now = now }
func (c *Compiler) SetLogFunc(fn func(string, ...any)) {
	if fn != nil {
		c.logf = fn
	}
}

// MarkDirty queues asset ids for recomputation. Safe from any goroutine;
// this is the registry/ledger invalidation callback.
func (c *Compiler) MarkDirty(ids ...string) {
	c.mu.Lock()
	for _, id := range ids {
		c.dirty[id] = struct{}{}
	}
	c.dirty[FleetID] = struct{}{}
	c.mu.Unlock()
}

// Get returns the rollup row for an asset, recomputing lazily when the
// cached row is stale. Internal inconsistency retains the last-known-good
// row rather than surfacing an error.
func (c *Compiler) Get(id string) (asset.Maintenance, error) {
	if id == FleetID {
		return c.fleet(), nil
	}

	c.mu.Lock()
	row, have := c.rows[id]
	_, stale := c.dirty[id]
	c.mu.Unlock()

	if have && !stale {
		return row, nil
	}

	fresh, err := c.compute(id)
	if err != nil {
		if have {
			c.logf("rollup: recompute %s: %v (keeping last known row)", id, err)
			return row, nil
		}
		return asset.Maintenance{}, err
	}
	c.store(fresh)
	return fresh, nil
}

// Recompute forces a fresh row regardless of the dirty flag.
func (c *Compiler) Recompute(id string) (asset.Maintenance, error) {
	row, err := c.compute(id)
	if err != nil {
		return asset.Maintenance{}, err
	}
	c.store(row)
	return row, nil
}

// RecomputeDirty sweeps the dirty set. Run on the configured interval.
func (c *Compiler) RecomputeDirty() {
	c.mu.Lock()
	ids := make([]string, 0, len(c.dirty))
	for id := range c.dirty {
		if id != FleetID {
			ids = append(ids, id)
		}
	}
	c.mu.Unlock()
	sort.Strings(ids)

	for _, id := range ids {
		if _, err := c.Get(id); err != nil {
			c.logf("rollup: sweep %s: %v", id, err)
			c.mu.Lock()
			delete(c.dirty, id) // asset gone; stop retrying
			c.mu.Unlock()
		}
	}
}

// RecomputeAll rebuilds every row. Cancellation between assets leaves
// already-written rows valid; no row is ever partially written.
func (c *Compiler) RecomputeAll(ctx context.Context) error {
	for _, id := range c.reg.IDs() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if _, err := c.Recompute(id); err != nil {
			c.logf("rollup: recompute %s: %v", id, err)
		}
	}
	return nil
}

// Rows returns copies of all computed rows, sorted by asset id. Used for
// store checkpointing.
func (c *Compiler) Rows() []asset.Maintenance {
	c.mu.Lock()
	out := make([]asset.Maintenance, 0, len(c.rows))
	for _, row := range c.rows {
		out = append(out, row)
	}
	c.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].AssetID < out[j].AssetID })
	return out
}

func (c *Compiler) store(row asset.Maintenance) {
	c.mu.Lock()
	c.rows[row.AssetID] = row
	delete(c.dirty, row.AssetID)
	c.mu.Unlock()

	if c.cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := c.cache.Put(ctx, row); err != nil {
			c.logf("rollup: cache put %s: %v", row.AssetID, err)
		}
		cancel()
	}
}

// compute derives one asset's row from live state. Reads only; UpdatedAt is
// the newest input timestamp so an unchanged world yields an identical row.
func (c *Compiler) compute(id string) (asset.Maintenance, error) {
	a, ext, err := c.reg.Get(id)
	if err != nil {
		return asset.Maintenance{}, err
	}

	row := asset.Maintenance{
		AssetID:     a.ID,
		AssetName:   a.Name,
		PerformedBy: "rollup",
		NextDueDate: nextDue(ext),
		UpdatedAt:   a.UpdatedAt,
	}

	usage := c.usageHours(a, ext)
	row.HistoricalUsageHours = usage
	if life := c.reg.Policy().DesignLife(a.Type); life > 0 {
		remaining := life - usage
		if remaining < 0 {
			remaining = 0
		}
		row.RemainingLifespanHours = remaining
	}

	reach := c.reg.Reachable(id)
	var summary []string
	summary = append(summary, fmt.Sprintf("%s %s %s", a.Type, a.ID, a.Status))
	for _, rid := range reach {
		if rid == id {
			continue
		}
		ra, rext, err := c.reg.Get(rid)
		if err != nil {
			return asset.Maintenance{}, fmt.Errorf("reachable %s: %w", rid, err)
		}
		summary = append(summary, fmt.Sprintf("%s %s %s", ra.Type, ra.ID, ra.Status))
		c.tally(&row, ra, rext)
		if ra.UpdatedAt.After(row.UpdatedAt) {
			row.UpdatedAt = ra.UpdatedAt
		}
	}
	c.tally(&row, a, ext)
	row.StatusSummary = strings.Join(summary, "; ")
	row.Description = fmt.Sprintf("rollup over %d linked assets", len(reach)-1)
	return row, nil
}

func (c *Compiler) tally(row *asset.Maintenance, a asset.Asset, ext any) {
	switch a.Type {
	case asset.TypeVessel:
		if v, ok := ext.(*asset.Vessel); ok && !v.TransferCompleted {
			row.ShipsInTransfer++
		}
	case asset.TypeLift:
		if a.Status == asset.StatusOperational {
			row.OperationalLifts++
		}
	case asset.TypeTrolley:
		if a.Status == asset.StatusOperational {
			row.OperationalTrolleys++
		}
	}
}

// usageHours accumulates historical usage per asset kind: closed work-order
// time for vessels, the extension counter for lifts, transport busy time for
// trolleys, elapsed service time for static structures.
func (c *Compiler) usageHours(a asset.Asset, ext any) float64 {
	switch e := ext.(type) {
	case *asset.Vessel:
		return c.orders.ClosedHoursForVessel(a.ID) + c.sinceOp(e.OperationalSince)
	case *asset.Lift:
		return e.HistoricalUsageHours
	case *asset.Trolley:
		return c.reg.UsageHours(a.ID)
	case *asset.Cradle:
		return c.sinceOp(e.OperationalSince)
	case *asset.Rail:
		return c.sinceOp(e.OperationalSince)
	}
	return 0
}

func (c *Compiler) sinceOp(since time.Time) float64 {
	if since.IsZero() {
		return 0
	}
	h := c.now().Sub(since).Hours()
	if h < 0 {
		return 0
	}
	return h
}

func nextDue(ext any) time.Time {
	switch e := ext.(type) {
	case *asset.Cradle:
		return e.NextMaintenanceDue
	case *asset.Vessel:
		return e.NextMaintenanceDue
	case *asset.Rail:
		return e.NextInspectionDue
	case *asset.Trolley:
		return e.NextMaintenanceDue
	case *asset.Lift:
		return e.NextMaintenanceDue
	}
	return time.Time{}
}

// fleet computes the system-wide row: transfer and availability counts over
// every asset in the yard.
func (c *Compiler) fleet() asset.Maintenance {
	row := asset.Maintenance{
		AssetID:   FleetID,
		AssetName: "fleet",
	}
	counts := map[asset.Status]int{}
	total := 0
	for _, id := range c.reg.IDs() {
		a, ext, err := c.reg.Get(id)
		if err != nil {
			continue
		}
		total++
		counts[a.Status]++
		c.tally(&row, a, ext)
		if a.UpdatedAt.After(row.UpdatedAt) {
			row.UpdatedAt = a.UpdatedAt
		}
	}
	row.StatusSummary = fmt.Sprintf("%d assets: %d operational, %d maintenance, %d retired",
		total, counts[asset.StatusOperational], counts[asset.StatusMaintenance], counts[asset.StatusRetired])
	row.Description = "fleet-wide maintenance rollup"
	row.PerformedBy = "rollup"
	return row
}
