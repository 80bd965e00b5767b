// Package ledger keeps the append-only work-order history. Closed work-order
// durations feed the usage-hour accumulation in the maintenance rollup.
package ledger

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"yardcore/asset"
)

var workOrderTransitions = map[string][]string{
	asset.WorkOrderOpen:       {asset.WorkOrderInProgress, asset.WorkOrderClosed},
	asset.WorkOrderInProgress: {asset.WorkOrderClosed},
	asset.WorkOrderClosed:     {},
}

type Ledger struct {
	mu     sync.RWMutex
	orders map[string]*asset.WorkOrder

	onDirty func(ids ...string)
	now     func() time.Time
}

func New() *Ledger {
	return &Ledger{
		orders: make(map[string]*asset.WorkOrder),
		now:    time.Now,
	}
}

// OnDirty registers the rollup invalidation callback; it receives the vessel
// id of the affected work order.
func (l *Ledger) OnDirty(fn func(ids ...string)) { l.onDirty = fn }

func (l *Ledger) SetClock(now func() time.Time) { l.now = now }

// Open appends a new work order in the open state. Vessel existence is the
// caller's check; the ledger records whatever reference it is given.
func (l *Ledger) Open(wo asset.WorkOrder) (string, error) {
	if wo.ID == "" {
		wo.ID = uuid.NewString()
	}
	wo.Status = asset.WorkOrderOpen
	if wo.StartDate.IsZero() {
		wo.StartDate = l.now()
	}
	wo.EndDate = time.Time{}
	wo.UpdatedAt = l.now()

	l.mu.Lock()
	if _, exists := l.orders[wo.ID]; exists {
		l.mu.Unlock()
		return "", fmt.Errorf("work order %s: %w", wo.ID, asset.ErrDuplicateIdentity)
	}
	cp := wo
	l.orders[wo.ID] = &cp
	l.mu.Unlock()

	if l.onDirty != nil && wo.VesselID != "" {
		l.onDirty(wo.VesselID)
	}
	return wo.ID, nil
}

// Transition advances a work order: open -> in_progress -> closed. Closing
// stamps the end date used for duration accounting.
func (l *Ledger) Transition(id, newStatus string) error {
	l.mu.Lock()
	wo, ok := l.orders[id]
	if !ok {
		l.mu.Unlock()
		return fmt.Errorf("work order %s: %w", id, asset.ErrNotFound)
	}
	allowed := false
	for _, s := range workOrderTransitions[wo.Status] {
		if s == newStatus {
			allowed = true
			break
		}
	}
	if !allowed {
		from := wo.Status
		l.mu.Unlock()
		return fmt.Errorf("work order %s: %s -> %s: %w", id, from, newStatus, asset.ErrInvalidTransition)
	}
	wo.Status = newStatus
	wo.UpdatedAt = l.now()
	if newStatus == asset.WorkOrderClosed && wo.EndDate.IsZero() {
		wo.EndDate = l.now()
	}
	vesselID := wo.VesselID
	l.mu.Unlock()

	if l.onDirty != nil && vesselID != "" {
		l.onDirty(vesselID)
	}
	return nil
}

// Get returns a copy of one work order.
func (l *Ledger) Get(id string) (asset.WorkOrder, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	wo, ok := l.orders[id]
	if !ok {
		return asset.WorkOrder{}, fmt.Errorf("work order %s: %w", id, asset.ErrNotFound)
	}
	return *wo, nil
}

// List returns copies of every work order, sorted by start date then id.
func (l *Ledger) List() []asset.WorkOrder {
	l.mu.RLock()
	out := make([]asset.WorkOrder, 0, len(l.orders))
	for _, wo := range l.orders {
		out = append(out, *wo)
	}
	l.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ClosedHoursForVessel sums the durations of closed work orders referencing
// the vessel.
func (l *Ledger) ClosedHoursForVessel(vesselID string) float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	total := 0.0
	for _, wo := range l.orders {
		if wo.VesselID != vesselID || wo.Status != asset.WorkOrderClosed {
			continue
		}
		if wo.EndDate.After(wo.StartDate) {
			total += wo.EndDate.Sub(wo.StartDate).Hours()
		}
	}
	return total
}

// Restore installs a work order loaded from the persistence layer as-is.
func (l *Ledger) Restore(wo asset.WorkOrder) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if wo.ID == "" {
		return fmt.Errorf("work order without id: %w", asset.ErrNotFound)
	}
	if _, exists := l.orders[wo.ID]; exists {
		return fmt.Errorf("work order %s: %w", wo.ID, asset.ErrDuplicateIdentity)
	}
	cp := wo
	l.orders[wo.ID] = &cp
	return nil
}
