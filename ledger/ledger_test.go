package ledger

import (
	"errors"
	"testing"
	"time"

	"yardcore/asset"
)

func TestOpenDefaults(t *testing.T) {
	l := New()
	fixed := time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)
	l.SetClock(func() time.Time { return fixed })

	id, err := l.Open(asset.WorkOrder{VesselID: "v1", Notes: "propeller alignment", Status: asset.WorkOrderClosed})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	wo, err := l.Get(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	// Whatever status the caller sent, a fresh order starts open.
	if wo.Status != asset.WorkOrderOpen {
		t.Errorf("status: %q", wo.Status)
	}
	if !wo.StartDate.Equal(fixed) || !wo.UpdatedAt.Equal(fixed) {
		t.Errorf("stamps: start %v updated %v", wo.StartDate, wo.UpdatedAt)
	}
	if !wo.EndDate.IsZero() {
		t.Errorf("end date set at open: %v", wo.EndDate)
	}

	if _, err := l.Open(asset.WorkOrder{ID: id, VesselID: "v1"}); !errors.Is(err, asset.ErrDuplicateIdentity) {
		t.Errorf("duplicate id: got %v", err)
	}
	if _, err := l.Get("missing"); !errors.Is(err, asset.ErrNotFound) {
		t.Errorf("missing: got %v", err)
	}
}

func TestTransitions(t *testing.T) {
	l := New()
	id, err := l.Open(asset.WorkOrder{VesselID: "v1"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if err := l.Transition(id, asset.WorkOrderInProgress); err != nil {
		t.Fatalf("to in_progress: %v", err)
	}
	if err := l.Transition(id, asset.WorkOrderOpen); !errors.Is(err, asset.ErrInvalidTransition) {
		t.Errorf("back to open: got %v", err)
	}
	if err := l.Transition(id, asset.WorkOrderClosed); err != nil {
		t.Fatalf("close: %v", err)
	}
	wo, _ := l.Get(id)
	if wo.EndDate.IsZero() {
		t.Error("closing did not stamp end date")
	}
	// Closed is terminal.
	if err := l.Transition(id, asset.WorkOrderInProgress); !errors.Is(err, asset.ErrInvalidTransition) {
		t.Errorf("reopen: got %v", err)
	}
	if err := l.Transition("missing", asset.WorkOrderClosed); !errors.Is(err, asset.ErrNotFound) {
		t.Errorf("missing: got %v", err)
	}

	// Closing straight from open is a recorded short-circuit, not an error.
	id2, _ := l.Open(asset.WorkOrder{VesselID: "v1"})
	if err := l.Transition(id2, asset.WorkOrderClosed); err != nil {
		t.Errorf("open -> closed: %v", err)
	}
}

func TestClosedHoursForVessel(t *testing.T) {
	l := New()
	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	open := func(vessel string, hours float64) {
		t.Helper()
		id, err := l.Open(asset.WorkOrder{VesselID: vessel, StartDate: start})
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		l.SetClock(func() time.Time { return start.Add(time.Duration(hours * float64(time.Hour))) })
		if err := l.Transition(id, asset.WorkOrderClosed); err != nil {
			t.Fatalf("close: %v", err)
		}
	}
	open("v1", 4)
	open("v1", 2.5)
	open("v2", 8)

	// An order still open contributes nothing.
	if _, err := l.Open(asset.WorkOrder{VesselID: "v1", StartDate: start}); err != nil {
		t.Fatalf("open pending: %v", err)
	}

	if got := l.ClosedHoursForVessel("v1"); got != 6.5 {
		t.Errorf("v1 hours: %v", got)
	}
	if got := l.ClosedHoursForVessel("v2"); got != 8 {
		t.Errorf("v2 hours: %v", got)
	}
	if got := l.ClosedHoursForVessel("v3"); got != 0 {
		t.Errorf("v3 hours: %v", got)
	}
}

func TestListOrdering(t *testing.T) {
	l := New()
	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	seed := []asset.WorkOrder{
		{ID: "b", VesselID: "v1", StartDate: base.Add(time.Hour)},
		{ID: "a", VesselID: "v1", StartDate: base.Add(time.Hour)},
		{ID: "c", VesselID: "v2", StartDate: base},
	}
	for _, wo := range seed {
		if _, err := l.Open(wo); err != nil {
			t.Fatalf("open %s: %v", wo.ID, err)
		}
	}
	got := l.List()
	want := []string{"c", "a", "b"}
	for i, wo := range got {
		if wo.ID != want[i] {
			t.Fatalf("order: got %v at %d, want %v", wo.ID, i, want[i])
		}
	}
}

func TestDirtyCallback(t *testing.T) {
	l := New()
	var dirty []string
	l.OnDirty(func(ids ...string) { dirty = append(dirty, ids...) })

	id, err := l.Open(asset.WorkOrder{VesselID: "v1"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := l.Transition(id, asset.WorkOrderClosed); err != nil {
		t.Fatalf("close: %v", err)
	}
	if len(dirty) != 2 || dirty[0] != "v1" || dirty[1] != "v1" {
		t.Errorf("dirty: %v", dirty)
	}
}

func TestRestore(t *testing.T) {
	l := New()
	wo := asset.WorkOrder{
		ID:        "wo-1",
		VesselID:  "v1",
		Status:    asset.WorkOrderClosed,
		StartDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 4, 1, 3, 0, 0, 0, time.UTC),
	}
	if err := l.Restore(wo); err != nil {
		t.Fatalf("restore: %v", err)
	}
	got, err := l.Get("wo-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	// Restore keeps the persisted status instead of forcing open.
	if got.Status != asset.WorkOrderClosed {
		t.Errorf("status: %q", got.Status)
	}
	if hours := l.ClosedHoursForVessel("v1"); hours != 3 {
		t.Errorf("hours: %v", hours)
	}

	if err := l.Restore(wo); !errors.Is(err, asset.ErrDuplicateIdentity) {
		t.Errorf("duplicate restore: got %v", err)
	}
	if err := l.Restore(asset.WorkOrder{}); !errors.Is(err, asset.ErrNotFound) {
		t.Errorf("empty id: got %v", err)
	}
}
