package registry

import (
	"errors"
	"testing"

	"yardcore/asset"
)

func TestLifecycleTransitions(t *testing.T) {
	r := testYard(t, DefaultPolicy())

	if _, err := r.Transition("v1", asset.StatusMaintenance); err != nil {
		t.Fatalf("to maintenance: %v", err)
	}
	a, _, _ := r.Get("v1")
	if a.Status != asset.StatusMaintenance {
		t.Errorf("status: %s", a.Status)
	}

	// Same status is a no-op, not an error.
	if _, err := r.Transition("v1", asset.StatusMaintenance); err != nil {
		t.Errorf("no-op transition: %v", err)
	}

	if _, err := r.Transition("v1", asset.StatusOperational); err != nil {
		t.Fatalf("back to operational: %v", err)
	}

	if _, err := r.Transition("v1", asset.Status("scrapped")); !errors.Is(err, asset.ErrInvalidTransition) {
		t.Errorf("bogus status: got %v, want ErrInvalidTransition", err)
	}
	if _, err := r.Transition("ghost", asset.StatusMaintenance); !errors.Is(err, asset.ErrNotFound) {
		t.Errorf("missing asset: got %v, want ErrNotFound", err)
	}
}

func TestRetireIsTerminal(t *testing.T) {
	r := testYard(t, DefaultPolicy())

	if _, err := r.Transition("r1", asset.StatusRetired); err != nil {
		t.Fatalf("retire: %v", err)
	}
	for _, next := range []asset.Status{asset.StatusOperational, asset.StatusMaintenance, asset.StatusRetired} {
		if _, err := r.Transition("r1", next); !errors.Is(err, asset.ErrInvalidTransition) {
			t.Errorf("retired -> %s: got %v, want ErrInvalidTransition", next, err)
		}
	}
}

func TestRetireCascadeClearsBothDirections(t *testing.T) {
	r := testYard(t, DefaultPolicy())

	// v1 sits in c1; t1 runs on r1 and carries v2.
	if err := r.SetReference("v1", RelVesselCradle, "c1"); err != nil {
		t.Fatalf("cradle: %v", err)
	}
	if err := r.SetReference("t1", RelTrolleyRail, "r1"); err != nil {
		t.Fatalf("rail: %v", err)
	}
	if err := r.SetReference("t1", RelTrolleyVessel, "v2"); err != nil {
		t.Fatalf("vessel: %v", err)
	}

	// Retiring v1 clears its outbound cradle reference and the occupancy.
	cleared, err := r.Transition("v1", asset.StatusRetired)
	if err != nil {
		t.Fatalf("retire v1: %v", err)
	}
	if len(cleared) != 1 || cleared[0] != (Edge{From: "v1", Rel: RelVesselCradle, To: "c1"}) {
		t.Errorf("cleared edges: %+v", cleared)
	}
	_, ext, _ := r.Get("c1")
	if c := ext.(*asset.Cradle); c.Occupancy != "" || c.CurrentLoad != 0 {
		t.Errorf("cradle after cascade: %+v", c)
	}
	_, ext, _ = r.Get("v1")
	if ext.(*asset.Vessel).AssignedCradle != "" {
		t.Error("retired vessel keeps cradle reference")
	}

	// Retiring t1 clears both outbound edges (rail and carried vessel).
	cleared, err = r.Transition("t1", asset.StatusRetired)
	if err != nil {
		t.Fatalf("retire t1: %v", err)
	}
	if len(cleared) != 2 {
		t.Fatalf("cleared edges: %+v", cleared)
	}
	_, ext, _ = r.Get("t1")
	tr := ext.(*asset.Trolley)
	if tr.RailID != "" || tr.AssignedVesselID != "" {
		t.Errorf("trolley after retire: %+v", tr)
	}
	// The carried vessel's transfer closed out when the transport vanished.
	_, ext, _ = r.Get("v2")
	if !ext.(*asset.Vessel).TransferCompleted {
		t.Error("transfer left open after transport retired")
	}
}

func TestRetireCascadeInboundOnly(t *testing.T) {
	r := testYard(t, DefaultPolicy())

	// Retire the rail while a trolley references it: the inbound edge is
	// cleared from the trolley's side.
	if err := r.SetReference("t1", RelTrolleyRail, "r1"); err != nil {
		t.Fatalf("rail: %v", err)
	}
	cleared, err := r.Transition("r1", asset.StatusRetired)
	if err != nil {
		t.Fatalf("retire rail: %v", err)
	}
	if len(cleared) != 1 || cleared[0].From != "t1" {
		t.Errorf("cleared: %+v", cleared)
	}
	_, ext, _ := r.Get("t1")
	if ext.(*asset.Trolley).RailID != "" {
		t.Error("trolley still references retired rail")
	}
}

func TestMaintenanceAfterCascade(t *testing.T) {
	r := testYard(t, DefaultPolicy())
	if err := r.SetReference("v1", RelVesselCradle, "c1"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := r.Transition("v1", asset.StatusRetired); err != nil {
		t.Fatalf("retire: %v", err)
	}
	// The freed cradle keeps living its own lifecycle.
	if _, err := r.Transition("c1", asset.StatusMaintenance); err != nil {
		t.Errorf("cradle to maintenance: %v", err)
	}
	if _, err := r.Transition("v1", asset.StatusOperational); !errors.Is(err, asset.ErrInvalidTransition) {
		t.Errorf("revive retired vessel: got %v, want ErrInvalidTransition", err)
	}
}
