package registry

import (
	"errors"
	"testing"
	"time"

	"yardcore/asset"
)

// testYard builds a registry with one of everything, explicit ids.
func testYard(t *testing.T, policy Policy) *Registry {
	t.Helper()
	r := New(policy)
	seed := []NewAsset{
		{ID: "c1", Type: asset.TypeCradle, Extension: &asset.Cradle{Capacity: 2000}},
		{ID: "v1", Type: asset.TypeVessel, Extension: &asset.Vessel{Weight: 1200}},
		{ID: "v2", Type: asset.TypeVessel, Extension: &asset.Vessel{Weight: 800}},
		{ID: "r1", Type: asset.TypeRail, Extension: &asset.Rail{Length: 400}},
		{ID: "t1", Type: asset.TypeTrolley, Extension: &asset.Trolley{WheelCount: 16}},
		{ID: "l1", Type: asset.TypeLift, Extension: &asset.Lift{MaxCapacity: 3000}},
	}
	for _, n := range seed {
		if _, err := r.Create(n); err != nil {
			t.Fatalf("seed %s: %v", n.ID, err)
		}
	}
	return r
}

func TestVesselCradleAssignment(t *testing.T) {
	r := testYard(t, DefaultPolicy())

	if err := r.SetReference("v1", RelVesselCradle, "c1"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	_, ext, _ := r.Get("c1")
	c := ext.(*asset.Cradle)
	if c.Occupancy != "v1" || c.CurrentLoad != 1200 {
		t.Errorf("occupancy side effects: %+v", c)
	}

	// Idempotent re-assignment.
	if err := r.SetReference("v1", RelVesselCradle, "c1"); err != nil {
		t.Errorf("idempotent re-set: %v", err)
	}

	// No silent steal: the second vessel is rejected and v1 keeps its slot.
	err := r.SetReference("v2", RelVesselCradle, "c1")
	if !errors.Is(err, asset.ErrConflictingAssignment) {
		t.Fatalf("steal: got %v, want ErrConflictingAssignment", err)
	}
	_, ext, _ = r.Get("c1")
	if ext.(*asset.Cradle).Occupancy != "v1" {
		t.Error("occupancy lost after rejected claim")
	}
	_, ext, _ = r.Get("v2")
	if ext.(*asset.Vessel).AssignedCradle != "" {
		t.Error("rejected claimer holds a reference")
	}

	// Clear, then the second vessel may claim it.
	if err := r.SetReference("v1", RelVesselCradle, ""); err != nil {
		t.Fatalf("clear: %v", err)
	}
	_, ext, _ = r.Get("c1")
	c = ext.(*asset.Cradle)
	if c.Occupancy != "" || c.CurrentLoad != 0 {
		t.Errorf("occupancy after clear: %+v", c)
	}
	if err := r.SetReference("v2", RelVesselCradle, "c1"); err != nil {
		t.Errorf("claim after clear: %v", err)
	}

	// Clearing an already-clear slot is a no-op.
	if err := r.SetReference("v1", RelVesselCradle, ""); err != nil {
		t.Errorf("idempotent clear: %v", err)
	}
}

func TestReferenceValidation(t *testing.T) {
	r := testYard(t, DefaultPolicy())

	if err := r.SetReference("c1", RelVesselCradle, "v1"); !errors.Is(err, asset.ErrTypeMismatch) {
		t.Errorf("cradle as source: got %v, want ErrTypeMismatch", err)
	}
	if err := r.SetReference("v1", RelVesselCradle, "r1"); !errors.Is(err, asset.ErrTypeMismatch) {
		t.Errorf("rail as cradle target: got %v, want ErrTypeMismatch", err)
	}
	if err := r.SetReference("v1", Relation("vessel.bogus"), "c1"); !errors.Is(err, asset.ErrTypeMismatch) {
		t.Errorf("unknown relation: got %v, want ErrTypeMismatch", err)
	}
	if err := r.SetReference("t1", RelTrolleyVessel, "ghost"); !errors.Is(err, asset.ErrUnknownVessel) {
		t.Errorf("missing vessel target: got %v, want ErrUnknownVessel", err)
	}
	if err := r.SetReference("ghost", RelTrolleyVessel, "v1"); !errors.Is(err, asset.ErrNotFound) {
		t.Errorf("missing source: got %v, want ErrNotFound", err)
	}
}

func TestTransportExclusivity(t *testing.T) {
	r := testYard(t, DefaultPolicy())

	if err := r.SetReference("t1", RelTrolleyVessel, "v1"); err != nil {
		t.Fatalf("trolley claim: %v", err)
	}
	// Strict policy: no lift on the same vessel.
	if err := r.SetReference("l1", RelLiftVessel, "v1"); !errors.Is(err, asset.ErrConflictingAssignment) {
		t.Errorf("lift overlap: got %v, want ErrConflictingAssignment", err)
	}

	// Vessel on a trolley cannot also enter a cradle.
	if err := r.SetReference("v1", RelVesselCradle, "c1"); !errors.Is(err, asset.ErrConflictingAssignment) {
		t.Errorf("cradle while in transport: got %v, want ErrConflictingAssignment", err)
	}

	// Transfer flag follows transport references.
	_, ext, _ := r.Get("v1")
	if ext.(*asset.Vessel).TransferCompleted {
		t.Error("transfer marked complete while on trolley")
	}
	if err := r.SetReference("t1", RelTrolleyVessel, ""); err != nil {
		t.Fatalf("release: %v", err)
	}
	_, ext, _ = r.Get("v1")
	if !ext.(*asset.Vessel).TransferCompleted {
		t.Error("transfer not complete after last transport released")
	}

	// Vessel in a cradle cannot be picked up without clearing the cradle.
	if err := r.SetReference("v1", RelVesselCradle, "c1"); err != nil {
		t.Fatalf("into cradle: %v", err)
	}
	if err := r.SetReference("l1", RelLiftVessel, "v1"); !errors.Is(err, asset.ErrConflictingAssignment) {
		t.Errorf("lift while in cradle: got %v, want ErrConflictingAssignment", err)
	}
}

func TestOverlapPolicy(t *testing.T) {
	policy := DefaultPolicy()
	policy.AllowLiftTrolleyOverlap = true
	r := testYard(t, policy)

	if err := r.SetReference("t1", RelTrolleyVessel, "v1"); err != nil {
		t.Fatalf("trolley claim: %v", err)
	}
	// Lift-to-trolley handoff permitted under the relaxed policy.
	if err := r.SetReference("l1", RelLiftVessel, "v1"); err != nil {
		t.Fatalf("overlapping lift claim: %v", err)
	}

	// With both transports attached, releasing one keeps the transfer open.
	if err := r.SetReference("t1", RelTrolleyVessel, ""); err != nil {
		t.Fatalf("release trolley: %v", err)
	}
	_, ext, _ := r.Get("v1")
	if ext.(*asset.Vessel).TransferCompleted {
		t.Error("transfer complete while lift still attached")
	}
	if err := r.SetReference("l1", RelLiftVessel, ""); err != nil {
		t.Fatalf("release lift: %v", err)
	}
	_, ext, _ = r.Get("v1")
	if !ext.(*asset.Vessel).TransferCompleted {
		t.Error("transfer not complete after both transports released")
	}
}

func TestLiftUsageAccrual(t *testing.T) {
	r := testYard(t, DefaultPolicy())
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	now := base
	r.SetClock(func() time.Time { return now })

	if err := r.SetReference("l1", RelLiftVessel, "v1"); err != nil {
		t.Fatalf("claim: %v", err)
	}
	_, ext, _ := r.Get("l1")
	if ext.(*asset.Lift).CurrentLoad != 1200 {
		t.Errorf("lift load: %+v", ext)
	}

	now = base.Add(2 * time.Hour)
	if err := r.SetReference("l1", RelLiftVessel, ""); err != nil {
		t.Fatalf("release: %v", err)
	}
	_, ext, _ = r.Get("l1")
	l := ext.(*asset.Lift)
	if l.HistoricalUsageHours != 2 {
		t.Errorf("usage hours: got %v, want 2", l.HistoricalUsageHours)
	}
	if l.CurrentLoad != 0 {
		t.Errorf("load after release: %v", l.CurrentLoad)
	}
	if l.UtilizationRate != "100%" {
		t.Errorf("utilization: %q", l.UtilizationRate)
	}
	if l.AverageTransferTime != "120.0 min" {
		t.Errorf("average transfer time: %q", l.AverageTransferTime)
	}
}

func TestRetiredTargetsRejected(t *testing.T) {
	r := testYard(t, DefaultPolicy())

	if _, err := r.Transition("v1", asset.StatusRetired); err != nil {
		t.Fatalf("retire: %v", err)
	}
	if err := r.SetReference("t1", RelTrolleyVessel, "v1"); !errors.Is(err, asset.ErrConflictingAssignment) {
		t.Errorf("claim retired vessel: got %v, want ErrConflictingAssignment", err)
	}

	if _, err := r.Transition("t1", asset.StatusRetired); err != nil {
		t.Fatalf("retire trolley: %v", err)
	}
	if err := r.SetReference("t1", RelTrolleyRail, "r1"); !errors.Is(err, asset.ErrConflictingAssignment) {
		t.Errorf("retired source: got %v, want ErrConflictingAssignment", err)
	}
}

func TestReachable(t *testing.T) {
	r := testYard(t, DefaultPolicy())
	if err := r.SetReference("t1", RelTrolleyRail, "r1"); err != nil {
		t.Fatalf("rail: %v", err)
	}
	if err := r.SetReference("t1", RelTrolleyVessel, "v1"); err != nil {
		t.Fatalf("vessel: %v", err)
	}

	got := r.Reachable("v1")
	want := []string{"r1", "t1", "v1"}
	if len(got) != len(want) {
		t.Fatalf("reachable: %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("reachable: %v, want %v", got, want)
		}
	}
}
