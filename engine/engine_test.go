package engine

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"yardcore/asset"
	"yardcore/config"
	"yardcore/registry"
	"yardcore/store"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := config.Defaults()
	cfg.Database.SQLite.Path = filepath.Join(t.TempDir(), "test.db")
	cfg.Rollup.RecomputeInterval = 0
	cfg.Rollup.CheckpointInterval = 0
	db, err := store.Open(&cfg.Database)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	e := New(Config{AppConfig: cfg, DB: db, LogFunc: t.Logf})
	if err := e.Start(); err != nil {
		t.Fatalf("start engine: %v", err)
	}
	t.Cleanup(e.Stop)
	return e
}

type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) record(evt Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

func (r *eventRecorder) types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventType, len(r.events))
	for i, evt := range r.events {
		out[i] = evt.Type
	}
	return out
}

func TestCreateAssignCascade(t *testing.T) {
	e := testEngine(t)
	rec := &eventRecorder{}
	e.Events.Subscribe(rec.record)

	cradleID, err := e.CreateAsset(registry.NewAsset{
		Type: asset.TypeCradle, Name: "Cradle 1",
		Extension: &asset.Cradle{Capacity: 2000},
	})
	if err != nil {
		t.Fatalf("create cradle: %v", err)
	}
	vesselID, err := e.CreateAsset(registry.NewAsset{
		Type: asset.TypeVessel, Name: "MV Harland",
		Extension: &asset.Vessel{VesselName: "MV Harland", Weight: 1200},
	})
	if err != nil {
		t.Fatalf("create vessel: %v", err)
	}

	if err := e.SetReference(vesselID, registry.RelVesselCradle, cradleID); err != nil {
		t.Fatalf("assign cradle: %v", err)
	}
	_, ext, err := e.GetAsset(cradleID)
	if err != nil {
		t.Fatalf("get cradle: %v", err)
	}
	c := ext.(*asset.Cradle)
	if c.Occupancy != vesselID || c.CurrentLoad != 1200 {
		t.Errorf("cradle side effects: occupancy=%q load=%v", c.Occupancy, c.CurrentLoad)
	}

	// Retiring the vessel clears the occupancy atomically.
	if err := e.Transition(vesselID, asset.StatusRetired); err != nil {
		t.Fatalf("retire vessel: %v", err)
	}
	_, ext, _ = e.GetAsset(cradleID)
	c = ext.(*asset.Cradle)
	if c.Occupancy != "" || c.CurrentLoad != 0 {
		t.Errorf("after retire: occupancy=%q load=%v", c.Occupancy, c.CurrentLoad)
	}

	// Retired is terminal.
	err = e.Transition(vesselID, asset.StatusOperational)
	if !errors.Is(err, asset.ErrInvalidTransition) {
		t.Errorf("revive retired: got %v, want ErrInvalidTransition", err)
	}

	var sawRetired bool
	for _, typ := range rec.types() {
		if typ == EventAssetRetired {
			sawRetired = true
		}
	}
	if !sawRetired {
		t.Error("no retired event emitted")
	}
}

func TestTelemetryFlowsToRollup(t *testing.T) {
	e := testEngine(t)

	trolleyID, err := e.CreateAsset(registry.NewAsset{
		Type: asset.TypeTrolley, Name: "Trolley 7",
		Extension: &asset.Trolley{WheelCount: 2},
	})
	if err != nil {
		t.Fatalf("create trolley: %v", err)
	}
	vesselID, err := e.CreateAsset(registry.NewAsset{
		Type: asset.TypeVessel, Name: "MV Orla",
		Extension: &asset.Vessel{Weight: 800},
	})
	if err != nil {
		t.Fatalf("create vessel: %v", err)
	}

	for _, rd := range []asset.WheelReading{
		{TrolleyID: trolleyID, Wheel: 0, Kind: asset.ReadingLoad, Value: 100},
		{TrolleyID: trolleyID, Wheel: 1, Kind: asset.ReadingLoad, Value: 30},
		{TrolleyID: trolleyID, Wheel: 0, Kind: asset.ReadingTemperature, Value: 68.5},
	} {
		if err := e.RecordWheelReading(rd); err != nil {
			t.Fatalf("record %v: %v", rd, err)
		}
	}

	_, ext, _ := e.GetAsset(trolleyID)
	tr := ext.(*asset.Trolley)
	if tr.CurrentLoad != 130 {
		t.Errorf("trolley load: got %v, want 130", tr.CurrentLoad)
	}

	// No vessel assigned yet: temperature is retained and pushed on
	// assignment.
	if err := e.SetReference(trolleyID, registry.RelTrolleyVessel, vesselID); err != nil {
		t.Fatalf("assign vessel: %v", err)
	}
	_, ext, _ = e.GetAsset(vesselID)
	v := ext.(*asset.Vessel)
	if v.BearingTemperature != 68.5 {
		t.Errorf("retained temperature: got %v, want 68.5", v.BearingTemperature)
	}

	// Out of range wheel index is rejected.
	err = e.RecordWheelReading(asset.WheelReading{TrolleyID: trolleyID, Wheel: 2, Kind: asset.ReadingLoad, Value: 1})
	if !errors.Is(err, asset.ErrOutOfRange) {
		t.Errorf("wheel 2 of 2: got %v, want ErrOutOfRange", err)
	}

	row, err := e.GetRollup(vesselID)
	if err != nil {
		t.Fatalf("rollup: %v", err)
	}
	if row.ShipsInTransfer != 1 {
		t.Errorf("ships in transfer: got %d, want 1", row.ShipsInTransfer)
	}
	if row.StatusSummary == "" {
		t.Error("empty status summary")
	}
}

func TestCheckpointAndBootstrap(t *testing.T) {
	cfg := config.Defaults()
	cfg.Database.SQLite.Path = filepath.Join(t.TempDir(), "test.db")
	cfg.Rollup.RecomputeInterval = 0
	cfg.Rollup.CheckpointInterval = 0
	db, err := store.Open(&cfg.Database)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer db.Close()

	e := New(Config{AppConfig: cfg, DB: db, LogFunc: t.Logf})
	if err := e.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	cradleID, _ := e.CreateAsset(registry.NewAsset{Type: asset.TypeCradle, Name: "Cradle 1"})
	vesselID, _ := e.CreateAsset(registry.NewAsset{
		Type: asset.TypeVessel, Name: "MV Harland",
		Extension: &asset.Vessel{Weight: 500},
	})
	if err := e.SetReference(vesselID, registry.RelVesselCradle, cradleID); err != nil {
		t.Fatalf("assign: %v", err)
	}
	woID, err := e.OpenWorkOrder(asset.WorkOrder{WorkType: "hull inspection", VesselID: vesselID})
	if err != nil {
		t.Fatalf("open work order: %v", err)
	}
	e.Stop() // final checkpoint

	e2 := New(Config{AppConfig: cfg, DB: db, LogFunc: t.Logf})
	if err := e2.Start(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	defer e2.Stop()

	a, ext, err := e2.GetAsset(vesselID)
	if err != nil {
		t.Fatalf("get after restart: %v", err)
	}
	if a.Name != "MV Harland" {
		t.Errorf("restored name: %q", a.Name)
	}
	if v := ext.(*asset.Vessel); v.AssignedCradle != cradleID {
		t.Errorf("restored reference: %q, want %q", v.AssignedCradle, cradleID)
	}
	// The inbound index is rebuilt: retiring the vessel must still clear
	// the cradle occupancy.
	if err := e2.Transition(vesselID, asset.StatusRetired); err != nil {
		t.Fatalf("retire after restart: %v", err)
	}
	_, ext, _ = e2.GetAsset(cradleID)
	if c := ext.(*asset.Cradle); c.Occupancy != "" {
		t.Errorf("occupancy not cleared after restart: %q", c.Occupancy)
	}

	if _, err := e2.GetWorkOrder(woID); err != nil {
		t.Errorf("work order lost across restart: %v", err)
	}
}

func TestWorkOrderLifecycle(t *testing.T) {
	e := testEngine(t)

	_, err := e.OpenWorkOrder(asset.WorkOrder{WorkType: "paint", VesselID: "nope"})
	if !errors.Is(err, asset.ErrUnknownVessel) {
		t.Fatalf("unknown vessel: got %v, want ErrUnknownVessel", err)
	}

	vesselID, _ := e.CreateAsset(registry.NewAsset{Type: asset.TypeVessel, Name: "MV Orla"})
	id, err := e.OpenWorkOrder(asset.WorkOrder{WorkType: "paint", VesselID: vesselID})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if err := e.TransitionWorkOrder(id, asset.WorkOrderInProgress); err != nil {
		t.Fatalf("open -> in_progress: %v", err)
	}
	if err := e.TransitionWorkOrder(id, asset.WorkOrderOpen); !errors.Is(err, asset.ErrInvalidTransition) {
		t.Errorf("in_progress -> open: got %v, want ErrInvalidTransition", err)
	}
	if err := e.TransitionWorkOrder(id, asset.WorkOrderClosed); err != nil {
		t.Fatalf("in_progress -> closed: %v", err)
	}
	if err := e.TransitionWorkOrder(id, asset.WorkOrderInProgress); !errors.Is(err, asset.ErrInvalidTransition) {
		t.Errorf("reopen closed: got %v, want ErrInvalidTransition", err)
	}

	wo, _ := e.GetWorkOrder(id)
	if wo.Status != asset.WorkOrderClosed || wo.EndDate.IsZero() {
		t.Errorf("closed order: %+v", wo)
	}
}

func TestAuditTrailFollowsMutations(t *testing.T) {
	e := testEngine(t)

	vesselID, err := e.CreateAsset(registry.NewAsset{Type: asset.TypeVessel, Name: "MV Harland"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := e.Transition(vesselID, asset.StatusMaintenance); err != nil {
		t.Fatalf("transition: %v", err)
	}

	entries, err := e.RecentAudit(10)
	if err != nil {
		t.Fatalf("recent audit: %v", err)
	}
	if len(entries) < 2 {
		t.Fatalf("got %d audit entries, want at least 2", len(entries))
	}
	if entries[0].Action != "transition" || entries[0].EntityID != vesselID {
		t.Errorf("latest entry: %+v", entries[0])
	}
}
