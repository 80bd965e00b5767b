package telemetry

import (
	"errors"
	"testing"
	"time"

	"yardcore/asset"
	"yardcore/registry"
)

type fakeLedger struct {
	appended []asset.WheelReading
}

func (f *fakeLedger) AppendReading(rd asset.WheelReading) error {
	f.appended = append(f.appended, rd)
	return nil
}

func testSetup(t *testing.T) (*registry.Registry, *Aggregator, *fakeLedger) {
	t.Helper()
	r := registry.New(registry.DefaultPolicy())
	seed := []registry.NewAsset{
		{ID: "t1", Type: asset.TypeTrolley, Extension: &asset.Trolley{WheelCount: 4}},
		{ID: "v1", Type: asset.TypeVessel, Extension: &asset.Vessel{Weight: 900}},
	}
	for _, n := range seed {
		if _, err := r.Create(n); err != nil {
			t.Fatalf("seed %s: %v", n.ID, err)
		}
	}
	ledger := &fakeLedger{}
	agg := New(r, ledger)
	return r, agg, ledger
}

func reading(wheel int, kind asset.ReadingKind, value float64, at time.Time) asset.WheelReading {
	return asset.WheelReading{TrolleyID: "t1", Wheel: wheel, Kind: kind, Value: value, Timestamp: at}
}

func TestLoadSumLatestWins(t *testing.T) {
	r, agg, _ := testSetup(t)
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	if err := agg.Record(reading(0, asset.ReadingLoad, 100, base)); err != nil {
		t.Fatalf("wheel 0: %v", err)
	}
	if err := agg.Record(reading(1, asset.ReadingLoad, 50, base.Add(time.Second))); err != nil {
		t.Fatalf("wheel 1: %v", err)
	}
	if got := agg.CurrentLoadSum("t1"); got != 150 {
		t.Errorf("sum: %v", got)
	}

	// A newer sample for wheel 1 replaces its slot, not accumulates.
	if err := agg.Record(reading(1, asset.ReadingLoad, 30, base.Add(2*time.Second))); err != nil {
		t.Fatalf("wheel 1 update: %v", err)
	}
	if got := agg.CurrentLoadSum("t1"); got != 130 {
		t.Errorf("sum after replace: %v", got)
	}
	_, ext, _ := r.Get("t1")
	if tr := ext.(*asset.Trolley); tr.CurrentLoad != 130 {
		t.Errorf("trolley CurrentLoad: %v", tr.CurrentLoad)
	}
}

func TestStaleSampleLedgerOnly(t *testing.T) {
	_, agg, ledger := testSetup(t)
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	if err := agg.Record(reading(0, asset.ReadingLoad, 200, base.Add(time.Minute))); err != nil {
		t.Fatalf("current: %v", err)
	}
	if err := agg.Record(reading(0, asset.ReadingLoad, 999, base)); err != nil {
		t.Fatalf("stale: %v", err)
	}
	if got := agg.CurrentLoadSum("t1"); got != 200 {
		t.Errorf("stale sample regressed aggregate: %v", got)
	}
	if len(ledger.appended) != 2 {
		t.Errorf("ledger appends: %d", len(ledger.appended))
	}
}

func TestRecordValidation(t *testing.T) {
	_, agg, ledger := testSetup(t)
	now := time.Now()

	err := agg.Record(asset.WheelReading{TrolleyID: "ghost", Wheel: 0, Kind: asset.ReadingLoad, Value: 1, Timestamp: now})
	if !errors.Is(err, asset.ErrUnknownTrolley) {
		t.Errorf("unknown trolley: got %v", err)
	}
	err = agg.Record(reading(4, asset.ReadingLoad, 1, now))
	if !errors.Is(err, asset.ErrOutOfRange) {
		t.Errorf("wheel out of range: got %v", err)
	}
	err = agg.Record(asset.WheelReading{TrolleyID: "t1", Wheel: 0, Kind: asset.ReadingKind("vibration"), Value: 1, Timestamp: now})
	if !errors.Is(err, asset.ErrTypeMismatch) {
		t.Errorf("bad kind: got %v", err)
	}
	if len(ledger.appended) != 0 {
		t.Errorf("rejected readings reached the ledger: %d", len(ledger.appended))
	}
}

func TestZeroTimestampStamped(t *testing.T) {
	_, agg, ledger := testSetup(t)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	agg.SetClock(func() time.Time { return fixed })

	if err := agg.Record(asset.WheelReading{TrolleyID: "t1", Wheel: 0, Kind: asset.ReadingLoad, Value: 10}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(ledger.appended) != 1 || !ledger.appended[0].Timestamp.Equal(fixed) {
		t.Errorf("ledger timestamp: %+v", ledger.appended)
	}
}

func TestTemperaturePropagation(t *testing.T) {
	r, agg, _ := testSetup(t)
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	if err := r.SetReference("t1", registry.RelTrolleyVessel, "v1"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := agg.Record(reading(0, asset.ReadingTemperature, 61.5, base)); err != nil {
		t.Fatalf("temp 0: %v", err)
	}
	if err := agg.Record(reading(1, asset.ReadingTemperature, 58.0, base.Add(time.Second))); err != nil {
		t.Fatalf("temp 1: %v", err)
	}
	_, ext, _ := r.Get("v1")
	if v := ext.(*asset.Vessel); v.BearingTemperature != 61.5 {
		t.Errorf("vessel bearing temperature: %v", v.BearingTemperature)
	}
}

func TestRetainedTemperatureFlushed(t *testing.T) {
	r, agg, _ := testSetup(t)
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	// No vessel assigned yet: the maximum is retained, not dropped.
	if err := agg.Record(reading(2, asset.ReadingTemperature, 68.5, base)); err != nil {
		t.Fatalf("temp: %v", err)
	}
	_, ext, _ := r.Get("v1")
	if v := ext.(*asset.Vessel); v.BearingTemperature != 0 {
		t.Errorf("premature propagation: %v", v.BearingTemperature)
	}

	if err := r.SetReference("t1", registry.RelTrolleyVessel, "v1"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	agg.Flush("t1")
	_, ext, _ = r.Get("v1")
	if v := ext.(*asset.Vessel); v.BearingTemperature != 68.5 {
		t.Errorf("retained temperature not flushed: %v", v.BearingTemperature)
	}
}

func TestTemperatureDirtyCallback(t *testing.T) {
	_, agg, _ := testSetup(t)
	var dirty []string
	agg.OnDirty(func(ids ...string) { dirty = append(dirty, ids...) })

	if err := agg.Record(reading(0, asset.ReadingTemperature, 40, time.Now())); err != nil {
		t.Fatalf("temp: %v", err)
	}
	if len(dirty) != 1 || dirty[0] != "t1" {
		t.Errorf("dirty callback: %v", dirty)
	}
}
