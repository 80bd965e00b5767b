// Package telemetry ingests per-wheel load and temperature readings and
// reduces them to the latest value per (trolley, wheel, kind). Sums and
// maxima are republished onto the owning trolley and its assigned vessel.
package telemetry

import (
	"fmt"
	"log"
	"sync"
	"time"

	"yardcore/asset"
	"yardcore/registry"
)

// Ledger receives every accepted reading, append-only. Out-of-order samples
// land here even when they lose the latest-value race.
type Ledger interface {
	AppendReading(rd asset.WheelReading) error
}

type Aggregator struct {
	mu       sync.Mutex // guards the trolleys map, not the per-trolley state
	trolleys map[string]*trolleyState

	reg     *registry.Registry
	ledger  Ledger
	onDirty registry.DirtyFunc
	now     func() time.Time
}

// trolleyState holds one latest-value slot per wheel per kind. Its own lock
// keeps ingestion for different trolleys fully parallel.
type trolleyState struct {
	mu   sync.Mutex
	load []slot
	temp []slot

	// pendingTemp is the per-wheel maximum retained while no vessel is
	// assigned, propagated on the next assignment.
	pendingTemp float64
	hasTemp     bool
}

type slot struct {
	value float64
	at    time.Time
	seen  bool
}

func New(reg *registry.Registry, ledger Ledger) *Aggregator {
	return &Aggregator{
		trolleys: make(map[string]*trolleyState),
		reg:      reg,
		ledger:   ledger,
		now:      time.Now,
	}
}

// OnDirty registers the rollup invalidation callback for aggregate updates
// that do not touch a registry record (retained temperatures).
func (a *Aggregator) OnDirty(fn registry.DirtyFunc) { a.onDirty = fn }

func (a *Aggregator) SetClock(now func() time.Time) { a.now = now }

func (a *Aggregator) state(trolleyID string, wheelCount int) *trolleyState {
	a.mu.Lock()
	defer a.mu.Unlock()
	st, ok := a.trolleys[trolleyID]
	if !ok {
		st = &trolleyState{}
		a.trolleys[trolleyID] = st
	}
	st.mu.Lock()
	for len(st.load) < wheelCount {
		st.load = append(st.load, slot{})
	}
	for len(st.temp) < wheelCount {
		st.temp = append(st.temp, slot{})
	}
	st.mu.Unlock()
	return st
}

// Record validates and ingests one reading. A reading older than the stored
// latest for its wheel and kind still reaches the ledger but never regresses
// the aggregate.
func (a *Aggregator) Record(rd asset.WheelReading) error {
	wheelCount, err := a.reg.TrolleyWheelCount(rd.TrolleyID)
	if err != nil {
		return err
	}
	if rd.Wheel < 0 || rd.Wheel >= wheelCount {
		return fmt.Errorf("trolley %s wheel %d of %d: %w", rd.TrolleyID, rd.Wheel, wheelCount, asset.ErrOutOfRange)
	}
	switch rd.Kind {
	case asset.ReadingLoad, asset.ReadingTemperature:
	default:
		return fmt.Errorf("reading kind %q: %w", rd.Kind, asset.ErrTypeMismatch)
	}
	if rd.Timestamp.IsZero() {
		rd.Timestamp = a.now()
	}

	if a.ledger != nil {
		if err := a.ledger.AppendReading(rd); err != nil {
			log.Printf("telemetry: ledger append for trolley %s: %v", rd.TrolleyID, err)
		}
	}

	st := a.state(rd.TrolleyID, wheelCount)
	st.mu.Lock()
	defer st.mu.Unlock()

	slots := st.load
	if rd.Kind == asset.ReadingTemperature {
		slots = st.temp
	}
	s := &slots[rd.Wheel]
	if s.seen && rd.Timestamp.Before(s.at) {
		return nil // stale sample, ledger only
	}
	s.value = rd.Value
	s.at = rd.Timestamp
	s.seen = true

	switch rd.Kind {
	case asset.ReadingLoad:
		sum := 0.0
		for _, sl := range st.load {
			if sl.seen {
				sum += sl.value
			}
		}
		if err := a.reg.ApplyTrolleyLoad(rd.TrolleyID, sum); err != nil {
			return err
		}
	case asset.ReadingTemperature:
		max := 0.0
		first := true
		for _, sl := range st.temp {
			if !sl.seen {
				continue
			}
			if first || sl.value > max {
				max = sl.value
				first = false
			}
		}
		st.pendingTemp = max
		st.hasTemp = true
		vesselID, err := a.reg.TrolleyAssignedVessel(rd.TrolleyID)
		if err != nil {
			return err
		}
		if vesselID != "" {
			if err := a.reg.ApplyVesselBearingTemperature(vesselID, max); err != nil {
				return err
			}
		}
		if a.onDirty != nil {
			a.onDirty(rd.TrolleyID)
		}
	}
	return nil
}

// Flush propagates a retained temperature aggregate to the trolley's newly
// assigned vessel. Called after a trolley-to-vessel reference is set.
func (a *Aggregator) Flush(trolleyID string) {
	a.mu.Lock()
	st, ok := a.trolleys[trolleyID]
	a.mu.Unlock()
	if !ok {
		return
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if !st.hasTemp {
		return
	}
	vesselID, err := a.reg.TrolleyAssignedVessel(trolleyID)
	if err != nil || vesselID == "" {
		return
	}
	if err := a.reg.ApplyVesselBearingTemperature(vesselID, st.pendingTemp); err != nil {
		log.Printf("telemetry: propagate temperature to vessel %s: %v", vesselID, err)
	}
}

// CurrentLoadSum reports the aggregate the trolley field is derived from.
func (a *Aggregator) CurrentLoadSum(trolleyID string) float64 {
	a.mu.Lock()
	st, ok := a.trolleys[trolleyID]
	a.mu.Unlock()
	if !ok {
		return 0
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	sum := 0.0
	for _, sl := range st.load {
		if sl.seen {
			sum += sl.value
		}
	}
	return sum
}
