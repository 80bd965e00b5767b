// Package engine wires the in-memory yard model together: the asset
// registry, the telemetry aggregator, the work-order ledger and the rollup
// compiler, with the store underneath for bootstrap and checkpointing and
// Kafka on the side for event publication.
package engine

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"yardcore/config"
	"yardcore/ledger"
	"yardcore/messaging"
	"yardcore/registry"
	"yardcore/rollup"
	"yardcore/store"
	"yardcore/telemetry"
)

type LogFunc func(format string, args ...any)

type Config struct {
	AppConfig  *config.Config
	ConfigPath string
	DB         *store.DB
	Cache      *rollup.Cache
	MsgClient  *messaging.Client
	LogFunc    LogFunc
	Debug      bool
}

type Engine struct {
	cfg        *config.Config
	configPath string
	db         *store.DB
	registry   *registry.Registry
	aggregator *telemetry.Aggregator
	orders     *ledger.Ledger
	compiler   *rollup.Compiler
	msgClient  *messaging.Client
	Events     *EventBus
	logFn      LogFunc
	cron       *cron.Cron
	stopChan   chan struct{}

	msgConnected bool
}

func New(c Config) *Engine {
	logFn := c.LogFunc
	if logFn == nil {
		logFn = log.Printf
	}
	reg := registry.New(c.AppConfig.Policy)
	orders := ledger.New()

	var wheelLedger telemetry.Ledger
	if c.DB != nil {
		wheelLedger = c.DB
	}
	agg := telemetry.New(reg, wheelLedger)

	compiler := rollup.New(reg, orders)
	compiler.SetLogFunc(func(format string, args ...any) { logFn(format, args...) })
	if c.Cache != nil {
		compiler.SetCache(c.Cache)
	}

	reg.OnDirty(compiler.MarkDirty)
	agg.OnDirty(compiler.MarkDirty)
	orders.OnDirty(compiler.MarkDirty)

	return &Engine{
		cfg:        c.AppConfig,
		configPath: c.ConfigPath,
		db:         c.DB,
		registry:   reg,
		aggregator: agg,
		orders:     orders,
		compiler:   compiler,
		msgClient:  c.MsgClient,
		Events:     NewEventBus(),
		logFn:      logFn,
		stopChan:   make(chan struct{}),
	}
}

func (e *Engine) Start() error {
	if e.db != nil {
		if err := e.bootstrap(); err != nil {
			return fmt.Errorf("engine bootstrap: %w", err)
		}
	}

	e.wireEventHandlers()

	e.cron = cron.New()
	if iv := e.cfg.Rollup.RecomputeInterval; iv > 0 {
		e.cron.AddFunc(fmt.Sprintf("@every %s", iv), e.compiler.RecomputeDirty)
	}
	if e.db != nil {
		if iv := e.cfg.Rollup.CheckpointInterval; iv > 0 {
			e.cron.AddFunc(fmt.Sprintf("@every %s", iv), func() {
				if err := e.Checkpoint(); err != nil {
					e.logFn("engine: checkpoint: %v", err)
				}
			})
		}
	}
	e.cron.Start()

	e.checkConnectionStatus()
	go e.connectionHealthLoop()

	e.logFn("engine: started")
	return nil
}

func (e *Engine) Stop() {
	select {
	case e.stopChan <- struct{}{}:
	default:
	}
	if e.cron != nil {
		e.cron.Stop()
	}
	if e.db != nil {
		if err := e.Checkpoint(); err != nil {
			e.logFn("engine: final checkpoint: %v", err)
		}
	}
	e.logFn("engine: stopped")
}

// bootstrap restores the in-memory model from the last checkpoint.
func (e *Engine) bootstrap() error {
	snap, err := e.db.Load()
	if err != nil {
		return err
	}
	for _, rec := range snap.Assets {
		if err := e.registry.Restore(rec.Asset, rec.Extension); err != nil {
			e.logFn("engine: restore asset %s: %v", rec.Asset.ID, err)
		}
	}
	for _, wo := range snap.Orders {
		if err := e.orders.Restore(wo); err != nil {
			e.logFn("engine: restore work order %s: %v", wo.ID, err)
		}
	}
	e.logFn("engine: restored %d assets, %d work orders", len(snap.Assets), len(snap.Orders))
	return nil
}

// Checkpoint writes the current in-memory image through to the store.
func (e *Engine) Checkpoint() error {
	pairs := e.registry.Snapshot()
	snap := &store.Snapshot{
		Assets:  make([]store.AssetRecord, 0, len(pairs)),
		Orders:  e.orders.List(),
		Rollups: e.compiler.Rows(),
	}
	for _, p := range pairs {
		snap.Assets = append(snap.Assets, store.AssetRecord{Asset: p.Asset, Extension: p.Extension})
	}
	return e.db.Save(snap)
}

// Accessors
func (e *Engine) DB() *store.DB                     { return e.db }
func (e *Engine) AppConfig() *config.Config         { return e.cfg }
func (e *Engine) ConfigPath() string                { return e.configPath }
func (e *Engine) Registry() *registry.Registry      { return e.registry }
func (e *Engine) Aggregator() *telemetry.Aggregator { return e.aggregator }
func (e *Engine) Orders() *ledger.Ledger            { return e.orders }
func (e *Engine) Compiler() *rollup.Compiler        { return e.compiler }
func (e *Engine) MsgClient() *messaging.Client      { return e.msgClient }

func (e *Engine) checkConnectionStatus() {
	if e.msgClient == nil {
		return
	}
	if e.msgClient.IsConnected() {
		if !e.msgConnected {
			e.msgConnected = true
			e.Events.Emit(Event{Type: EventMessagingConnected, Payload: ConnectionEvent{Detail: "messaging connected"}})
		}
	} else {
		if e.msgConnected {
			e.msgConnected = false
			e.Events.Emit(Event{Type: EventMessagingDisconnected, Payload: ConnectionEvent{Detail: "messaging disconnected"}})
		}
	}
}

func (e *Engine) connectionHealthLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-e.stopChan:
			return
		case <-ticker.C:
			e.checkConnectionStatus()
		}
	}
}
