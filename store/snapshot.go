package store

import (
	"fmt"

	"yardcore/asset"
)

// Snapshot is the persisted image of the in-memory engine: identities with
// their extensions, the work-order ledger and the compiled rollup rows.
// Wheel readings and the audit trail are append-only and not part of it.
type Snapshot struct {
	Assets  []AssetRecord
	Orders  []asset.WorkOrder
	Rollups []asset.Maintenance
}

type AssetRecord struct {
	Asset     asset.Asset
	Extension any
}

// Save replaces the snapshot tables with the given image in one transaction.
func (db *DB) Save(s *Snapshot) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{
		"assets", "cradles", "vessels", "rails", "trolleys", "lifts",
		"inventory", "work_orders", "assets_maintenance",
	} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("save snapshot: clear %s: %w", table, err)
		}
	}

	for i := range s.Assets {
		rec := &s.Assets[i]
		if err := db.upsertAsset(tx, &rec.Asset); err != nil {
			return err
		}
		if err := db.upsertExtension(tx, rec.Extension); err != nil {
			return fmt.Errorf("save snapshot: asset %s: %w", rec.Asset.ID, err)
		}
	}
	for i := range s.Orders {
		if err := db.upsertWorkOrder(tx, &s.Orders[i]); err != nil {
			return err
		}
	}
	for i := range s.Rollups {
		if err := db.upsertMaintenance(tx, &s.Rollups[i]); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (db *DB) upsertExtension(e execer, ext any) error {
	switch x := ext.(type) {
	case *asset.Cradle:
		return db.upsertCradle(e, x)
	case *asset.Vessel:
		return db.upsertVessel(e, x)
	case *asset.Rail:
		return db.upsertRail(e, x)
	case *asset.Trolley:
		return db.upsertTrolley(e, x)
	case *asset.Lift:
		return db.upsertLift(e, x)
	case *asset.InventoryItem:
		return db.upsertInventoryItem(e, x)
	case nil:
		return nil
	}
	return fmt.Errorf("unknown extension %T: %w", ext, asset.ErrTypeMismatch)
}

// Load reads the snapshot tables back into memory form.
func (db *DB) Load() (*Snapshot, error) {
	assets, err := db.ListAssets()
	if err != nil {
		return nil, err
	}
	cradles, err := db.loadCradles()
	if err != nil {
		return nil, err
	}
	vessels, err := db.loadVessels()
	if err != nil {
		return nil, err
	}
	rails, err := db.loadRails()
	if err != nil {
		return nil, err
	}
	trolleys, err := db.loadTrolleys()
	if err != nil {
		return nil, err
	}
	lifts, err := db.loadLifts()
	if err != nil {
		return nil, err
	}
	inventory, err := db.loadInventory()
	if err != nil {
		return nil, err
	}

	s := &Snapshot{Assets: make([]AssetRecord, 0, len(assets))}
	for _, a := range assets {
		rec := AssetRecord{Asset: a}
		switch a.Type {
		case asset.TypeCradle:
			if x, ok := cradles[a.ID]; ok {
				rec.Extension = x
			}
		case asset.TypeVessel:
			if x, ok := vessels[a.ID]; ok {
				rec.Extension = x
			}
		case asset.TypeRail:
			if x, ok := rails[a.ID]; ok {
				rec.Extension = x
			}
		case asset.TypeTrolley:
			if x, ok := trolleys[a.ID]; ok {
				rec.Extension = x
			}
		case asset.TypeLift:
			if x, ok := lifts[a.ID]; ok {
				rec.Extension = x
			}
		case asset.TypeInventory:
			if x, ok := inventory[a.ID]; ok {
				rec.Extension = x
			}
		}
		s.Assets = append(s.Assets, rec)
	}

	if s.Orders, err = db.LoadWorkOrders(); err != nil {
		return nil, err
	}
	if s.Rollups, err = db.LoadMaintenance(); err != nil {
		return nil, err
	}
	return s, nil
}
