package store

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS assets (
    id TEXT PRIMARY KEY,
    asset_type TEXT NOT NULL,
    name TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'operational',
    created_at TEXT NOT NULL DEFAULT '',
    updated_at TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS cradles (
    asset_id TEXT PRIMARY KEY,
    cradle_name TEXT NOT NULL DEFAULT '',
    capacity REAL NOT NULL DEFAULT 0,
    max_ship_length REAL NOT NULL DEFAULT 0,
    location TEXT NOT NULL DEFAULT '',
    last_maintenance_date TEXT NOT NULL DEFAULT '',
    next_maintenance_due TEXT NOT NULL DEFAULT '',
    operational_since TEXT NOT NULL DEFAULT '',
    notes TEXT NOT NULL DEFAULT '',
    occupancy TEXT NOT NULL DEFAULT '',
    current_load REAL NOT NULL DEFAULT 0,
    structural_stress TEXT NOT NULL DEFAULT '',
    wear_level TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS vessels (
    asset_id TEXT PRIMARY KEY,
    vessel_name TEXT NOT NULL DEFAULT '',
    vessel_type TEXT NOT NULL DEFAULT '',
    weight REAL NOT NULL DEFAULT 0,
    length REAL NOT NULL DEFAULT 0,
    width REAL NOT NULL DEFAULT 0,
    draft REAL NOT NULL DEFAULT 0,
    last_maintenance_date TEXT NOT NULL DEFAULT '',
    next_maintenance_due TEXT NOT NULL DEFAULT '',
    birthing_area TEXT NOT NULL DEFAULT '',
    operational_since TEXT NOT NULL DEFAULT '',
    owner_company TEXT NOT NULL DEFAULT '',
    notes TEXT NOT NULL DEFAULT '',
    assigned_cradle TEXT NOT NULL DEFAULT '',
    transfer_completed INTEGER NOT NULL DEFAULT 0,
    estimated_time_to_destination TEXT NOT NULL DEFAULT '',
    bearing_temperature REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS rails (
    asset_id TEXT PRIMARY KEY,
    rail_name TEXT NOT NULL DEFAULT '',
    length REAL NOT NULL DEFAULT 0,
    capacity REAL NOT NULL DEFAULT 0,
    last_inspection_date TEXT NOT NULL DEFAULT '',
    next_inspection_due TEXT NOT NULL DEFAULT '',
    operational_since TEXT NOT NULL DEFAULT '',
    notes TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS trolleys (
    asset_id TEXT PRIMARY KEY,
    trolley_name TEXT NOT NULL DEFAULT '',
    wheel_count INTEGER NOT NULL DEFAULT 0,
    max_capacity REAL NOT NULL DEFAULT 0,
    location TEXT NOT NULL DEFAULT '',
    last_maintenance_date TEXT NOT NULL DEFAULT '',
    next_maintenance_due TEXT NOT NULL DEFAULT '',
    notes TEXT NOT NULL DEFAULT '',
    rail_id TEXT NOT NULL DEFAULT '',
    assigned_vessel_id TEXT NOT NULL DEFAULT '',
    current_load REAL NOT NULL DEFAULT 0,
    speed REAL NOT NULL DEFAULT 0,
    utilization_rate TEXT NOT NULL DEFAULT '',
    average_transfer_time TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS lifts (
    asset_id TEXT PRIMARY KEY,
    lift_name TEXT NOT NULL DEFAULT '',
    platform_length REAL NOT NULL DEFAULT 0,
    platform_width REAL NOT NULL DEFAULT 0,
    max_ship_draft REAL NOT NULL DEFAULT 0,
    max_capacity REAL NOT NULL DEFAULT 0,
    location TEXT NOT NULL DEFAULT '',
    last_maintenance_date TEXT NOT NULL DEFAULT '',
    next_maintenance_due TEXT NOT NULL DEFAULT '',
    operational_since TEXT NOT NULL DEFAULT '',
    notes TEXT NOT NULL DEFAULT '',
    assigned_vessel_id TEXT NOT NULL DEFAULT '',
    current_load REAL NOT NULL DEFAULT 0,
    historical_usage_hours REAL NOT NULL DEFAULT 0,
    utilization_rate TEXT NOT NULL DEFAULT '',
    average_transfer_time TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS inventory (
    asset_id TEXT PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    location TEXT NOT NULL DEFAULT '',
    quantity REAL NOT NULL DEFAULT 0,
    last_updated TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS assets_maintenance (
    asset_id TEXT PRIMARY KEY,
    asset_name TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    date_performed TEXT NOT NULL DEFAULT '',
    performed_by TEXT NOT NULL DEFAULT '',
    next_due_date TEXT NOT NULL DEFAULT '',
    historical_usage_hours REAL NOT NULL DEFAULT 0,
    remaining_lifespan_hours REAL NOT NULL DEFAULT 0,
    status_summary TEXT NOT NULL DEFAULT '',
    ships_in_transfer INTEGER NOT NULL DEFAULT 0,
    operational_lifts INTEGER NOT NULL DEFAULT 0,
    operational_trolleys INTEGER NOT NULL DEFAULT 0,
    updated_at TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS work_orders (
    id TEXT PRIMARY KEY,
    work_type TEXT NOT NULL DEFAULT '',
    assigned_to TEXT NOT NULL DEFAULT '',
    start_date TEXT NOT NULL DEFAULT '',
    end_date TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'open',
    notes TEXT NOT NULL DEFAULT '',
    vessel_name TEXT NOT NULL DEFAULT '',
    vessel_id TEXT NOT NULL DEFAULT '',
    updated_at TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS wheels_load (
    id TEXT PRIMARY KEY,
    trolley TEXT NOT NULL,
    wheel INTEGER NOT NULL,
    current_load REAL NOT NULL DEFAULT 0,
    recorded_at TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_wheels_load_trolley ON wheels_load (trolley, wheel);

CREATE TABLE IF NOT EXISTS wheels_temperature (
    id TEXT PRIMARY KEY,
    trolley TEXT NOT NULL,
    wheel INTEGER NOT NULL,
    bearing_temperature REAL NOT NULL DEFAULT 0,
    recorded_at TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_wheels_temperature_trolley ON wheels_temperature (trolley, wheel);

CREATE TABLE IF NOT EXISTS audit_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    at TEXT NOT NULL DEFAULT (datetime('now','localtime')),
    actor TEXT NOT NULL DEFAULT '',
    action TEXT NOT NULL DEFAULT '',
    entity TEXT NOT NULL DEFAULT '',
    entity_id TEXT NOT NULL DEFAULT '',
    detail TEXT NOT NULL DEFAULT ''
);
`
