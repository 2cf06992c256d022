package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    name          TEXT NOT NULL,
    email         TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'EMPLOYEE' CHECK (role IN ('MANAGER', 'EMPLOYEE')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_active
    ON users(email) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS images (
    key        TEXT PRIMARY KEY,
    data       BLOB NOT NULL,
    mime       TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS consignments (
    id             INTEGER PRIMARY KEY,
    date           TEXT NOT NULL,
    lot_code       TEXT NOT NULL UNIQUE,
    type           TEXT NOT NULL CHECK (type IN ('INCOME', 'CONSIGNMENT', 'PAWN', 'REPAIR')),
    consignor_name TEXT NOT NULL,
    contact_number TEXT NOT NULL DEFAULT '',
    address        TEXT NOT NULL DEFAULT '',
    total_price    TEXT NOT NULL DEFAULT '0',
    user_id        INTEGER NOT NULL REFERENCES users(id),
    created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_consignments_type ON consignments(type);
CREATE INDEX IF NOT EXISTS idx_consignments_user ON consignments(user_id);

CREATE TABLE IF NOT EXISTS consignment_images (
    consignment_id INTEGER NOT NULL REFERENCES consignments(id) ON DELETE CASCADE,
    position       INTEGER NOT NULL,
    image_key      TEXT NOT NULL,
    PRIMARY KEY (consignment_id, position)
);

CREATE TABLE IF NOT EXISTS items (
    id                 INTEGER PRIMARY KEY,
    consignment_id     INTEGER NOT NULL REFERENCES consignments(id) ON DELETE CASCADE,
    product_name       TEXT NOT NULL,
    category           TEXT NOT NULL DEFAULT 'other'
                       CHECK (category IN ('camera', 'lens', 'tripod', 'battery', 'film', 'strap', 'other')),
    condition          TEXT NOT NULL DEFAULT '',
    product_status     TEXT NOT NULL DEFAULT '',
    status             TEXT NOT NULL DEFAULT 'ready',
    repair_status      TEXT NOT NULL DEFAULT '',
    pawn_status        TEXT NOT NULL DEFAULT '',
    condition_status   TEXT NOT NULL DEFAULT '',
    confirmed_price    TEXT NOT NULL DEFAULT '0',
    sales_price        TEXT,
    sales_channel      TEXT NOT NULL DEFAULT '',
    image_key          TEXT NOT NULL DEFAULT '',
    defect_images      TEXT NOT NULL DEFAULT '[]',
    condition_images   TEXT NOT NULL DEFAULT '[]',
    is_reserve_open    INTEGER NOT NULL DEFAULT 0,
    reserve_start_date TEXT NOT NULL DEFAULT '',
    reserve_end_date   TEXT NOT NULL DEFAULT '',
    repair_start_date  TEXT NOT NULL DEFAULT '',
    repair_end_date    TEXT NOT NULL DEFAULT '',
    redemption_price   TEXT,
    pawn_end_date      TEXT NOT NULL DEFAULT '',
    redemption_slips   TEXT NOT NULL DEFAULT '[]',
    slip_image         TEXT NOT NULL DEFAULT '',
    created_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_items_consignment ON items(consignment_id);

CREATE TABLE IF NOT EXISTS item_history (
    id         INTEGER PRIMARY KEY,
    item_id    INTEGER NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    workflow   TEXT NOT NULL,
    from_status TEXT NOT NULL DEFAULT '',
    to_status  TEXT NOT NULL,
    changed_by INTEGER REFERENCES users(id),
    changed_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS shop_profile (
    id          INTEGER PRIMARY KEY CHECK (id = 1),
    name        TEXT NOT NULL DEFAULT '',
    address     TEXT NOT NULL DEFAULT '',
    district    TEXT NOT NULL DEFAULT '',
    province    TEXT NOT NULL DEFAULT '',
    postal_code TEXT NOT NULL DEFAULT '',
    phone       TEXT NOT NULL DEFAULT '',
    line        TEXT NOT NULL DEFAULT '',
    shopee      TEXT NOT NULL DEFAULT '',
    facebook    TEXT NOT NULL DEFAULT '',
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: legacy rows stored the reservation flag as the text 'true'
	// or 'false'. Only the exact string 'true' counts as open.
	`UPDATE items SET is_reserve_open = CASE WHEN CAST(is_reserve_open AS TEXT) = 'true' THEN 1 ELSE 0 END
	     WHERE typeof(is_reserve_open) = 'text'`,
}

// EnsureSchema creates all tables and indexes if they don't already exist and
// applies pending migrations.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
