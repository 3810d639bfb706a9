package repository

import "context"

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS invoices (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	invoice_number TEXT NOT NULL UNIQUE,
	invoice_date TIMESTAMP NOT NULL,
	supplier_name TEXT NOT NULL DEFAULT 'N/A',
	supplier_tax_code TEXT NOT NULL DEFAULT '',
	supplier_address TEXT NOT NULL DEFAULT '',
	subtotal REAL NOT NULL DEFAULT 0,
	tax_rate REAL NOT NULL DEFAULT 10,
	tax_amount REAL NOT NULL DEFAULT 0,
	total_amount REAL NOT NULL DEFAULT 0,
	description TEXT NOT NULL DEFAULT '',
	items TEXT NOT NULL DEFAULT '',
	account_code TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'pending',
	approved_by TEXT NOT NULL DEFAULT '',
	approved_by_username TEXT NOT NULL DEFAULT '',
	approved_at TIMESTAMP,
	rejection_reason TEXT NOT NULL DEFAULT '',
	file_path TEXT NOT NULL DEFAULT '',
	raw_ocr_text TEXT NOT NULL DEFAULT '',
	created_by_user_id INTEGER NOT NULL DEFAULT 0,
	created_by_username TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_invoices_status ON invoices (status);
CREATE INDEX IF NOT EXISTS idx_invoices_created_by ON invoices (created_by_user_id);
CREATE INDEX IF NOT EXISTS idx_invoices_invoice_date ON invoices (invoice_date);

CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	telegram_user_id INTEGER NOT NULL UNIQUE,
	username TEXT NOT NULL DEFAULT '',
	first_name TEXT NOT NULL DEFAULT '',
	last_name TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL DEFAULT 'user',
	department TEXT NOT NULL DEFAULT '',
	is_active INTEGER NOT NULL DEFAULT 1,
	total_submitted INTEGER NOT NULL DEFAULT 0,
	total_approved INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL,
	last_activity TIMESTAMP NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS invoices (
	id BIGSERIAL PRIMARY KEY,
	invoice_number TEXT NOT NULL UNIQUE,
	invoice_date TIMESTAMPTZ NOT NULL,
	supplier_name TEXT NOT NULL DEFAULT 'N/A',
	supplier_tax_code TEXT NOT NULL DEFAULT '',
	supplier_address TEXT NOT NULL DEFAULT '',
	subtotal DOUBLE PRECISION NOT NULL DEFAULT 0,
	tax_rate DOUBLE PRECISION NOT NULL DEFAULT 10,
	tax_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
	description TEXT NOT NULL DEFAULT '',
	items TEXT NOT NULL DEFAULT '',
	account_code TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'pending',
	approved_by TEXT NOT NULL DEFAULT '',
	approved_by_username TEXT NOT NULL DEFAULT '',
	approved_at TIMESTAMPTZ,
	rejection_reason TEXT NOT NULL DEFAULT '',
	file_path TEXT NOT NULL DEFAULT '',
	raw_ocr_text TEXT NOT NULL DEFAULT '',
	created_by_user_id BIGINT NOT NULL DEFAULT 0,
	created_by_username TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_invoices_status ON invoices (status);
CREATE INDEX IF NOT EXISTS idx_invoices_created_by ON invoices (created_by_user_id);
CREATE INDEX IF NOT EXISTS idx_invoices_invoice_date ON invoices (invoice_date);

CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	telegram_user_id BIGINT NOT NULL UNIQUE,
	username TEXT NOT NULL DEFAULT '',
	first_name TEXT NOT NULL DEFAULT '',
	last_name TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL DEFAULT 'user',
	department TEXT NOT NULL DEFAULT '',
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	total_submitted BIGINT NOT NULL DEFAULT 0,
	total_approved BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL,
	last_activity TIMESTAMPTZ NOT NULL
);
`

// migrate applies the idempotent schema for the active driver.
func (db *DB) migrate(ctx context.Context) error {
	schema := schemaSQLite
	if db.driver == driverPostgres {
		schema = schemaPostgres
	}
	_, err := db.sql.ExecContext(ctx, schema)
	return err
}
