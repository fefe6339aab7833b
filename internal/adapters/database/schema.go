package database

// FacilitiesSchema creates the facility catalog table
const FacilitiesSchema = `
CREATE TABLE IF NOT EXISTS facilities (
	id                       TEXT PRIMARY KEY,
	name                     TEXT NOT NULL,
	address                  TEXT NOT NULL DEFAULT '',
	latitude                 DOUBLE PRECISION NOT NULL,
	longitude                DOUBLE PRECISION NOT NULL,
	icu_beds_available       INTEGER NOT NULL DEFAULT 0 CHECK (icu_beds_available >= 0),
	emergency_beds_available INTEGER NOT NULL DEFAULT 0 CHECK (emergency_beds_available >= 0),
	specialists              TEXT[] NOT NULL DEFAULT '{}',
	phone_number             TEXT NOT NULL DEFAULT '',
	email                    TEXT NOT NULL DEFAULT '',
	whatsapp_number          TEXT NOT NULL DEFAULT '',
	catalog_rank             INTEGER NOT NULL DEFAULT 0,
	is_active                BOOLEAN NOT NULL DEFAULT TRUE,
	created_at               TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at               TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_facilities_active_rank ON facilities (is_active, catalog_rank);
`
