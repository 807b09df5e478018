package postgres

// ProductSchema creates the product catalog table.
const ProductSchema = `
CREATE TABLE IF NOT EXISTS cat_products (
	id         UUID    PRIMARY KEY,
	code       TEXT    NOT NULL UNIQUE,
	name       TEXT    NOT NULL,
	unit       TEXT    NOT NULL,
	category   TEXT    NOT NULL DEFAULT 'other',
	available  BOOLEAN NOT NULL DEFAULT TRUE,
	sort_order INTEGER NOT NULL DEFAULT 0
)`

// ParseJournalSchema creates the parse journal table.
const ParseJournalSchema = `
CREATE TABLE IF NOT EXISTS sys_parse_journal (
	id                UUID        PRIMARY KEY,
	channel           TEXT        NOT NULL DEFAULT '',
	request_id        TEXT        NOT NULL DEFAULT '',
	raw_text          TEXT        NOT NULL,
	result            JSONB,
	result_compressed BYTEA,
	compression_algo  TEXT        NOT NULL DEFAULT 'none',
	item_count        INTEGER     NOT NULL DEFAULT 0,
	matched_count     INTEGER     NOT NULL DEFAULT 0,
	degraded          BOOLEAN     NOT NULL DEFAULT FALSE,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS sys_parse_journal_created_at_idx ON sys_parse_journal (created_at DESC)`
