package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS ledger_entries (
    id                   TEXT PRIMARY KEY,
    position             INTEGER NOT NULL,
    date                 TEXT NOT NULL,
    weekday              INTEGER NOT NULL,
    weather_description  TEXT,
    temperature_max      REAL,
    item_name            TEXT NOT NULL,
    unit_price           TEXT,
    volume_ml            INTEGER NOT NULL DEFAULT 0,
    tier                 TEXT,
    suggested            INTEGER,
    saved_at             TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS http_cache (
    key                  TEXT PRIMARY KEY,
    body                 BLOB NOT NULL,
    expires_at           INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ledger_position ON ledger_entries(position);
CREATE INDEX IF NOT EXISTS idx_ledger_date ON ledger_entries(date);
CREATE INDEX IF NOT EXISTS idx_http_cache_expires ON http_cache(expires_at);
`
