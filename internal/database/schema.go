package database

// schema contains all table definitions. Each statement is idempotent (CREATE IF NOT EXISTS).
const schema = `
CREATE TABLE IF NOT EXISTS relay_snapshot (
    code       TEXT    PRIMARY KEY,
    hostname   TEXT    NOT NULL,
    public_key TEXT    NOT NULL,
    ipv4_addr  TEXT    NOT NULL,
    port       INTEGER NOT NULL,
    country    TEXT    NOT NULL,
    city       TEXT    NOT NULL
);

CREATE TABLE IF NOT EXISTS relay_snapshot_meta (
    id         INTEGER PRIMARY KEY CHECK (id = 1),
    fetched_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS tunnel_events (
    id        INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp INTEGER NOT NULL,
    action    TEXT    NOT NULL,
    code      TEXT    NOT NULL,
    detail    TEXT    NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_tunnel_events_ts
    ON tunnel_events (timestamp);
`
