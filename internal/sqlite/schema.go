package sqlite

// Schema DDL. kv holds the current value of each key; kv_history keeps every
// value ever written, keyed by a time-ordered UUID v7.
const (
	createKV = `CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value BLOB NOT NULL,
    updated_at TEXT NOT NULL
);`

	createKVHistory = `CREATE TABLE IF NOT EXISTS kv_history (
    history_id TEXT PRIMARY KEY,
    key TEXT NOT NULL,
    value BLOB NOT NULL,
    recorded_at TEXT NOT NULL
);`

	createKVHistoryIndex = `CREATE INDEX IF NOT EXISTS idx_kv_history_key ON kv_history(key);`
)

// schemaStatements lists the DDL executed on open, in order.
var schemaStatements = []string{
	createKV,
	createKVHistory,
	createKVHistoryIndex,
}
