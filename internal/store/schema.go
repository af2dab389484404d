package store

// records is a plain ordered key-value table. SQLite compares BLOBs with
// memcmp, so the primary key order is the lexicographic byte order of the
// encoded keys.
const schema = `
CREATE TABLE IF NOT EXISTS records (
    key BLOB PRIMARY KEY,
    value BLOB NOT NULL
) WITHOUT ROWID;

CREATE TABLE IF NOT EXISTS meta (
    name TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`
