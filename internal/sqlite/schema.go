package sqlite

// Schema DDL. The database is rebuilt from the JSONL files on every Attach.
const (
	createViewers = `CREATE TABLE viewers (
    name TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    slots_per_container INTEGER NOT NULL,
    container_count INTEGER NOT NULL,
    record_format TEXT NOT NULL,
    variant_lock TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);`

	createSlots = `CREATE TABLE slots (
    viewer TEXT NOT NULL,
    container INTEGER NOT NULL,
    idx INTEGER NOT NULL,
    record_id TEXT NOT NULL DEFAULT '',
    payload BLOB,
    locked INTEGER NOT NULL DEFAULT 0,
    updated_at TEXT NOT NULL,
    PRIMARY KEY (viewer, container, idx),
    FOREIGN KEY (viewer) REFERENCES viewers(name)
);`
)

const (
	idxSlotsRecord = `CREATE INDEX idx_slots_record ON slots(record_id);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createViewers,
	createSlots,
}

var indexDDL = []string{
	idxSlotsRecord,
}
