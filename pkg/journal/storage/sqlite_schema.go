package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the journal database schema.
const Schema = `
-- Admission decision records
CREATE TABLE IF NOT EXISTS decisions (
    id TEXT PRIMARY KEY,
    resource TEXT NOT NULL,
    decision TEXT NOT NULL,
    occupancy INTEGER NOT NULL,
    rate INTEGER NOT NULL,
    period_ns INTEGER NOT NULL,
    retry_after_ns INTEGER NOT NULL,
    timestamp TEXT NOT NULL
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_decisions_timestamp ON decisions(timestamp);
CREATE INDEX IF NOT EXISTS idx_decisions_resource ON decisions(resource);
CREATE INDEX IF NOT EXISTS idx_decisions_decision ON decisions(decision);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
