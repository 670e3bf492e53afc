package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS snapshots (
	id          TEXT PRIMARY KEY,
	range_key   TEXT NOT NULL,
	start_date  TEXT NOT NULL,
	end_date    TEXT NOT NULL,
	fetched_at  INTEGER NOT NULL,
	issues      TEXT NOT NULL DEFAULT '[]',
	worklogs    TEXT NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS idx_snapshots_range_key ON snapshots(range_key);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_snapshots_range_fetched
	ON snapshots(range_key, fetched_at DESC);

CREATE INDEX IF NOT EXISTS idx_snapshots_fetched_at
	ON snapshots(fetched_at);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
