package migrations

// GetSQLiteMigrations returns all SQLite migrations in order
func GetSQLiteMigrations() []Migration {
	return []Migration{
		{
			Version:     "001",
			Description: "Initial schema - pasteboard entries and change tokens",
			UpSQL: `
				CREATE TABLE IF NOT EXISTS pasteboard_state (
					pasteboard TEXT PRIMARY KEY,
					change_token INTEGER NOT NULL DEFAULT 0
				);

				CREATE TABLE IF NOT EXISTS pasteboard_entries (
					pasteboard TEXT NOT NULL,
					type TEXT NOT NULL,
					position INTEGER NOT NULL,
					data BLOB,
					PRIMARY KEY (pasteboard, type)
				);

				CREATE INDEX IF NOT EXISTS idx_pasteboard_entries_position ON pasteboard_entries(pasteboard, position);
			`,
			DownSQL: `
				DROP INDEX IF EXISTS idx_pasteboard_entries_position;
				DROP TABLE IF EXISTS pasteboard_entries;
				DROP TABLE IF EXISTS pasteboard_state;
			`,
		},
	}
}
