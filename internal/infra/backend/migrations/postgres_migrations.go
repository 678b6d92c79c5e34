package migrations

// GetPostgresMigrations returns all PostgreSQL migrations in order
func GetPostgresMigrations() []Migration {
	return []Migration{
		{
			Version:     "001",
			Description: "Initial schema - pasteboard entries and change tokens",
			UpSQL: `
				CREATE TABLE IF NOT EXISTS pasteboard_state (
					pasteboard VARCHAR(255) PRIMARY KEY,
					change_token BIGINT NOT NULL DEFAULT 0
				);

				CREATE TABLE IF NOT EXISTS pasteboard_entries (
					pasteboard VARCHAR(255) NOT NULL,
					type TEXT NOT NULL,
					position INTEGER NOT NULL,
					data BYTEA,
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
