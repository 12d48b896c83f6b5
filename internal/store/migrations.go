package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Photos table - stores the texture atlas catalog; each row maps a
		// photo to its cell origin in the atlas
		`CREATE TABLE IF NOT EXISTS photos (
			id TEXT PRIMARY KEY,
			label TEXT NOT NULL DEFAULT '',
			cell_x REAL NOT NULL,
			cell_y REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_photos_created_at ON photos(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
