package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Sessions table - one row per facepix run
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			ended_at DATETIME,
			frames INTEGER NOT NULL DEFAULT 0,
			frames_masked INTEGER NOT NULL DEFAULT 0,
			faces_masked INTEGER NOT NULL DEFAULT 0,
			peak_faces INTEGER NOT NULL DEFAULT 0,
			config TEXT NOT NULL DEFAULT '{}'
		)`,

		// Index for listing recent sessions
		`CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
