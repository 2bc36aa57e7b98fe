package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Session represents one recorded facepix run.
type Session struct {
	ID        string
	StartedAt time.Time

	// EndedAt stays zero until the session finishes.
	EndedAt time.Time

	Frames       int64
	FramesMasked int64
	FacesMasked  int64
	PeakFaces    int

	// Config is a JSON blob of the settings the session ran with.
	Config string
}

// SessionRepository provides CRUD operations for sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a new session row when a run starts.
func (r *SessionRepository) Create(sess *Session) error {
	if sess.StartedAt.IsZero() {
		sess.StartedAt = time.Now()
	}
	if sess.Config == "" {
		sess.Config = "{}"
	}

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, started_at, frames, frames_masked, faces_masked, peak_faces, config)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.StartedAt, sess.Frames, sess.FramesMasked, sess.FacesMasked, sess.PeakFaces, sess.Config,
	)
	if err != nil {
		return err
	}

	return nil
}

// Finish records the end of a session along with its final counters.
func (r *SessionRepository) Finish(sess *Session) error {
	if sess.EndedAt.IsZero() {
		sess.EndedAt = time.Now()
	}

	result, err := r.db.Exec(
		`UPDATE sessions SET ended_at = ?, frames = ?, frames_masked = ?, faces_masked = ?, peak_faces = ?
		 WHERE id = ?`,
		sess.EndedAt, sess.Frames, sess.FramesMasked, sess.FacesMasked, sess.PeakFaces, sess.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	sess := &Session{}
	var endedAt sql.NullTime

	err := r.db.QueryRow(
		`SELECT id, started_at, ended_at, frames, frames_masked, faces_masked, peak_faces, config
		 FROM sessions WHERE id = ?`,
		id,
	).Scan(&sess.ID, &sess.StartedAt, &endedAt, &sess.Frames, &sess.FramesMasked,
		&sess.FacesMasked, &sess.PeakFaces, &sess.Config)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if endedAt.Valid {
		sess.EndedAt = endedAt.Time
	}
	return sess, nil
}

// List retrieves the most recent sessions, newest first. A non-positive
// limit returns up to 50.
func (r *SessionRepository) List(limit int) ([]*Session, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, started_at, ended_at, frames, frames_masked, faces_masked, peak_faces, config
		 FROM sessions ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess := &Session{}
		var endedAt sql.NullTime

		err := rows.Scan(&sess.ID, &sess.StartedAt, &endedAt, &sess.Frames,
			&sess.FramesMasked, &sess.FacesMasked, &sess.PeakFaces, &sess.Config)
		if err != nil {
			return nil, err
		}

		if endedAt.Valid {
			sess.EndedAt = endedAt.Time
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// Delete removes a session record by its ID.
func (r *SessionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
