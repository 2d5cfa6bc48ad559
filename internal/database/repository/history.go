package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jask/slideview/internal/database"
)

// HistoryRepo records viewing sessions and the slides shown in them.
type HistoryRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{db: db, now: database.Now}
}

// Start opens a new session for presentationID.
func (r *HistoryRepo) Start(ctx context.Context, presentationID string) (Session, error) {
	s := Session{
		ID:             uuid.NewString(),
		PresentationID: presentationID,
		StartedAt:      r.now(),
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO sessions(id, presentation_id, started_at, last_index) VALUES (?, ?, ?, 0);
	`, s.ID, s.PresentationID, s.StartedAt)
	if err != nil {
		return Session{}, fmt.Errorf("start session: %w", err)
	}
	return s, nil
}

// RecordView logs a slide shown in the session and moves its last index.
func (r *HistoryRepo) RecordView(ctx context.Context, sessionID string, index int, slideID string) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO slide_views(session_id, slide_index, slide_id, viewed_at) VALUES (?, ?, ?, ?);
		`, sessionID, index, slideID, r.now()); err != nil {
			return fmt.Errorf("record view: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE sessions SET last_index = ? WHERE id = ?`, index, sessionID); err != nil {
			return fmt.Errorf("update last index: %w", err)
		}
		return nil
	})
}

// End closes the session.
func (r *HistoryRepo) End(ctx context.Context, sessionID string, lastIndex int) error {
	_, err := r.db.ExecContext(ctx, `
	UPDATE sessions SET ended_at = ?, last_index = ? WHERE id = ? AND ended_at IS NULL;
	`, r.now(), lastIndex, sessionID)
	return err
}

// Get returns the session or nil when it does not exist.
func (r *HistoryRepo) Get(ctx context.Context, id string) (*Session, error) {
	row := r.db.QueryRowContext(ctx, sessionSelect+` WHERE s.id = ?`, id)
	s, err := scanSession(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// Recent lists the latest sessions, newest first.
func (r *HistoryRepo) Recent(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, sessionSelect+` ORDER BY s.started_at DESC, s.rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Views lists the slides shown in a session in viewing order.
func (r *HistoryRepo) Views(ctx context.Context, sessionID string) ([]SlideView, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT session_id, slide_index, slide_id, viewed_at FROM slide_views WHERE session_id = ? ORDER BY id
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SlideView
	for rows.Next() {
		var v SlideView
		if err := rows.Scan(&v.SessionID, &v.Index, &v.SlideID, &v.ViewedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// LastIndex returns where the most recent session of a presentation stopped.
func (r *HistoryRepo) LastIndex(ctx context.Context, presentationID string) (int, bool, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT last_index FROM sessions WHERE presentation_id = ? ORDER BY started_at DESC, rowid DESC LIMIT 1
	`, presentationID)
	var idx int
	if err := row.Scan(&idx); err != nil {
		if err == sql.ErrNoRows {
			return 0, false, nil
		}
		return 0, false, err
	}
	return idx, true, nil
}

const sessionSelect = `
SELECT s.id, s.presentation_id, s.started_at, s.ended_at, s.last_index,
	(SELECT COUNT(*) FROM slide_views v WHERE v.session_id = s.id)
FROM sessions s`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(sc scanner) (Session, error) {
	var s Session
	var ended sql.NullTime
	if err := sc.Scan(&s.ID, &s.PresentationID, &s.StartedAt, &ended, &s.LastIndex, &s.Views); err != nil {
		return Session{}, err
	}
	if ended.Valid {
		t := ended.Time
		s.EndedAt = &t
	}
	return s, nil
}
