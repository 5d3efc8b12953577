package store

import (
	"context"
	"database/sql"
	"time"
)

// Attempt lifecycle actions recorded in the local log.
const (
	ActionStarted   = "started"
	ActionResumed   = "resumed"
	ActionExpired   = "expired"
	ActionSubmitted = "submitted"
	ActionFailed    = "submit_failed"
)

// AttemptEvent is one row of the append-only attempt log.
type AttemptEvent struct {
	AttemptID int
	SessionID string // client-generated uuid for one render of the attempt
	Action    string
	Answered  int
	Total     int
	CreatedAt time.Time
}

// AttemptLog records attempt lifecycle events and answers the "what can I
// resume?" question. It is an audit trail, not application state: the
// server stays authoritative for attempt status.
type AttemptLog interface {
	// Append records an event.
	Append(ctx context.Context, ev AttemptEvent) error

	// LastOpen returns the most recent attempt that was started or
	// resumed but never submitted. ok is false when there is none.
	LastOpen(ctx context.Context) (attemptID int, ok bool, err error)

	// LastSubmitted returns the most recently submitted attempt, for
	// pulling its analysis back up. ok is false when there is none.
	LastSubmitted(ctx context.Context) (attemptID int, ok bool, err error)

	// History returns up to limit events for one attempt, newest first.
	History(ctx context.Context, attemptID, limit int) ([]AttemptEvent, error)
}

// MarkRepo persists countdown/cooldown start timestamps for short-lived,
// same-device recovery. The session timer never restores remaining time
// from these; they only inform display (e.g. "started 12m ago").
type MarkRepo interface {
	Save(ctx context.Context, scope string, startedAt time.Time) error
	Load(ctx context.Context, scope string) (time.Time, bool, error)
	Delete(ctx context.Context, scope string) error
}

type attemptLog struct {
	db *sql.DB
}

func (r *attemptLog) Append(ctx context.Context, ev AttemptEvent) error {
	created := ev.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO attempt_events (attempt_id, session_id, action, answered, total, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ev.AttemptID, ev.SessionID, ev.Action, ev.Answered, ev.Total, created,
	)
	return err
}

func (r *attemptLog) LastOpen(ctx context.Context) (int, bool, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT attempt_id FROM attempt_events
		 WHERE action IN (?, ?)
		   AND attempt_id NOT IN (
			SELECT attempt_id FROM attempt_events WHERE action = ?
		   )
		 ORDER BY id DESC LIMIT 1`,
		ActionStarted, ActionResumed, ActionSubmitted,
	)
	var id int
	switch err := row.Scan(&id); err {
	case nil:
		return id, true, nil
	case sql.ErrNoRows:
		return 0, false, nil
	default:
		return 0, false, err
	}
}

func (r *attemptLog) LastSubmitted(ctx context.Context) (int, bool, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT attempt_id FROM attempt_events
		 WHERE action = ?
		 ORDER BY id DESC LIMIT 1`,
		ActionSubmitted,
	)
	var id int
	switch err := row.Scan(&id); err {
	case nil:
		return id, true, nil
	case sql.ErrNoRows:
		return 0, false, nil
	default:
		return 0, false, err
	}
}

func (r *attemptLog) History(ctx context.Context, attemptID, limit int) ([]AttemptEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT attempt_id, session_id, action, answered, total, created_at
		 FROM attempt_events WHERE attempt_id = ?
		 ORDER BY id DESC LIMIT ?`,
		attemptID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []AttemptEvent
	for rows.Next() {
		var ev AttemptEvent
		if err := rows.Scan(&ev.AttemptID, &ev.SessionID, &ev.Action, &ev.Answered, &ev.Total, &ev.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

type markRepo struct {
	db *sql.DB
}

func (r *markRepo) Save(ctx context.Context, scope string, startedAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO countdown_marks (scope, started_at) VALUES (?, ?)
		 ON CONFLICT(scope) DO UPDATE SET started_at = excluded.started_at`,
		scope, startedAt.UTC(),
	)
	return err
}

func (r *markRepo) Load(ctx context.Context, scope string) (time.Time, bool, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT started_at FROM countdown_marks WHERE scope = ?`, scope)
	var t time.Time
	switch err := row.Scan(&t); err {
	case nil:
		return t, true, nil
	case sql.ErrNoRows:
		return time.Time{}, false, nil
	default:
		return time.Time{}, false, err
	}
}

func (r *markRepo) Delete(ctx context.Context, scope string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM countdown_marks WHERE scope = ?`, scope)
	return err
}
