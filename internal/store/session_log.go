package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SessionRecord is one finished study session.
type SessionRecord struct {
	SessionID   string
	StartedAt   time.Time
	FinishedAt  time.Time
	Studied     int
	Total       int
	Again       int
	Hard        int
	Good        int
	Easy        int
	FocusCycles int
}

// QueryOpts configures session log queries.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	From  time.Time // finished_at >= From
}

// SessionLogRepo records finished study sessions.
type SessionLogRepo interface {
	// Append stores a session. Appending the same SessionID twice keeps the
	// latest values.
	Append(ctx context.Context, rec SessionRecord) error

	// Recent returns sessions newest first.
	Recent(ctx context.Context, opts QueryOpts) ([]SessionRecord, error)
}

type sessionLogRepo struct {
	db *sql.DB
}

func (r *sessionLogRepo) Append(ctx context.Context, rec SessionRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO study_sessions
			(session_id, started_at, finished_at, studied, total, again, hard, good, easy, focus_cycles)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET
			finished_at = excluded.finished_at,
			studied = excluded.studied,
			total = excluded.total,
			again = excluded.again,
			hard = excluded.hard,
			good = excluded.good,
			easy = excluded.easy,
			focus_cycles = excluded.focus_cycles`,
		rec.SessionID, rec.StartedAt.UTC(), rec.FinishedAt.UTC(),
		rec.Studied, rec.Total, rec.Again, rec.Hard, rec.Good, rec.Easy, rec.FocusCycles)
	if err != nil {
		return fmt.Errorf("append session: %w", err)
	}
	return nil
}

func (r *sessionLogRepo) Recent(ctx context.Context, opts QueryOpts) ([]SessionRecord, error) {
	q := `SELECT session_id, started_at, finished_at, studied, total, again, hard, good, easy, focus_cycles
		FROM study_sessions`
	var args []any
	if !opts.From.IsZero() {
		q += ` WHERE finished_at >= ?`
		args = append(args, opts.From.UTC())
	}
	q += ` ORDER BY finished_at DESC, id DESC`
	if opts.Limit > 0 {
		q += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		if err := rows.Scan(&rec.SessionID, &rec.StartedAt, &rec.FinishedAt,
			&rec.Studied, &rec.Total, &rec.Again, &rec.Hard, &rec.Good, &rec.Easy, &rec.FocusCycles); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

// ClearSessionLog deletes every logged session and reports how many rows
// were removed.
func (s *Store) ClearSessionLog(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM study_sessions`)
	if err != nil {
		return 0, fmt.Errorf("clear session log: %w", err)
	}
	return res.RowsAffected()
}
