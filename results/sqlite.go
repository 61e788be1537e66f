package results

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// fixed width so that timestamps sort as strings
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const createTable = `
create table if not exists results (
	game_id text not null primary key,
	player_name text,
	winner text not null,
	moves integer,
	started_at text,
	finished_at text not null
);
`

// SQLiteRecorder stores results in a sqlite database file
type SQLiteRecorder struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path
func OpenSQLite(ctx context.Context, path string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	// one writer at a time
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating results table: %w", err)
	}

	return &SQLiteRecorder{db: db}, nil
}

func (s *SQLiteRecorder) Close() error {
	return s.db.Close()
}

func (s *SQLiteRecorder) Record(ctx context.Context, r Result) error {
	if err := r.validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO results (game_id, player_name, winner, moves, started_at, finished_at) VALUES (?, ?, ?, ?, ?, ?)",
		r.GameID,
		r.PlayerName,
		r.Winner.String(),
		r.Moves,
		r.StartedAt.UTC().Format(timeLayout),
		r.FinishedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("recording game %s: %w", r.GameID, err)
	}
	return nil
}

func (s *SQLiteRecorder) Recent(ctx context.Context, limit int) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT game_id, player_name, winner, moves, started_at, finished_at FROM results ORDER BY finished_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []Result{}
	for rows.Next() {
		var (
			r                 Result
			winner            string
			started, finished string
		)
		if err := rows.Scan(&r.GameID, &r.PlayerName, &winner, &r.Moves, &started, &finished); err != nil {
			return nil, err
		}

		if err := r.Winner.UnmarshalText([]byte(winner)); err != nil {
			return nil, err
		}
		if r.StartedAt, err = parseTime(started); err != nil {
			return nil, err
		}
		if r.FinishedAt, err = parseTime(finished); err != nil {
			return nil, err
		}
		results = append(results, r)
	}

	return results, rows.Err()
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(timeLayout, s)
}

var _ Recorder = (*SQLiteRecorder)(nil)
