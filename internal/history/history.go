// Package history keeps a local sqlite log of runs for the history command.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"sitescrape/internal/record"
)

//go:embed schema.sql
var schema string

// Run is one stored run summary.
type Run struct {
	ID        int64
	Site      string
	URL       string
	Stage     record.Stage
	Success   bool
	Total     int
	Matches   int
	Warnings  int
	Error     string
	StartedAt time.Time
}

type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path. ":memory:" works for tests.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if path == ":memory:" {
		// every pooled connection would get its own empty database
		db.SetMaxOpenConns(1)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores res and returns its id. The full result is kept as JSON.
func (s *Store) Record(ctx context.Context, res record.RunResult) (int64, error) {
	data, err := json.Marshal(res)
	if err != nil {
		return 0, fmt.Errorf("marshal run result: %w", err)
	}
	out, err := s.db.ExecContext(ctx,
		`insert into runs (site, url, stage, success, total_items, matching_items, warnings, error, started_at, result)
		values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.Site, res.URL, string(res.Stage), boolInt(res.Success), res.Total, len(res.Matches), len(res.Warnings),
		res.Error, res.Timestamp.UnixMilli(), string(data),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	return out.LastInsertId()
}

// Recent returns up to limit runs, newest first. An empty site means all
// sites.
func (s *Store) Recent(ctx context.Context, site string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`select id, site, url, stage, success, total_items, matching_items, warnings, error, started_at
		from runs
		where ? = '' or site = ?
		order by started_at desc, id desc
		limit ?`,
		site, site, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r       Run
			stage   string
			started int64
		)
		if err := rows.Scan(&r.ID, &r.Site, &r.URL, &stage, &r.Success, &r.Total, &r.Matches, &r.Warnings, &r.Error, &started); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Stage = record.Stage(stage)
		r.StartedAt = time.UnixMilli(started).UTC()
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Result loads the full stored result of run id.
func (s *Store) Result(ctx context.Context, id int64) (record.RunResult, error) {
	var (
		res  record.RunResult
		data string
	)
	err := s.db.QueryRowContext(ctx, `select result from runs where id = ?`, id).Scan(&data)
	if err != nil {
		return res, fmt.Errorf("load run %d: %w", id, err)
	}
	if err := json.Unmarshal([]byte(data), &res); err != nil {
		return res, fmt.Errorf("decode run %d: %w", id, err)
	}
	return res, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
