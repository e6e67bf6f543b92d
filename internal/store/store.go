package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"siteqa/internal/report"
	"time"

	_ "embed"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

// Store keeps the history of suite runs.
type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

// Open opens (and creates) the database at path and applies the schema.
func Open(ctx context.Context, path string) (Store, *sql.DB, error) {
	if path != ":memory:" {
		err := os.MkdirAll(filepath.Dir(path), 0o700)
		if err != nil {
			return Store{}, nil, fmt.Errorf("create database dir: %w", err)
		}
	}
	database, err := sql.Open("sqlite", path)
	if err != nil {
		return Store{}, nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		database.SetMaxOpenConns(1)
	}
	_, _ = database.ExecContext(ctx, "PRAGMA foreign_keys=ON;")
	_, _ = database.ExecContext(ctx, "PRAGMA busy_timeout=5000;")

	_, err = database.ExecContext(ctx, Schema)
	if err != nil {
		database.Close()
		return Store{}, nil, fmt.Errorf("apply schema: %w", err)
	}
	return NewStore(database), database, nil
}

type Run struct {
	ID       int64
	BaseUrl  string
	Started  time.Time
	Finished time.Time
	Summary  report.Summary
}

// Push records a finished run and all of its results, it returns the id
// of the run.
func (s Store) Push(ctx context.Context, r report.Report) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	summary := r.Summary()
	res, err := tx.ExecContext(
		ctx,
		`insert into run(base_url, started, finished, passed, failed, skipped)
		values (?, ?, ?, ?, ?, ?)`,
		r.BaseUrl,
		r.Started.UnixMilli(),
		r.Finished.UnixMilli(),
		summary.Passed,
		summary.Failed,
		summary.Skipped,
	)
	if err != nil {
		return 0, err
	}
	runId, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, e := range r.Entries {
		_, err = tx.ExecContext(
			ctx,
			`insert into result(run_id, check_id, name, status, message, duration_ms)
			values (?, ?, ?, ?, ?, ?)`,
			runId,
			e.ID,
			e.Name,
			string(e.Status),
			e.Message,
			e.Duration.Milliseconds(),
		)
		if err != nil {
			return 0, err
		}
	}

	return runId, tx.Commit()
}

// Runs returns the latest runs, newest first.
func (s Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`select id, base_url, started, finished, passed, failed, skipped
		from run order by started desc, id desc limit ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished int64
		err = rows.Scan(
			&r.ID,
			&r.BaseUrl,
			&started,
			&finished,
			&r.Summary.Passed,
			&r.Summary.Failed,
			&r.Summary.Skipped,
		)
		if err != nil {
			return nil, err
		}
		r.Started = time.UnixMilli(started)
		r.Finished = time.UnixMilli(finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Results returns the results of a run in the order they were recorded.
func (s Store) Results(ctx context.Context, runId int64) ([]report.Entry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`select check_id, name, status, message, duration_ms
		from result where run_id = ? order by rowid`,
		runId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []report.Entry
	for rows.Next() {
		var e report.Entry
		var status string
		var durationMs int64
		err = rows.Scan(&e.ID, &e.Name, &status, &e.Message, &durationMs)
		if err != nil {
			return nil, err
		}
		e.Status = report.Status(status)
		e.Duration = time.Duration(durationMs) * time.Millisecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// FailureStreak returns how many of the latest runs in a row a check has
// failed in.
func (s Store) FailureStreak(ctx context.Context, checkId string) (int, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`select result.status from result
		join run on run.id = result.run_id
		where result.check_id = ?
		order by run.started desc, run.id desc`,
		checkId,
	)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	streak := 0
	for rows.Next() {
		var status string
		err = rows.Scan(&status)
		if err != nil {
			return 0, err
		}
		if report.Status(status) != report.StatusFailed {
			break
		}
		streak++
	}
	return streak, rows.Err()
}
