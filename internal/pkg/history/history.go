// Copyright 2023 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package history archives check runs in SQLite so later invocations can be
// compared against them. The run document is stored whole as JSON; findings
// are additionally broken out into rows for ad-hoc querying.
package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // CGO-free SQLite driver

	"github.com/google/go-api-fence/internal/pkg/report"
)

// DB is a run archive backed by SQLite.
type DB struct {
	conn *sql.DB
}

// Open opens the archive at path, creating file and schema as needed.
func Open(path string) (*DB, error) {
	// Pragmas via DSN keep it portable with the modernc driver.
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db := &DB{conn: conn}
	if err := db.createSchema(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

func (db *DB) Close() error { return db.conn.Close() }

func (db *DB) createSchema() error {
	_, err := db.conn.Exec(`
CREATE TABLE IF NOT EXISTS runs (
  id         TEXT PRIMARY KEY,
  started_at TEXT NOT NULL,   -- RFC3339
  config     TEXT,
  run_json   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS findings (
  run_id  TEXT NOT NULL,
  file    TEXT NOT NULL,
  line    INTEGER NOT NULL,
  col     INTEGER NOT NULL,
  message TEXT NOT NULL,
  FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_findings_run ON findings(run_id);
`)
	return err
}

// SaveRun upserts a run document and (re)writes its finding rows.
func (db *DB) SaveRun(run *report.Run) error {
	b, err := json.Marshal(run)
	if err != nil {
		return err
	}
	ts := run.StartedAt.UTC().Format(time.RFC3339Nano)

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		`INSERT INTO runs (id, started_at, config, run_json)
         VALUES (?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET started_at=excluded.started_at, config=excluded.config, run_json=excluded.run_json`,
		run.ID, ts, run.Config, string(b),
	); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM findings WHERE run_id = ?`, run.ID); err != nil {
		return err
	}
	if len(run.Findings) > 0 {
		stmt, err := tx.Prepare(`INSERT INTO findings (run_id, file, line, col, message) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, f := range run.Findings {
			if _, err := stmt.Exec(run.ID, f.Pos.File, f.Pos.Line, f.Pos.Col, f.Message); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// LoadRun returns the full run document.
func (db *DB) LoadRun(id string) (*report.Run, error) {
	var s string
	row := db.conn.QueryRow(`SELECT run_json FROM runs WHERE id = ?`, id)
	if err := row.Scan(&s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no run with id %s", id)
		}
		return nil, err
	}
	run := new(report.Run)
	if err := json.Unmarshal([]byte(s), run); err != nil {
		return nil, err
	}
	return run, nil
}

// A RunSummary is one archive entry as shown in listings.
type RunSummary struct {
	ID        string
	StartedAt time.Time
	Findings  int
}

// ListRuns returns up to limit archived runs, newest first.
func (db *DB) ListRuns(limit int) ([]RunSummary, error) {
	rows, err := db.conn.Query(`
SELECT r.id, r.started_at, COUNT(f.rowid)
FROM runs r LEFT JOIN findings f ON f.run_id = r.id
GROUP BY r.id
ORDER BY datetime(r.started_at) DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var rs RunSummary
		var ts string
		if err := rows.Scan(&rs.ID, &ts, &rs.Findings); err != nil {
			return nil, err
		}
		if rs.StartedAt, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, err
		}
		out = append(out, rs)
	}
	return out, rows.Err()
}
