package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"ticklist/internal/model"

	_ "modernc.org/sqlite"
)

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, sqliteFileName)
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout avoids "database is
	// locked" flakiness when CLI and TUI touch the same file.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}

func migrateSQLiteState(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS checklists (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			sort_mode TEXT NOT NULL,
			pinned INTEGER NOT NULL,
			archived INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_checklists_archived ON checklists(archived, position);`,
		`CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			checklist_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			text TEXT NOT NULL,
			done INTEGER NOT NULL,
			deadline_date TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_items_checklist ON items(checklist_id, position);`,
		`CREATE INDEX IF NOT EXISTS idx_items_deadline ON items(deadline_date);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// LoadSQLite loads the document from data.sqlite. An empty SQLite state with
// a legacy checklists.json alongside triggers a one-time import; a malformed
// legacy file degrades to an empty document instead of failing the load.
func (s Store) LoadSQLite(ctx context.Context) (*DB, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := migrateSQLiteState(ctx, db); err != nil {
		return nil, err
	}

	hasState, err := sqliteStateHasAnyRows(ctx, db)
	if err != nil {
		return nil, err
	}
	if !hasState {
		if legacy, ok := s.loadLegacyJSON(); ok {
			if err := s.SaveSQLite(ctx, legacy); err != nil {
				return nil, err
			}
		}
	}

	return loadStateFromSQLite(ctx, db)
}

// loadLegacyJSON reads checklists.json as either a bare array (browser-
// storage shape) or a versioned document. Unparseable content is ignored.
func (s Store) loadLegacyJSON() (*DB, bool) {
	b, err := os.ReadFile(s.legacyPath())
	if err != nil || len(b) == 0 {
		return nil, false
	}
	var lists []model.Checklist
	if err := json.Unmarshal(b, &lists); err == nil {
		return &DB{Version: 1, Checklists: model.NormalizeChecklists(lists)}, true
	}
	var doc DB
	if err := json.Unmarshal(b, &doc); err == nil {
		doc.normalize()
		return &doc, true
	}
	return nil, false
}

func (s Store) SaveSQLite(ctx context.Context, st *DB) error {
	if st == nil {
		return errors.New("nil db")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrateSQLiteState(ctx, db); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, "version", "1"); err != nil {
		return err
	}

	// Replace-all strategy: simple and safe for a single-user local store.
	for _, t := range []string{"checklists", "items"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t); err != nil {
			return err
		}
	}

	nowMs := time.Now().UTC().UnixMilli()

	for pos, c := range st.Checklists {
		items := c.Items
		c.Items = nil // items live in their own table
		raw, _ := json.Marshal(c)
		if _, err := tx.ExecContext(ctx, `INSERT INTO checklists(
			id, position, title, sort_mode, pinned, archived, json, updated_at_unixms
		) VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, pos, c.Title, string(c.SortMode),
			boolToInt(c.Pinned), boolToInt(c.Archived),
			string(raw), nowMs,
		); err != nil {
			return err
		}
		for ipos, it := range items {
			raw, _ := json.Marshal(it)
			deadline := ""
			if it.Deadline != nil {
				deadline = it.Deadline.String()
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO items(
				id, checklist_id, position, text, done, deadline_date, json, updated_at_unixms
			) VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
				it.ID, c.ID, ipos, it.Text, boolToInt(it.Done), deadline,
				string(raw), nowMs,
			); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func sqliteStateHasAnyRows(ctx context.Context, db *sql.DB) (bool, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(1) FROM checklists`).Scan(&n); err != nil {
		// Tables missing: treat as empty.
		return false, nil
	}
	return n > 0, nil
}

func loadStateFromSQLite(ctx context.Context, db *sql.DB) (*DB, error) {
	out := &DB{Version: 1, Checklists: []model.Checklist{}}

	rows, err := db.QueryContext(ctx, `SELECT json FROM checklists ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var js string
		if err := rows.Scan(&js); err != nil {
			return nil, err
		}
		var c model.Checklist
		if err := json.Unmarshal([]byte(js), &c); err != nil {
			// Malformed row: drop it rather than fail the whole load.
			continue
		}
		c.Items = []model.ChecklistItem{}
		out.Checklists = append(out.Checklists, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	irows, err := db.QueryContext(ctx, `SELECT checklist_id, json FROM items ORDER BY checklist_id, position ASC`)
	if err != nil {
		return nil, err
	}
	defer irows.Close()
	for irows.Next() {
		var listID, js string
		if err := irows.Scan(&listID, &js); err != nil {
			return nil, err
		}
		var it model.ChecklistItem
		if err := json.Unmarshal([]byte(js), &it); err != nil {
			continue
		}
		if c, ok := out.FindChecklist(listID); ok {
			c.Items = append(c.Items, it)
		}
	}
	if err := irows.Err(); err != nil {
		return nil, err
	}

	out.normalize()
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
