package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"ticklist/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteRepository persists accounts and their checklists in a single SQLite
// file. Rows carry a few queryable columns plus the full JSON blob, same
// layout as the local store.
type SQLiteRepository struct {
	db *sql.DB
}

func OpenSQLiteRepository(ctx context.Context, path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
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
	r := &SQLiteRepository{db: db}
	if err := r.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SQLiteRepository) Close() error { return r.db.Close() }

func (r *SQLiteRepository) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			sync_code TEXT NOT NULL,
			created_at_unixms INTEGER NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS checklists (
			id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL,
			PRIMARY KEY (user_id, id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_checklists_user ON checklists(user_id, position);`,
	}
	for _, st := range stmts {
		if _, err := r.db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRepository) CreateUser(ctx context.Context, u model.User) error {
	u.Email = normalizeEmail(u.Email)
	_, err := r.db.ExecContext(ctx, `INSERT INTO users(
		id, email, name, password_hash, sync_code, created_at_unixms, updated_at_unixms
	) VALUES(?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.SyncCode,
		u.CreatedAt.UTC().UnixMilli(), u.UpdatedAt.UTC().UnixMilli(),
	)
	if err != nil && isUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

func isUniqueViolation(err error) bool {
	// modernc.org/sqlite reports constraint failures by message; there is no
	// exported error type to match against.
	return err != nil && strings.Contains(err.Error(), "constraint failed")
}

func (r *SQLiteRepository) scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	var createdMs, updatedMs int64
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.SyncCode, &createdMs, &updatedMs)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	u.CreatedAt = time.UnixMilli(createdMs).UTC()
	u.UpdatedAt = time.UnixMilli(updatedMs).UTC()
	return u, nil
}

const userColumns = `id, email, name, password_hash, sync_code, created_at_unixms, updated_at_unixms`

func (r *SQLiteRepository) UserByID(ctx context.Context, id string) (model.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (r *SQLiteRepository) UserByEmail(ctx context.Context, email string) (model.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, normalizeEmail(email)))
}

func (r *SQLiteRepository) UpdateUser(ctx context.Context, u model.User) error {
	u.Email = normalizeEmail(u.Email)
	res, err := r.db.ExecContext(ctx, `UPDATE users SET email = ?, name = ?, password_hash = ?, sync_code = ?, updated_at_unixms = ? WHERE id = ?`,
		u.Email, u.Name, u.PasswordHash, u.SyncCode, u.UpdatedAt.UTC().UnixMilli(), u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) Checklists(ctx context.Context, userID string) ([]model.Checklist, error) {
	if _, err := r.UserByID(ctx, userID); err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `SELECT json FROM checklists WHERE user_id = ? ORDER BY position ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Checklist{}
	for rows.Next() {
		var js string
		if err := rows.Scan(&js); err != nil {
			return nil, err
		}
		var c model.Checklist
		if err := json.Unmarshal([]byte(js), &c); err != nil {
			continue
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ChecklistByID(ctx context.Context, userID, checklistID string) (model.Checklist, error) {
	var js string
	err := r.db.QueryRowContext(ctx, `SELECT json FROM checklists WHERE user_id = ? AND id = ?`, userID, checklistID).Scan(&js)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Checklist{}, ErrNotFound
	}
	if err != nil {
		return model.Checklist{}, err
	}
	var c model.Checklist
	if err := json.Unmarshal([]byte(js), &c); err != nil {
		return model.Checklist{}, err
	}
	return c, nil
}

func (r *SQLiteRepository) PutChecklist(ctx context.Context, userID string, c model.Checklist) error {
	if _, err := r.UserByID(ctx, userID); err != nil {
		return err
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	nowMs := time.Now().UTC().UnixMilli()

	// Keep the stored position on replace; append at the end on insert.
	var pos int
	err = r.db.QueryRowContext(ctx, `SELECT position FROM checklists WHERE user_id = ? AND id = ?`, userID, c.ID).Scan(&pos)
	if errors.Is(err, sql.ErrNoRows) {
		if err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(position)+1, 0) FROM checklists WHERE user_id = ?`, userID).Scan(&pos); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `INSERT OR REPLACE INTO checklists(id, user_id, position, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?)`,
		c.ID, userID, pos, string(raw), nowMs)
	return err
}

func (r *SQLiteRepository) DeleteChecklist(ctx context.Context, userID, checklistID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM checklists WHERE user_id = ? AND id = ?`, userID, checklistID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) ReplaceChecklists(ctx context.Context, userID string, lists []model.Checklist) error {
	if _, err := r.UserByID(ctx, userID); err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM checklists WHERE user_id = ?`, userID); err != nil {
		return err
	}
	nowMs := time.Now().UTC().UnixMilli()
	for pos, c := range lists {
		raw, err := json.Marshal(c)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO checklists(id, user_id, position, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?)`,
			c.ID, userID, pos, string(raw), nowMs); err != nil {
			return err
		}
	}
	return tx.Commit()
}
