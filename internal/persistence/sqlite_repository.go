package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db        *sql.DB
	listeners listenerSet
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps writes ordered; the store is tiny.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set sqlite pragmas: %w", err)
	}
	repo := &SQLiteRepository{db: db}
	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *SQLiteRepository) Get(ctx context.Context, group, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE grp = ? AND key = ?`, group, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %s.%s: %w", group, key, err)
	}
	return value, true, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, group, key, value string) error {
	changed := false
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var prev string
		err := tx.QueryRowContext(ctx, `SELECT value FROM settings WHERE grp = ? AND key = ?`, group, key).Scan(&prev)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			changed = true
		case err != nil:
			return err
		default:
			changed = prev != value
		}
		if !changed {
			return nil
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO settings(grp, key, value, updated_at)
			VALUES(?, ?, ?, ?)
			ON CONFLICT(grp, key) DO UPDATE SET
				value=excluded.value,
				updated_at=excluded.updated_at`,
			group, key, value, time.Now().UTC().Format(time.RFC3339Nano),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("set setting %s.%s: %w", group, key, err)
	}
	if changed {
		r.listeners.emit(Change{Group: group, Key: key, Value: value})
	}
	return nil
}

func (r *SQLiteRepository) Unset(ctx context.Context, group, key string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE grp = ? AND key = ?`, group, key)
	if err != nil {
		return fmt.Errorf("unset setting %s.%s: %w", group, key, err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		r.listeners.emit(Change{Group: group, Key: key, Deleted: true})
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, group string) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM settings WHERE grp = ?`, group)
	if err != nil {
		return nil, fmt.Errorf("list settings %s: %w", group, err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) Subscribe(fn func(Change)) func() {
	return r.listeners.add(fn)
}

func (r *SQLiteRepository) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
