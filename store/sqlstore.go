// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/quickly-tally/db"
)

// SQLStore keeps all keys in the kv_entry table of a PostgreSQL or
// SQLite database.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore creates the schema if needed. The store takes ownership of
// conn and closes it on Close.
func NewSQLStore(conn *sql.DB, driver string) (*SQLStore, error) {
	if err := db.CreateSchema(conn, driver); err != nil {
		return nil, err
	}
	return &SQLStore{db: conn}, nil
}

func (s *SQLStore) Update(ctx context.Context, fn func(Txn) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&sqlTxn{ctx: ctx, tx: tx, writable: true}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// View never commits; the transaction is always rolled back.
func (s *SQLStore) View(ctx context.Context, fn func(Txn) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	return fn(&sqlTxn{ctx: ctx, tx: tx})
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

type sqlTxn struct {
	ctx      context.Context
	tx       *sql.Tx
	writable bool
}

func (t *sqlTxn) Get(key []byte) ([]byte, error) {
	var value []byte
	err := t.tx.QueryRowContext(t.ctx, `
		SELECT value FROM kv_entry WHERE key = $1
	`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query key: %w", err)
	}
	return value, nil
}

func (t *sqlTxn) Has(key []byte) (bool, error) {
	var exists bool
	err := t.tx.QueryRowContext(t.ctx, `
		SELECT EXISTS(
			SELECT 1 FROM kv_entry WHERE key = $1
		)
	`, key).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check key: %w", err)
	}
	return exists, nil
}

func (t *sqlTxn) Put(key, value []byte) error {
	if !t.writable {
		return ErrReadOnly
	}
	if len(key) == 0 {
		return ErrEmptyKey
	}
	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO kv_entry (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE
		SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to upsert key: %w", err)
	}
	return nil
}

type kvRow struct {
	key, value []byte
}

// Iterate buffers the matching rows before calling fn: lib/pq cannot run
// a second statement on the transaction while a result set is open.
func (t *sqlTxn) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	var (
		rows *sql.Rows
		err  error
	)
	end := prefixEnd(prefix)
	switch {
	case len(prefix) == 0:
		rows, err = t.tx.QueryContext(t.ctx, `
			SELECT key, value FROM kv_entry ORDER BY key
		`)
	case end == nil:
		rows, err = t.tx.QueryContext(t.ctx, `
			SELECT key, value FROM kv_entry WHERE key >= $1 ORDER BY key
		`, prefix)
	default:
		rows, err = t.tx.QueryContext(t.ctx, `
			SELECT key, value FROM kv_entry WHERE key >= $1 AND key < $2 ORDER BY key
		`, prefix, end)
	}
	if err != nil {
		return fmt.Errorf("failed to query range: %w", err)
	}
	defer rows.Close()

	var entries []kvRow
	for rows.Next() {
		var r kvRow
		if err := rows.Scan(&r.key, &r.value); err != nil {
			return fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, r)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read range: %w", err)
	}
	rows.Close()

	for _, r := range entries {
		if err := t.ctx.Err(); err != nil {
			return err
		}
		if err := fn(r.key, r.value); err != nil {
			return err
		}
	}
	return nil
}
