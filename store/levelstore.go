// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelStore keeps keys in a LevelDB database. Read-write calls use
// LevelDB transactions, read-only calls use snapshots.
type LevelStore struct {
	db *leveldb.DB
}

// OpenLevelStore opens or creates the database directory at path.
func OpenLevelStore(path string) (*LevelStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open leveldb: %w", err)
	}
	return &LevelStore{db: db}, nil
}

// NewMemLevelStore returns a LevelStore backed by memory only.
func NewMemLevelStore() (*LevelStore, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open leveldb: %w", err)
	}
	return &LevelStore{db: db}, nil
}

func (s *LevelStore) Update(ctx context.Context, fn func(Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tr, err := s.db.OpenTransaction()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&levelTxn{ctx: ctx, r: tr, w: tr}); err != nil {
		tr.Discard()
		return err
	}

	if err := tr.Commit(); err != nil {
		tr.Discard()
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *LevelStore) View(ctx context.Context, fn func(Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	snap, err := s.db.GetSnapshot()
	if err != nil {
		return fmt.Errorf("failed to take snapshot: %w", err)
	}
	defer snap.Release()

	return fn(&levelTxn{ctx: ctx, r: snap})
}

func (s *LevelStore) Close() error {
	return s.db.Close()
}

// levelReader is the read surface shared by *leveldb.Transaction and
// *leveldb.Snapshot.
type levelReader interface {
	Get(key []byte, ro *opt.ReadOptions) ([]byte, error)
	Has(key []byte, ro *opt.ReadOptions) (bool, error)
	NewIterator(slice *util.Range, ro *opt.ReadOptions) iterator.Iterator
}

type levelWriter interface {
	Put(key, value []byte, wo *opt.WriteOptions) error
}

type levelTxn struct {
	ctx context.Context
	r   levelReader
	w   levelWriter
}

func (t *levelTxn) Get(key []byte) ([]byte, error) {
	v, err := t.r.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, ErrNotFound
	}
	return v, err
}

func (t *levelTxn) Has(key []byte) (bool, error) {
	return t.r.Has(key, nil)
}

func (t *levelTxn) Put(key, value []byte) error {
	if t.w == nil {
		return ErrReadOnly
	}
	if len(key) == 0 {
		return ErrEmptyKey
	}
	return t.w.Put(key, value, nil)
}

func (t *levelTxn) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	it := t.r.NewIterator(util.BytesPrefix(prefix), nil)
	defer it.Release()

	for it.Next() {
		if err := t.ctx.Err(); err != nil {
			return err
		}
		if err := fn(it.Key(), it.Value()); err != nil {
			return err
		}
	}
	return it.Error()
}
