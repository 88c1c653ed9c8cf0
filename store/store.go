// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"bytes"
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("key not found")
	ErrReadOnly = errors.New("write in read-only transaction")
	ErrEmptyKey = errors.New("empty key")
	ErrCorrupt  = errors.New("stored value cannot be decoded")
)

// Txn is the key-value view handed to one invocation. Writes become
// visible to later reads of the same Txn and are persisted only if the
// enclosing Update returns nil.
type Txn interface {
	// Get returns ErrNotFound when key is absent.
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	// Put creates or overwrites key.
	Put(key, value []byte) error
	// Iterate visits every key starting with prefix in ascending byte
	// order. key and value are only valid until fn returns, and fn must
	// not write through the same Txn.
	Iterate(prefix []byte, fn func(key, value []byte) error) error
}

// Store is a durable key-value backend with atomic transactions.
type Store interface {
	// Update runs fn in a read-write transaction. All writes commit
	// together when fn returns nil and are discarded otherwise.
	Update(ctx context.Context, fn func(Txn) error) error
	// View runs fn against a read-only snapshot.
	View(ctx context.Context, fn func(Txn) error) error
	Close() error
}

type prefixedTxn struct {
	txn    Txn
	prefix []byte
}

// Prefixed scopes txn to the keys under prefix. Keys passed to and
// returned from the result are relative to prefix.
func Prefixed(txn Txn, prefix []byte) Txn {
	if p, ok := txn.(*prefixedTxn); ok {
		return &prefixedTxn{txn: p.txn, prefix: join(p.prefix, prefix)}
	}
	return &prefixedTxn{txn: txn, prefix: append([]byte(nil), prefix...)}
}

func (p *prefixedTxn) Get(key []byte) ([]byte, error) {
	return p.txn.Get(join(p.prefix, key))
}

func (p *prefixedTxn) Has(key []byte) (bool, error) {
	return p.txn.Has(join(p.prefix, key))
}

func (p *prefixedTxn) Put(key, value []byte) error {
	return p.txn.Put(join(p.prefix, key), value)
}

func (p *prefixedTxn) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	return p.txn.Iterate(join(p.prefix, prefix), func(key, value []byte) error {
		return fn(key[len(p.prefix):], value)
	})
}

func join(a, b []byte) []byte {
	out := make([]byte, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

// prefixEnd returns the smallest key greater than every key with the
// given prefix, or nil when no such key exists.
func prefixEnd(prefix []byte) []byte {
	end := bytes.Clone(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
