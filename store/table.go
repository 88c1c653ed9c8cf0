// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import "fmt"

// Table is a typed key-value map stored under its own key prefix. A
// Table is bound to one Txn and must not outlive it.
type Table[K, V any] struct {
	txn    Txn
	name   string
	keys   Codec[K]
	values Codec[V]
}

// NewTable binds a table named name to txn. Distinct tables in the same
// Txn need names that are not prefixes of each other; a trailing "/"
// keeps them apart.
func NewTable[K, V any](txn Txn, name string, keys Codec[K], values Codec[V]) *Table[K, V] {
	return &Table[K, V]{
		txn:    Prefixed(txn, []byte(name)),
		name:   name,
		keys:   keys,
		values: values,
	}
}

// Get returns ErrNotFound when key has no entry.
func (t *Table[K, V]) Get(key K) (V, error) {
	var zero V
	k, err := t.keys.Encode(key)
	if err != nil {
		return zero, fmt.Errorf("%s: encode key: %w", t.name, err)
	}
	raw, err := t.txn.Get(k)
	if err != nil {
		return zero, err
	}
	v, err := t.values.Decode(raw)
	if err != nil {
		return zero, fmt.Errorf("%s: %w: %w", t.name, ErrCorrupt, err)
	}
	return v, nil
}

func (t *Table[K, V]) Contains(key K) (bool, error) {
	k, err := t.keys.Encode(key)
	if err != nil {
		return false, fmt.Errorf("%s: encode key: %w", t.name, err)
	}
	return t.txn.Has(k)
}

// Insert creates or overwrites the entry for key.
func (t *Table[K, V]) Insert(key K, value V) error {
	k, err := t.keys.Encode(key)
	if err != nil {
		return fmt.Errorf("%s: encode key: %w", t.name, err)
	}
	raw, err := t.values.Encode(value)
	if err != nil {
		return fmt.Errorf("%s: encode value: %w", t.name, err)
	}
	return t.txn.Put(k, raw)
}

// Iterate calls fn for every entry in encoded-key order. Returning an
// error from fn stops the iteration and is returned as is.
func (t *Table[K, V]) Iterate(fn func(key K, value V) error) error {
	return t.txn.Iterate(nil, func(rawKey, rawValue []byte) error {
		k, err := t.keys.Decode(rawKey)
		if err != nil {
			return fmt.Errorf("%s: key: %w: %w", t.name, ErrCorrupt, err)
		}
		v, err := t.values.Decode(rawValue)
		if err != nil {
			return fmt.Errorf("%s: %w: %w", t.name, ErrCorrupt, err)
		}
		return fn(k, v)
	})
}

// Count walks the whole table.
func (t *Table[K, V]) Count() (uint32, error) {
	var n uint32
	err := t.txn.Iterate(nil, func(_, _ []byte) error {
		n++
		return nil
	})
	return n, err
}

// Item is a single value stored under a fixed key.
type Item[T any] struct {
	txn   Txn
	key   []byte
	codec Codec[T]
}

func NewItem[T any](txn Txn, key string, codec Codec[T]) *Item[T] {
	return &Item[T]{txn: txn, key: []byte(key), codec: codec}
}

// Load returns ErrNotFound if the item was never saved.
func (i *Item[T]) Load() (T, error) {
	var zero T
	raw, err := i.txn.Get(i.key)
	if err != nil {
		return zero, err
	}
	v, err := i.codec.Decode(raw)
	if err != nil {
		return zero, fmt.Errorf("%s: %w: %w", i.key, ErrCorrupt, err)
	}
	return v, nil
}

func (i *Item[T]) Save(v T) error {
	raw, err := i.codec.Encode(v)
	if err != nil {
		return fmt.Errorf("%s: encode: %w", i.key, err)
	}
	return i.txn.Put(i.key, raw)
}

func (i *Item[T]) Exists() (bool, error) {
	return i.txn.Has(i.key)
}
