// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the transactional key-value storage the election runtime
runs on.

# Backends

Open picks a backend by driver name:

	s, err := store.Open(store.DriverSQLite, "file:tally.db")

  - sqlite, postgres: a kv_entry table through database/sql
  - bolt: a single bbolt bucket
  - leveldb: a goleveldb database (NewMemLevelStore for tests)

# Transactions

Update runs fn in a read-write transaction that commits when fn returns
nil and rolls back otherwise. View runs fn read-only; Put fails with
ErrReadOnly. Reads inside Update see the transaction's own writes.

	err := s.Update(ctx, func(txn store.Txn) error {
		return txn.Put([]byte("k"), []byte("v"))
	})

# Tables

Table and Item add typed access on top of a Txn. Each Table lives under
its own key prefix and encodes keys so that iteration follows the
natural order of the key type:

	votes := store.NewTable[uint16, uint32](txn, "candidate_result_state/", store.Uint16Codec{}, store.Uint32Codec{})

Values that fail to decode are reported wrapped in ErrCorrupt.
*/
package store
