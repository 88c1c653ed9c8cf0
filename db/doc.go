// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation for the SQL storage backends.

# Schema Creation

CreateSchema initializes the key-value table for the given driver:

	if err := db.CreateSchema(conn, db.DriverPostgres); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS.

# Tables

  - kv_entry: one row per storage key (key, value, updated_at)

Keys are raw bytes (BYTEA on PostgreSQL, BLOB on SQLite) so that range
scans over a key prefix follow byte order on both drivers.
*/
package db
