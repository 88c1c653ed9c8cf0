// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/quickly-tally/db"
)

// Storage driver names accepted by Open
const (
	DriverSQLite   = db.DriverSQLite
	DriverPostgres = db.DriverPostgres
	DriverBolt     = "bolt"
	DriverLevelDB  = "leveldb"
)

// Open connects to the backend named by driver. url is a DSN for the SQL
// drivers and a filesystem path for bolt and leveldb.
func Open(driver, url string) (Store, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
		conn, err := sql.Open(driver, url)
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		if driver == DriverSQLite {
			// one connection keeps ":memory:" databases alive and avoids
			// SQLITE_BUSY between pooled writers
			conn.SetMaxOpenConns(1)
		}
		if err := conn.Ping(); err != nil {
			conn.Close()
			return nil, fmt.Errorf("database ping failed: %w", err)
		}
		s, err := NewSQLStore(conn, driver)
		if err != nil {
			conn.Close()
			return nil, err
		}
		return s, nil
	case DriverBolt:
		return OpenBoltStore(url)
	case DriverLevelDB:
		return OpenLevelStore(url)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
