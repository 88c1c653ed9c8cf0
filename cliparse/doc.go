// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - StorageDriver: sqlite, postgres, bolt or leveldb (default: sqlite)
  - StorageURL: DSN for the SQL drivers, path for bolt and leveldb (required)
  - VoterKeySalt: Secret for voter key HMAC (required)
  - AdminKeySalt: Secret for admin key HMAC (required)
  - LogLevel: debug, info, warn or error (default: info)

# CLI Flags

	-p, --port         Server port
	-t, --storage      Storage driver
	-d, --storage-url  Storage DSN or path
	-c, --config       Config file
	--voter-salt       Voter key salt
	--admin-salt       Admin key salt
	--log-level        Log level

# Environment Variables

	PORT            → --port
	STORAGE_DRIVER  → --storage
	STORAGE_URL     → --storage-url (DATABASE_URL also accepted)
	VOTER_KEY_SALT  → --voter-salt
	ADMIN_KEY_SALT  → --admin-salt
	LOG_LEVEL       → --log-level

Precedence is flags, then environment, then the config file, then
defaults. Config file keys are port, storage, storage_url, voter_salt,
admin_salt and log_level.
*/
package cliparse
