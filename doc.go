// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Tally API server.

Quickly Tally runs small elections: a fixed list of candidates, a fixed
list of eligible voters, one vote per voter until a close time, and
tallies that stay sealed until that time has passed.

# Starting the Server

The server requires environment variables or CLI flags for configuration.
A .env file in the working directory is loaded first:

	STORAGE_URL=file:tally.db go run .

Or with flags:

	go run . -p 3318 -t bolt -d ./tally.bolt --voter-salt ... --admin-salt ...

# Configuration

Required settings:

  - STORAGE_URL (-d): DSN for sqlite/postgres, path for bolt/leveldb
  - VOTER_KEY_SALT (--voter-salt): Secret for voter key HMAC
  - ADMIN_KEY_SALT (--admin-salt): Secret for admin key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - STORAGE_DRIVER (-t): sqlite, postgres, bolt or leveldb (default: sqlite)
  - LOG_LEVEL (--log-level): debug, info, warn or error (default: info)

# Architecture

  - election: The vote tallying state machine
  - host: Election instances, one storage transaction per call
  - store: Transactional key-value storage backends and typed tables
  - handlers: HTTP request handlers (elections, voting, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types and JSON messages
  - auth: Voter and admin keys
  - db: SQL schema creation
  - cliparse: Configuration parsing
  - cmd/tallyctl: Command line client

See package documentation for each component.
*/
package main
