// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Tally API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(rt, cfg)

# Endpoints

Health:

	GET /health

Election management:

	POST /elections                 - Create election (returns admin and voter keys)
	GET  /elections/{id}            - Summary with open/closed status
	GET  /elections/{id}/voter-key  - Re-issue a voter key (requires X-Admin-Key)

Voting (requires X-Voter-Address and X-Voter-Key):

	POST /elections/{id}/votes   - Submit a vote
	POST /elections/{id}/execute - Raw execute message

Queries (public):

	GET  /elections/{id}/name         - Election name
	GET  /elections/{id}/candidates   - Candidates in registration order
	GET  /elections/{id}/voters/count - Registered voters
	GET  /elections/{id}/close-time   - Close time (unix seconds)
	GET  /elections/{id}/results      - Tallies (closed only)
	POST /elections/{id}/query        - Raw query message

# Handler Initialization

The router creates handler instances with dependency injection:

	electionHandler := handlers.NewElectionHandler(rt, cfg)
	votingHandler := handlers.NewVotingHandler(rt, cfg)
	resultsHandler := handlers.NewResultsHandler(rt)

All handlers share one host.Runtime. Only the election and voting
handlers need the configuration, for the key salts.
*/
package router
