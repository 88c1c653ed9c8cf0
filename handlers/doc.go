// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Tally API.

# Handler Types

Each handler is a struct with runtime and config dependencies:

  - ElectionHandler: Election creation, summary, voter key re-issue
  - VotingHandler: Vote submission and raw execute messages
  - ResultsHandler: Queries, sealed results and raw query messages

Handlers are created via constructor functions that accept *host.Runtime and Config:

	electionHandler := handlers.NewElectionHandler(rt, cfg)

# Election Lifecycle

An election is open until its close_time (unix seconds) and closed from
then on. Nothing needs to be called to close it.

	POST /elections                    → CreateElection (returns admin_key, voter_keys)
	GET  /elections/{id}               → GetElection
	GET  /elections/{id}/voter-key     → GetVoterKey (requires X-Admin-Key)

# Voting Flow

Voters authenticate with the key issued for their address:

	POST /elections/{id}/votes   → SubmitVote ({"candidate_id": 0})
	POST /elections/{id}/execute → Execute ({"submit_vote": {"candidate_id": 0}})

Both require the X-Voter-Address and X-Voter-Key headers.

# Results

Results are sealed until close_time:

	GET  /elections/{id}/results → GetResults (403 while open)
	POST /elections/{id}/query   → Query ({"get_results": {}})

# Errors

Election errors map to status codes:

	409 voting closed, already voted
	403 not eligible, results not available yet
	400 unknown candidate, duplicate candidates or voters, malformed messages
	404 unknown election
	401 bad voter or admin key
	500 storage failures and inconsistent state (details are logged, not returned)
*/
package handlers
