// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, message and domain types.

# Messages

Election entry points take self-describing JSON messages with one
top-level key naming the variant:

	{"submit_vote": {"candidate_id": 0}}
	{"get_results": {}}

ParseExecuteMsg and ParseQueryMsg reject anything else with
ErrMalformedMessage or ErrUnknownMessage. ParseInstantiateMsg rejects
unknown fields.

# Response Types

Types for JSON responses:

  - CreateElectionResponse: election_id, admin_key, voter_keys
  - ElectionSummary: id, name, candidates, voters_count, close_time, status
  - ResultsResponse: results
  - ErrorResponse: error, message

# Domain Types

  - Candidate: id (u16) and name
  - ElectionRecord: the record stored once per election
  - CandidateResult: id and vote count
  - Instance: registry entry of an election instance
*/
package models
