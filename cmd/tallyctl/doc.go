// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Tallyctl is a command line client for the quickly-tally HTTP API.

	tallyctl -s http://localhost:3318 create -f election.json
	tallyctl vote -e <id> --voter addr1 --key <voter key> --candidate 0
	tallyctl replay -f votes.json
	tallyctl results -e <id>

The server address comes from --server or TALLY_SERVER. A replay file is
the output of create with a "votes" list added:

	{"election_id": "...", "voter_keys": {...}, "votes": [{"voter": "addr1", "candidate_id": 0}]}
*/
package main
