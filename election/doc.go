// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package election implements the vote tallying state machine.

# State

Each election instance persists three things through a store.Txn that
the caller has already scoped to the instance:

  - config: the ElectionRecord (name, candidates, voters, close time)
  - candidate_result_state/: candidate id to vote count
  - voters_state/: voter address to has-voted flag

An address with no voters_state entry is not eligible. An entry set to
false is eligible and has not voted yet.

# Lifecycle

An election is open while the clock reads before close_time and closed
from close_time on. There is no explicit transition; every call reads the
clock again.

	c := election.New(txn, clock, logger)
	err := c.SubmitVote("voter1", 0)

SubmitVote checks, in order: closed, not eligible, already voted, unknown
candidate. Results is only available once the election is closed.

# Errors

Caller mistakes are reported with the Err* sentinels and leave state
untouched when the caller discards the transaction. Missing or corrupt
stored data is reported as *InvariantError, which matches ErrInvariant.
*/
package election
