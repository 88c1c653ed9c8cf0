// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"errors"
	"fmt"
)

// Rejections of a single call. State is left as it was before the call.
var (
	ErrVotingClosed       = errors.New("voting close time has passed, voting is closed")
	ErrNotEligible        = errors.New("voter is not eligible to vote in this election")
	ErrAlreadyVoted       = errors.New("voter has already voted")
	ErrInvalidCandidate   = errors.New("invalid candidate id")
	ErrVotingNotClosed    = errors.New("voting has not been closed yet")
	ErrDuplicateCandidate = errors.New("duplicate candidate id")
	ErrDuplicateVoter     = errors.New("duplicate voter address")
	ErrInvalidVoter       = errors.New("voter address is empty")
)

// ErrInvariant marks stored state that contradicts what instantiation
// wrote. It is never returned for caller mistakes.
var ErrInvariant = errors.New("election invariant violated")

// InvariantError reports which operation found inconsistent state.
type InvariantError struct {
	Op  string
	Err error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrInvariant, e.Op, e.Err)
}

func (e *InvariantError) Unwrap() []error {
	return []error{ErrInvariant, e.Err}
}

func invariant(op string, err error) error {
	return &InvariantError{Op: op, Err: err}
}

// IsRejection reports whether err is one of the business rejections
// above rather than a storage or invariant failure.
func IsRejection(err error) bool {
	for _, target := range []error{
		ErrVotingClosed, ErrNotEligible, ErrAlreadyVoted, ErrInvalidCandidate,
		ErrVotingNotClosed, ErrDuplicateCandidate, ErrDuplicateVoter, ErrInvalidVoter,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
