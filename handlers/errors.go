// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-tally/auth"
	"github.com/danielhkuo/quickly-tally/election"
	"github.com/danielhkuo/quickly-tally/host"
	"github.com/danielhkuo/quickly-tally/middleware"
	"github.com/danielhkuo/quickly-tally/models"
)

// statusFor maps runtime and election errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, host.ErrElectionNotFound):
		return http.StatusNotFound
	case errors.Is(err, election.ErrVotingClosed),
		errors.Is(err, election.ErrAlreadyVoted),
		errors.Is(err, host.ErrAlreadyInstantiated):
		return http.StatusConflict
	case errors.Is(err, election.ErrNotEligible),
		errors.Is(err, election.ErrVotingNotClosed):
		return http.StatusForbidden
	case errors.Is(err, election.ErrInvalidCandidate),
		errors.Is(err, election.ErrDuplicateCandidate),
		errors.Is(err, election.ErrDuplicateVoter),
		errors.Is(err, election.ErrInvalidVoter),
		errors.Is(err, models.ErrMalformedMessage),
		errors.Is(err, models.ErrUnknownMessage),
		errors.Is(err, host.ErrInvalidElectionID):
		return http.StatusBadRequest
	case errors.Is(err, middleware.ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// writeError sends err to the client. Server-side failures are logged and
// their details withheld.
func writeError(w http.ResponseWriter, r *http.Request, electionID string, err error) {
	status := statusFor(err)
	if status != http.StatusInternalServerError {
		middleware.ErrorResponse(w, status, err.Error())
		return
	}

	msg := "Storage error"
	if errors.Is(err, election.ErrInvariant) {
		msg = "Election state is inconsistent"
	}
	slog.Error("election call failed",
		"request_id", middleware.RequestID(r),
		"election_id", electionID,
		"error", err,
	)
	middleware.ErrorResponse(w, status, msg)
}

// authenticateVoter returns the voter address proven by the
// X-Voter-Address and X-Voter-Key headers.
func authenticateVoter(r *http.Request, electionID, salt string) (models.Address, bool) {
	address := r.Header.Get("X-Voter-Address")
	key := r.Header.Get("X-Voter-Key")
	if err := auth.ValidateVoterKey(electionID, address, key, salt); err != nil {
		return "", false
	}
	return models.Address(address), true
}
