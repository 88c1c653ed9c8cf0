// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/danielhkuo/quickly-tally/election"
	"github.com/danielhkuo/quickly-tally/host"
	"github.com/danielhkuo/quickly-tally/middleware"
	"github.com/danielhkuo/quickly-tally/models"
	"github.com/danielhkuo/quickly-tally/store"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{election.ErrVotingClosed, http.StatusConflict},
		{election.ErrAlreadyVoted, http.StatusConflict},
		{host.ErrAlreadyInstantiated, http.StatusConflict},
		{election.ErrNotEligible, http.StatusForbidden},
		{election.ErrVotingNotClosed, http.StatusForbidden},
		{election.ErrInvalidCandidate, http.StatusBadRequest},
		{election.ErrDuplicateCandidate, http.StatusBadRequest},
		{election.ErrDuplicateVoter, http.StatusBadRequest},
		{election.ErrInvalidVoter, http.StatusBadRequest},
		{fmt.Errorf("%w: bad", models.ErrMalformedMessage), http.StatusBadRequest},
		{models.ErrUnknownMessage, http.StatusBadRequest},
		{host.ErrElectionNotFound, http.StatusNotFound},
		{middleware.ErrBodyTooLarge, http.StatusRequestEntityTooLarge},
		{&election.InvariantError{Op: "get name", Err: store.ErrNotFound}, http.StatusInternalServerError},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	writeError(w, req, "e1", fmt.Errorf("select failed: %w", errors.New("connection reset by peer")))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection reset")
	assert.Contains(t, w.Body.String(), "Storage error")

	w = httptest.NewRecorder()
	writeError(w, req, "e1", &election.InvariantError{Op: "load tally", Err: store.ErrCorrupt})
	assert.Contains(t, w.Body.String(), "Election state is inconsistent")
}
