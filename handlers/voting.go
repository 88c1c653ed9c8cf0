// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-tally/cliparse"
	"github.com/danielhkuo/quickly-tally/host"
	"github.com/danielhkuo/quickly-tally/middleware"
	"github.com/danielhkuo/quickly-tally/models"
)

type VotingHandler struct {
	rt  *host.Runtime
	cfg cliparse.Config
}

func NewVotingHandler(rt *host.Runtime, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{rt: rt, cfg: cfg}
}

// SubmitVote handles POST /elections/{id}/votes
func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")

	voter, ok := authenticateVoter(r, electionID, h.cfg.VoterKeySalt)
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid voter key")
		return
	}

	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.CandidateID == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate_id is required")
		return
	}

	h.execute(w, r, electionID, voter, models.ExecuteMsg{
		SubmitVote: &models.SubmitVoteMsg{CandidateID: *req.CandidateID},
	})
}

// Execute handles POST /elections/{id}/execute
// The body is a raw execute message such as {"submit_vote":{"candidate_id":0}}.
func (h *VotingHandler) Execute(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")

	voter, ok := authenticateVoter(r, electionID, h.cfg.VoterKeySalt)
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid voter key")
		return
	}

	body, err := middleware.ReadBody(r)
	if err != nil {
		writeError(w, r, electionID, err)
		return
	}
	msg, err := models.ParseExecuteMsg(body)
	if err != nil {
		writeError(w, r, electionID, err)
		return
	}

	h.execute(w, r, electionID, voter, msg)
}

func (h *VotingHandler) execute(w http.ResponseWriter, r *http.Request, electionID string, voter models.Address, msg models.ExecuteMsg) {
	if err := h.rt.Execute(r.Context(), electionID, voter, msg); err != nil {
		writeError(w, r, electionID, err)
		return
	}

	slog.Info("vote recorded",
		"request_id", middleware.RequestID(r),
		"election_id", electionID,
		"voter", voter,
	)

	middleware.JSONResponse(w, http.StatusOK, models.SubmitVoteResponse{
		Message: "Vote recorded",
	})
}
