// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-tally/auth"
	"github.com/danielhkuo/quickly-tally/cliparse"
	"github.com/danielhkuo/quickly-tally/host"
	"github.com/danielhkuo/quickly-tally/middleware"
	"github.com/danielhkuo/quickly-tally/models"
)

type ElectionHandler struct {
	rt  *host.Runtime
	cfg cliparse.Config
}

func NewElectionHandler(rt *host.Runtime, cfg cliparse.Config) *ElectionHandler {
	return &ElectionHandler{rt: rt, cfg: cfg}
}

// CreateElection handles POST /elections
// The body is an instantiate message; the response carries the admin key
// and one voter key per registered voter.
func (h *ElectionHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	body, err := middleware.ReadBody(r)
	if err != nil {
		writeError(w, r, "", err)
		return
	}

	msg, err := models.ParseInstantiateMsg(body)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	creator := models.Address(middleware.GetClientIP(r))
	electionID, err := h.rt.Instantiate(r.Context(), creator, msg)
	if err != nil {
		writeError(w, r, "", err)
		return
	}

	voterKeys := make(map[models.Address]string, len(msg.Voters))
	for _, voter := range msg.Voters {
		voterKeys[voter] = auth.GenerateVoterKey(electionID, string(voter), h.cfg.VoterKeySalt)
	}

	slog.Info("election created",
		"request_id", middleware.RequestID(r),
		"election_id", electionID,
		"creator", creator,
	)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateElectionResponse{
		ElectionID: electionID,
		AdminKey:   auth.GenerateAdminKey(electionID, h.cfg.AdminKeySalt),
		VoterKeys:  voterKeys,
	})
}

// GetElection handles GET /elections/{id}
// Returns everything except the tallies, which stay sealed until close.
func (h *ElectionHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")

	summary, err := h.rt.Summary(r.Context(), electionID)
	if err != nil {
		writeError(w, r, electionID, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, summary)
}

// GetVoterKey handles GET /elections/{id}/voter-key?address=
// Re-issues a lost voter key. Requires X-Admin-Key.
func (h *ElectionHandler) GetVoterKey(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")

	// Validate admin key
	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(electionID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	address := r.URL.Query().Get("address")
	if address == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "address is required")
		return
	}

	if _, err := h.rt.Instance(r.Context(), electionID); err != nil {
		writeError(w, r, electionID, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoterKeyResponse{
		Address:  models.Address(address),
		VoterKey: auth.GenerateVoterKey(electionID, address, h.cfg.VoterKeySalt),
	})
}
