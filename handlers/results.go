// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/quickly-tally/host"
	"github.com/danielhkuo/quickly-tally/middleware"
	"github.com/danielhkuo/quickly-tally/models"
)

// ResultsHandler serves the read-only queries. None of them needs a key.
type ResultsHandler struct {
	rt *host.Runtime
}

func NewResultsHandler(rt *host.Runtime) *ResultsHandler {
	return &ResultsHandler{rt: rt}
}

// GetName handles GET /elections/{id}/name
func (h *ResultsHandler) GetName(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, models.QueryGetName, func(v any) any {
		return models.NameResponse{Name: v.(string)}
	})
}

// GetCandidates handles GET /elections/{id}/candidates
func (h *ResultsHandler) GetCandidates(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, models.QueryGetCandidateList, func(v any) any {
		return models.CandidatesResponse{Candidates: v.([]models.Candidate)}
	})
}

// GetVotersCount handles GET /elections/{id}/voters/count
func (h *ResultsHandler) GetVotersCount(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, models.QueryGetVotersCount, func(v any) any {
		return models.VotersCountResponse{Count: v.(uint32)}
	})
}

// GetCloseTime handles GET /elections/{id}/close-time
func (h *ResultsHandler) GetCloseTime(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, models.QueryGetCloseTime, func(v any) any {
		return models.CloseTimeResponse{CloseTime: v.(uint64)}
	})
}

// GetResults handles GET /elections/{id}/results
// Returns 403 while voting is open (results are sealed)
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, models.QueryGetResults, func(v any) any {
		return models.ResultsResponse{Results: v.([]models.CandidateResult)}
	})
}

// Query handles POST /elections/{id}/query
// The body is a raw query message such as {"get_name":{}}; the response is
// the bare value.
func (h *ResultsHandler) Query(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")

	body, err := middleware.ReadBody(r)
	if err != nil {
		writeError(w, r, electionID, err)
		return
	}
	q, err := models.ParseQueryMsg(body)
	if err != nil {
		writeError(w, r, electionID, err)
		return
	}

	h.respond(w, r, q, func(v any) any { return v })
}

func (h *ResultsHandler) respond(w http.ResponseWriter, r *http.Request, q models.QueryMsg, wrap func(any) any) {
	electionID := r.PathValue("id")

	v, err := h.rt.Query(r.Context(), electionID, q)
	if err != nil {
		writeError(w, r, electionID, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, wrap(v))
}
