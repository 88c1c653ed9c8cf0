// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/quickly-tally/cliparse"
	"github.com/danielhkuo/quickly-tally/handlers"
	"github.com/danielhkuo/quickly-tally/host"
	"github.com/danielhkuo/quickly-tally/middleware"
)

func NewRouter(rt *host.Runtime, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	electionHandler := handlers.NewElectionHandler(rt, cfg)
	votingHandler := handlers.NewVotingHandler(rt, cfg)
	resultsHandler := handlers.NewResultsHandler(rt)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Election management
	mux.HandleFunc("POST /elections", middleware.WithLogging(electionHandler.CreateElection))
	mux.HandleFunc("GET /elections/{id}", middleware.WithLogging(electionHandler.GetElection))
	mux.HandleFunc("GET /elections/{id}/voter-key", middleware.WithLogging(electionHandler.GetVoterKey))

	// Voting (requires voter key)
	mux.HandleFunc("POST /elections/{id}/votes", middleware.WithLogging(votingHandler.SubmitVote))
	mux.HandleFunc("POST /elections/{id}/execute", middleware.WithLogging(votingHandler.Execute))

	// Queries (public, with sealed results)
	mux.HandleFunc("GET /elections/{id}/name", middleware.WithLogging(resultsHandler.GetName))
	mux.HandleFunc("GET /elections/{id}/candidates", middleware.WithLogging(resultsHandler.GetCandidates))
	mux.HandleFunc("GET /elections/{id}/voters/count", middleware.WithLogging(resultsHandler.GetVotersCount))
	mux.HandleFunc("GET /elections/{id}/close-time", middleware.WithLogging(resultsHandler.GetCloseTime))
	mux.HandleFunc("GET /elections/{id}/results", middleware.WithLogging(resultsHandler.GetResults))
	mux.HandleFunc("POST /elections/{id}/query", middleware.WithLogging(resultsHandler.Query))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-tally API v1"))
	})

	return mux
}
