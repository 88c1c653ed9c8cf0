// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Election status constants
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Address identifies a voter. The host authenticates it before the
// election core sees it.
type Address string

// Domain types

type Candidate struct {
	ID   uint16 `json:"id"`
	Name string `json:"name"`
}

// ElectionRecord is written once at instantiation and never changed.
type ElectionRecord struct {
	Name       string      `json:"name"`
	Candidates []Candidate `json:"candidates_list"`
	Voters     []Address   `json:"voters_addresses"`
	CloseTime  uint64      `json:"close_time"` // unix seconds
}

type CandidateResult struct {
	ID    uint16 `json:"id"`
	Votes uint32 `json:"votes"`
}

// Instance is the registry entry of one election instance.
type Instance struct {
	ID        string    `json:"id"`
	Creator   Address   `json:"creator"`
	CreatedAt time.Time `json:"created_at"`
}

// Request types

type SubmitVoteRequest struct {
	CandidateID *uint16 `json:"candidate_id"`
}

// Response types

type CreateElectionResponse struct {
	ElectionID string             `json:"election_id"`
	AdminKey   string             `json:"admin_key"`
	VoterKeys  map[Address]string `json:"voter_keys"`
}

type ElectionSummary struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Candidates  []Candidate `json:"candidates"`
	VotersCount uint32      `json:"voters_count"`
	CloseTime   uint64      `json:"close_time"`
	Status      string      `json:"status"`
}

type NameResponse struct {
	Name string `json:"name"`
}

type CandidatesResponse struct {
	Candidates []Candidate `json:"candidates"`
}

type VotersCountResponse struct {
	Count uint32 `json:"count"`
}

type CloseTimeResponse struct {
	CloseTime uint64 `json:"close_time"`
}

type ResultsResponse struct {
	Results []CandidateResult `json:"results"`
}

type VoterKeyResponse struct {
	Address  Address `json:"address"`
	VoterKey string  `json:"voter_key"`
}

type SubmitVoteResponse struct {
	Message string `json:"message"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
