// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

var (
	ErrMalformedMessage = errors.New("malformed message")
	ErrUnknownMessage   = errors.New("unknown message variant")
)

// InstantiateMsg creates an election instance.
type InstantiateMsg struct {
	Name       string      `json:"name"`
	Candidates []Candidate `json:"candidates"`
	Voters     []Address   `json:"voters"`
	CloseTime  uint64      `json:"close_time"`
}

// ExecuteMsg is the tagged union of state-changing messages, encoded as
// {"submit_vote":{"candidate_id":0}}.
type ExecuteMsg struct {
	SubmitVote *SubmitVoteMsg `json:"submit_vote,omitempty"`
}

type SubmitVoteMsg struct {
	CandidateID uint16 `json:"candidate_id"`
}

// QueryMsg names a read-only query. It encodes as {"<name>":{}}.
type QueryMsg string

// Query variants
const (
	QueryGetName          QueryMsg = "get_name"
	QueryGetCandidateList QueryMsg = "get_candidate_list"
	QueryGetVotersCount   QueryMsg = "get_voters_count"
	QueryGetCloseTime     QueryMsg = "get_close_time"
	QueryGetResults       QueryMsg = "get_results"
)

func (q QueryMsg) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]struct{}{string(q): {}})
}

// ParseInstantiateMsg rejects unknown fields.
func ParseInstantiateMsg(raw []byte) (InstantiateMsg, error) {
	var msg InstantiateMsg
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&msg); err != nil {
		return InstantiateMsg{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return msg, nil
}

func ParseExecuteMsg(raw []byte) (ExecuteMsg, error) {
	name, body, err := variant(raw)
	if err != nil {
		return ExecuteMsg{}, err
	}

	switch name {
	case "submit_vote":
		if !body.Get("candidate_id").Exists() {
			return ExecuteMsg{}, fmt.Errorf("%w: submit_vote.candidate_id is required", ErrMalformedMessage)
		}
		var vote SubmitVoteMsg
		if err := json.Unmarshal([]byte(body.Raw), &vote); err != nil {
			return ExecuteMsg{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
		}
		return ExecuteMsg{SubmitVote: &vote}, nil
	default:
		return ExecuteMsg{}, fmt.Errorf("%w: %q", ErrUnknownMessage, name)
	}
}

func ParseQueryMsg(raw []byte) (QueryMsg, error) {
	name, _, err := variant(raw)
	if err != nil {
		return "", err
	}

	switch q := QueryMsg(name); q {
	case QueryGetName, QueryGetCandidateList, QueryGetVotersCount, QueryGetCloseTime, QueryGetResults:
		return q, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMessage, name)
	}
}

// variant returns the single top-level key of an enum-style message and
// its object body.
func variant(raw []byte) (string, gjson.Result, error) {
	if !gjson.ValidBytes(raw) {
		return "", gjson.Result{}, fmt.Errorf("%w: invalid JSON", ErrMalformedMessage)
	}
	msg := gjson.ParseBytes(raw)
	if !msg.IsObject() {
		return "", gjson.Result{}, fmt.Errorf("%w: expected an object", ErrMalformedMessage)
	}

	var (
		name  string
		body  gjson.Result
		count int
	)
	msg.ForEach(func(key, value gjson.Result) bool {
		name, body = key.String(), value
		count++
		return count < 2
	})
	if count != 1 {
		return "", gjson.Result{}, fmt.Errorf("%w: expected exactly one variant", ErrMalformedMessage)
	}
	if !body.IsObject() {
		return "", gjson.Result{}, fmt.Errorf("%w: %s must be an object", ErrMalformedMessage, name)
	}
	return name, body, nil
}
