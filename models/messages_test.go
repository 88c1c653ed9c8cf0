// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExecuteMsg(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    uint16
		wantErr error
	}{
		{"submit vote", `{"submit_vote":{"candidate_id":1}}`, 1, nil},
		{"max candidate id", `{"submit_vote":{"candidate_id":65535}}`, 65535, nil},
		{"candidate id overflow", `{"submit_vote":{"candidate_id":65536}}`, 0, ErrMalformedMessage},
		{"negative candidate id", `{"submit_vote":{"candidate_id":-1}}`, 0, ErrMalformedMessage},
		{"missing candidate id", `{"submit_vote":{}}`, 0, ErrMalformedMessage},
		{"unknown variant", `{"retract_vote":{}}`, 0, ErrUnknownMessage},
		{"two variants", `{"submit_vote":{"candidate_id":1},"x":{}}`, 0, ErrMalformedMessage},
		{"empty object", `{}`, 0, ErrMalformedMessage},
		{"not an object", `["submit_vote"]`, 0, ErrMalformedMessage},
		{"body not an object", `{"submit_vote":1}`, 0, ErrMalformedMessage},
		{"invalid json", `{"submit_vote":`, 0, ErrMalformedMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := ParseExecuteMsg([]byte(tt.raw))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, msg.SubmitVote)
			assert.Equal(t, tt.want, msg.SubmitVote.CandidateID)
		})
	}
}

func TestParseQueryMsg(t *testing.T) {
	for _, q := range []QueryMsg{QueryGetName, QueryGetCandidateList, QueryGetVotersCount, QueryGetCloseTime, QueryGetResults} {
		raw, err := json.Marshal(q)
		require.NoError(t, err)
		assert.JSONEq(t, `{"`+string(q)+`":{}}`, string(raw))

		got, err := ParseQueryMsg(raw)
		require.NoError(t, err)
		assert.Equal(t, q, got)
	}

	_, err := ParseQueryMsg([]byte(`{"get_balance":{}}`))
	assert.ErrorIs(t, err, ErrUnknownMessage)

	_, err = ParseQueryMsg([]byte(`"get_name"`))
	assert.ErrorIs(t, err, ErrMalformedMessage)
}

func TestExecuteMsgEncoding(t *testing.T) {
	raw, err := json.Marshal(ExecuteMsg{SubmitVote: &SubmitVoteMsg{CandidateID: 0}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"submit_vote":{"candidate_id":0}}`, string(raw))
}

func TestParseInstantiateMsg(t *testing.T) {
	msg, err := ParseInstantiateMsg([]byte(`{
		"name": "Test voting 001",
		"candidates": [{"id": 0, "name": "Alice"}, {"id": 1, "name": "Bob"}],
		"voters": ["addr1", "addr2", "addr3"],
		"close_time": 2682000000
	}`))
	require.NoError(t, err)
	assert.Equal(t, "Test voting 001", msg.Name)
	assert.Equal(t, []Candidate{{0, "Alice"}, {1, "Bob"}}, msg.Candidates)
	assert.Equal(t, []Address{"addr1", "addr2", "addr3"}, msg.Voters)
	assert.Equal(t, uint64(2682000000), msg.CloseTime)

	_, err = ParseInstantiateMsg([]byte(`{"name":"x","admins":[]}`))
	assert.ErrorIs(t, err, ErrMalformedMessage)
}
